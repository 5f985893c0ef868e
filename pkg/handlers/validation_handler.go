package handlers

import (
	"errors"
	"net/http"

	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ValidationHandler は注文照合と検品履歴のハンドラです。
type ValidationHandler struct {
	validationService *services.ValidationService
}

// NewValidationHandler は新しいValidationHandlerを生成します。
func NewValidationHandler(validationService *services.ValidationService) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
	}
}

// Compare は期待注文と検出注文を照合し、結果だけを返します。
// 履歴には保存しません。
func (h *ValidationHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.validationService.CompareOrders(&req.Expected, &req.Detected)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// Validate は照合結果を検品履歴に保存して返します。
func (h *ValidationHandler) Validate(c *gin.Context) {
	if !h.validationService.HasStore() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage service is not configured"})
		return
	}

	var req models.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if err := req.Expected.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid expected order: " + err.Error()})
		return
	}

	record, err := h.validationService.ValidateOrder(c.Request.Context(), &req.Expected, &req.Detected, req.Operator)
	if err != nil {
		if errors.Is(err, services.ErrNoValidItems) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "record": record})
}

// GetRecords は検品履歴を新しい順に返します。from/to(両端を含む)と
// limitで絞り込めます。
func (h *ValidationHandler) GetRecords(c *gin.Context) {
	if !h.validationService.HasStore() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage service is not configured"})
		return
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	limit := parseLimit(c, 0)

	records, err := h.validationService.GetHistory(c.Request.Context(), from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "records": records, "count": len(records)})
}
