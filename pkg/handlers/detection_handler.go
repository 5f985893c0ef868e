package handlers

import (
	"errors"
	"io"
	"net/http"

	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// DetectionHandler は袋の写真からの注文検出のハンドラです。
type DetectionHandler struct {
	aiService *services.AIService
}

// NewDetectionHandler は新しいDetectionHandlerを生成します。
func NewDetectionHandler(aiService *services.AIService) *DetectionHandler {
	return &DetectionHandler{
		aiService: aiService,
	}
}

// Analyze は袋の中身の写真を受け取り、検出された注文を返します。
// expected_orderフォームフィールド(注文JSON、任意)があれば検出結果の
// IDとプラットフォームをそれに揃えます。数量0以下の行もそのまま
// 返します(除外は検品時)。
func (h *DetectionHandler) Analyze(c *gin.Context) {
	if !h.aiService.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": services.ErrAINotConfigured.Error()})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read image file"})
		return
	}

	var expected *models.Order
	if raw := c.PostForm("expected_order"); raw != "" {
		expected, err = models.ParseOrderJSON([]byte(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	order, err := h.aiService.DetectOrderFromImage(c.Request.Context(), data, header.Header.Get("Content-Type"), expected)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAINotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, services.ErrNoItemsDetected):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// GenerateDemoImage は注文内容から検品デモ用の料理写真を生成します。
// 実際の袋の写真の代わりにAnalyzeへ流し込める画像が得られます。
func (h *DetectionHandler) GenerateDemoImage(c *gin.Context) {
	var req models.MealImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if err := req.Order.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	image, mimeType, err := h.aiService.GenerateMealImage(c.Request.Context(), &req.Order)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAINotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.Data(http.StatusOK, mimeType, image)
}
