package handlers

import (
	"errors"
	"net/http"

	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// AIHandler はAI連携機能(インサイト・説明文・音声合成)と
// AI設定のハンドラです。
type AIHandler struct {
	aiService         *services.AIService
	aiConfigService   *services.AIConfigService
	validationService *services.ValidationService
	statisticsService *services.StatisticsService
}

// NewAIHandler は新しいAIHandlerを生成します。
func NewAIHandler(
	aiService *services.AIService,
	aiConfigService *services.AIConfigService,
	validationService *services.ValidationService,
	statisticsService *services.StatisticsService,
) *AIHandler {
	return &AIHandler{
		aiService:         aiService,
		aiConfigService:   aiConfigService,
		validationService: validationService,
		statisticsService: statisticsService,
	}
}

// GetInsights は検品履歴全体から改善推奨事項(フランス語のMarkdown)を
// 生成して返します。履歴が空の場合はプロバイダを呼ばず固定メッセージを
// 返すため、DBやAPIキーなしでも応答します。
func (h *AIHandler) GetInsights(c *gin.Context) {
	var records []models.ValidationRecord
	if h.validationService.HasStore() {
		var err error
		records, err = h.validationService.GetHistory(c.Request.Context(), nil, nil, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	stats := h.statisticsService.CalculateStatistics(records)

	report, err := h.aiService.GenerateInsights(c.Request.Context(), stats, records)
	if err != nil {
		if errors.Is(err, services.ErrAINotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "insights": report})
}

// GenerateSpeech はテキストをWAV音声にして返します。
// キッチンでダッシュボードを読まずに推奨事項を聞くためのものです。
func (h *AIHandler) GenerateSpeech(c *gin.Context) {
	var req models.SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}

	wav, err := h.aiService.SynthesizeSpeech(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrAINotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "audio/wav", wav)
}

// ExplainValidation は照合結果を指定言語(省略時はフランス語)で
// 2〜3文に要約して返します。
func (h *AIHandler) ExplainValidation(c *gin.Context) {
	var req models.ExplanationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}

	explanation, err := h.aiService.ExplainValidation(c.Request.Context(), &req.Expected, &req.Detected, req.Language)
	if err != nil {
		if errors.Is(err, services.ErrAINotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "explanation": explanation})
}

// GetAIConfig は現在のAI設定を返します。
func (h *AIHandler) GetAIConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "config": h.aiConfigService.Get()})
}

// UpdateAIConfig はAI設定を部分更新します。指定されなかった項目は
// 変更されません。
func (h *AIHandler) UpdateAIConfig(c *gin.Context) {
	var req models.AIConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}

	updated, err := h.aiConfigService.Update(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "config": updated})
}
