package handlers

import (
	"net/http"

	"staff-meal-api/pkg/models"

	"github.com/gin-gonic/gin"
)

// MenuHandler はメニューカタログ参照のハンドラです。
type MenuHandler struct{}

// NewMenuHandler は新しいMenuHandlerを生成します。
func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

// GetMenuItems は固定メニューと対応プラットフォームの一覧を返します。
// フロントエンドが注文フォームの選択肢を組み立てるのに使います。
func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   models.AllMenuItems(),
		"sources": models.AllOrderSources(),
	})
}
