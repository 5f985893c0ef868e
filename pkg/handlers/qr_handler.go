package handlers

import (
	"encoding/base64"
	"io"
	"net/http"

	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// QRHandler は注文QRコードの生成・読取のハンドラです。
type QRHandler struct {
	qrService *services.QRService
}

// NewQRHandler は新しいQRHandlerを生成します。
func NewQRHandler(qrService *services.QRService) *QRHandler {
	return &QRHandler{
		qrService: qrService,
	}
}

// Generate は注文JSONをQRコードのPNG画像にして返します。
func (h *QRHandler) Generate(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if err := order.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	png, err := h.qrService.EncodeOrder(&order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate QR code: " + err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GenerateDemo はランダムなデモ注文を作り、注文本体とQRコードの
// Base64 PNGをまとめて返します。動作確認フロー用です。
func (h *QRHandler) GenerateDemo(c *gin.Context) {
	order := h.qrService.GenerateDemoOrder()

	png, err := h.qrService.EncodeOrder(order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate QR code: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"order":         order,
		"qr_png_base64": base64.StdEncoding.EncodeToString(png),
	})
}

// Decode はアップロードされたQRコード画像から注文を読み取ります。
func (h *QRHandler) Decode(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
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

	order, err := h.qrService.DecodeOrder(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
