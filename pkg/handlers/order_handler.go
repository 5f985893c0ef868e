package handlers

import (
	"net/http"

	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// OrderHandler は保存済み注文(QR生成画面の呼び出し用)のハンドラです。
type OrderHandler struct {
	store services.OrderStore
}

// NewOrderHandler は新しいOrderHandlerを生成します。
func NewOrderHandler(store services.OrderStore) *OrderHandler {
	return &OrderHandler{
		store: store,
	}
}

// SaveOrder は注文を後で再利用できるよう保存します。
func (h *OrderHandler) SaveOrder(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage service is not configured"})
		return
	}

	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if err := order.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.store.SaveOrder(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order_id": order.OrderID})
}

// GetSavedOrders は保存済み注文を新しい順に返します。
func (h *OrderHandler) GetSavedOrders(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage service is not configured"})
		return
	}

	limit := parseLimit(c, 0)

	orders, err := h.store.GetAllOrders(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

// DeleteSavedOrder は保存済み注文を削除します。該当IDの注文が
// なければ404を返します。
func (h *OrderHandler) DeleteSavedOrder(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage service is not configured"})
		return
	}

	orderID := c.Param("orderId")

	deleted, err := h.store.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
