package handlers

import (
	"net/http"

	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler はリクエストモニタリングのハンドラです。
type MonitoringHandler struct {
	monitoringService *services.MonitoringService
}

// NewMonitoringHandler は新しいMonitoringHandlerを生成します。
func NewMonitoringHandler(monitoringService *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
	}
}

// GetDashboard は集計されたリクエストログデータを返します。
// レスポンスはダッシュボードがそのまま描画できる生のJSONオブジェクトです。
func (h *MonitoringHandler) GetDashboard(c *gin.Context) {
	hours := dashboardPeriodHours(c.DefaultQuery("period", "24h"))
	c.JSON(http.StatusOK, h.monitoringService.GetDashboardData(hours))
}

// dashboardPeriodHours はperiodクエリを時間数に変換します。未知の値は24hとして扱います。
func dashboardPeriodHours(period string) int {
	switch period {
	case "1h":
		return 1
	case "7d":
		return 24 * 7
	default:
		return 24
	}
}
