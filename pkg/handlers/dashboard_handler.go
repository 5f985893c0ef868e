package handlers

import (
	"fmt"
	"net/http"
	"time"

	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler は統計・アラート・エクスポートのハンドラです。
type DashboardHandler struct {
	validationService *services.ValidationService
	statisticsService *services.StatisticsService
	alertService      *services.AlertService
	exportService     *services.ExportService

	// クエリで上書きされない場合のしきい値(環境変数由来)
	errorThreshold      float64
	completionThreshold float64
}

// NewDashboardHandler は新しいDashboardHandlerを生成します。
func NewDashboardHandler(
	validationService *services.ValidationService,
	statisticsService *services.StatisticsService,
	alertService *services.AlertService,
	exportService *services.ExportService,
	errorThreshold, completionThreshold float64,
) *DashboardHandler {
	return &DashboardHandler{
		validationService:   validationService,
		statisticsService:   statisticsService,
		alertService:        alertService,
		exportService:       exportService,
		errorThreshold:      errorThreshold,
		completionThreshold: completionThreshold,
	}
}

// fetchRecords はfrom/toクエリで絞った検品履歴を取得します。
func (h *DashboardHandler) fetchRecords(c *gin.Context) ([]models.ValidationRecord, bool) {
	if !h.validationService.HasStore() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage service is not configured"})
		return nil, false
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}

	records, err := h.validationService.GetHistory(c.Request.Context(), from, to, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	return records, true
}

// GetStatistics は検品履歴から統計を計算して返します。
func (h *DashboardHandler) GetStatistics(c *gin.Context) {
	records, ok := h.fetchRecords(c)
	if !ok {
		return
	}

	stats := h.statisticsService.CalculateStatistics(records)
	c.JSON(http.StatusOK, gin.H{"success": true, "statistics": stats})
}

// GetGroupedStatistics は担当者別またはプラットフォーム別の統計を返します。
func (h *DashboardHandler) GetGroupedStatistics(c *gin.Context) {
	groupBy := c.DefaultQuery("by", "operator")
	if groupBy != "operator" && groupBy != "source" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("invalid 'by' parameter: %q (expected operator or source)", groupBy)})
		return
	}

	records, ok := h.fetchRecords(c)
	if !ok {
		return
	}

	var grouped *models.GroupedStatistics
	if groupBy == "operator" {
		grouped = h.statisticsService.CalculateStatisticsByOperator(records)
	} else {
		grouped = h.statisticsService.CalculateStatisticsBySource(records)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "grouped": grouped})
}

// GetAlerts は統計と履歴からしきい値・傾向アラートを導出して返します。
// しきい値はerror_threshold/completion_thresholdクエリで上書きできます。
func (h *DashboardHandler) GetAlerts(c *gin.Context) {
	errorThreshold, err := parseThreshold(c, "error_threshold", h.errorThreshold)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	completionThreshold, err := parseThreshold(c, "completion_threshold", h.completionThreshold)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	records, ok := h.fetchRecords(c)
	if !ok {
		return
	}

	stats := h.statisticsService.CalculateStatistics(records)
	alerts := h.alertService.DetectAlerts(stats, records, errorThreshold, completionThreshold)

	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": alerts, "count": len(alerts)})
}

// ExportCSV は検品履歴をCSVファイルとしてダウンロードさせます。
func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	records, ok := h.fetchRecords(c)
	if !ok {
		return
	}

	data, err := h.exportService.BuildCSV(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	filename := fmt.Sprintf("validations_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX は検品履歴をExcelファイルとしてダウンロードさせます。
func (h *DashboardHandler) ExportXLSX(c *gin.Context) {
	records, ok := h.fetchRecords(c)
	if !ok {
		return
	}

	data, err := h.exportService.BuildXLSX(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	filename := fmt.Sprintf("validations_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
