package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRequestKeepsOnlyLatestEntries(t *testing.T) {
	svc := NewMonitoringService()

	// 上限+5件を記録すると、古い5件が押し出される
	for i := 0; i < maxLogEntries+5; i++ {
		svc.LogRequest(LogEntry{
			Timestamp:  time.Now(),
			Path:       fmt.Sprintf("/api/v1/test/%d", i),
			Method:     "GET",
			StatusCode: 200,
		})
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	require.Len(t, svc.logs, maxLogEntries)
	assert.Equal(t, "/api/v1/test/5", svc.logs[0].Path)
	assert.Equal(t, fmt.Sprintf("/api/v1/test/%d", maxLogEntries+4), svc.logs[len(svc.logs)-1].Path)
}

func TestLoggingMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewMonitoringService()

	r := gin.New()
	r.Use(svc.LoggingMiddleware())
	r.GET("/api/v1/statistics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/api/v1/monitoring/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// 通常のエンドポイントは記録される
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/statistics", nil)
	r.ServeHTTP(w, req)

	// モニタリング自身へのアクセスは記録されない
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/monitoring/dashboard", nil)
	r.ServeHTTP(w, req)

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	require.Len(t, svc.logs, 1)
	assert.Equal(t, "/api/v1/statistics", svc.logs[0].Path)
	assert.Equal(t, "GET", svc.logs[0].Method)
	assert.Equal(t, http.StatusOK, svc.logs[0].StatusCode)
}

func TestGetDashboardDataAggregates(t *testing.T) {
	svc := NewMonitoringService()
	now := time.Now()

	svc.LogRequest(LogEntry{Timestamp: now.Add(-2 * time.Minute), Path: "/api/v1/statistics", Method: "GET", StatusCode: 200, ResponseTime: 10 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-1 * time.Minute), Path: "/api/v1/statistics", Method: "GET", StatusCode: 200, ResponseTime: 30 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-30 * time.Second), Path: "/api/v1/validation/validate", Method: "POST", StatusCode: 400, ResponseTime: 5 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Second), Path: "/api/v1/insights", Method: "GET", StatusCode: 503, ResponseTime: 5 * time.Millisecond})

	data := svc.GetDashboardData(24)

	assert.Equal(t, 4, data.TotalRequests)
	assert.Equal(t, 2, data.ErrorCount)
	assert.NotEmpty(t, data.Uptime)
	assert.Equal(t, 2, data.Endpoints["/api/v1/statistics"])
	assert.Len(t, data.RequestsOverTime, 24)

	codes := make(map[string]int)
	for _, entry := range data.StatusCodes {
		codes[entry["name"].(string)] = entry["value"].(int)
	}
	assert.Equal(t, 2, codes["2xx Success"])
	assert.Equal(t, 1, codes["4xx Client Error"])
	assert.Equal(t, 1, codes["5xx Server Error"])

	// 5xxのみがrecentErrorsに入る
	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, "/api/v1/insights", data.RecentErrors[0].Path)
}

func TestGetDashboardDataFiltersByPeriod(t *testing.T) {
	svc := NewMonitoringService()
	now := time.Now()

	// 期間外(2時間前)と期間内(10分前)
	svc.LogRequest(LogEntry{Timestamp: now.Add(-2 * time.Hour), Path: "/api/v1/statistics", Method: "GET", StatusCode: 200})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Minute), Path: "/api/v1/alerts", Method: "GET", StatusCode: 200})

	data := svc.GetDashboardData(1)

	assert.Equal(t, 1, data.TotalRequests)
	assert.Equal(t, 1, data.Endpoints["/api/v1/alerts"])
	assert.Zero(t, data.Endpoints["/api/v1/statistics"])
}

func TestGetDashboardDataRecentErrorsNewestFirstCapTen(t *testing.T) {
	svc := NewMonitoringService()
	now := time.Now()

	for i := 0; i < 12; i++ {
		svc.LogRequest(LogEntry{
			Timestamp:  now.Add(time.Duration(i-12) * time.Minute),
			Path:       fmt.Sprintf("/api/v1/fail/%d", i),
			Method:     "GET",
			StatusCode: 500,
		})
	}

	data := svc.GetDashboardData(24)

	require.Len(t, data.RecentErrors, 10)
	assert.Equal(t, "/api/v1/fail/11", data.RecentErrors[0].Path)
	assert.Equal(t, "/api/v1/fail/2", data.RecentErrors[9].Path)
}
