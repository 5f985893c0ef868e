package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/handlers"
	"staff-meal-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)

	// .envファイルを読み込み（テスト環境では無視される可能性がある）
	godotenv.Load("../../.env")

	// テスト実行
	code := m.Run()

	// 終了
	os.Exit(code)
}

func TestApplicationSetup(t *testing.T) {
	// 設定の読み込みテスト
	cfg := config.LoadConfig()
	assert.NotNil(t, cfg, "Config should not be nil")

	logger := config.NewLogger(cfg)
	assert.NotNil(t, logger, "Logger should not be nil")

	// サービスの初期化テスト（DB・AIなしの縮退構成）
	comparisonService := services.NewComparisonService()
	assert.NotNil(t, comparisonService, "ComparisonService should not be nil")

	validationService := services.NewValidationService(comparisonService, nil, logger)
	assert.NotNil(t, validationService, "ValidationService should not be nil")
	assert.False(t, validationService.HasStore())

	statisticsService := services.NewStatisticsService()
	assert.NotNil(t, statisticsService, "StatisticsService should not be nil")

	// ハンドラーの初期化テスト
	qrHandler := handlers.NewQRHandler(services.NewQRService(logger))
	assert.NotNil(t, qrHandler, "QRHandler should not be nil")

	dashboardHandler := handlers.NewDashboardHandler(
		validationService, statisticsService, services.NewAlertService(),
		services.NewExportService(statisticsService),
		cfg.ErrorRateThreshold, cfg.CompletionRateThreshold,
	)
	assert.NotNil(t, dashboardHandler, "DashboardHandler should not be nil")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	menuHandler := handlers.NewMenuHandler()
	qrHandler := handlers.NewQRHandler(services.NewQRService(logger))
	comparisonService := services.NewComparisonService()
	validationHandler := handlers.NewValidationHandler(
		services.NewValidationService(comparisonService, nil, logger),
	)

	r := gin.New()
	r.GET("/health", handlers.HealthCheck)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/menu/items", menuHandler.GetMenuItems)
		v1.POST("/qr/generate-demo", qrHandler.GenerateDemo)
		v1.POST("/validation/compare", validationHandler.Compare)
		v1.POST("/validation/validate", validationHandler.Validate)
	}
	return r
}

func TestRouterSetup(t *testing.T) {
	r := newTestRouter(t)

	// ヘルスチェックのテスト
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// メニューカタログのテスト
	req, _ = http.NewRequest("GET", "/api/v1/menu/items", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var menuResp struct {
		Success bool     `json:"success"`
		Items   []string `json:"items"`
		Sources []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menuResp))
	assert.True(t, menuResp.Success)
	assert.Len(t, menuResp.Items, 13)
	assert.Equal(t, []string{"ubereats", "deliveroo"}, menuResp.Sources)
}

func TestCompareEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	body := map[string]interface{}{
		"expected": map[string]interface{}{
			"order_id": "ORD-12345",
			"source":   "ubereats",
			"items": []map[string]interface{}{
				{"item": "Boite de 4 Gyoza", "quantity": 2},
				{"item": "Sauce", "quantity": 1},
			},
		},
		"detected": map[string]interface{}{
			"order_id": "ORD-12345",
			"source":   "ubereats",
			"items": []map[string]interface{}{
				{"item": "Boite de 4 Gyoza", "quantity": 2},
			},
		},
	}
	payload, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/api/v1/validation/compare", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			IsComplete   bool `json:"is_complete"`
			MissingItems []struct {
				Item string `json:"item"`
			} `json:"missing_items"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Result.IsComplete)
	require.Len(t, resp.Result.MissingItems, 1)
	assert.Equal(t, "Sauce", resp.Result.MissingItems[0].Item)
}

func TestValidateWithoutStoreReturns503(t *testing.T) {
	r := newTestRouter(t)

	payload := []byte(`{"expected":{"order_id":"ORD-1","source":"ubereats","items":[{"item":"Sauce","quantity":1}]},"detected":{"order_id":"ORD-1","source":"ubereats","items":[{"item":"Sauce","quantity":1}]}}`)

	req, _ := http.NewRequest("POST", "/api/v1/validation/validate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
