package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/gemini"
	"staff-meal-api/pkg/handlers"
	"staff-meal-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() *gin.Engine {
	once.Do(func() {
		log.Printf("🟢 [setupApp] Initializing Gin application")

		// .envファイルはVercelの環境変数設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		logger := config.NewLogger(cfg)

		ctx := context.Background()

		// サーバーレスではプロセスを落とさず、読めなければAI機能なしで継続する
		prompts, err := config.LoadPrompts(cfg.PromptsPath)
		if err != nil {
			logger.Errorf("❌ プロンプト定義の読み込みに失敗: %v", err)
			prompts = nil
		}

		// データベース接続。コンテナの生存期間中は開いたままにする
		var pool *pgxpool.Pool
		if cfg.DatabaseURL != "" {
			pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				logger.Errorf("❌ データベース接続の初期化に失敗: %v", err)
				pool = nil
			}
		} else {
			logger.Warn("⚠️ DATABASE_URLが未設定のため、履歴機能なしで起動します")
		}

		// Geminiクライアント。未設定・失敗時はAI機能なしで起動する
		var geminiClient *gemini.Client
		var restClient *gemini.RESTClient
		if cfg.GeminiAPIKey != "" {
			geminiClient, err = gemini.NewClient(ctx, gemini.ClientConfig{APIKey: cfg.GeminiAPIKey}, logger)
			if err != nil {
				logger.Errorf("❌ Geminiクライアントの初期化に失敗: %v", err)
				geminiClient = nil
			} else {
				restClient = gemini.NewRESTClient(cfg.GeminiEndpoint, cfg.GeminiAPIKey)
			}
		} else {
			logger.Warn("⚠️ GEMINI_API_KEYが未設定のため、AI機能なしで起動します")
		}

		// サービスの初期化
		monitoringService := services.NewMonitoringService()
		comparisonService := services.NewComparisonService()
		statisticsService := services.NewStatisticsService()
		alertService := services.NewAlertService()
		qrService := services.NewQRService(logger)
		exportService := services.NewExportService(statisticsService)
		aiConfigService := services.NewAIConfigService(cfg)

		var recordStore services.RecordStore
		var orderStore services.OrderStore
		if pool != nil {
			recordStore = services.NewRecordService(pool)
			orderStore = services.NewOrderStorageService(pool)
		}

		validationService := services.NewValidationService(comparisonService, recordStore, logger)
		aiService := services.NewAIService(geminiClient, restClient, prompts, aiConfigService, logger)

		// ハンドラーの初期化
		menuHandler := handlers.NewMenuHandler()
		qrHandler := handlers.NewQRHandler(qrService)
		detectionHandler := handlers.NewDetectionHandler(aiService)
		validationHandler := handlers.NewValidationHandler(validationService)
		dashboardHandler := handlers.NewDashboardHandler(
			validationService, statisticsService, alertService, exportService,
			cfg.ErrorRateThreshold, cfg.CompletionRateThreshold,
		)
		aiHandler := handlers.NewAIHandler(aiService, aiConfigService, validationService, statisticsService)
		orderHandler := handlers.NewOrderHandler(orderStore)
		monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

		// Ginルーターの初期化
		r := gin.Default()

		// ミドルウェアの登録
		r.Use(monitoringService.LoggingMiddleware())
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		r.Use(cors.New(corsConfig))

		// ヘルスチェックエンドポイント
		r.GET("/health", handlers.HealthCheck)

		// APIルートの定義
		v1 := r.Group("/api/v1")
		{
			// メニューカタログAPI
			menu := v1.Group("/menu")
			{
				menu.GET("/items", menuHandler.GetMenuItems)
			}

			// QRコードAPI
			qr := v1.Group("/qr")
			{
				qr.POST("/generate", qrHandler.Generate)
				qr.POST("/generate-demo", qrHandler.GenerateDemo)
				qr.POST("/decode", qrHandler.Decode)
			}

			// 画像検出API
			detection := v1.Group("/detection")
			{
				detection.POST("/analyze", detectionHandler.Analyze)
				detection.POST("/demo-image", detectionHandler.GenerateDemoImage)
			}

			// 検品API
			validation := v1.Group("/validation")
			{
				validation.POST("/compare", validationHandler.Compare)
				validation.POST("/validate", validationHandler.Validate)
				validation.GET("/records", validationHandler.GetRecords)
			}

			// ダッシュボードAPI
			v1.GET("/statistics", dashboardHandler.GetStatistics)
			v1.GET("/statistics/grouped", dashboardHandler.GetGroupedStatistics)
			v1.GET("/alerts", dashboardHandler.GetAlerts)

			// AI連携API
			v1.GET("/insights", aiHandler.GetInsights)
			v1.POST("/insights/speech", aiHandler.GenerateSpeech)
			v1.POST("/explanation", aiHandler.ExplainValidation)

			ai := v1.Group("/ai")
			{
				ai.GET("/config", aiHandler.GetAIConfig)
				ai.PUT("/config", aiHandler.UpdateAIConfig)
			}

			// エクスポートAPI
			export := v1.Group("/export")
			{
				export.GET("/csv", dashboardHandler.ExportCSV)
				export.GET("/xlsx", dashboardHandler.ExportXLSX)
			}

			// 保存済み注文API
			orders := v1.Group("/orders")
			{
				orders.POST("/saved", orderHandler.SaveOrder)
				orders.GET("/saved", orderHandler.GetSavedOrders)
				orders.DELETE("/saved/:orderId", orderHandler.DeleteSavedOrder)
			}

			// モニタリングAPI
			monitoring := v1.Group("/monitoring")
			{
				monitoring.GET("/dashboard", monitoringHandler.GetDashboard)
			}
		}

		app = r
	})
	return app
}

// Handler はVercelからのすべてのリクエストを処理するエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	// Ginアプリケーションをセットアップ（初回のみ実行される）
	app := setupApp()

	// Ginにリクエストを処理させる
	app.ServeHTTP(w, r)
}
