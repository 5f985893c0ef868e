//go:build ignore

package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/models"
	"staff-meal-api/pkg/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// ダッシュボード確認用のモック検品レコードを生成してデータベースに投入します。
//
//	go run scripts/generate_mock_data.go [件数] [日数]
//
// 注文IDは "MOCK-" で始まるため、scripts/delete_mock_data.go でまとめて
// 削除できます。

// エラーシナリオとその出現比率(百分率)
type scenario struct {
	name   string
	weight int
	build  func(orderID string, source models.OrderSource) (*models.Order, *models.Order)
}

func main() {
	log.Println("🚀 モック検品データの生成を開始します...")

	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	numRecords := 100
	daysBack := 30
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			numRecords = n
		}
	}
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			daysBack = n
		}
	}

	// 設定を読み込む
	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("❌ DATABASE_URLが未設定です")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ データベース接続に失敗: %v", err)
	}
	defer pool.Close()

	comparisonService := services.NewComparisonService()
	recordService := services.NewRecordService(pool)

	operators := []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}
	sources := models.AllOrderSources()

	scenarios := []scenario{
		{"complete", 75, createCompleteOrder},
		{"missing_items", 12, createMissingItemsOrder},
		{"too_few_items", 6, createTooFewItemsOrder},
		{"too_many_items", 3, createTooManyItemsOrder},
		{"extra_items", 2, createExtraItemsOrder},
		{"combined_errors", 2, createCombinedErrorsOrder},
	}
	weighted := []scenario{}
	for _, s := range scenarios {
		for i := 0; i < s.weight; i++ {
			weighted = append(weighted, s)
		}
	}

	log.Printf("📊 生成件数: %d件 / 期間: 過去%d日", numRecords, daysBack)

	successCount := 0
	failCount := 0

	for i := 0; i < numRecords; i++ {
		// 営業時間(8時〜22時)内のランダムな時刻に分散させる
		day := time.Now().AddDate(0, 0, -rand.Intn(daysBack))
		timestamp := time.Date(day.Year(), day.Month(), day.Day(),
			8+rand.Intn(14), rand.Intn(60), rand.Intn(60), 0, time.Local)

		orderID := "MOCK-" + strconv.Itoa(1000+rand.Intn(9000)) + "-" + pad4(i)
		source := sources[rand.Intn(len(sources))]
		operator := operators[rand.Intn(len(operators))]

		s := weighted[rand.Intn(len(weighted))]
		expected, detected := s.build(orderID, source)
		result := comparisonService.Compare(expected, detected)

		record := &models.ValidationRecord{
			OrderID:          orderID,
			Timestamp:        timestamp,
			Operator:         &operator,
			IsComplete:       result.IsComplete,
			ExpectedOrder:    *expected,
			DetectedOrder:    *detected,
			ComparisonResult: *result,
		}

		if _, err := recordService.SaveRecord(ctx, record); err != nil {
			log.Printf("⚠️ レコードの保存に失敗 (%s): %v", orderID, err)
			failCount++
			continue
		}
		successCount++

		if (i+1)%10 == 0 {
			log.Printf("📦 %d/%d件を生成しました...", i+1, numRecords)
		}
	}

	log.Println("\n==================================================")
	log.Printf("📊 生成完了")
	log.Printf("  成功: %d件", successCount)
	log.Printf("  失敗: %d件", failCount)
	log.Println("==================================================")

	if failCount > 0 {
		os.Exit(1)
	}
}

func pad4(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// generateRandomOrder はカタログからランダムに選んだ品目で注文を作る
func generateRandomOrder(orderID string, source models.OrderSource, numItems int) *models.Order {
	catalog := models.AllMenuItems()
	rand.Shuffle(len(catalog), func(i, j int) { catalog[i], catalog[j] = catalog[j], catalog[i] })
	if numItems > len(catalog) {
		numItems = len(catalog)
	}

	items := make([]models.OrderItem, 0, numItems)
	for _, item := range catalog[:numItems] {
		items = append(items, models.OrderItem{Item: item, Quantity: 1 + rand.Intn(3)})
	}
	return &models.Order{OrderID: orderID, Source: source, Items: items}
}

func cloneItems(items []models.OrderItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	copy(out, items)
	return out
}

// createCompleteOrder は完全一致の注文ペアを作る
func createCompleteOrder(orderID string, source models.OrderSource) (*models.Order, *models.Order) {
	expected := generateRandomOrder(orderID, source, 3)
	detected := &models.Order{OrderID: orderID, Source: source, Items: cloneItems(expected.Items)}
	return expected, detected
}

// createMissingItemsOrder は1〜2品目が丸ごと欠けた注文ペアを作る
func createMissingItemsOrder(orderID string, source models.OrderSource) (*models.Order, *models.Order) {
	expected := generateRandomOrder(orderID, source, 4)

	numToRemove := 1 + rand.Intn(2)
	kept := cloneItems(expected.Items)
	rand.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
	kept = kept[:len(kept)-numToRemove]

	detected := &models.Order{OrderID: orderID, Source: source, Items: kept}
	return expected, detected
}

// createTooFewItemsOrder は一部の数量が不足した注文ペアを作る
func createTooFewItemsOrder(orderID string, source models.OrderSource) (*models.Order, *models.Order) {
	expected := generateRandomOrder(orderID, source, 3)

	items := make([]models.OrderItem, 0, len(expected.Items))
	reduced := false
	for _, item := range expected.Items {
		quantity := item.Quantity
		if rand.Intn(2) == 0 && quantity > 1 {
			quantity = 1 + rand.Intn(quantity-1)
			reduced = true
		}
		items = append(items, models.OrderItem{Item: item.Item, Quantity: quantity})
	}
	// 1つも減らせなかった場合は期待側を増やして確実に不足させる
	if !reduced {
		expected.Items[0].Quantity++
	}

	detected := &models.Order{OrderID: orderID, Source: source, Items: items}
	return expected, detected
}

// createTooManyItemsOrder は一部の数量が過剰な注文ペアを作る
func createTooManyItemsOrder(orderID string, source models.OrderSource) (*models.Order, *models.Order) {
	expected := generateRandomOrder(orderID, source, 3)

	items := make([]models.OrderItem, 0, len(expected.Items))
	increased := false
	for _, item := range expected.Items {
		quantity := item.Quantity
		if rand.Intn(5) < 2 {
			quantity += 1 + rand.Intn(2)
			increased = true
		}
		items = append(items, models.OrderItem{Item: item.Item, Quantity: quantity})
	}
	if !increased {
		items[0].Quantity++
	}

	detected := &models.Order{OrderID: orderID, Source: source, Items: items}
	return expected, detected
}

// createExtraItemsOrder は注文にない品目が混入した注文ペアを作る
func createExtraItemsOrder(orderID string, source models.OrderSource) (*models.Order, *models.Order) {
	expected := generateRandomOrder(orderID, source, 3)
	items := cloneItems(expected.Items)

	inExpected := map[models.MenuItem]bool{}
	for _, item := range expected.Items {
		inExpected[item.Item] = true
	}
	available := []models.MenuItem{}
	for _, item := range models.AllMenuItems() {
		if !inExpected[item] {
			available = append(available, item)
		}
	}
	numExtra := 1 + rand.Intn(2)
	if numExtra > len(available) {
		numExtra = len(available)
	}
	rand.Shuffle(len(available), func(i, j int) { available[i], available[j] = available[j], available[i] })
	for _, item := range available[:numExtra] {
		items = append(items, models.OrderItem{Item: item, Quantity: 1 + rand.Intn(2)})
	}

	detected := &models.Order{OrderID: orderID, Source: source, Items: items}
	return expected, detected
}

// createCombinedErrorsOrder は欠品・数量違い・混入が混ざった注文ペアを作る
func createCombinedErrorsOrder(orderID string, source models.OrderSource) (*models.Order, *models.Order) {
	expected := generateRandomOrder(orderID, source, 4)

	items := []models.OrderItem{}
	for _, item := range expected.Items {
		switch r := rand.Float64(); {
		case r < 0.3: // 欠品
			continue
		case r < 0.6: // 数量違い
			quantity := item.Quantity + rand.Intn(3) - 1
			if quantity < 1 {
				quantity = 1
			}
			items = append(items, models.OrderItem{Item: item.Item, Quantity: quantity})
		default: // そのまま
			items = append(items, models.OrderItem{Item: item.Item, Quantity: item.Quantity})
		}
	}

	// 半分の確率で混入品を追加
	if rand.Intn(2) == 0 {
		inExpected := map[models.MenuItem]bool{}
		for _, item := range expected.Items {
			inExpected[item.Item] = true
		}
		for _, item := range models.AllMenuItems() {
			if !inExpected[item] {
				items = append(items, models.OrderItem{Item: item, Quantity: 1})
				break
			}
		}
	}

	// 全品目が欠けた場合でも最低1品は検出されたことにする
	if len(items) == 0 {
		items = append(items, models.OrderItem{Item: expected.Items[0].Item, Quantity: expected.Items[0].Quantity})
	}

	detected := &models.Order{OrderID: orderID, Source: source, Items: items}
	return expected, detected
}
