//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// scripts/generate_mock_data.go で投入したモックレコード
// (注文IDが "MOCK-" で始まるもの)をまとめて削除します。
//
//	go run scripts/delete_mock_data.go

func main() {
	log.Println("🧹 モック検品データのクリーンアップを開始します...")

	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
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

	// 確認プロンプト
	fmt.Print("\n❓ 注文IDが MOCK- で始まるレコードをすべて削除してもよろしいですか？ (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if strings.ToLower(response) != "yes" {
		log.Println("❌ 削除をキャンセルしました")
		os.Exit(0)
	}

	recordService := services.NewRecordService(pool)
	deleted, err := recordService.DeleteRecordsByOrderPrefix(ctx, "MOCK-")
	if err != nil {
		log.Fatalf("❌ モックレコードの削除に失敗: %v", err)
	}

	if deleted == 0 {
		log.Println("✅ 削除対象のモックレコードは見つかりませんでした")
		return
	}

	log.Println("\n==================================================")
	log.Printf("📊 クリーンアップ完了")
	log.Printf("  削除: %d件", deleted)
	log.Println("==================================================")
}
