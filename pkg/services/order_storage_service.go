package services

import (
	"context"
	"encoding/json"
	"fmt"

	"staff-meal-api/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// 保存済み注文一覧のデフォルト取得件数
const defaultSavedOrdersLimit = 100

// OrderStore は保存済み注文の永続化の契約です。テストではフェイクに
// 差し替えられます。
type OrderStore interface {
	SaveOrder(ctx context.Context, order *models.Order) error
	GetAllOrders(ctx context.Context, limit int) ([]models.Order, error)
	DeleteOrder(ctx context.Context, orderID string) (int64, error)
}

// OrderStorageService はordersテーブルを読み書きします。
// QR生成画面で過去の注文を呼び出して再利用するための保管庫です。
type OrderStorageService struct {
	pool *pgxpool.Pool
}

// NewOrderStorageService は新しいOrderStorageServiceを生成します。
func NewOrderStorageService(pool *pgxpool.Pool) *OrderStorageService {
	return &OrderStorageService{pool: pool}
}

// SaveOrder は注文を1件保存します。
func (s *OrderStorageService) SaveOrder(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("注文品目のJSON化に失敗: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (order_id, source, items_json)
		VALUES ($1, $2, $3)`,
		order.OrderID, string(order.Source), itemsJSON,
	)
	if err != nil {
		return fmt.Errorf("注文の保存に失敗: %w", err)
	}
	return nil
}

// GetAllOrders は保存済み注文を新しい順に取得します。
func (s *OrderStorageService) GetAllOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = defaultSavedOrdersLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT order_id, source, items_json
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("注文の取得に失敗: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var (
			order     models.Order
			source    string
			itemsJSON []byte
		)
		if err := rows.Scan(&order.OrderID, &source, &itemsJSON); err != nil {
			return nil, fmt.Errorf("注文の読み取りに失敗: %w", err)
		}
		order.Source = models.OrderSource(source)

		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("注文品目JSONの解析に失敗 (order %s): %w", order.OrderID, err)
		}

		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("注文の走査に失敗: %w", err)
	}
	return orders, nil
}

// DeleteOrder は注文IDが一致する保存済み注文を削除し、削除件数を返します。
func (s *OrderStorageService) DeleteOrder(ctx context.Context, orderID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, fmt.Errorf("注文の削除に失敗: %w", err)
	}
	return tag.RowsAffected(), nil
}
