package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staff-meal-api/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// get_all相当の実質無制限フェッチ。
const allRecordsLimit = 1_000_000

// RecordStore は検品履歴の永続化の契約です。テストではフェイクに
// 差し替えられます。
type RecordStore interface {
	SaveRecord(ctx context.Context, record *models.ValidationRecord) (int64, error)
	ListRecords(ctx context.Context, from, to *time.Time, limit int) ([]models.ValidationRecord, error)
	GetAllRecords(ctx context.Context) ([]models.ValidationRecord, error)
	DeleteRecordsByOrderPrefix(ctx context.Context, prefix string) (int64, error)
}

// RecordService はSupabase（ホステッドPostgres）上のvalidation_records
// テーブルを読み書きします。接続プールは起動時に構築され、
// コンストラクタ経由で注入されます。
type RecordService struct {
	pool *pgxpool.Pool
}

// NewRecordService は新しいRecordServiceを生成します。
func NewRecordService(pool *pgxpool.Pool) *RecordService {
	return &RecordService{pool: pool}
}

// SaveRecord は検品結果を1件追記し、採番されたIDを返します。
func (s *RecordService) SaveRecord(ctx context.Context, record *models.ValidationRecord) (int64, error) {
	expectedJSON, err := json.Marshal(record.ExpectedOrder)
	if err != nil {
		return 0, fmt.Errorf("期待注文のJSON化に失敗: %w", err)
	}
	detectedJSON, err := json.Marshal(record.DetectedOrder)
	if err != nil {
		return 0, fmt.Errorf("検出注文のJSON化に失敗: %w", err)
	}
	resultJSON, err := json.Marshal(record.ComparisonResult)
	if err != nil {
		return 0, fmt.Errorf("照合結果のJSON化に失敗: %w", err)
	}

	var id int64
	err = s.pool.QueryRow(ctx, `
		INSERT INTO validation_records (
			order_id, timestamp, operator, is_complete,
			expected_order_json, detected_order_json, comparison_result_json
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		record.OrderID, record.Timestamp, record.Operator, record.IsComplete,
		expectedJSON, detectedJSON, resultJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("検品レコードの保存に失敗: %w", err)
	}
	return id, nil
}

// ListRecords は検品履歴を新しい順に取得します。from/toは両端を含む
// タイムスタンプ範囲で、nilなら無条件です。
func (s *RecordService) ListRecords(ctx context.Context, from, to *time.Time, limit int) ([]models.ValidationRecord, error) {
	query := `
		SELECT id, order_id, timestamp, operator, is_complete,
		       expected_order_json, detected_order_json, comparison_result_json
		FROM validation_records`
	args := []interface{}{}
	where := ""
	if from != nil {
		args = append(args, *from)
		where = fmt.Sprintf(" WHERE timestamp >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		if where == "" {
			where = fmt.Sprintf(" WHERE timestamp <= $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND timestamp <= $%d", len(args))
		}
	}
	args = append(args, limit)
	query += where + fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("検品レコードの取得に失敗: %w", err)
	}
	defer rows.Close()

	records := []models.ValidationRecord{}
	for rows.Next() {
		var (
			record       models.ValidationRecord
			id           int64
			expectedJSON []byte
			detectedJSON []byte
			resultJSON   []byte
		)
		if err := rows.Scan(&id, &record.OrderID, &record.Timestamp, &record.Operator,
			&record.IsComplete, &expectedJSON, &detectedJSON, &resultJSON); err != nil {
			return nil, fmt.Errorf("検品レコードの読み取りに失敗: %w", err)
		}
		record.ID = &id

		if err := json.Unmarshal(expectedJSON, &record.ExpectedOrder); err != nil {
			return nil, fmt.Errorf("期待注文JSONの解析に失敗 (record %d): %w", id, err)
		}
		if err := record.ExpectedOrder.Validate(); err != nil {
			return nil, fmt.Errorf("期待注文JSONが不正です (record %d): %w", id, err)
		}
		if err := json.Unmarshal(detectedJSON, &record.DetectedOrder); err != nil {
			return nil, fmt.Errorf("検出注文JSONの解析に失敗 (record %d): %w", id, err)
		}
		if err := json.Unmarshal(resultJSON, &record.ComparisonResult); err != nil {
			return nil, fmt.Errorf("照合結果JSONの解析に失敗 (record %d): %w", id, err)
		}
		normalizeComparisonResult(&record.ComparisonResult)

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("検品レコードの走査に失敗: %w", err)
	}
	return records, nil
}

// GetAllRecords は全履歴を新しい順に取得します。
func (s *RecordService) GetAllRecords(ctx context.Context) ([]models.ValidationRecord, error) {
	return s.ListRecords(ctx, nil, nil, allRecordsLimit)
}

// DeleteRecordsByOrderPrefix は注文IDが前方一致するレコードを削除し、
// 削除件数を返します。モックデータの後始末専用です。
func (s *RecordService) DeleteRecordsByOrderPrefix(ctx context.Context, prefix string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM validation_records WHERE order_id LIKE $1`, prefix+"%")
	if err != nil {
		return 0, fmt.Errorf("検品レコードの削除に失敗: %w", err)
	}
	return tag.RowsAffected(), nil
}

// normalizeComparisonResult は古いレコードで省略され得るリストを
// 空リストに揃えます。欠けていても安全なのはリストだけで、
// その他の必須フィールドの欠落はJSON解析段階で失敗させます。
func normalizeComparisonResult(result *models.ComparisonResult) {
	if result.MissingItems == nil {
		result.MissingItems = []models.ItemMismatch{}
	}
	if result.TooFewItems == nil {
		result.TooFewItems = []models.ItemMismatch{}
	}
	if result.TooManyItems == nil {
		result.TooManyItems = []models.ItemMismatch{}
	}
	if result.ExtraItems == nil {
		result.ExtraItems = []models.OrderItem{}
	}
	if result.MatchedItems == nil {
		result.MatchedItems = []models.ItemMatch{}
	}
}
