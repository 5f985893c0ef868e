package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staff-meal-api/pkg/models"

	"github.com/sirupsen/logrus"
)

// ErrNoValidItems は検出結果に有効な行(数量1以上)が1つもないときに返される
var ErrNoValidItems = errors.New("no valid items detected")

// ValidationService は検品ワークフロー全体を調停します：
// 検出結果のフィルタリング → 照合 → レコード化 → 永続化。
type ValidationService struct {
	comparison *ComparisonService
	store      RecordStore
	log        *logrus.Logger
}

// NewValidationService は新しいValidationServiceを生成します。
func NewValidationService(comparison *ComparisonService, store RecordStore, log *logrus.Logger) *ValidationService {
	return &ValidationService{
		comparison: comparison,
		store:      store,
		log:        log,
	}
}

// FilterDetectedOrder はAI検出結果から数量0以下の行を取り除き、
// 注文ID・プラットフォームを期待注文に揃えます。有効な行が1つも
// 残らない場合は入力エラーです（空の照合結果は返しません）。
func (s *ValidationService) FilterDetectedOrder(expected, raw *models.Order) (*models.Order, error) {
	valid := []models.OrderItem{}
	for _, item := range raw.Items {
		if item.Quantity > 0 {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidItems
	}

	// 検出側のIDとプラットフォームは信頼せず、QR由来の値で上書きする
	return &models.Order{
		OrderID: expected.OrderID,
		Source:  expected.Source,
		Items:   valid,
	}, nil
}

// CompareOrders は期待注文と生の検出注文を照合し、結果だけを返します。
// 履歴には保存しません。
func (s *ValidationService) CompareOrders(expected, rawDetected *models.Order) (*models.ComparisonResult, error) {
	if err := expected.Validate(); err != nil {
		return nil, fmt.Errorf("invalid expected order: %w", err)
	}

	detected, err := s.FilterDetectedOrder(expected, rawDetected)
	if err != nil {
		return nil, err
	}

	return s.comparison.Compare(expected, detected), nil
}

// ValidateOrder は期待注文と生の検出注文を照合し、結果を履歴に
// 追記して返します。
func (s *ValidationService) ValidateOrder(ctx context.Context, expected, rawDetected *models.Order, operator *string) (*models.ValidationRecord, error) {
	if err := expected.Validate(); err != nil {
		return nil, fmt.Errorf("invalid expected order: %w", err)
	}

	detected, err := s.FilterDetectedOrder(expected, rawDetected)
	if err != nil {
		return nil, err
	}

	s.log.Infof("🔍 注文を照合: order_id=%s expected=%d detected=%d",
		expected.OrderID, expected.TotalItems(), detected.TotalItems())

	result := s.comparison.Compare(expected, detected)

	record := &models.ValidationRecord{
		OrderID:          expected.OrderID,
		Timestamp:        time.Now(),
		Operator:         operator,
		IsComplete:       result.IsComplete,
		ExpectedOrder:    *expected,
		DetectedOrder:    *detected,
		ComparisonResult: *result,
	}

	id, err := s.store.SaveRecord(ctx, record)
	if err != nil {
		s.log.Errorf("❌ 検品レコードの保存に失敗: %v", err)
		return nil, err
	}
	record.ID = &id

	if result.IsComplete {
		s.log.Infof("✅ 検品完了: order_id=%s 完全一致", expected.OrderID)
	} else {
		s.log.Warnf("⚠️ 検品完了: order_id=%s missing=%d too_few=%d too_many=%d extra=%d",
			expected.OrderID, len(result.MissingItems), len(result.TooFewItems),
			len(result.TooManyItems), len(result.ExtraItems))
	}

	return record, nil
}

// HasStore は永続化層が構成されているかを返します。DATABASE_URL
// 未設定で起動した場合、照合だけが使えて履歴系の操作は使えません。
func (s *ValidationService) HasStore() bool {
	return s.store != nil
}

// GetHistory は検品履歴を新しい順で返します。
func (s *ValidationService) GetHistory(ctx context.Context, from, to *time.Time, limit int) ([]models.ValidationRecord, error) {
	if limit <= 0 {
		limit = allRecordsLimit
	}
	return s.store.ListRecords(ctx, from, to, limit)
}
