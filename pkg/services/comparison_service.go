package services

import (
	"staff-meal-api/pkg/models"
)

// ComparisonService は期待注文と検出注文の照合を行います。
// 純粋な計算のみで、I/Oや内部状態を持ちません。
type ComparisonService struct{}

// NewComparisonService は新しいComparisonServiceを生成します。
func NewComparisonService() *ComparisonService {
	return &ComparisonService{}
}

// Compare は期待注文と検出注文を照合し、差分を分類して返します。
// 各期待行は必ず1件のItemMatchを生成し、不一致の場合のみ
// missing / too_few / too_many のいずれか1つに分類されます。
// 検出数量0は常にmissing扱いです（too_fewには分類しない）。
func (s *ComparisonService) Compare(expected, detected *models.Order) *models.ComparisonResult {
	// 検出側のルックアップを構築。同一アイテムが複数行に分かれて
	// 検出された場合は数量を合算する。
	detectedQty := make(map[models.MenuItem]int, len(detected.Items))
	for _, item := range detected.Items {
		detectedQty[item.Item] += item.Quantity
	}

	missing := []models.ItemMismatch{}
	tooFew := []models.ItemMismatch{}
	tooMany := []models.ItemMismatch{}
	matched := []models.ItemMatch{}

	for _, exp := range expected.Items {
		qty := detectedQty[exp.Item]
		isMatch := qty == exp.Quantity

		matched = append(matched, models.ItemMatch{
			Item:             exp.Item,
			ExpectedQuantity: exp.Quantity,
			DetectedQuantity: qty,
			IsMatch:          isMatch,
		})

		if isMatch {
			continue
		}

		mismatch := models.ItemMismatch{
			Item:             exp.Item,
			ExpectedQuantity: exp.Quantity,
			DetectedQuantity: qty,
		}
		switch {
		case qty == 0:
			missing = append(missing, mismatch)
		case qty < exp.Quantity:
			tooFew = append(tooFew, mismatch)
		default:
			tooMany = append(tooMany, mismatch)
		}
	}

	// 期待側に存在しないアイテムはextra。検出行の順序のまま、
	// 行単位で保持する（重複をまとめない）。
	expectedItems := make(map[models.MenuItem]bool, len(expected.Items))
	for _, item := range expected.Items {
		expectedItems[item.Item] = true
	}
	extra := []models.OrderItem{}
	for _, item := range detected.Items {
		if !expectedItems[item.Item] {
			extra = append(extra, item)
		}
	}

	isComplete := len(missing) == 0 && len(tooFew) == 0 && len(tooMany) == 0 && len(extra) == 0

	return &models.ComparisonResult{
		IsComplete:   isComplete,
		MissingItems: missing,
		TooFewItems:  tooFew,
		TooManyItems: tooMany,
		ExtraItems:   extra,
		MatchedItems: matched,
	}
}
