package services

import (
	"testing"

	"staff-meal-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(id string, items ...models.OrderItem) *models.Order {
	return &models.Order{OrderID: id, Source: models.SourceUberEats, Items: items}
}

func TestCompareOrdersPerfectMatch(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-1",
		models.OrderItem{Item: models.ItemCaliforniaRolls, Quantity: 2},
		models.OrderItem{Item: models.ItemSauce, Quantity: 1},
	)
	detected := newOrder("ORD-1",
		models.OrderItem{Item: models.ItemCaliforniaRolls, Quantity: 2},
		models.OrderItem{Item: models.ItemSauce, Quantity: 1},
	)

	result := s.Compare(expected, detected)

	assert.True(t, result.IsComplete)
	assert.Empty(t, result.MissingItems)
	assert.Empty(t, result.TooFewItems)
	assert.Empty(t, result.TooManyItems)
	assert.Empty(t, result.ExtraItems)
	// 全期待行がmatchedに含まれ、いずれもis_match=true
	require.Len(t, result.MatchedItems, 2)
	for _, m := range result.MatchedItems {
		assert.True(t, m.IsMatch)
	}
}

func TestCompareOrdersMissingItem(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-2",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
		models.OrderItem{Item: models.ItemSauce, Quantity: 1},
	)
	detected := newOrder("ORD-2",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
	)

	result := s.Compare(expected, detected)

	assert.False(t, result.IsComplete)
	require.Len(t, result.MissingItems, 1)
	assert.Equal(t, models.ItemSauce, result.MissingItems[0].Item)
	assert.Equal(t, 1, result.MissingItems[0].ExpectedQuantity)
	assert.Equal(t, 0, result.MissingItems[0].DetectedQuantity)
	assert.Empty(t, result.TooFewItems, "検出数量0はtoo_fewではなくmissing")
}

func TestCompareOrdersTooFewItems(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-3", models.OrderItem{Item: models.ItemGyoza, Quantity: 3})
	detected := newOrder("ORD-3", models.OrderItem{Item: models.ItemGyoza, Quantity: 2})

	result := s.Compare(expected, detected)

	assert.False(t, result.IsComplete)
	require.Len(t, result.TooFewItems, 1)
	assert.Equal(t, models.ItemGyoza, result.TooFewItems[0].Item)
	assert.Equal(t, 3, result.TooFewItems[0].ExpectedQuantity)
	assert.Equal(t, 2, result.TooFewItems[0].DetectedQuantity)
	assert.Empty(t, result.MissingItems)
}

func TestCompareOrdersTooManyItems(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-4", models.OrderItem{Item: models.ItemMochi, Quantity: 1})
	detected := newOrder("ORD-4", models.OrderItem{Item: models.ItemMochi, Quantity: 3})

	result := s.Compare(expected, detected)

	assert.False(t, result.IsComplete)
	require.Len(t, result.TooManyItems, 1)
	assert.Equal(t, 1, result.TooManyItems[0].ExpectedQuantity)
	assert.Equal(t, 3, result.TooManyItems[0].DetectedQuantity)
}

func TestCompareOrdersExtraItems(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-5", models.OrderItem{Item: models.ItemGyoza, Quantity: 1})
	detected := newOrder("ORD-5",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 1},
		models.OrderItem{Item: models.ItemCaliforniaRolls, Quantity: 2},
	)

	result := s.Compare(expected, detected)

	assert.False(t, result.IsComplete, "extraのみでも未完了扱い")
	require.Len(t, result.ExtraItems, 1)
	assert.Equal(t, models.ItemCaliforniaRolls, result.ExtraItems[0].Item)
	assert.Equal(t, 2, result.ExtraItems[0].Quantity)
	assert.Empty(t, result.MissingItems)
}

func TestCompareOrdersMultipleIssues(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-6",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
		models.OrderItem{Item: models.ItemSauce, Quantity: 2},
		models.OrderItem{Item: models.ItemRamen, Quantity: 1},
	)
	detected := newOrder("ORD-6",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 1},
		models.OrderItem{Item: models.ItemRamen, Quantity: 1},
		models.OrderItem{Item: models.ItemMochi, Quantity: 1},
	)

	result := s.Compare(expected, detected)

	assert.False(t, result.IsComplete)
	require.Len(t, result.MissingItems, 1)
	assert.Equal(t, models.ItemSauce, result.MissingItems[0].Item)
	require.Len(t, result.TooFewItems, 1)
	assert.Equal(t, models.ItemGyoza, result.TooFewItems[0].Item)
	require.Len(t, result.ExtraItems, 1)
	assert.Equal(t, models.ItemMochi, result.ExtraItems[0].Item)
	assert.Len(t, result.MatchedItems, 3)
}

func TestCompareOrdersMatchedIncludesAllExpectedLines(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-7",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
		models.OrderItem{Item: models.ItemSauce, Quantity: 1},
		models.OrderItem{Item: models.ItemRamen, Quantity: 1},
	)
	detected := newOrder("ORD-7",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
	)

	result := s.Compare(expected, detected)

	// matchedは結果に関わらず期待行ごとに必ず1件
	require.Len(t, result.MatchedItems, len(expected.Items))
	assert.True(t, result.MatchedItems[0].IsMatch)
	assert.False(t, result.MatchedItems[1].IsMatch)
	assert.False(t, result.MatchedItems[2].IsMatch)
	// 期待側の順序を保持する
	assert.Equal(t, models.ItemGyoza, result.MatchedItems[0].Item)
	assert.Equal(t, models.ItemSauce, result.MatchedItems[1].Item)
	assert.Equal(t, models.ItemRamen, result.MatchedItems[2].Item)
}

func TestCompareOrdersSumsDuplicateDetectedLines(t *testing.T) {
	s := NewComparisonService()

	// 検出側で同一アイテムが2行に分かれていても合算して照合する
	expected := newOrder("ORD-8", models.OrderItem{Item: models.ItemGyoza, Quantity: 3})
	detected := newOrder("ORD-8",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
		models.OrderItem{Item: models.ItemGyoza, Quantity: 1},
	)

	result := s.Compare(expected, detected)

	assert.True(t, result.IsComplete)
	require.Len(t, result.MatchedItems, 1)
	assert.Equal(t, 3, result.MatchedItems[0].DetectedQuantity)
}

func TestCompareOrdersEmptyDetected(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-9",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 1},
		models.OrderItem{Item: models.ItemSauce, Quantity: 1},
	)
	detected := &models.Order{OrderID: "ORD-9", Source: models.SourceUberEats, Items: []models.OrderItem{}}

	result := s.Compare(expected, detected)

	assert.False(t, result.IsComplete)
	assert.Len(t, result.MissingItems, 2)
	assert.Len(t, result.MatchedItems, 2)
}

func TestCompareOrdersIsIdempotent(t *testing.T) {
	s := NewComparisonService()

	expected := newOrder("ORD-10",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 2},
		models.OrderItem{Item: models.ItemSauce, Quantity: 1},
	)
	detected := newOrder("ORD-10",
		models.OrderItem{Item: models.ItemGyoza, Quantity: 1},
	)

	first := s.Compare(expected, detected)
	second := s.Compare(expected, detected)
	assert.Equal(t, first, second)
}
