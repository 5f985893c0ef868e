package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"staff-meal-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportTestRecords() []models.ValidationRecord {
	alice := "Alice"
	id1, id2 := int64(1), int64(2)

	complete := models.Order{
		OrderID: "ORD-1",
		Source:  models.SourceUberEats,
		Items: []models.OrderItem{
			{Item: models.ItemGyoza, Quantity: 2},
			{Item: models.ItemSauce, Quantity: 1},
		},
	}
	incompleteDetected := models.Order{
		OrderID: "ORD-2",
		Source:  models.SourceDeliveroo,
		Items:   []models.OrderItem{{Item: models.ItemGyoza, Quantity: 2}},
	}
	incompleteExpected := models.Order{
		OrderID: "ORD-2",
		Source:  models.SourceDeliveroo,
		Items: []models.OrderItem{
			{Item: models.ItemGyoza, Quantity: 2},
			{Item: models.ItemSauce, Quantity: 1},
		},
	}

	return []models.ValidationRecord{
		{
			ID:               &id1,
			OrderID:          "ORD-1",
			Timestamp:        time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			Operator:         &alice,
			IsComplete:       true,
			ExpectedOrder:    complete,
			DetectedOrder:    complete,
			ComparisonResult: models.ComparisonResult{IsComplete: true},
		},
		{
			ID:            &id2,
			OrderID:       "ORD-2",
			Timestamp:     time.Date(2024, 1, 16, 18, 30, 0, 0, time.UTC),
			Operator:      nil,
			IsComplete:    false,
			ExpectedOrder: incompleteExpected,
			DetectedOrder: incompleteDetected,
			ComparisonResult: models.ComparisonResult{
				MissingItems: []models.ItemMismatch{
					{Item: models.ItemSauce, ExpectedQuantity: 1, DetectedQuantity: 0},
				},
			},
		},
	}
}

func TestBuildCSV(t *testing.T) {
	svc := NewExportService(NewStatisticsService())

	data, err := svc.BuildCSV(exportTestRecords())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // サマリ部は列数が異なる
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	// ヘッダー行
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{
		"ID", "Order ID", "Timestamp", "Operator", "Is Complete",
		"Expected Items", "Detected Items", "Missing Items",
		"Too Few Items", "Too Many Items", "Extra Items",
	}, rows[0])

	// 完了レコード
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "ORD-1", rows[1][1])
	assert.Equal(t, "2024-01-15T12:00:00Z", rows[1][2])
	assert.Equal(t, "Alice", rows[1][3])
	assert.Equal(t, "Oui", rows[1][4])
	assert.Equal(t, "2x Boite de 4 Gyoza, 1x Sauce", rows[1][5])
	assert.Equal(t, "", rows[1][7], "欠品なし")

	// 未完了レコード(担当者未記録)
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "Non", rows[2][4])
	assert.Equal(t, "1x Sauce", rows[2][7])

	// サマリセクション
	summaryIdx := -1
	for i, row := range rows {
		if len(row) > 0 && row[0] == "RÉSUMÉ" {
			summaryIdx = i
			break
		}
	}
	require.NotEqual(t, -1, summaryIdx, "サマリ行が見つからない")
	assert.Equal(t, []string{"Total commandes", "2"}, rows[summaryIdx+1])
	assert.Equal(t, []string{"Commandes complètes", "1"}, rows[summaryIdx+2])
	assert.Equal(t, []string{"Taux d'erreur", "50.0%"}, rows[summaryIdx+3])
}

func TestBuildCSVEmptyRecords(t *testing.T) {
	svc := NewExportService(NewStatisticsService())

	data, err := svc.BuildCSV(nil)
	require.NoError(t, err)

	// ヘッダーとサマリだけでもエクスポートできる
	text := string(data)
	assert.Contains(t, text, "ID,Order ID,Timestamp")
	assert.Contains(t, text, "RÉSUMÉ")
	assert.Contains(t, text, "0.0%")
}

func TestBuildXLSX(t *testing.T) {
	svc := NewExportService(NewStatisticsService())
	records := exportTestRecords()

	data, err := svc.BuildXLSX(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Sheet1"

	// ヘッダー行
	for i, want := range []string{"ID", "Order ID", "Timestamp", "Operator", "Is Complete"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// データ行
	gotComplete, err := f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "Oui", gotComplete)

	gotMissing, err := f.GetCellValue(sheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, "1x Sauce", gotMissing)

	// サマリはデータの下に配置される
	base := len(records) + 3
	gotSummary, err := f.GetCellValue(sheet, fmt.Sprintf("A%d", base))
	require.NoError(t, err)
	assert.Equal(t, "RÉSUMÉ", gotSummary)

	gotTotal, err := f.GetCellValue(sheet, fmt.Sprintf("B%d", base+1))
	require.NoError(t, err)
	assert.Equal(t, "2", gotTotal)

	gotRate, err := f.GetCellValue(sheet, fmt.Sprintf("B%d", base+3))
	require.NoError(t, err)
	assert.Equal(t, "50.0%", gotRate)
}
