package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"staff-meal-api/pkg/models"
)

// exportHeader はCSVとXLSXで共通の列見出し
var exportHeader = []string{
	"ID",
	"Order ID",
	"Timestamp",
	"Operator",
	"Is Complete",
	"Expected Items",
	"Detected Items",
	"Missing Items",
	"Too Few Items",
	"Too Many Items",
	"Extra Items",
}

// ExportService は検品履歴のCSV/XLSXエクスポートを提供する
type ExportService struct {
	statistics *StatisticsService
}

// NewExportService は新しいExportServiceを生成する
func NewExportService(statistics *StatisticsService) *ExportService {
	return &ExportService{statistics: statistics}
}

// BuildCSV は検品レコードをCSVに変換する。末尾にサマリセクションを付ける。
func (s *ExportService) BuildCSV(records []models.ValidationRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range records {
		if err := writer.Write(exportRow(&records[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// サマリセクション
	stats := s.statistics.CalculateStatistics(records)
	summaryRows := [][]string{
		{""},
		{"RÉSUMÉ"},
		{"Total commandes", fmt.Sprintf("%d", stats.TotalOrders)},
		{"Commandes complètes", fmt.Sprintf("%d", stats.CompleteOrders)},
		{"Taux d'erreur", fmt.Sprintf("%.1f%%", stats.ErrorRate)},
	}
	for _, row := range summaryRows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV summary: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// BuildXLSX は検品レコードをExcelワークブックに変換する
func (s *ExportService) BuildXLSX(records []models.ValidationRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	for i, heading := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, heading)
	}

	for rowIdx := range records {
		for colIdx, value := range exportRow(&records[rowIdx]) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	// データの下にサマリを配置
	stats := s.statistics.CalculateStatistics(records)
	base := len(records) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "RÉSUMÉ")
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), "Total commandes")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), stats.TotalOrders)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+2), "Commandes complètes")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+2), stats.CompleteOrders)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", base+3), "Taux d'erreur")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", base+3), fmt.Sprintf("%.1f%%", stats.ErrorRate))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// exportRow は1レコード分のエクスポート行を組み立てる
func exportRow(record *models.ValidationRecord) []string {
	id := ""
	if record.ID != nil {
		id = fmt.Sprintf("%d", *record.ID)
	}
	operator := ""
	if record.Operator != nil {
		operator = *record.Operator
	}
	isComplete := "Non"
	if record.IsComplete {
		isComplete = "Oui"
	}

	return []string{
		id,
		record.OrderID,
		record.Timestamp.Format(time.RFC3339),
		operator,
		isComplete,
		joinItems(record.ExpectedOrder.Items),
		joinItems(record.DetectedOrder.Items),
		joinMismatches(record.ComparisonResult.MissingItems),
		joinMismatches(record.ComparisonResult.TooFewItems),
		joinMismatches(record.ComparisonResult.TooManyItems),
		joinItems(record.ComparisonResult.ExtraItems),
	}
}

// joinItems は「2x Sauce, 1x Ramen」形式で品目を連結する
func joinItems(items []models.OrderItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

// joinMismatches は期待数量ベースで差分品目を連結する
func joinMismatches(mismatches []models.ItemMismatch) string {
	parts := make([]string, len(mismatches))
	for i, m := range mismatches {
		parts[i] = fmt.Sprintf("%dx %s", m.ExpectedQuantity, m.Item)
	}
	return strings.Join(parts, ", ")
}
