package services

import (
	"sort"

	"staff-meal-api/pkg/models"
)

// 集計バケットのキーを揃えるための曜日一覧（Monday始まり）。
var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// operatorUnspecified は担当者未記録のレコードをまとめるバケット名です。
const operatorUnspecified = "unspecified"

// StatisticsService は検品履歴から統計を導出します。
// 入力レコードを変更せず、呼び出しごとに全件から再計算します。
type StatisticsService struct{}

// NewStatisticsService は新しいStatisticsServiceを生成します。
func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// CalculateStatistics は全体統計を計算します。
// 空入力の場合は空のマップ/リストを返し、1件以上ある場合は
// errors_by_hourに24キー、errors_by_dayに7キーを必ず含めます。
func (s *StatisticsService) CalculateStatistics(records []models.ValidationRecord) *models.Statistics {
	if len(records) == 0 {
		return &models.Statistics{
			TotalOrders:        0,
			CompleteOrders:     0,
			ErrorRate:          0.0,
			MostForgottenItems: []models.ForgottenItem{},
			ErrorsByHour:       map[int]int{},
			ErrorsByDay:        map[string]int{},
		}
	}

	total := len(records)
	complete := 0
	for _, r := range records {
		if r.IsComplete {
			complete++
		}
	}
	errorRate := float64(total-complete) / float64(total) * 100

	// 忘れ物ランキング。未完了レコードのmissing出現回数を数える
	// （数量ではなく出現1回につき1カウント）。
	forgottenCounts := make(map[models.MenuItem]int)
	for _, r := range records {
		if r.IsComplete {
			continue
		}
		for _, missing := range r.ComparisonResult.MissingItems {
			forgottenCounts[missing.Item]++
		}
	}
	mostForgotten := make([]models.ForgottenItem, 0, len(forgottenCounts))
	for item, count := range forgottenCounts {
		mostForgotten = append(mostForgotten, models.ForgottenItem{Item: item, Count: count})
	}
	// 回数降順、同数は表示名昇順で決定的に並べる
	sort.Slice(mostForgotten, func(i, j int) bool {
		if mostForgotten[i].Count != mostForgotten[j].Count {
			return mostForgotten[i].Count > mostForgotten[j].Count
		}
		return mostForgotten[i].Item < mostForgotten[j].Item
	})

	errorsByHour := make(map[int]int, 24)
	for h := 0; h < 24; h++ {
		errorsByHour[h] = 0
	}
	errorsByDay := make(map[string]int, 7)
	for _, day := range weekdayNames {
		errorsByDay[day] = 0
	}
	for _, r := range records {
		if r.IsComplete {
			continue
		}
		errorsByHour[r.Timestamp.Hour()]++
		errorsByDay[r.Timestamp.Weekday().String()]++
	}

	return &models.Statistics{
		TotalOrders:        total,
		CompleteOrders:     complete,
		ErrorRate:          errorRate,
		MostForgottenItems: mostForgotten,
		ErrorsByHour:       errorsByHour,
		ErrorsByDay:        errorsByDay,
	}
}

// CalculateStatisticsByOperator は担当者ごとに統計を計算します。
// 担当者未記録のレコードは "unspecified" バケットに入ります。
func (s *StatisticsService) CalculateStatisticsByOperator(records []models.ValidationRecord) *models.GroupedStatistics {
	partitions := make(map[string][]models.ValidationRecord)
	for _, r := range records {
		key := operatorUnspecified
		if r.Operator != nil && *r.Operator != "" {
			key = *r.Operator
		}
		partitions[key] = append(partitions[key], r)
	}
	return s.groupStatistics("operator", partitions)
}

// CalculateStatisticsBySource は注文プラットフォームごとに統計を計算します。
func (s *StatisticsService) CalculateStatisticsBySource(records []models.ValidationRecord) *models.GroupedStatistics {
	partitions := make(map[string][]models.ValidationRecord)
	for _, r := range records {
		key := string(r.ExpectedOrder.Source)
		partitions[key] = append(partitions[key], r)
	}
	return s.groupStatistics("source", partitions)
}

func (s *StatisticsService) groupStatistics(groupBy string, partitions map[string][]models.ValidationRecord) *models.GroupedStatistics {
	groups := make(map[string]*models.Statistics, len(partitions))
	for key, part := range partitions {
		groups[key] = s.CalculateStatistics(part)
	}
	return &models.GroupedStatistics{GroupBy: groupBy, Groups: groups}
}
