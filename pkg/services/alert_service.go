package services

import (
	"fmt"
	"sort"
	"strings"

	"staff-meal-api/pkg/models"
)

// しきい値のデフォルト。呼び出し側（HTTP層）で上書き可能です。
const (
	DefaultErrorRateThreshold      = 20.0
	DefaultCompletionRateThreshold = 95.0
)

// AlertService は統計と履歴からダッシュボード向けアラートを導出します。
type AlertService struct{}

// NewAlertService は新しいAlertServiceを生成します。
func NewAlertService() *AlertService {
	return &AlertService{}
}

// DetectAlerts はしきい値・傾向ルールを評価し、該当した全アラートを返します。
// ルールは互いに独立で、複数が同時に成立し得ます。レコードが空の場合は
// データ不足として無条件に空リストを返します。
func (s *AlertService) DetectAlerts(stats *models.Statistics, records []models.ValidationRecord, errorThreshold, completionThreshold float64) []models.Alert {
	alerts := []models.Alert{}

	if len(records) == 0 {
		return alerts
	}

	// エラー率がしきい値超過
	if stats.ErrorRate > errorThreshold {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityCritical,
			Title:    "🔴 Taux d'erreur critique",
			Message:  fmt.Sprintf("Le taux d'erreur est de %.1f%%, dépassant le seuil de %.1f%%", stats.ErrorRate, errorThreshold),
			Emoji:    "🔴",
		})
	}

	// 完了率が目標未達
	completionRate := 0.0
	if stats.TotalOrders > 0 {
		completionRate = float64(stats.CompleteOrders) / float64(stats.TotalOrders) * 100
	}
	if completionRate < completionThreshold {
		alerts = append(alerts, models.Alert{
			Severity: models.SeverityWarning,
			Title:    "🟡 Taux de complétude sous objectif",
			Message:  fmt.Sprintf("Le taux de complétude est de %.1f%%, en dessous de l'objectif de %.1f%%", completionRate, completionThreshold),
			Emoji:    "🟡",
		})
	}

	// エラー急増の検知：直近7件と直前7件を比較する。
	// 14件未満では評価しない。比較元のエラーが0件の場合もスキップ
	// （ゼロ除算を無限大扱いにしない）。
	if len(records) >= 14 {
		sorted := make([]models.ValidationRecord, len(records))
		copy(sorted, records)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		})

		recentErrors := 0
		for _, r := range sorted[:7] {
			if !r.IsComplete {
				recentErrors++
			}
		}
		olderErrors := 0
		for _, r := range sorted[7:14] {
			if !r.IsComplete {
				olderErrors++
			}
		}

		if olderErrors > 0 {
			increase := float64(recentErrors-olderErrors) / float64(olderErrors) * 100
			if increase > 50 {
				alerts = append(alerts, models.Alert{
					Severity: models.SeverityWarning,
					Title:    "⚠️ Pic d'erreurs détecté",
					Message:  fmt.Sprintf("Augmentation de %.0f%% des erreurs sur les 7 derniers jours (%d vs %d)", increase, recentErrors, olderErrors),
					Emoji:    "⚠️",
				})
			}
		}
	}

	// 頻繁に忘れられるアイテム（トップが5回以上）
	if len(stats.MostForgottenItems) > 0 {
		top := stats.MostForgottenItems[0]
		if top.Count >= 5 {
			alerts = append(alerts, models.Alert{
				Severity: models.SeverityWarning,
				Title:    "📌 Article fréquemment oublié",
				Message:  fmt.Sprintf("L'article '%s' a été oublié %d fois", top.Item, top.Count),
				Emoji:    "📌",
			})
		}
	}

	// エラーのピーク時間帯（最大値が3件以上、同数の時間は全て列挙）
	if len(stats.ErrorsByHour) > 0 {
		maxErrors := 0
		for _, count := range stats.ErrorsByHour {
			if count > maxErrors {
				maxErrors = count
			}
		}
		if maxErrors >= 3 {
			peakHours := []int{}
			for hour, count := range stats.ErrorsByHour {
				if count == maxErrors {
					peakHours = append(peakHours, hour)
				}
			}
			sort.Ints(peakHours)
			parts := make([]string, len(peakHours))
			for i, h := range peakHours {
				parts[i] = fmt.Sprintf("%dh", h)
			}
			alerts = append(alerts, models.Alert{
				Severity: models.SeverityInfo,
				Title:    "⏰ Heures critiques identifiées",
				Message:  fmt.Sprintf("Pic d'erreurs détecté aux heures: %s (%d erreurs)", strings.Join(parts, ", "), maxErrors),
				Emoji:    "⏰",
			})
		}
	}

	return alerts
}
