package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/gemini"
	"staff-meal-api/pkg/models"
)

// ErrAINotConfigured はGemini APIキーが未設定のまま AI 機能を呼んだときに返される
var ErrAINotConfigured = errors.New("AI service is not configured")

// ErrNoItemsDetected は画像からメニュー上の品目を1つも検出できなかったときに返される
var ErrNoItemsDetected = errors.New("no items detected in image")

// AIService はGeminiを使った注文検出・説明文生成・インサイト・音声合成・画像生成を提供する
type AIService struct {
	client  *gemini.Client
	rest    *gemini.RESTClient
	prompts *config.PromptsConfig
	state   *AIConfigService
	log     *logrus.Logger
}

// NewAIService は新しいAIサービスを作成する。
// clientとrestはAPIキー未設定のときnilのままでよく、各メソッドがErrAINotConfiguredを返す。
func NewAIService(client *gemini.Client, rest *gemini.RESTClient, prompts *config.PromptsConfig, state *AIConfigService, log *logrus.Logger) *AIService {
	return &AIService{
		client:  client,
		rest:    rest,
		prompts: prompts,
		state:   state,
		log:     log,
	}
}

// Available はGeminiクライアントが構成済みかどうかを返す
func (s *AIService) Available() bool {
	return s.client != nil && s.rest != nil && s.prompts != nil
}

// detectedOrderPayload はGeminiのJSON応答を緩く受けるための中間形式
type detectedOrderPayload struct {
	OrderID string `json:"order_id"`
	Source  string `json:"source"`
	Items   []struct {
		Item     string `json:"item"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

// DetectOrderFromImage は袋の中身の写真から注文内容を検出する。
// expectedが指定された場合、検出結果のIDとソースは期待注文に揃えられる。
// 数量0以下の行はそのまま返す(除外は検品時に行う)。
func (s *AIService) DetectOrderFromImage(ctx context.Context, image []byte, mimeType string, expected *models.Order) (*models.Order, error) {
	if s.client == nil || s.prompts == nil {
		return nil, ErrAINotConfigured
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	var expectedCtx *config.ExpectedOrderContext
	if expected != nil {
		expectedCtx = &config.ExpectedOrderContext{
			OrderID: expected.OrderID,
			Source:  string(expected.Source),
			Lines:   orderLines(expected),
		}
	}
	prompt := s.prompts.BuildDetectionPrompt(menuItemLabels(), expectedCtx)

	cfg := s.state.Get()
	raw, err := s.client.GenerateFromImage(ctx, gemini.GenerateOptions{
		Model:       cfg.VisionModel,
		Temperature: cfg.Temperature,
		JSONOutput:  true,
	}, prompt, imageFormat(mimeType), image)
	if err != nil {
		return nil, fmt.Errorf("failed to detect order from image: %w", err)
	}

	var payload detectedOrderPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse detection response: %w", err)
	}

	order := &models.Order{
		OrderID: payload.OrderID,
		Source:  models.OrderSource(payload.Source),
	}
	for _, entry := range payload.Items {
		item := models.MenuItem(entry.Item)
		if !item.IsValid() {
			s.log.Warnf("⚠️ メニューにない品目を無視: %q", entry.Item)
			continue
		}
		order.Items = append(order.Items, models.OrderItem{Item: item, Quantity: entry.Quantity})
	}

	// 期待注文があればIDとソースを揃える
	if expected != nil {
		order.OrderID = expected.OrderID
		order.Source = expected.Source
	}

	if len(order.Items) == 0 {
		return nil, ErrNoItemsDetected
	}

	s.log.Infof("📷 画像から注文を検出: order_id=%s items=%d model=%s", order.OrderID, len(order.Items), cfg.VisionModel)
	return order, nil
}

// GenerateInsights は統計とレコードから改善推奨事項を生成する。
// レコードが空の場合はプロバイダを呼ばずに固定メッセージを返す。
func (s *AIService) GenerateInsights(ctx context.Context, stats *models.Statistics, records []models.ValidationRecord) (*models.InsightsReport, error) {
	if s.prompts == nil {
		return nil, ErrAINotConfigured
	}

	if len(records) == 0 {
		return &models.InsightsReport{
			ReportID:    uuid.New().String(),
			GeneratedAt: time.Now().Format(time.RFC3339),
			Content:     s.prompts.Insights.EmptyMessage,
			RecordCount: 0,
		}, nil
	}

	if s.client == nil {
		return nil, ErrAINotConfigured
	}

	cfg := s.state.Get()
	prompt := s.prompts.BuildInsightsPrompt(insightsDataLines(stats, records))

	content, err := s.client.GenerateText(ctx, gemini.GenerateOptions{
		Model:       cfg.TextModel,
		Temperature: cfg.Temperature,
	}, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}

	s.log.Infof("💡 インサイトを生成: records=%d model=%s", len(records), cfg.TextModel)

	return &models.InsightsReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Content:     content,
		RecordCount: len(records),
		Model:       cfg.TextModel,
	}, nil
}

// ExplainValidation は期待注文と検出注文の差分を自然文で説明する
func (s *AIService) ExplainValidation(ctx context.Context, expected, detected *models.Order, language string) (string, error) {
	if s.client == nil || s.prompts == nil {
		return "", ErrAINotConfigured
	}
	if language == "" {
		language = "français"
	}

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		return "", fmt.Errorf("failed to marshal expected order: %w", err)
	}
	detectedJSON, err := json.Marshal(detected)
	if err != nil {
		return "", fmt.Errorf("failed to marshal detected order: %w", err)
	}

	prompt := s.prompts.BuildExplanationPrompt(string(expectedJSON), string(detectedJSON), language)

	cfg := s.state.Get()
	explanation, err := s.client.GenerateText(ctx, gemini.GenerateOptions{
		Model:       cfg.TextModel,
		Temperature: cfg.Temperature,
	}, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate explanation: %w", err)
	}

	s.log.Infof("💬 説明文を生成: order_id=%s language=%s", expected.OrderID, language)
	return explanation, nil
}

// SynthesizeSpeech はテキストを音声に変換し、WAV形式で返す
func (s *AIService) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if s.rest == nil {
		return nil, ErrAINotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text must not be empty")
	}

	cfg := s.state.Get()
	audio, mimeType, err := s.rest.SynthesizeSpeech(ctx, cfg.SpeechModel, cfg.Voice, text)
	if err != nil {
		return nil, err
	}

	// APIは生のリニアPCMを返すため、ブラウザ再生用にWAVヘッダを付与する
	if strings.Contains(mimeType, "L16") || strings.Contains(mimeType, "pcm") {
		audio = gemini.PCMToWAV(audio, gemini.ParseSampleRate(mimeType), 1, 16)
	}

	s.log.Infof("🔊 音声を合成: chars=%d bytes=%d voice=%s", len(text), len(audio), cfg.Voice)
	return audio, nil
}

// GenerateMealImage はデモ用に注文内容の料理画像を生成する
func (s *AIService) GenerateMealImage(ctx context.Context, order *models.Order) ([]byte, string, error) {
	if s.rest == nil || s.prompts == nil {
		return nil, "", ErrAINotConfigured
	}
	if err := order.Validate(); err != nil {
		return nil, "", err
	}

	prompt := s.prompts.BuildMealImagePrompt(orderLines(order), menuItemLabels())

	cfg := s.state.Get()
	image, mimeType, err := s.rest.GenerateImage(ctx, cfg.ImageModel, prompt)
	if err != nil {
		return nil, "", err
	}

	s.log.Infof("🎨 料理画像を生成: order_id=%s bytes=%d model=%s", order.OrderID, len(image), cfg.ImageModel)
	return image, mimeType, nil
}

// insightsDataLines はインサイトプロンプトに埋め込むデータ行を組み立てる
func insightsDataLines(stats *models.Statistics, records []models.ValidationRecord) []string {
	// よく忘れられる品目(上位5件)
	mostForgotten := "Aucun"
	if len(stats.MostForgottenItems) > 0 {
		top := stats.MostForgottenItems
		if len(top) > 5 {
			top = top[:5]
		}
		parts := make([]string, 0, len(top))
		for _, fi := range top {
			parts = append(parts, fmt.Sprintf("%s (%dx)", fi.Item, fi.Count))
		}
		mostForgotten = strings.Join(parts, ", ")
	}

	// エラーが集中する時間帯
	peakHoursStr := "Aucun"
	if len(stats.ErrorsByHour) > 0 {
		maxErrors := 0
		for _, count := range stats.ErrorsByHour {
			if count > maxErrors {
				maxErrors = count
			}
		}
		if maxErrors > 0 {
			var peakHours []int
			for hour, count := range stats.ErrorsByHour {
				if count == maxErrors {
					peakHours = append(peakHours, hour)
				}
			}
			sort.Ints(peakHours)
			parts := make([]string, len(peakHours))
			for i, hour := range peakHours {
				parts[i] = fmt.Sprintf("%d", hour)
			}
			peakHoursStr = strings.Join(parts, ", ")
		}
	}

	// エラーが集中する曜日
	peakDaysStr := "Aucun"
	if len(stats.ErrorsByDay) > 0 {
		maxErrors := 0
		for _, count := range stats.ErrorsByDay {
			if count > maxErrors {
				maxErrors = count
			}
		}
		if maxErrors > 0 {
			var peakDays []string
			for _, day := range weekdayNames {
				if stats.ErrorsByDay[day] == maxErrors {
					peakDays = append(peakDays, day)
				}
			}
			if len(peakDays) > 0 {
				peakDaysStr = strings.Join(peakDays, ", ")
			}
		}
	}

	// エラー種別ごとの件数
	var missingCount, tooFewCount, tooManyCount, extraCount int
	for _, record := range records {
		if record.IsComplete {
			continue
		}
		missingCount += len(record.ComparisonResult.MissingItems)
		tooFewCount += len(record.ComparisonResult.TooFewItems)
		tooManyCount += len(record.ComparisonResult.TooManyItems)
		extraCount += len(record.ComparisonResult.ExtraItems)
	}

	severity := "🟢 OK"
	switch {
	case stats.ErrorRate > 20:
		severity = "🔴 CRITIQUE"
	case stats.ErrorRate > 10:
		severity = "🟡 ATTENTION"
	}

	return []string{
		fmt.Sprintf("%d commandes | %d complètes | %.1f%% erreurs %s",
			stats.TotalOrders, stats.CompleteOrders, stats.ErrorRate, severity),
		fmt.Sprintf("Articles oubliés: %s", mostForgotten),
		fmt.Sprintf("Erreurs: %d manquants | %d insuffisants | %d excès | %d supplémentaires",
			missingCount, tooFewCount, tooManyCount, extraCount),
		fmt.Sprintf("Pic d'erreurs: %sh | %s", peakHoursStr, peakDaysStr),
	}
}

// menuItemLabels はプロンプト用にメニュー名の一覧を返す
func menuItemLabels() []string {
	items := models.AllMenuItems()
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = string(item)
	}
	return labels
}

// orderLines は「2x Boite de 6 Maki」形式の行を返す
func orderLines(order *models.Order) []string {
	lines := make([]string, len(order.Items))
	for i, item := range order.Items {
		lines[i] = item.String()
	}
	return lines
}

// imageFormat はMIMEタイプからSDKが期待するフォーマット名を取り出す
func imageFormat(mimeType string) string {
	if format, ok := strings.CutPrefix(mimeType, "image/"); ok && format != "" {
		return format
	}
	return "jpeg"
}
