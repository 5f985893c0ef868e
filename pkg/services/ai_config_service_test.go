package services

import (
	"testing"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAIConfigService() *AIConfigService {
	cfg := &config.Config{
		GeminiTextModel:   "gemini-2.5-flash-lite",
		GeminiVisionModel: "gemini-2.5-flash-lite",
		GeminiSpeechModel: "gemini-2.5-flash-preview-tts",
		GeminiImageModel:  "gemini-2.5-flash-image",
		GeminiVoice:       "Orus",
	}
	return NewAIConfigService(cfg)
}

func TestAIConfigDefaults(t *testing.T) {
	svc := newTestAIConfigService()

	got := svc.Get()
	assert.Equal(t, "gemini-2.5-flash-lite", got.TextModel)
	assert.Equal(t, "gemini-2.5-flash-preview-tts", got.SpeechModel)
	assert.Equal(t, "Orus", got.Voice)
	assert.Equal(t, float32(0.3), got.Temperature)
}

func TestAIConfigPartialUpdate(t *testing.T) {
	svc := newTestAIConfigService()

	voice := "Kore"
	temperature := float32(0.9)
	updated, err := svc.Update(&models.AIConfigUpdateRequest{
		Voice:       &voice,
		Temperature: &temperature,
	})
	require.NoError(t, err)

	assert.Equal(t, "Kore", updated.Voice)
	assert.Equal(t, float32(0.9), updated.Temperature)
	// 指定していない項目は据え置き
	assert.Equal(t, "gemini-2.5-flash-lite", updated.TextModel)
	assert.Equal(t, "gemini-2.5-flash-image", updated.ImageModel)

	// Getでも更新後の値が見える
	assert.Equal(t, updated, svc.Get())
}

func TestAIConfigUpdateRejectsEmptyModel(t *testing.T) {
	svc := newTestAIConfigService()

	empty := ""
	_, err := svc.Update(&models.AIConfigUpdateRequest{TextModel: &empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text_model")

	// 失敗した更新は部分的にも適用されない
	assert.Equal(t, "gemini-2.5-flash-lite", svc.Get().TextModel)
}

func TestAIConfigUpdateRejectsOutOfRangeTemperature(t *testing.T) {
	svc := newTestAIConfigService()

	for _, temperature := range []float32{-0.1, 2.1} {
		temp := temperature
		_, err := svc.Update(&models.AIConfigUpdateRequest{Temperature: &temp})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	}

	// 境界値は許容される
	for _, temperature := range []float32{0, 2} {
		temp := temperature
		_, err := svc.Update(&models.AIConfigUpdateRequest{Temperature: &temp})
		require.NoError(t, err)
	}
}

func TestAIConfigUpdateAtomicOnError(t *testing.T) {
	svc := newTestAIConfigService()

	voice := "Kore"
	bad := float32(5)
	_, err := svc.Update(&models.AIConfigUpdateRequest{
		Voice:       &voice,
		Temperature: &bad,
	})
	require.Error(t, err)
	// エラー時はvoiceの変更も巻き戻る
	assert.Equal(t, "Orus", svc.Get().Voice)
}
