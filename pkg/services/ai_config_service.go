package services

import (
	"fmt"
	"sync"

	config "staff-meal-api/configs"
	"staff-meal-api/pkg/models"
)

// デフォルトの生成温度(検出の安定性を優先して低めに設定)
const defaultTemperature float32 = 0.3

// AIConfigService はAI機能のランタイム設定を保持する。
// ダッシュボードから動作中に変更できるため、読み書きをロックで保護する。
type AIConfigService struct {
	mu     sync.RWMutex
	config models.AIConfig
}

// NewAIConfigService は環境設定を初期値としてサービスを作成する
func NewAIConfigService(cfg *config.Config) *AIConfigService {
	return &AIConfigService{
		config: models.AIConfig{
			TextModel:   cfg.GeminiTextModel,
			VisionModel: cfg.GeminiVisionModel,
			SpeechModel: cfg.GeminiSpeechModel,
			ImageModel:  cfg.GeminiImageModel,
			Voice:       cfg.GeminiVoice,
			Temperature: defaultTemperature,
		},
	}
}

// Get は現在の設定のスナップショットを返す
func (s *AIConfigService) Get() models.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update は部分更新を検証してから適用し、更新後の設定を返す
func (s *AIConfigService) Update(req *models.AIConfigUpdateRequest) (models.AIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.config

	if req.TextModel != nil {
		if *req.TextModel == "" {
			return models.AIConfig{}, fmt.Errorf("text_model must not be empty")
		}
		updated.TextModel = *req.TextModel
	}
	if req.VisionModel != nil {
		if *req.VisionModel == "" {
			return models.AIConfig{}, fmt.Errorf("vision_model must not be empty")
		}
		updated.VisionModel = *req.VisionModel
	}
	if req.SpeechModel != nil {
		if *req.SpeechModel == "" {
			return models.AIConfig{}, fmt.Errorf("speech_model must not be empty")
		}
		updated.SpeechModel = *req.SpeechModel
	}
	if req.ImageModel != nil {
		if *req.ImageModel == "" {
			return models.AIConfig{}, fmt.Errorf("image_model must not be empty")
		}
		updated.ImageModel = *req.ImageModel
	}
	if req.Voice != nil {
		if *req.Voice == "" {
			return models.AIConfig{}, fmt.Errorf("voice must not be empty")
		}
		updated.Voice = *req.Voice
	}
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 2 {
			return models.AIConfig{}, fmt.Errorf("temperature must be between 0 and 2")
		}
		updated.Temperature = *req.Temperature
	}

	s.config = updated
	return updated, nil
}
