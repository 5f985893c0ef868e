package models

// CompareRequest represents a pure comparison request (no persistence)
type CompareRequest struct {
	Expected Order `json:"expected" binding:"required"`
	Detected Order `json:"detected" binding:"required"`
}

// ValidateRequest represents a validation request whose result is persisted
type ValidateRequest struct {
	Expected Order   `json:"expected" binding:"required"`
	Detected Order   `json:"detected" binding:"required"`
	Operator *string `json:"operator,omitempty"` // 検品担当者（任意）
}

// ExplanationRequest 検証結果の説明文生成リクエスト
type ExplanationRequest struct {
	Expected Order  `json:"expected" binding:"required"`
	Detected Order  `json:"detected" binding:"required"`
	Language string `json:"language,omitempty"` // 省略時は français
}

// SpeechRequest 音声合成リクエスト
type SpeechRequest struct {
	Text string `json:"text" binding:"required"`
}

// MealImageRequest デモ用の料理画像生成リクエスト
type MealImageRequest struct {
	Order Order `json:"order" binding:"required"`
}

// InsightsReport represents AI-generated recommendations for the dashboard
type InsightsReport struct {
	ReportID    string `json:"report_id"`
	GeneratedAt string `json:"generated_at"`
	Content     string `json:"content"`
	RecordCount int    `json:"record_count"`
	Model       string `json:"model,omitempty"`
}

// AIConfig AI機能のランタイム設定
type AIConfig struct {
	TextModel   string  `json:"text_model"`
	VisionModel string  `json:"vision_model"`
	SpeechModel string  `json:"speech_model"`
	ImageModel  string  `json:"image_model"`
	Voice       string  `json:"voice"`
	Temperature float32 `json:"temperature"`
}

// AIConfigUpdateRequest AI設定の部分更新リクエスト
type AIConfigUpdateRequest struct {
	TextModel   *string  `json:"text_model,omitempty"`
	VisionModel *string  `json:"vision_model,omitempty"`
	SpeechModel *string  `json:"speech_model,omitempty"`
	ImageModel  *string  `json:"image_model,omitempty"`
	Voice       *string  `json:"voice,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
}
