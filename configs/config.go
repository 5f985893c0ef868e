package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Port                    string
	Environment             string
	DatabaseURL             string
	GeminiAPIKey            string
	GeminiEndpoint          string
	GeminiTextModel         string
	GeminiVisionModel       string
	GeminiSpeechModel       string
	GeminiImageModel        string
	GeminiVoice             string
	PromptsPath             string
	LogLevel                string
	ErrorRateThreshold      float64
	CompletionRateThreshold float64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Environment:             getEnv("ENVIRONMENT", "development"),
		DatabaseURL:             getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiEndpoint:          getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com"),
		GeminiTextModel:         getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash-lite"),
		GeminiVisionModel:       getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash-lite"),
		GeminiSpeechModel:       getEnv("GEMINI_SPEECH_MODEL", "gemini-2.5-flash-preview-tts"),
		GeminiImageModel:        getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiVoice:             getEnv("GEMINI_VOICE", "Orus"),
		PromptsPath:             getEnv("PROMPTS_PATH", "configs/prompts.yaml"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		ErrorRateThreshold:      getEnvFloat("ALERT_ERROR_RATE_THRESHOLD", 20.0),
		CompletionRateThreshold: getEnvFloat("ALERT_COMPLETION_RATE_THRESHOLD", 95.0),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
