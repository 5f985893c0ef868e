package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Client はGemini SDKクライアントのラッパー
type Client struct {
	client     *genai.Client
	log        *logrus.Logger
	maxRetries int
	retryDelay time.Duration
}

// ClientConfig はGeminiクライアントの設定
type ClientConfig struct {
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
}

// GenerateOptions は1回の生成リクエストに対する設定
type GenerateOptions struct {
	Model       string
	Temperature float32
	JSONOutput  bool
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg ClientConfig, log *logrus.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	log.Infof("🤖 Geminiクライアントを初期化しました (max_retries=%d)", cfg.MaxRetries)

	return &Client{
		client:     client,
		log:        log,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateText はテキストプロンプトから応答を生成する
func (c *Client) GenerateText(ctx context.Context, opts GenerateOptions, prompt string) (string, error) {
	return c.generate(ctx, opts, genai.Text(prompt))
}

// GenerateFromImage は画像とプロンプトから応答を生成する
// imageFormat は "png" や "jpeg" などのサブタイプを指定する
func (c *Client) GenerateFromImage(ctx context.Context, opts GenerateOptions, prompt string, imageFormat string, image []byte) (string, error) {
	return c.generate(ctx, opts, genai.ImageData(imageFormat, image), genai.Text(prompt))
}

// generate はリトライ付きで生成リクエストを実行する
func (c *Client) generate(ctx context.Context, opts GenerateOptions, parts ...genai.Part) (string, error) {
	if opts.Model == "" {
		return "", fmt.Errorf("gemini model name is required")
	}

	model := c.client.GenerativeModel(opts.Model)
	model.SetTemperature(opts.Temperature)
	if opts.JSONOutput {
		model.ResponseMIMEType = "application/json"
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warnf("⚠️ Geminiリクエストをリトライ: attempt=%d/%d model=%s", attempt+1, c.maxRetries, opts.Model)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = fmt.Errorf("gemini API error: %w", err)
			c.log.Errorf("❌ Gemini APIエラー (attempt=%d): %v", attempt+1, err)
			continue
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("empty response from gemini")
			c.log.Errorf("❌ Geminiから空の応答 (attempt=%d)", attempt+1)
			continue
		}

		textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
		if !ok {
			lastErr = fmt.Errorf("unexpected response type from gemini")
			c.log.Errorf("❌ Geminiから想定外の応答型 (attempt=%d)", attempt+1)
			continue
		}

		text := strings.TrimSpace(string(textPart))
		if opts.JSONOutput {
			text = StripCodeFence(text)
		}
		if text == "" {
			lastErr = fmt.Errorf("blank response from gemini")
			continue
		}

		return text, nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// StripCodeFence はMarkdownコードフェンスに包まれた応答から中身を取り出す
func StripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
