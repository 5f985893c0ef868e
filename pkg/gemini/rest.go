package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RESTClient はGemini REST API (v1beta) へのリクエストを管理します。
// 音声合成と画像生成はSDKが対応していないresponseModalitiesを使うため、
// REST APIを直接呼び出します。
type RESTClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTClient は新しいGemini RESTクライアントを作成します。
// baseURLには通常 https://generativelanguage.googleapis.com を設定します。
func NewRESTClient(baseURL, apiKey string) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- データ構造定義 ---

type generateContentRequest struct {
	Contents         []restContent         `json:"contents"`
	GenerationConfig *restGenerationConfig `json:"generationConfig,omitempty"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inlineData,omitempty"`
}

type restInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities,omitempty"`
	SpeechConfig       *restSpeechConfig `json:"speechConfig,omitempty"`
}

type restSpeechConfig struct {
	VoiceConfig restVoiceConfig `json:"voiceConfig"`
}

type restVoiceConfig struct {
	PrebuiltVoiceConfig restPrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type restPrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []restPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// restErrorResponse エラーレスポンス
type restErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// --- メソッド定義 ---

// SynthesizeSpeech はテキストから音声を生成します。
// 戻り値はデコード済みの音声データ(通常は24kHz 16bitのリニアPCM)とMIMEタイプです。
func (c *RESTClient) SynthesizeSpeech(ctx context.Context, model, voice, text string) ([]byte, string, error) {
	request := generateContentRequest{
		Contents: []restContent{
			{Parts: []restPart{{Text: text}}},
		},
		GenerationConfig: &restGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &restSpeechConfig{
				VoiceConfig: restVoiceConfig{
					PrebuiltVoiceConfig: restPrebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	data, mimeType, err := c.generateInlineData(ctx, model, request)
	if err != nil {
		return nil, "", fmt.Errorf("音声合成に失敗: %w", err)
	}
	return data, mimeType, nil
}

// GenerateImage はプロンプトから画像を生成します。
// 戻り値はデコード済みの画像データ(通常はPNG)とMIMEタイプです。
func (c *RESTClient) GenerateImage(ctx context.Context, model, prompt string) ([]byte, string, error) {
	request := generateContentRequest{
		Contents: []restContent{
			{Parts: []restPart{{Text: prompt}}},
		},
		GenerationConfig: &restGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	data, mimeType, err := c.generateInlineData(ctx, model, request)
	if err != nil {
		return nil, "", fmt.Errorf("画像生成に失敗: %w", err)
	}
	return data, mimeType, nil
}

// generateInlineData は生成リクエストを実行し、応答からinlineDataパートを取り出します。
func (c *RESTClient) generateInlineData(ctx context.Context, model string, request generateContentRequest) ([]byte, string, error) {
	var response generateContentResponse
	if err := c.doRequest(ctx, model, request, &response); err != nil {
		return nil, "", err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("inlineDataのデコードに失敗: %w", err)
			}
			return data, part.InlineData.MIMEType, nil
		}
	}

	return nil, "", fmt.Errorf("応答にinlineDataが含まれていません")
}

// doRequest はHTTPリクエストの実行と基本的なレスポンス処理を行う共通メソッドです。
func (c *RESTClient) doRequest(ctx context.Context, model string, requestData interface{}, responseData interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("API key が設定されていません")
	}

	requestBody, err := json.Marshal(requestData)
	if err != nil {
		return fmt.Errorf("リクエストのJSON化に失敗: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの実行に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp restErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return fmt.Errorf("Gemini API エラー (status: %d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return fmt.Errorf("Gemini API エラー (status: %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, responseData); err != nil {
		return fmt.Errorf("レスポンスのJSON解析に失敗: %w", err)
	}

	return nil
}
