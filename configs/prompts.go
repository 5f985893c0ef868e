package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptsConfig はprompts.yamlの構造を定義
type PromptsConfig struct {
	Detection struct {
		Role              string   `yaml:"role"`
		CountingRules     []string `yaml:"counting_rules"`
		Instructions      []string `yaml:"instructions"`
		OutputFormat      string   `yaml:"output_format"`
		ExpectedOrderNote string   `yaml:"expected_order_note"`
	} `yaml:"detection"`

	Explanation struct {
		Role         string `yaml:"role"`
		LanguageNote string `yaml:"language_note"`
	} `yaml:"explanation"`

	Insights struct {
		Role         string   `yaml:"role"`
		EmptyMessage string   `yaml:"empty_message"`
		DataHeader   string   `yaml:"data_header"`
		FormatHeader string   `yaml:"format_header"`
		FormatRules  []string `yaml:"format_rules"`
		Closing      string   `yaml:"closing"`
	} `yaml:"insights"`

	MealImage struct {
		Intro              string   `yaml:"intro"`
		RequirementsHeader string   `yaml:"requirements_header"`
		Requirements       []string `yaml:"requirements"`
		MenuHeader         string   `yaml:"menu_header"`
		PackagingHeader    string   `yaml:"packaging_header"`
		PackagingRules     []string `yaml:"packaging_rules"`
		StyleHeader        string   `yaml:"style_header"`
		Style              []string `yaml:"style"`
		Outro              string   `yaml:"outro"`
	} `yaml:"meal_image"`
}

// ExpectedOrderContext は検出プロンプトに埋め込む期待注文の情報
type ExpectedOrderContext struct {
	OrderID string
	Source  string
	Lines   []string // 「2x Boite de 6 Maki」形式の行
}

var cachedPrompts *PromptsConfig

// LoadPrompts はYAMLファイルからプロンプト定義を読み込む
func LoadPrompts(path string) (*PromptsConfig, error) {
	if cachedPrompts != nil {
		return cachedPrompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("プロンプト定義ファイルの読み込みに失敗: %w", err)
	}

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}

	cachedPrompts = &config
	return cachedPrompts, nil
}

// BuildDetectionPrompt は袋画像から注文を検出するためのプロンプトを構築
func (c *PromptsConfig) BuildDetectionPrompt(menuItems []string, expected *ExpectedOrderContext) string {
	var sb strings.Builder

	sb.WriteString(c.Detection.Role)
	sb.WriteString("\n\n")

	// メニュー一覧
	sb.WriteString("Available menu items:\n")
	for _, item := range menuItems {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	sb.WriteString("\n")

	// 数え方のルール(箱単位で数える)
	sb.WriteString("CRITICAL COUNTING INSTRUCTIONS:\n")
	for _, rule := range c.Detection.CountingRules {
		sb.WriteString(fmt.Sprintf("- %s\n", rule))
	}
	sb.WriteString("\n")

	sb.WriteString("Important instructions:\n")
	for _, inst := range c.Detection.Instructions {
		sb.WriteString(fmt.Sprintf("- %s\n", inst))
	}
	sb.WriteString("\n")

	sb.WriteString(c.Detection.OutputFormat)
	sb.WriteString("\n")

	// 期待注文があれば照合用のコンテキストを追加
	if expected != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Expected order (ID: %s, Source: %s):\n", expected.OrderID, expected.Source))
		for _, line := range expected.Lines {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
		sb.WriteString("\n")
		sb.WriteString(c.Detection.ExpectedOrderNote)
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildExplanationPrompt は検証結果の説明文生成用プロンプトを構築
func (c *PromptsConfig) BuildExplanationPrompt(expectedJSON, detectedJSON, language string) string {
	var sb strings.Builder

	sb.WriteString(c.Explanation.Role)
	sb.WriteString("\n\n")
	sb.WriteString("Expected order:\n")
	sb.WriteString(expectedJSON)
	sb.WriteString("\n\n")
	sb.WriteString("Detected order:\n")
	sb.WriteString(detectedJSON)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf(c.Explanation.LanguageNote, language))

	return sb.String()
}

// BuildInsightsPrompt はダッシュボード向け推奨事項生成用プロンプトを構築
func (c *PromptsConfig) BuildInsightsPrompt(dataLines []string) string {
	var sb strings.Builder

	sb.WriteString(c.Insights.Role)
	sb.WriteString("\n\n")
	sb.WriteString(c.Insights.DataHeader)
	sb.WriteString("\n")
	for _, line := range dataLines {
		sb.WriteString(fmt.Sprintf("• %s\n", line))
	}
	sb.WriteString("\n")
	sb.WriteString(c.Insights.FormatHeader)
	sb.WriteString("\n")
	for _, rule := range c.Insights.FormatRules {
		sb.WriteString(rule)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(c.Insights.Closing)

	return sb.String()
}

// BuildMealImagePrompt はデモ用の料理画像生成プロンプトを構築
func (c *PromptsConfig) BuildMealImagePrompt(orderLines, menuItems []string) string {
	var sb strings.Builder

	sb.WriteString(c.MealImage.Intro)
	sb.WriteString("\n\n")
	for _, line := range orderLines {
		sb.WriteString(fmt.Sprintf("- %s\n", line))
	}
	sb.WriteString("\n")

	sb.WriteString(c.MealImage.RequirementsHeader)
	sb.WriteString("\n")
	for _, req := range c.MealImage.Requirements {
		sb.WriteString(fmt.Sprintf("- %s\n", req))
	}
	sb.WriteString("\n")

	sb.WriteString(c.MealImage.MenuHeader)
	sb.WriteString("\n")
	for _, item := range menuItems {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	sb.WriteString("\n")

	sb.WriteString(c.MealImage.PackagingHeader)
	sb.WriteString("\n")
	for _, rule := range c.MealImage.PackagingRules {
		sb.WriteString(fmt.Sprintf("- %s\n", rule))
	}
	sb.WriteString("\n")

	sb.WriteString(c.MealImage.StyleHeader)
	sb.WriteString("\n")
	for _, style := range c.MealImage.Style {
		sb.WriteString(fmt.Sprintf("- %s\n", style))
	}
	sb.WriteString("\n")

	sb.WriteString(c.MealImage.Outro)

	return sb.String()
}
