package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/analysis/usecase"
)

// Client はDeepSeek chat completions APIを呼び出すクライアントです。
// CompanyAnalyzerとComparableFinderの両方を実装します。
type Client struct {
	cfg    Config
	client *http.Client
}

// コンパイル時のインターフェース実装検証。
var (
	_ usecase.CompanyAnalyzer  = (*Client)(nil)
	_ usecase.ComparableFinder = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// chatMessage はchat completionsのメッセージです。
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest はchat completionsのリクエストボディです。
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

// chatResponse はchat completionsのレスポンスボディです。
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete はJSONモードでchat completionを1回実行し、生成テキストを返します。
func (d *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if d.cfg.APIKey == "" {
		return "", fmt.Errorf("deepseek api key not configured")
	}

	reqBody := chatRequest{
		Model:       d.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	u := d.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)

	res, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek request failed: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("deepseek http %d: %s", res.StatusCode, truncate(string(body), 200))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode deepseek response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("deepseek: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// analyzePromptFormat は企業分析プロンプトです。返却キーはJSONで固定しています。
const analyzePromptFormat = `Generate a comprehensive business description for the following company and return a JSON object with these exact keys:
- description: a detailed narrative summary
- industry: primary industry or sector
- business_model: concise description of how the company makes money
- products_or_services: key products or services offered
- target_market: primary customer segments or verticals
- company_size: size/scale (employees, revenue band, or general descriptor)
- geographic_presence: key regions/countries of operation
- key_differentiators: brief list-style text of core differentiators

Company Name: %s
Company Website: %s`

// AnalyzeCompany は企業名とウェブサイトから構造化された企業説明を生成します。
func (d *Client) AnalyzeCompany(ctx context.Context, name, website string) (*entity.CompanyDescription, error) {
	prompt := fmt.Sprintf(analyzePromptFormat, name, website)

	content, err := d.complete(ctx, prompt, 1200)
	if err != nil {
		return nil, err
	}

	// LLM出力はコードフェンスや軽微な構文崩れを含むことがあるため修復してからパースする
	var desc entity.CompanyDescription
	if err := unmarshalRepaired(content, &desc); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}
	if desc.Description == "" {
		return nil, fmt.Errorf("analysis response missing description")
	}
	desc.Name = name
	desc.Website = website
	return &desc, nil
}

// comparablesPromptFormat は比較対象企業リストの生成プロンプトです。
const comparablesPromptFormat = `Based on the following company description, identify %d comparable public companies.

Company Description:
%s

For each comparable company, provide:
1. Company Name
2. Stock Ticker
3. Match Rationale (why this company is comparable - industry, business model, size, market focus, etc.)

Format the response as a JSON object with a "companies" array containing objects with 'name', 'ticker', and 'rationale' fields.`

// FindComparables は企業説明から比較対象の上場企業を特定します。
func (d *Client) FindComparables(ctx context.Context, description string, count int) ([]entity.ComparableCompany, error) {
	prompt := fmt.Sprintf(comparablesPromptFormat, count, description)

	content, err := d.complete(ctx, prompt, 2000)
	if err != nil {
		return nil, err
	}

	var out struct {
		Companies []entity.ComparableCompany `json:"companies"`
	}
	if err := unmarshalRepaired(content, &out); err != nil {
		return nil, fmt.Errorf("parse comparables response: %w", err)
	}
	return out.Companies, nil
}

// unmarshalRepaired はLLMが返したJSON文字列を修復してからデコードします。
func unmarshalRepaired(content string, v any) error {
	if err := json.Unmarshal([]byte(content), v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.RepairJSON(content)
	if err != nil {
		return fmt.Errorf("repair json: %w", err)
	}
	return json.Unmarshal([]byte(repaired), v)
}

// truncate はエラーメッセージ用に文字列を切り詰めます。
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
