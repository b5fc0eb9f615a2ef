package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/growthpath/backend/internal/config"
)

const anthropicVersion = "vertex-2023-10-16"

var ErrNotConfigured = errors.New("LLM_FARM_API_KEY is not configured")

// StatusError 表示 LLM 服务返回了非 2xx 状态码
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("LLM API returned status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL          string
	apiKey           string
	defaultModel     string
	defaultMaxTokens int
	client           *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:          cfg.LLM.BaseURL,
		apiKey:           cfg.LLM.APIKey,
		defaultModel:     cfg.LLM.DefaultModel,
		defaultMaxTokens: cfg.LLM.DefaultMaxTokens,
		client: &http.Client{
			Timeout: time.Duration(cfg.LLM.Timeout) * time.Second,
		},
	}
}

// ChatRequest 中的零值字段使用默认配置
type ChatRequest struct {
	UserContent   string
	SystemContent string
	Model         string
	MaxTokens     int
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type rawPredictRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	Messages         []message `json:"messages"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system,omitempty"`
}

func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) DefaultModel() string {
	return c.defaultModel
}

func (c *Client) Endpoint(model string) string {
	return c.baseURL + "/publishers/anthropic/models/" + model + ":rawPredict"
}

// ChatCompletion 只发送一次请求，不重试，原样返回服务端的 JSON
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (json.RawMessage, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.defaultMaxTokens
	}

	body, err := json.Marshal(rawPredictRequest{
		AnthropicVersion: anthropicVersion,
		Messages:         []message{{Role: "user", Content: req.UserContent}},
		MaxTokens:        maxTokens,
		System:           req.SystemContent,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(model), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if !json.Valid(respBody) {
		return nil, errors.New("LLM API returned a non-JSON response")
	}

	return json.RawMessage(respBody), nil
}

func (c *Client) RecommendSkills(ctx context.Context, currentSkills []string, targetRole, experienceLevel string) (json.RawMessage, error) {
	return c.ChatCompletion(ctx, ChatRequest{
		UserContent:   SkillRecommendationPrompt(currentSkills, targetRole, experienceLevel),
		SystemContent: SkillRecommendationSystemPrompt,
	})
}

func (c *Client) AnalyzeSkillGap(ctx context.Context, userSkills, requiredSkills []map[string]any) (json.RawMessage, error) {
	prompt, err := SkillGapPrompt(userSkills, requiredSkills)
	if err != nil {
		return nil, err
	}

	return c.ChatCompletion(ctx, ChatRequest{
		UserContent:   prompt,
		SystemContent: SkillGapSystemPrompt,
	})
}

type completion struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// ExtractText 读取 content[0].text 和 model，缺失时分别返回空字符串和 unknown
func ExtractText(raw json.RawMessage) (string, string, error) {
	var c completion
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", "", fmt.Errorf("decode completion: %w", err)
	}

	model := c.Model
	if model == "" {
		model = "unknown"
	}
	if len(c.Content) == 0 {
		return "", model, nil
	}
	return c.Content[0].Text, model, nil
}
