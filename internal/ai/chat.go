package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CodexForgeBR/scenario-sim/internal/logging"
	"github.com/CodexForgeBR/scenario-sim/internal/model"
	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/ratelimit"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterReferer = "https://github.com/CodexForgeBR/scenario-sim"
	openRouterTitle   = "AUPRC Clinical Simulator"
)

// ChatConfig configures an OpenAI-compatible chat completions backend.
type ChatConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	Headers map[string]string
	Timeout time.Duration
}

// ChatProvider implements Provider over the OpenAI chat completions wire
// format. OpenRouter and local MLX servers both speak it.
type ChatProvider struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	headers    map[string]string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model,omitempty"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewChatProvider creates a chat completions provider.
func NewChatProvider(cfg ChatConfig) *ChatProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChatProvider{
		name:       cfg.Name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		headers:    cfg.Headers,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewOpenRouterProvider creates an OpenRouter provider. baseURL may be empty
// to use the public endpoint.
func NewOpenRouterProvider(apiKey, modelName, baseURL string, timeout time.Duration) (*ChatProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENROUTER_API_KEY", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	if modelName == "" {
		modelName = model.DefaultModel(model.OpenRouter)
	}
	return NewChatProvider(ChatConfig{
		Name:    model.OpenRouter,
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
		Headers: map[string]string{
			"HTTP-Referer": openRouterReferer,
			"X-Title":      openRouterTitle,
		},
		Timeout: timeout,
	}), nil
}

// NewMLXProvider creates a provider for a local MLX server. The model may be
// empty, in which case the server's loaded model answers.
func NewMLXProvider(baseURL, modelName string, timeout time.Duration) (*ChatProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("MLX %w: set MLX_BASE_URL", ErrNotConfigured)
	}
	return NewChatProvider(ChatConfig{
		Name:    model.MLX,
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: timeout,
	}), nil
}

// Name returns the provider identifier.
func (c *ChatProvider) Name() string { return c.name }

// Model returns the configured model name.
func (c *ChatProvider) Model() string { return c.model }

// ExtractScenario asks the model for the parameter JSON object.
func (c *ChatProvider) ExtractScenario(ctx context.Context, text string) (*scenario.Params, error) {
	return extractWith(ctx, c.name, c.complete, text)
}

// Analyze returns the model's narrative reply to req.
func (c *ChatProvider) Analyze(ctx context.Context, req prompt.Request) (string, error) {
	return analyzeWith(ctx, c.name, c.complete, req)
}

func (c *ChatProvider) complete(ctx context.Context, req prompt.Request, structured bool) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: analyzeTemperature,
	}
	if structured {
		body.Temperature = extractTemperature
		body.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", c.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", c.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	logging.Debug(fmt.Sprintf("%s: POST %s model=%q structured=%t", c.name, httpReq.URL.Path, c.model, structured))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{
			Provider:   c.name,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(raw),
			RateLimit:  ratelimit.FromResponse(resp.StatusCode, resp.Header, time.Now()),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%s: %w: no choices", c.name, ErrEmptyReply)
	}
	return decoded.Choices[0].Message.Content, nil
}
