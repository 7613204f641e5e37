package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/CodexForgeBR/scenario-sim/internal/logging"
	"github.com/CodexForgeBR/scenario-sim/internal/model"
	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/ratelimit"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

const claudeMaxTokens = 1024

// ClaudeConfig configures the Claude provider.
type ClaudeConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional endpoint override
	Timeout time.Duration
}

// ClaudeProvider implements Provider on the Anthropic Messages API.
type ClaudeProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaudeProvider creates a Claude provider. SDK-level retries are off;
// RetryProvider owns retry policy.
func NewClaudeProvider(cfg ClaudeConfig) (*ClaudeProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = model.DefaultModel(model.Claude)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(cfg.Model),
	}, nil
}

// Name returns "claude".
func (c *ClaudeProvider) Name() string { return model.Claude }

// Model returns the configured model name.
func (c *ClaudeProvider) Model() string { return string(c.model) }

// ExtractScenario asks Claude for the parameter JSON object.
func (c *ClaudeProvider) ExtractScenario(ctx context.Context, text string) (*scenario.Params, error) {
	return extractWith(ctx, model.Claude, c.complete, text)
}

// Analyze returns Claude's narrative reply to req.
func (c *ClaudeProvider) Analyze(ctx context.Context, req prompt.Request) (string, error) {
	return analyzeWith(ctx, model.Claude, c.complete, req)
}

func (c *ClaudeProvider) complete(ctx context.Context, req prompt.Request, structured bool) (string, error) {
	temperature := analyzeTemperature
	if structured {
		temperature = extractTemperature
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Temperature: anthropic.Float(temperature),
	}

	logging.Debug(fmt.Sprintf("claude: messages.new model=%q structured=%t", c.model, structured))

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyClaudeError(err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("claude: unexpected response format: no text blocks")
	}
	return sb.String(), nil
}

// classifyClaudeError lifts SDK status errors into APIError so retry policy
// treats every provider alike.
func classifyClaudeError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("claude: %w", err)
	}

	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return &APIError{
		Provider:   model.Claude,
		StatusCode: apiErr.StatusCode,
		Body:       truncateBody([]byte(apiErr.Error())),
		RateLimit:  ratelimit.FromResponse(apiErr.StatusCode, header, time.Now()),
		Err:        err,
	}
}
