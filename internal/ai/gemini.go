package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/CodexForgeBR/scenario-sim/internal/logging"
	"github.com/CodexForgeBR/scenario-sim/internal/model"
	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional endpoint override
	Timeout time.Duration
}

// GeminiProvider implements Provider on the Google GenAI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY or API_KEY", ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = model.DefaultModel(model.Gemini)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

// Name returns "gemini".
func (g *GeminiProvider) Name() string { return model.Gemini }

// Model returns the configured model name.
func (g *GeminiProvider) Model() string { return g.model }

// ExtractScenario asks Gemini for the parameter object under a response
// schema.
func (g *GeminiProvider) ExtractScenario(ctx context.Context, text string) (*scenario.Params, error) {
	return extractWith(ctx, model.Gemini, g.complete, text)
}

// Analyze returns Gemini's narrative reply to req.
func (g *GeminiProvider) Analyze(ctx context.Context, req prompt.Request) (string, error) {
	return analyzeWith(ctx, model.Gemini, g.complete, req)
}

func (g *GeminiProvider) complete(ctx context.Context, req prompt.Request, structured bool) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](analyzeTemperature),
	}
	if structured {
		config.Temperature = genai.Ptr[float32](extractTemperature)
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = paramsSchema()
	}

	logging.Debug(fmt.Sprintf("gemini: generateContent model=%q structured=%t", g.model, structured))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.User), config)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return resp.Text(), nil
}

// paramsSchema describes the extraction reply: every key optional, every
// value a nullable integer.
func paramsSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(paramFields))
	for _, f := range paramFields {
		props[f.key] = &genai.Schema{
			Type:     genai.TypeInteger,
			Nullable: genai.Ptr(true),
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
	}
}

// classifyGeminiError lifts SDK status errors into APIError. The SDK does not
// expose response headers, so RateLimit stays nil and throttling falls back
// to exponential backoff.
func classifyGeminiError(err error) error {
	code, msg := 0, ""
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, msg = apiErr.Code, apiErr.Message
	case errors.As(err, &apiErrPtr):
		code, msg = apiErrPtr.Code, apiErrPtr.Message
	default:
		return fmt.Errorf("gemini: generate content: %w", err)
	}
	return &APIError{
		Provider:   model.Gemini,
		StatusCode: code,
		Body:       truncateBody([]byte(msg)),
		Err:        err,
	}
}
