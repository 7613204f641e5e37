package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/CodexForgeBR/scenario-sim/internal/model"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	Model    string
	// BaseURL overrides the hosted endpoint. For MLX it is the server
	// address and is required.
	BaseURL string
	Timeout time.Duration
}

// NewProvider constructs the provider named by s.Provider. Unknown names
// fall back to Gemini; an empty Model uses the provider default.
func NewProvider(ctx context.Context, s Settings) (Provider, error) {
	provider, modelName := model.Resolve(s.Provider, s.Model)
	if err := model.ValidateModel(provider, modelName, "model"); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch provider {
	case model.OpenRouter:
		p, err = NewOpenRouterProvider(APIKey(provider), modelName, s.BaseURL, s.Timeout)
	case model.Claude:
		p, err = NewClaudeProvider(ClaudeConfig{
			APIKey:  APIKey(provider),
			Model:   modelName,
			BaseURL: s.BaseURL,
			Timeout: s.Timeout,
		})
	case model.MLX:
		p, err = NewMLXProvider(s.BaseURL, modelName, s.Timeout)
	case model.Gemini:
		p, err = NewGeminiProvider(ctx, GeminiConfig{
			APIKey:  APIKey(provider),
			Model:   modelName,
			BaseURL: s.BaseURL,
			Timeout: s.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
