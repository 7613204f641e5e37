package ai

import (
	"os"

	"github.com/CodexForgeBR/scenario-sim/internal/model"
)

// apiKeyEnv lists, per provider, the environment variables holding its
// credential in lookup order.
var apiKeyEnv = map[string][]string{
	model.Gemini:     {"GEMINI_API_KEY", "API_KEY"},
	model.OpenRouter: {"OPENROUTER_API_KEY"},
	model.Claude:     {"ANTHROPIC_API_KEY"},
}

// APIKey returns the first non-empty credential for provider, or "".
func APIKey(provider string) string {
	for _, name := range apiKeyEnv[provider] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// CheckAvailability reports, per provider, whether it has what it needs to
// be constructed: an API key for hosted providers, a base URL for MLX.
// mlxBaseURL is the resolved MLX_BASE_URL setting.
func CheckAvailability(mlxBaseURL string, providers ...string) map[string]bool {
	result := make(map[string]bool, len(providers))
	for _, p := range providers {
		if p == model.MLX {
			result[p] = mlxBaseURL != ""
			continue
		}
		result[p] = APIKey(p) != ""
	}
	return result
}
