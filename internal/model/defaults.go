// Package model provides provider and model helpers for scenario-sim.
//
// It centralises the provider identifiers, their default model names, and
// validation that a requested model is compatible with the chosen provider.
package model

import "strings"

// Provider identifiers accepted by --provider and LLM_PROVIDER.
const (
	Gemini     = "gemini"
	OpenRouter = "openrouter"
	Claude     = "claude"
	MLX        = "mlx"
)

// Providers lists every known provider in display order.
var Providers = []string{Gemini, OpenRouter, Claude, MLX}

var defaultModels = map[string]string{
	Gemini:     "gemini-2.5-flash",
	OpenRouter: "openai/gpt-4o-mini",
	Claude:     "claude-3-5-haiku-20241022",
}

// DefaultModel returns the default model for provider. MLX has none: the
// local server decides unless MLX_MODEL is set.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// IsKnown reports whether provider names a supported backend.
func IsKnown(provider string) bool {
	for _, p := range Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// Normalize lower-cases and trims provider, falling back to Gemini for
// empty or unknown values.
func Normalize(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if IsKnown(p) {
		return p
	}
	return Gemini
}
