package model

import (
	"fmt"
	"strings"
)

// ValidateModel checks whether model is compatible with provider. label is
// a human-readable name for the flag being validated, used in error
// messages.
//
// Rules:
//   - Empty model is always allowed (the caller will apply defaults).
//   - Claude models must start with "claude-".
//   - Gemini models must start with "gemini" or "models/".
//   - OpenRouter models must be "vendor/name".
//   - MLX accepts anything the local server serves.
func ValidateModel(provider, model, label string) error {
	if model == "" {
		return nil
	}
	lower := strings.ToLower(model)

	switch provider {
	case Claude:
		if !strings.HasPrefix(lower, "claude-") {
			return fmt.Errorf("%s %q is not a claude model (expected claude-*)", label, model)
		}
	case Gemini:
		if !strings.HasPrefix(lower, "gemini") && !strings.HasPrefix(lower, "models/") {
			return fmt.Errorf("%s %q is not a gemini model (expected gemini-*)", label, model)
		}
	case OpenRouter:
		vendor, name, ok := strings.Cut(model, "/")
		if !ok || vendor == "" || name == "" {
			return fmt.Errorf("%s %q is not an openrouter model (expected vendor/name)", label, model)
		}
	case MLX:
	default:
		return fmt.Errorf("unknown provider %q (expected one of %s)", provider, strings.Join(Providers, ", "))
	}
	return nil
}
