package model

// Resolve normalizes provider and fills in its default model when model is
// empty.
func Resolve(provider, model string) (string, string) {
	provider = Normalize(provider)
	if model == "" {
		model = DefaultModel(provider)
	}
	return provider, model
}

// ModelFor picks the model configured for provider from the per-provider
// settings, falling back to the provider default.
func ModelFor(provider string, overrides map[string]string) string {
	if m := overrides[provider]; m != "" {
		return m
	}
	return DefaultModel(provider)
}
