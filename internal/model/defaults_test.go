package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", DefaultModel(Gemini))
	assert.Equal(t, "openai/gpt-4o-mini", DefaultModel(OpenRouter))
	assert.Equal(t, "claude-3-5-haiku-20241022", DefaultModel(Claude))
	assert.Equal(t, "", DefaultModel(MLX), "mlx defers to the local server")
}

func TestIsKnown(t *testing.T) {
	for _, p := range Providers {
		assert.True(t, IsKnown(p), p)
	}
	assert.False(t, IsKnown("openai"))
	assert.False(t, IsKnown("Gemini"), "IsKnown is case sensitive; use Normalize first")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini", Gemini},
		{"  OpenRouter ", OpenRouter},
		{"CLAUDE", Claude},
		{"mlx", MLX},
		{"", Gemini},
		{"bogus", Gemini},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
