// Package config defines the scenario-sim configuration model and default
// values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides. API keys are never read from
// config files; they come from the environment only.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/CodexForgeBR/scenario-sim/internal/model"
)

// ProjectConfigFile is the project-level config file name, looked up in the
// working directory.
const ProjectConfigFile = ".scenario-sim"

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [11]string{
	"LLM_PROVIDER",
	"GEMINI_MODEL",
	"OPENROUTER_MODEL",
	"CLAUDE_MODEL",
	"MLX_BASE_URL",
	"MLX_MODEL",
	"MAX_RETRY",
	"REQUEST_TIMEOUT",
	"LOCAL_ONLY",
	"OUTPUT_FORMAT",
	"VERBOSE",
}

// Output formats accepted by OUTPUT_FORMAT and --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds every configuration field for the scenario-sim CLI.
type Config struct {
	// Remote provider selection.
	Provider        string
	GeminiModel     string
	OpenRouterModel string
	ClaudeModel     string
	MLXBaseURL      string
	MLXModel        string

	// Remote call behaviour.
	MaxRetry       int
	RequestTimeout int // seconds
	LocalOnly      bool

	// Output.
	OutputFormat string
	Verbose      bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	InputFile  string
	Context    string
	StateFile  string
	Preset     string
	Narrative  bool
	MoreStats  bool
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Provider:        model.Gemini,
		GeminiModel:     model.DefaultModel(model.Gemini),
		OpenRouterModel: model.DefaultModel(model.OpenRouter),
		ClaudeModel:     model.DefaultModel(model.Claude),
		MaxRetry:        2,
		RequestTimeout:  60,
		OutputFormat:    FormatText,
	}
}

// ModelOverrides returns the configured model per provider.
func (c *Config) ModelOverrides() map[string]string {
	return map[string]string{
		model.Gemini:     c.GeminiModel,
		model.OpenRouter: c.OpenRouterModel,
		model.Claude:     c.ClaudeModel,
		model.MLX:        c.MLXModel,
	}
}

// Timeout returns RequestTimeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// GlobalConfigPath returns ~/.config/scenario-sim/config, or "" when the
// home directory cannot be determined.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "scenario-sim", "config")
}
