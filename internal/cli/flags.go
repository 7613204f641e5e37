// Package cli provides flag binding and validation for the scenario-sim CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/scenario-sim/internal/config"
	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
	"github.com/CodexForgeBR/scenario-sim/internal/model"
)

// BindFlags registers the flags shared by every subcommand as persistent
// flags on cmd. The flags directly modify fields in the provided config
// pointer. Call ValidateFlags after parsing to check flag values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Provider & Models
	flags.StringVarP(&cfg.Provider, "provider", "p", cfg.Provider, "Remote provider: gemini, openrouter, claude or mlx")
	flags.StringVar(&cfg.GeminiModel, "gemini-model", cfg.GeminiModel, "Gemini model")
	flags.StringVar(&cfg.OpenRouterModel, "openrouter-model", cfg.OpenRouterModel, "OpenRouter model (vendor/name)")
	flags.StringVar(&cfg.ClaudeModel, "claude-model", cfg.ClaudeModel, "Claude model")
	flags.StringVar(&cfg.MLXBaseURL, "mlx-base-url", cfg.MLXBaseURL, "Base URL of a local MLX server")
	flags.StringVar(&cfg.MLXModel, "mlx-model", cfg.MLXModel, "Model served by the MLX server")

	// Remote Calls
	flags.IntVar(&cfg.MaxRetry, "max-retry", cfg.MaxRetry, "Retries per remote call on throttling or server errors")
	flags.IntVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "Seconds before a remote call is abandoned")
	flags.BoolVar(&cfg.LocalOnly, "local-only", cfg.LocalOnly, "Never call a remote provider")

	// Output
	flags.StringVarP(&cfg.OutputFormat, "format", "f", cfg.OutputFormat, "Output format: text, json or yaml")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")
}

// BindInputFlags registers the scenario input flag on cmd.
func BindInputFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVarP(&cfg.InputFile, "input", "i", "", "Read the scenario from this file instead of stdin or arguments")
}

// BindAnalyzeFlags registers the analyze-only flags on cmd.
func BindAnalyzeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	flags.BoolVar(&cfg.Narrative, "narrative", false, "Ask the provider for a clinical impact memo")
	flags.BoolVar(&cfg.MoreStats, "more-stats", false, "Ask the provider for extended statistics")
	flags.StringVar(&cfg.Context, "context", "", "Clinical context for the narrative memo")
	flags.StringVar(&cfg.StateFile, "state", "", "Load and save the simulation in this JSON file across runs")
	flags.StringVar(&cfg.Preset, "preset", "", "Start from a built-in clinical example (see 'presets')")
}

// BindVendorFlags registers the vendor claim flags on cmd.
func BindVendorFlags(cmd *cobra.Command, claim *metrics.VendorClaim) {
	flags := cmd.Flags()
	flags.Float64Var(&claim.Sensitivity, "sensitivity", 0.9, "Claimed sensitivity (0-1)")
	flags.Float64Var(&claim.Specificity, "specificity", 0.95, "Claimed specificity (0-1)")
	flags.Float64Var(&claim.Prevalence, "prevalence", 0.01, "Local prevalence (0-1)")
	flags.IntVar(&claim.TotalPatients, "total", 1000, "Local population size")
}

// ValidateFlags checks flag values after parsing.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}
	if cfg.InputFile != "" && cfg.InputFile != "-" {
		if _, err := os.Stat(cfg.InputFile); err != nil {
			return fmt.Errorf("--input: %w", err)
		}
	}

	if cfg.Preset != "" {
		if _, ok := metrics.FindPreset(cfg.Preset); !ok {
			return fmt.Errorf("--preset %q is not a known preset (see 'scenario-sim presets')", cfg.Preset)
		}
	}

	if cmd.Flags().Changed("provider") && !model.IsKnown(cfg.Provider) {
		return fmt.Errorf("--provider must be one of gemini, openrouter, claude, mlx, got: %s", cfg.Provider)
	}

	switch cfg.OutputFormat {
	case config.FormatText, config.FormatJSON, config.FormatYAML:
	default:
		return fmt.Errorf("--format must be 'text', 'json' or 'yaml', got: %s", cfg.OutputFormat)
	}

	if cfg.MaxRetry < 0 {
		return fmt.Errorf("--max-retry must be >= 0, got: %d", cfg.MaxRetry)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("--timeout must be > 0, got: %d", cfg.RequestTimeout)
	}

	if (cfg.Narrative || cfg.MoreStats) && cfg.LocalOnly {
		return fmt.Errorf("--narrative and --more-stats need a remote provider and cannot be combined with --local-only")
	}

	return nil
}

// CLIOverrides builds the config-key map for flags explicitly set on the
// command line, so config file values are not overridden by flag defaults.
func CLIOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"provider":         {"LLM_PROVIDER", cfg.Provider},
		"gemini-model":     {"GEMINI_MODEL", cfg.GeminiModel},
		"openrouter-model": {"OPENROUTER_MODEL", cfg.OpenRouterModel},
		"claude-model":     {"CLAUDE_MODEL", cfg.ClaudeModel},
		"mlx-base-url":     {"MLX_BASE_URL", cfg.MLXBaseURL},
		"mlx-model":        {"MLX_MODEL", cfg.MLXModel},
		"format":           {"OUTPUT_FORMAT", cfg.OutputFormat},
	}
	for flag, mapping := range stringFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	intFlags := map[string]struct {
		key string
		val int
	}{
		"max-retry": {"MAX_RETRY", cfg.MaxRetry},
		"timeout":   {"REQUEST_TIMEOUT", cfg.RequestTimeout},
	}
	for flag, mapping := range intFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = strconv.Itoa(mapping.val)
		}
	}

	boolFlags := map[string]struct {
		key string
		val bool
	}{
		"local-only": {"LOCAL_ONLY", cfg.LocalOnly},
		"verbose":    {"VERBOSE", cfg.Verbose},
	}
	for flag, mapping := range boolFlags {
		if flags.Changed(flag) {
			overrides[mapping.key] = strconv.FormatBool(mapping.val)
		}
	}

	return overrides
}
