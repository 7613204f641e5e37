package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/scenario-sim/internal/config"
	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
)

func newCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, cfg)
	BindInputFlags(cmd, cfg)
	BindAnalyzeFlags(cmd, cfg)
	return cmd
}

func TestBindFlags_DefaultValues(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cmd := newCommand(cfg)

	require.NoError(t, cmd.ParseFlags([]string{}))

	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestBindFlags_ParsesEveryFlag(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cmd := newCommand(cfg)

	err := cmd.ParseFlags([]string{
		"-p", "mlx",
		"--gemini-model", "gemini-2.5-pro",
		"--openrouter-model", "meta/llama",
		"--claude-model", "claude-sonnet-4-5",
		"--mlx-base-url", "http://localhost:8080/v1",
		"--mlx-model", "local",
		"--max-retry", "4",
		"--timeout", "15",
		"--local-only",
		"-f", "json",
		"-v",
		"--config", "extra.conf",
		"-i", "scenario.txt",
		"--narrative",
		"--more-stats",
		"--context", "Stroke CT",
		"--state", "sim.json",
		"--preset", "sepsis-prediction",
	})
	require.NoError(t, err)

	assert.Equal(t, "mlx", cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "meta/llama", cfg.OpenRouterModel)
	assert.Equal(t, "claude-sonnet-4-5", cfg.ClaudeModel)
	assert.Equal(t, "http://localhost:8080/v1", cfg.MLXBaseURL)
	assert.Equal(t, "local", cfg.MLXModel)
	assert.Equal(t, 4, cfg.MaxRetry)
	assert.Equal(t, 15, cfg.RequestTimeout)
	assert.True(t, cfg.LocalOnly)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "extra.conf", cfg.ConfigFile)
	assert.Equal(t, "scenario.txt", cfg.InputFile)
	assert.True(t, cfg.Narrative)
	assert.True(t, cfg.MoreStats)
	assert.Equal(t, "Stroke CT", cfg.Context)
	assert.Equal(t, "sim.json", cfg.StateFile)
	assert.Equal(t, "sepsis-prediction", cfg.Preset)
}

func TestBindVendorFlags(t *testing.T) {
	var claim metrics.VendorClaim
	cmd := &cobra.Command{Use: "vendor"}
	BindVendorFlags(cmd, &claim)

	assert.Equal(t, metrics.VendorClaim{Sensitivity: 0.9, Specificity: 0.95, Prevalence: 0.01, TotalPatients: 1000}, claim)

	require.NoError(t, cmd.ParseFlags([]string{"--sensitivity", "0.8", "--prevalence", "0.005", "--total", "2000"}))
	assert.Equal(t, 0.8, claim.Sensitivity)
	assert.Equal(t, 0.95, claim.Specificity)
	assert.Equal(t, 0.005, claim.Prevalence)
	assert.Equal(t, 2000, claim.TotalPatients)
}

func TestValidateFlags(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "scenario.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"defaults", nil, ""},
		{"known provider", []string{"--provider", "claude"}, ""},
		{"unknown provider", []string{"--provider", "watson"}, "--provider must be one of"},
		{"bad format", []string{"--format", "xml"}, "--format must be"},
		{"yaml format", []string{"--format", "yaml"}, ""},
		{"negative retry", []string{"--max-retry", "-1"}, "--max-retry"},
		{"zero timeout", []string{"--timeout", "0"}, "--timeout"},
		{"missing config", []string{"--config", filepath.Join(dir, "nope")}, "--config"},
		{"missing input", []string{"--input", filepath.Join(dir, "nope")}, "--input"},
		{"existing input", []string{"--input", existing}, ""},
		{"stdin input", []string{"--input", "-"}, ""},
		{"narrative with local only", []string{"--narrative", "--local-only"}, "cannot be combined"},
		{"more stats with local only", []string{"--more-stats", "--local-only"}, "cannot be combined"},
		{"known preset", []string{"--preset", "ich"}, ""},
		{"unknown preset", []string{"--preset", "appendicitis"}, "not a known preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cmd := newCommand(cfg)
			require.NoError(t, cmd.ParseFlags(tt.args))

			err := ValidateFlags(cmd, cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCLIOverrides_OnlyChangedFlags(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cmd := newCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--provider", "claude", "--timeout", "30", "--local-only=false", "-v"}))

	overrides := CLIOverrides(cmd, cfg)

	assert.Equal(t, map[string]string{
		"LLM_PROVIDER":    "claude",
		"REQUEST_TIMEOUT": "30",
		"LOCAL_ONLY":      "false",
		"VERBOSE":         "true",
	}, overrides)
}

func TestCLIOverrides_NoFlags(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cmd := newCommand(cfg)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Empty(t, CLIOverrides(cmd, cfg))
}

func TestCLIOverrides_BeatConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf")
	require.NoError(t, os.WriteFile(path, []byte("LLM_PROVIDER=openrouter\nMAX_RETRY=7\n"), 0644))

	cfg := config.NewDefaultConfig()
	cmd := newCommand(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"-p", "mlx"}))

	final, err := config.LoadWithPrecedence("", "", path, CLIOverrides(cmd, cfg))
	require.NoError(t, err)
	assert.Equal(t, "mlx", final.Provider)
	assert.Equal(t, 7, final.MaxRetry)
}
