package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/scenario-sim/internal/ai"
	"github.com/CodexForgeBR/scenario-sim/internal/banner"
	"github.com/CodexForgeBR/scenario-sim/internal/cli"
	"github.com/CodexForgeBR/scenario-sim/internal/config"
	"github.com/CodexForgeBR/scenario-sim/internal/exitcode"
	"github.com/CodexForgeBR/scenario-sim/internal/logging"
	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
	"github.com/CodexForgeBR/scenario-sim/internal/model"
	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/ratelimit"
	"github.com/CodexForgeBR/scenario-sim/internal/report"
	"github.com/CodexForgeBR/scenario-sim/internal/router"
	sighandler "github.com/CodexForgeBR/scenario-sim/internal/signal"
	"github.com/CodexForgeBR/scenario-sim/internal/state"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the streams and flag-bound config shared by the subcommands.
type app struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run executes the CLI and returns the process exit code.
func run(parent context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	prevLog := logging.SetOutput(stderr)
	defer logging.SetOutput(prevLog)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stop := sighandler.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
		logging.Warn(fmt.Sprintf("Received %s, cancelling", sig))
	})
	defer stop()

	a := &app{cfg: config.NewDefaultConfig(), stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	code := exitcode.FromError(err)
	switch code {
	case exitcode.Success:
	case exitcode.Interrupted:
		banner.PrintInterruptedBanner(stderr)
	case exitcode.NoResult:
		banner.PrintFailureBanner(stderr, "No parameters found", err)
	case exitcode.RemoteFailed:
		banner.PrintFailureBanner(stderr, "Remote provider failed", err)
	default:
		logging.Error(err.Error())
	}
	return code
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scenario-sim",
		Short:         "Clinical classifier scenario simulator",
		Long:          "scenario-sim turns free-text clinical scenarios into confusion-matrix and capacity parameters and reports their real-world impact.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.BindFlags(rootCmd, a.cfg)
	cli.SetCustomHelp(rootCmd)

	parseCmd := &cobra.Command{
		Use:   "parse [scenario text]",
		Short: "Extract simulation parameters from a scenario",
		RunE:  a.runParse,
	}
	cli.BindInputFlags(parseCmd, a.cfg)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scenario text]",
		Short: "Compute metrics and review capacity for a scenario",
		RunE:  a.runAnalyze,
	}
	cli.BindInputFlags(analyzeCmd, a.cfg)
	cli.BindAnalyzeFlags(analyzeCmd, a.cfg)

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Show which remote providers are configured",
		Args:  cobra.NoArgs,
		RunE:  a.runProviders,
	}

	var claim metrics.VendorClaim
	vendorCmd := &cobra.Command{
		Use:   "vendor",
		Short: "Check a vendor's sensitivity and specificity at local prevalence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runVendor(cmd, claim)
		},
	}
	cli.BindVendorFlags(vendorCmd, &claim)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in clinical examples",
		Args:  cobra.NoArgs,
		RunE:  a.runPresets,
	}

	rootCmd.AddCommand(parseCmd, analyzeCmd, vendorCmd, presetsCmd, providersCmd)
	return rootCmd
}

// loadConfig applies the config file chain under the flags explicitly set on
// cmd, then validates the result.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	finalCfg, err := config.LoadWithPrecedence(
		config.GlobalConfigPath(),
		config.ProjectConfigFile,
		a.cfg.ConfigFile,
		cli.CLIOverrides(cmd, a.cfg),
	)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI-only flags
	finalCfg.ConfigFile = a.cfg.ConfigFile
	finalCfg.InputFile = a.cfg.InputFile
	finalCfg.Context = a.cfg.Context
	finalCfg.StateFile = a.cfg.StateFile
	finalCfg.Preset = a.cfg.Preset
	finalCfg.Narrative = a.cfg.Narrative
	finalCfg.MoreStats = a.cfg.MoreStats

	if err := cli.ValidateFlags(cmd, finalCfg); err != nil {
		return nil, err
	}
	logging.SetVerbose(finalCfg.Verbose)
	return finalCfg, nil
}

// readScenario returns the scenario text from --input, the positional
// arguments or stdin, in that order. Stdin is read only when allowStdin is
// set or --input is "-".
func (a *app) readScenario(cfg *config.Config, args []string, allowStdin bool) (string, error) {
	switch {
	case cfg.InputFile == "-":
	case cfg.InputFile != "":
		data, err := os.ReadFile(cfg.InputFile)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case !allowStdin:
		return "", nil
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// newProvider builds the configured remote provider wrapped in retry policy.
func newProvider(ctx context.Context, cfg *config.Config) (ai.Provider, error) {
	name := model.Normalize(cfg.Provider)
	settings := ai.Settings{
		Provider: name,
		Model:    model.ModelFor(name, cfg.ModelOverrides()),
		Timeout:  cfg.Timeout(),
	}
	if name == model.MLX {
		settings.BaseURL = cfg.MLXBaseURL
	}

	p, err := ai.NewProvider(ctx, settings)
	if err != nil {
		return nil, err
	}

	return &ai.RetryProvider{
		Inner: p,
		RetryCfg: ai.RetryConfig{
			MaxRetries: cfg.MaxRetry,
			OnRetry: func(attempt int, delay time.Duration, err error) {
				logging.Warn(fmt.Sprintf("%s call failed (attempt %d), retrying in %s: %v",
					p.Name(), attempt, ratelimit.FormatDuration(delay), err))
			},
			OnRateLimit: func(info *ratelimit.Info) {
				logging.Warn(fmt.Sprintf("%s rate limited, waiting until %s", p.Name(), info.ResetHuman))
			},
		},
	}, nil
}

// extract runs text through the router. A failure to build the remote
// provider is not fatal; it is reported alongside a partial or empty result.
func (a *app) extract(ctx context.Context, cfg *config.Config, text string) (*router.Result, ai.Provider, error) {
	r := &router.Router{LocalOnly: cfg.LocalOnly}

	var provider ai.Provider
	var providerErr error
	if !cfg.LocalOnly {
		provider, providerErr = newProvider(ctx, cfg)
		if providerErr != nil {
			logging.Debug(fmt.Sprintf("remote provider unavailable: %v", providerErr))
		} else {
			r.Extractor = provider
			if cfg.Verbose {
				banner.PrintStartupBanner(a.stderr, provider.Name(), provider.Model(), cfg.LocalOnly)
			}
		}
	}

	res, err := r.ParseScenario(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, provider, err
		case errors.Is(err, router.ErrNoResult):
			if providerErr != nil {
				return nil, provider, fmt.Errorf("%w (%v)", router.ErrNoResult, providerErr)
			}
			return nil, provider, err
		default:
			return nil, provider, &exitcode.RemoteError{Err: err}
		}
	}
	if res.Source == router.SourceLocalPartial && res.RemoteErr == nil {
		res.RemoteErr = providerErr
	}
	return res, provider, nil
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	start := time.Now()

	text, err := a.readScenario(cfg, args, true)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no scenario text given: pass it as arguments, with --input or on stdin")
	}

	res, _, err := a.extract(cmd.Context(), cfg, text)
	if err != nil {
		return err
	}
	logging.Debug(fmt.Sprintf("parse finished in %s", logging.FormatElapsed(time.Since(start))))

	return report.Write(a.stdout, cfg.OutputFormat, report.ForExtraction(res))
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	start := time.Now()

	text, err := a.readScenario(cfg, args, false)
	if err != nil {
		return err
	}

	st := state.New()
	if cfg.StateFile != "" {
		if st, err = state.LoadOrNew(cfg.StateFile); err != nil {
			return err
		}
	}

	clinicalContext := cfg.Context
	if cfg.Preset != "" {
		p, _ := metrics.FindPreset(cfg.Preset)
		logging.Debug(fmt.Sprintf("starting from preset %s", p.ID))
		st.Simulation = st.Simulation.ApplyPreset(p)
		if clinicalContext == "" {
			clinicalContext = p.Context
		}
	}

	var res *router.Result
	var provider ai.Provider
	switch {
	case strings.TrimSpace(text) == "":
		logging.Debug("no scenario text, analyzing the current simulation")
	case st.Matches(text) && st.Source != string(router.SourceLocalPartial):
		logging.Info("Scenario unchanged since last run, reusing saved extraction")
		res = &router.Result{
			Params:   st.Params,
			Source:   router.Source(st.Source),
			Provider: st.Provider,
			Model:    st.Model,
		}
	default:
		if res, provider, err = a.extract(ctx, cfg, text); err != nil {
			return err
		}
		st.InputHash = state.HashText(text)
		st.Params = res.Params
		st.Source = string(res.Source)
		st.Provider = res.Provider
		st.Model = res.Model
	}

	if res != nil {
		st.Simulation = st.Simulation.Apply(res.Params)
	}
	out := report.ForSimulation(res, st.Simulation)
	out.Preset = cfg.Preset

	if cfg.Narrative || cfg.MoreStats {
		logging.Section("Narrative analysis")
		if provider == nil {
			if provider, err = newProvider(ctx, cfg); err != nil {
				return &exitcode.RemoteError{Err: err}
			}
		}
		if cfg.Narrative {
			logging.Info(fmt.Sprintf("Requesting clinical impact memo from %s", provider.Name()))
			if out.Narrative, err = provider.Analyze(ctx, prompt.BuildClinicalImpactPrompt(st.Simulation, clinicalContext)); err != nil {
				return analysisError(err)
			}
		}
		if cfg.MoreStats {
			logging.Info(fmt.Sprintf("Requesting further statistics from %s", provider.Name()))
			if out.MoreStats, err = provider.Analyze(ctx, prompt.BuildMoreStatsPrompt(st.Simulation)); err != nil {
				return analysisError(err)
			}
		}
	}

	if cfg.StateFile != "" {
		if err := state.Save(cfg.StateFile, st, time.Now()); err != nil {
			return err
		}
		logging.Success(fmt.Sprintf("Saved simulation to %s", cfg.StateFile))
	}
	logging.Debug(fmt.Sprintf("analyze finished in %s", logging.FormatElapsed(time.Since(start))))

	return report.Write(a.stdout, cfg.OutputFormat, out)
}

func analysisError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &exitcode.RemoteError{Err: fmt.Errorf("analysis: %w", err)}
}

func (a *app) runVendor(cmd *cobra.Command, claim metrics.VendorClaim) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := claim.Validate(); err != nil {
		return err
	}
	return report.Write(a.stdout, cfg.OutputFormat, report.ForClaim(claim))
}

func (a *app) runPresets(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	return report.Write(a.stdout, cfg.OutputFormat, &report.Report{Presets: metrics.Presets()})
}

func (a *app) runProviders(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	avail := ai.CheckAvailability(cfg.MLXBaseURL, model.Providers...)
	selected := model.Normalize(cfg.Provider)
	for _, p := range model.Providers {
		status := "missing credentials"
		if avail[p] {
			status = "ready"
		}
		marker := " "
		if p == selected {
			marker = "*"
		}
		m := model.ModelFor(p, cfg.ModelOverrides())
		if m == "" {
			m = "-"
		}
		fmt.Fprintf(a.stdout, "%s %-11s %-19s %s\n", marker, p, status, m)
	}
	return nil
}
