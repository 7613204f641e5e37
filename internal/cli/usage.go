// Package cli provides help text and usage formatting for the scenario-sim CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `scenario-sim - Turn clinical AI scenarios into screening simulation parameters

USAGE
  scenario-sim parse   [flags] [scenario text...]
  scenario-sim analyze [flags] [scenario text...]
  scenario-sim vendor    [--sensitivity f] [--specificity f] [--prevalence f] [--total n]
  scenario-sim presets
  scenario-sim providers

  parse reads the scenario from --input, then from arguments, then from
  stdin. analyze reads stdin only with --input -; without a scenario it
  analyzes the saved (or default) simulation. The local parser runs first;
  a remote provider is only called when the local result lacks a confusion
  matrix.

FLAGS
  Provider & Models:
    -p, --provider <name>          gemini, openrouter, claude or mlx (default: gemini)
    --gemini-model <model>         Gemini model (default: gemini-2.5-flash)
    --openrouter-model <model>     OpenRouter model (default: openai/gpt-4o-mini)
    --claude-model <model>         Claude model (default: claude-3-5-haiku-20241022)
    --mlx-base-url <url>           Local MLX server, e.g. http://localhost:8080/v1
    --mlx-model <model>            Model served by the MLX server

  Remote Calls:
    --max-retry <int>              Retries on throttling or server errors (default: 2)
    --timeout <seconds>            Per-request timeout (default: 60)
    --local-only                   Never call a remote provider

  Input & Output:
    -i, --input <path>             Scenario file ("-" for stdin)
    -f, --format <text|json|yaml>  Output format (default: text)
    --config <path>                Path to additional config file
    -v, --verbose                  Enable debug logging

  Analyze:
    --narrative                    Ask the provider for a clinical impact memo
    --more-stats                   Ask the provider for extended statistics
    --context <text>               Clinical context for the memo
    --state <path>                 Keep the simulation in this JSON file across runs
    --preset <id>                  Start from a built-in example (ich, lung-cancer, ...)

  Vendor Claim:
    --sensitivity <0-1>            Claimed sensitivity (default: 0.9)
    --specificity <0-1>            Claimed specificity (default: 0.95)
    --prevalence <0-1>             Local prevalence (default: 0.01)
    --total <int>                  Local population size (default: 1000)

  Help & Version:
    -h, --help                     Show this help text
    --version                      Show version, commit, build date

ENVIRONMENT
  GEMINI_API_KEY or API_KEY, OPENROUTER_API_KEY, ANTHROPIC_API_KEY

CONFIG FILES
  ~/.config/scenario-sim/config, then ./.scenario-sim, then --config.
  KEY=VALUE lines; keys: LLM_PROVIDER, GEMINI_MODEL, OPENROUTER_MODEL,
  CLAUDE_MODEL, MLX_BASE_URL, MLX_MODEL, MAX_RETRY, REQUEST_TIMEOUT,
  LOCAL_ONLY, OUTPUT_FORMAT, VERBOSE.

EXIT CODES
  0   Success              Parameters extracted
  1   Error                Invalid arguments, file not found, misconfiguration
  2   NoResult             No parameters found locally or remotely
  3   RemoteFailed         Remote provider failed and nothing local was found
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Parse a scenario file locally only
  scenario-sim parse --local-only -i scenario.txt

  # Parse with Claude as the fallback, JSON output
  scenario-sim parse -p claude -f json "1000 scans, predicted positive, actual negative: 50"

  # Full analysis with a committee memo
  echo "..." | scenario-sim analyze -i - --narrative --context "Stroke CT triage"

  # What a 90%/95% claim means at 0.5% prevalence
  scenario-sim vendor --prevalence 0.005

  # Refine a saved simulation one statement at a time
  scenario-sim analyze --state sim.json "We can review 25 per day"

For more information, see: https://github.com/CodexForgeBR/scenario-sim
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
