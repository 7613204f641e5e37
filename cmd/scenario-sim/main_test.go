package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/scenario-sim/internal/exitcode"
)

const localScenario = "predicted positive, actual positive: 8\npredicted positive, actual negative: 50"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// isolate points the global config at an empty home and clears API keys.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(k, "")
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &m), s)
	return m
}

// chatServer is an OpenAI-compatible endpoint. Structured requests get
// extraction; everything else gets narrative.
func chatServer(t *testing.T, status int, extraction, narrative string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"unavailable"}`))
			return
		}
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		content := narrative
		if _, structured := req["response_format"]; structured {
			content = extraction
		}
		reply, _ := json.Marshal(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]interface{}{"role": "assistant", "content": content}},
			},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParse_Local(t *testing.T) {
	isolate(t)

	res := runCLI(t, "", "parse", "--local-only", "-f", "json", localScenario)
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	extraction := decode(t, res.stdout)["extraction"].(map[string]interface{})
	assert.Equal(t, "local", extraction["source"])
	params := extraction["params"].(map[string]interface{})
	assert.Equal(t, float64(8), params["truePositives"])
	assert.Equal(t, float64(50), params["falsePositives"])
}

func TestParse_Stdin(t *testing.T) {
	isolate(t)

	res := runCLI(t, localScenario, "parse", "--local-only", "-i", "-")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Scenario extracted")
	assert.Contains(t, res.stdout, "False positives: 50")
}

func TestParse_InputFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "scenario.txt")
	require.NoError(t, os.WriteFile(path, []byte(localScenario), 0644))

	res := runCLI(t, "", "parse", "--local-only", "-f", "yaml", "--input", path)
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "truePositives: 8")
}

func TestParse_ExitCodes(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:     "nothing found locally",
			args:     []string{"parse", "--local-only", "no numbers here"},
			wantCode: exitcode.NoResult,
			wantErr:  "No parameters found",
		},
		{
			name:     "empty input",
			args:     []string{"parse", "--local-only", "-i", "-"},
			wantCode: exitcode.Error,
			wantErr:  "no scenario text given",
		},
		{
			name:     "invalid format",
			args:     []string{"parse", "-f", "xml", localScenario},
			wantCode: exitcode.Error,
			wantErr:  "--format",
		},
		{
			name:     "missing provider key",
			args:     []string{"parse", "-p", "claude", "no numbers here"},
			wantCode: exitcode.NoResult,
			wantErr:  "ANTHROPIC_API_KEY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, tt.wantCode, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
		})
	}
}

func TestParse_RemoteFallback(t *testing.T) {
	isolate(t)
	srv := chatServer(t, http.StatusOK, `{"totalPatients": 1000, "truePositives": 8, "falsePositives": 50}`, "")

	res := runCLI(t, "", "parse", "-p", "mlx", "--mlx-base-url", srv.URL, "-f", "json",
		"A thousand scans were read over the year")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	extraction := decode(t, res.stdout)["extraction"].(map[string]interface{})
	assert.Equal(t, "remote", extraction["source"])
	assert.Equal(t, "mlx", extraction["provider"])
	params := extraction["params"].(map[string]interface{})
	assert.Equal(t, float64(1000), params["totalPatients"])
}

func TestParse_RemoteFailure(t *testing.T) {
	isolate(t)
	srv := chatServer(t, http.StatusInternalServerError, "", "")

	t.Run("nothing local", func(t *testing.T) {
		res := runCLI(t, "", "parse", "-p", "mlx", "--mlx-base-url", srv.URL, "--max-retry", "0",
			"A thousand scans were read")
		assert.Equal(t, exitcode.RemoteFailed, res.code)
		assert.Contains(t, res.stderr, "Remote provider failed")
	})

	t.Run("partial local result survives", func(t *testing.T) {
		res := runCLI(t, "", "parse", "-p", "mlx", "--mlx-base-url", srv.URL, "--max-retry", "0", "-f", "json",
			"We can review 25 per day")
		require.Equal(t, exitcode.Success, res.code, res.stderr)

		m := decode(t, res.stdout)
		assert.Equal(t, "local-partial", m["extraction"].(map[string]interface{})["source"])
		assert.Contains(t, m["warning"], "HTTP 500")
	})
}

func TestAnalyze_DefaultSimulation(t *testing.T) {
	isolate(t)

	res := runCLI(t, "", "analyze", "--local-only", "-f", "json")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	m := decode(t, res.stdout)
	assert.NotContains(t, m, "extraction")
	sim := m["simulation"].(map[string]interface{})
	assert.Equal(t, float64(1000), sim["totalPatients"])
	capacity := m["capacity"].(map[string]interface{})
	assert.Equal(t, float64(58), capacity["flaggedCohort"])
}

func TestAnalyze_StatePersistsAcrossRuns(t *testing.T) {
	isolate(t)
	statePath := filepath.Join(t.TempDir(), "sim.json")

	first := runCLI(t, "", "analyze", "--local-only", "--state", statePath, "-f", "json", "We can review 25 per day")
	require.Equal(t, exitcode.Success, first.code, first.stderr)
	assert.FileExists(t, statePath)

	second := runCLI(t, "", "analyze", "--local-only", "--state", statePath, "-f", "json")
	require.Equal(t, exitcode.Success, second.code, second.stderr)
	sim := decode(t, second.stdout)["simulation"].(map[string]interface{})
	assert.Equal(t, float64(25), sim["dailyCapacity"])

	third := runCLI(t, "", "analyze", "--local-only", "--state", statePath, localScenario)
	require.Equal(t, exitcode.Success, third.code, third.stderr)
	assert.NotContains(t, third.stderr, "reusing saved extraction")

	fourth := runCLI(t, "", "analyze", "--local-only", "--state", statePath, "-f", "json", localScenario)
	require.Equal(t, exitcode.Success, fourth.code, fourth.stderr)
	assert.Contains(t, fourth.stderr, "reusing saved extraction")
	sim = decode(t, fourth.stdout)["simulation"].(map[string]interface{})
	assert.Equal(t, float64(8), sim["truePositives"])
	assert.Equal(t, float64(25), sim["dailyCapacity"])
}

func TestAnalyze_PartialExtractionIsRetried(t *testing.T) {
	isolate(t)
	statePath := filepath.Join(t.TempDir(), "sim.json")
	text := "We can review 25 per day"

	down := chatServer(t, http.StatusInternalServerError, "", "")
	first := runCLI(t, "", "analyze", "-p", "mlx", "--mlx-base-url", down.URL, "--max-retry", "0",
		"--state", statePath, "-f", "json", text)
	require.Equal(t, exitcode.Success, first.code, first.stderr)
	assert.Equal(t, "local-partial", decode(t, first.stdout)["extraction"].(map[string]interface{})["source"])

	up := chatServer(t, http.StatusOK, `{"totalPatients": 2000, "truePositives": 12, "falsePositives": 90}`, "")
	second := runCLI(t, "", "analyze", "-p", "mlx", "--mlx-base-url", up.URL,
		"--state", statePath, "-f", "json", text)
	require.Equal(t, exitcode.Success, second.code, second.stderr)
	assert.NotContains(t, second.stderr, "reusing saved extraction")

	m := decode(t, second.stdout)
	assert.Equal(t, "remote", m["extraction"].(map[string]interface{})["source"])
	sim := m["simulation"].(map[string]interface{})
	assert.Equal(t, float64(2000), sim["totalPatients"])
	assert.Equal(t, float64(25), sim["dailyCapacity"])
}

func TestAnalyze_Narrative(t *testing.T) {
	isolate(t)
	srv := chatServer(t, http.StatusOK, "{}", "Most flags will be false alarms.")

	res := runCLI(t, "", "analyze", "-p", "mlx", "--mlx-base-url", srv.URL, "--narrative", "--more-stats",
		"--context", "Stroke CT triage", "-f", "json", localScenario)
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	m := decode(t, res.stdout)
	assert.Equal(t, "Most flags will be false alarms.", m["narrative"])
	assert.Equal(t, "Most flags will be false alarms.", m["moreStats"])
	assert.Equal(t, "local", m["extraction"].(map[string]interface{})["source"])
}

func TestAnalyze_NarrativeNeedsProvider(t *testing.T) {
	isolate(t)

	res := runCLI(t, "", "analyze", "-p", "openrouter", "--narrative")
	assert.Equal(t, exitcode.RemoteFailed, res.code)
	assert.Contains(t, res.stderr, "OPENROUTER_API_KEY")
}

func TestProviders(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	res := runCLI(t, "", "providers", "-p", "claude")
	require.Equal(t, exitcode.Success, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, res.stdout, "* claude      ready")
	assert.Contains(t, res.stdout, "gemini      missing credentials")
	assert.Contains(t, res.stdout, "mlx         missing credentials")
}

func TestVersion(t *testing.T) {
	isolate(t)
	res := runCLI(t, "", "--version")
	assert.Equal(t, exitcode.Success, res.code)
	assert.Contains(t, res.stdout, "dev (commit: unknown")
}

func TestAnalyze_Preset(t *testing.T) {
	isolate(t)

	t.Run("matrix comes from the preset", func(t *testing.T) {
		res := runCLI(t, "", "analyze", "--local-only", "--preset", "lung-cancer", "-f", "json")
		require.Equal(t, exitcode.Success, res.code, res.stderr)

		m := decode(t, res.stdout)
		assert.Equal(t, "lung-cancer", m["preset"])
		sim := m["simulation"].(map[string]interface{})
		assert.Equal(t, float64(2000), sim["totalPatients"])
		assert.Equal(t, float64(35), sim["truePositives"])
		assert.Equal(t, float64(2000), sim["cohortSize"])
	})

	t.Run("scenario text overrides preset fields", func(t *testing.T) {
		res := runCLI(t, "", "analyze", "--local-only", "--preset", "ich", "-f", "json", "We can review 25 per day")
		require.Equal(t, exitcode.Success, res.code, res.stderr)

		sim := decode(t, res.stdout)["simulation"].(map[string]interface{})
		assert.Equal(t, float64(3), sim["truePositives"])
		assert.Equal(t, float64(25), sim["dailyCapacity"])
	})

	t.Run("unknown preset", func(t *testing.T) {
		res := runCLI(t, "", "analyze", "--local-only", "--preset", "appendicitis")
		assert.Equal(t, exitcode.Error, res.code)
		assert.Contains(t, res.stderr, "not a known preset")
	})
}

func TestPresets(t *testing.T) {
	isolate(t)

	res := runCLI(t, "", "presets")
	require.Equal(t, exitcode.Success, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Scenario presets")
	assert.Contains(t, res.stdout, "sepsis-prediction")
}

func TestVendor(t *testing.T) {
	isolate(t)

	t.Run("claim at low prevalence", func(t *testing.T) {
		res := runCLI(t, "", "vendor", "--sensitivity", "0.8", "--specificity", "0.9",
			"--prevalence", "0.005", "--total", "2000", "-f", "json")
		require.Equal(t, exitcode.Success, res.code, res.stderr)

		vendor := decode(t, res.stdout)["vendor"].(map[string]interface{})
		assert.Equal(t, "critical", vendor["level"])
		assert.Equal(t, float64(8), vendor["truePositives"])
		assert.Len(t, vendor["curve"], 11)
	})

	t.Run("rates outside 0-1 are rejected", func(t *testing.T) {
		res := runCLI(t, "", "vendor", "--sensitivity", "1.5")
		assert.Equal(t, exitcode.Error, res.code)
		assert.Contains(t, res.stderr, "sensitivity must be between 0 and 1")
	})
}
