package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
)

func claudeServer(t *testing.T, status int, header http.Header, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "c-key", r.Header.Get("X-Api-Key"))
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func claudeMessage(text string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-3-5-haiku-20241022",
		"content":     []map[string]string{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 1, "output_tokens": 1},
	})
	return string(b)
}

func TestClaudeProvider_ExtractScenario(t *testing.T) {
	srv := claudeServer(t, http.StatusOK, nil, claudeMessage(`Here you go: {"positiveCases": 10, "cohortSize": 5000}`))

	p, err := NewClaudeProvider(ClaudeConfig{APIKey: "c-key", BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "claude", p.Name())
	assert.Equal(t, "claude-3-5-haiku-20241022", p.Model())

	params, err := p.ExtractScenario(context.Background(), "10 positives in a 5000 cohort")
	require.NoError(t, err)
	assert.Equal(t, 10, *params.PositiveCases)
	assert.Equal(t, 5000, *params.CohortSize)
}

func TestClaudeProvider_Analyze(t *testing.T) {
	srv := claudeServer(t, http.StatusOK, nil, claudeMessage("Narrative"))

	p, err := NewClaudeProvider(ClaudeConfig{APIKey: "c-key", BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := p.Analyze(context.Background(), prompt.Request{System: "s", User: "u"})
	require.NoError(t, err)
	assert.Equal(t, "Narrative", reply)
}

func TestClaudeProvider_Errors(t *testing.T) {
	t.Run("bad request is permanent", func(t *testing.T) {
		srv := claudeServer(t, http.StatusBadRequest, nil,
			`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
		p, err := NewClaudeProvider(ClaudeConfig{APIKey: "c-key", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = p.ExtractScenario(context.Background(), "x")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Nil(t, apiErr.RateLimit)
		assert.False(t, IsRetryable(err))
	})

	t.Run("rate limit carries reset hint", func(t *testing.T) {
		srv := claudeServer(t, http.StatusTooManyRequests, http.Header{"Retry-After": {"3"}},
			`{"type":"error","error":{"type":"rate_limit_error","message":"slow"}}`)
		p, err := NewClaudeProvider(ClaudeConfig{APIKey: "c-key", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = p.Analyze(context.Background(), prompt.Request{})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		require.NotNil(t, apiErr.RateLimit)
		assert.True(t, apiErr.RateLimit.Parseable)
		assert.True(t, IsRetryable(err))
	})
}

func TestNewClaudeProvider_MissingKey(t *testing.T) {
	_, err := NewClaudeProvider(ClaudeConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
