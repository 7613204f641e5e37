package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/ratelimit"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	t.Run("delays double from the base delay", func(t *testing.T) {
		var delays []time.Duration
		cfg := RetryConfig{
			MaxRetries: 3,
			BaseDelay:  time.Millisecond,
			OnRetry: func(attempt int, delay time.Duration, err error) {
				delays = append(delays, delay)
			},
		}

		err := RetryWithBackoff(context.Background(), cfg, func() error {
			return &APIError{Provider: "x", StatusCode: 503}
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "max retries (3) exceeded")
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
	})

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}

		err := RetryWithBackoff(context.Background(), cfg, func() error {
			calls++
			if calls < 3 {
				return &APIError{Provider: "x", StatusCode: 500}
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestRetryWithBackoff_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	want := &APIError{Provider: "x", StatusCode: 401}
	cfg := RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond}

	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return want
	})

	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ZeroRetriesReturnsRawError(t *testing.T) {
	want := &APIError{Provider: "x", StatusCode: 500}

	err := RetryWithBackoff(context.Background(), RetryConfig{}, func() error { return want })

	assert.Same(t, want, err)
}

func TestRetryWithBackoff_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Hour,
		OnRetry:    func(int, time.Duration, error) { cancel() },
	}

	err := RetryWithBackoff(ctx, cfg, func() error {
		return &APIError{Provider: "x", StatusCode: 500}
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryWithBackoff_RateLimitWaitDoesNotConsumeAttempt(t *testing.T) {
	calls := 0
	var hints []*ratelimit.Info
	cfg := RetryConfig{
		MaxRetries:  0,
		OnRateLimit: func(info *ratelimit.Info) { hints = append(hints, info) },
	}

	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls == 1 {
			return &APIError{
				Provider:   "x",
				StatusCode: 429,
				RateLimit:  &ratelimit.Info{Detected: true, Parseable: true, ResetAt: time.Now().Add(5 * time.Millisecond)},
			}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, hints, 1)
}

func TestRetryWithBackoff_MaxRateLimitWaits(t *testing.T) {
	calls := 0
	cfg := RetryConfig{MaxRateLimitWaits: 2}

	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return &APIError{
			Provider:   "x",
			StatusCode: 429,
			RateLimit:  &ratelimit.Info{Detected: true, Parseable: true, ResetAt: time.Now()},
		}
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max rate limit waits (2) exceeded")
	assert.Equal(t, 3, calls)
}

type fakeProvider struct {
	extractErrs []error
	params      *scenario.Params
	reply       string
	calls       int
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-1" }

func (f *fakeProvider) next() error {
	f.calls++
	if len(f.extractErrs) == 0 {
		return nil
	}
	err := f.extractErrs[0]
	f.extractErrs = f.extractErrs[1:]
	return err
}

func (f *fakeProvider) ExtractScenario(ctx context.Context, text string) (*scenario.Params, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	return f.params, nil
}

func (f *fakeProvider) Analyze(ctx context.Context, req prompt.Request) (string, error) {
	if err := f.next(); err != nil {
		return "", err
	}
	return f.reply, nil
}

func TestRetryProvider(t *testing.T) {
	t.Run("extract retries transient errors", func(t *testing.T) {
		inner := &fakeProvider{
			extractErrs: []error{&APIError{StatusCode: 502}},
			params:      &scenario.Params{TotalPatients: scenario.Int(10)},
		}
		r := &RetryProvider{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}}

		p, err := r.ExtractScenario(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, 10, *p.TotalPatients)
		assert.Equal(t, 2, inner.calls)
		assert.Equal(t, "fake", r.Name())
		assert.Equal(t, "fake-1", r.Model())
	})

	t.Run("analyze surfaces permanent errors", func(t *testing.T) {
		inner := &fakeProvider{extractErrs: []error{errors.New("bad key")}}
		r := &RetryProvider{Inner: inner, RetryCfg: RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}}

		_, err := r.Analyze(context.Background(), prompt.Request{})
		require.EqualError(t, err, "bad key")
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("analyze returns reply", func(t *testing.T) {
		inner := &fakeProvider{reply: "memo"}
		r := &RetryProvider{Inner: inner}

		reply, err := r.Analyze(context.Background(), prompt.Request{})
		require.NoError(t, err)
		assert.Equal(t, "memo", reply)
	})
}
