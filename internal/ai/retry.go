package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/ratelimit"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxRetries        int
	BaseDelay         time.Duration // default 1s
	MaxRateLimitWaits int           // max consecutive rate limit waits (default 3)
	OnRetry           func(attempt int, delay time.Duration, err error)
	OnRateLimit       func(info *ratelimit.Info)
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ...
// Errors that IsRetryable rejects are returned immediately. A 429 carrying a
// parseable reset hint waits for the reset and retries without consuming an
// attempt.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxRateLimitWaits == 0 {
		cfg.MaxRateLimitWaits = 3
	}

	attempt := 0
	delay := cfg.BaseDelay
	rateLimitWaits := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.RateLimit != nil && apiErr.RateLimit.Parseable {
			rateLimitWaits++
			if rateLimitWaits > cfg.MaxRateLimitWaits {
				return fmt.Errorf("max rate limit waits (%d) exceeded: %w", cfg.MaxRateLimitWaits, err)
			}
			if cfg.OnRateLimit != nil {
				cfg.OnRateLimit(apiErr.RateLimit)
			}
			if waitErr := ratelimit.WaitForReset(ctx, apiErr.RateLimit); waitErr != nil {
				return fmt.Errorf("rate limit wait cancelled: %w", waitErr)
			}
			continue
		}

		if attempt >= cfg.MaxRetries {
			if cfg.MaxRetries == 0 {
				return err
			}
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		attempt++
	}
}

// RetryProvider wraps any Provider with RetryWithBackoff.
type RetryProvider struct {
	Inner    Provider
	RetryCfg RetryConfig
}

// Name delegates to the inner provider.
func (r *RetryProvider) Name() string { return r.Inner.Name() }

// Model delegates to the inner provider.
func (r *RetryProvider) Model() string { return r.Inner.Model() }

// ExtractScenario delegates to the inner provider, retrying transient
// failures.
func (r *RetryProvider) ExtractScenario(ctx context.Context, text string) (*scenario.Params, error) {
	var out *scenario.Params
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		p, err := r.Inner.ExtractScenario(ctx, text)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// Analyze delegates to the inner provider, retrying transient failures.
func (r *RetryProvider) Analyze(ctx context.Context, req prompt.Request) (string, error) {
	var out string
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		reply, err := r.Inner.Analyze(ctx, req)
		if err != nil {
			return err
		}
		out = reply
		return nil
	})
	return out, err
}
