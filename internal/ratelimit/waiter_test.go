package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// WaitForReset tests
// ---------------------------------------------------------------------------

func TestWaitForReset_NilInfo(t *testing.T) {
	err := WaitForReset(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil or not parseable")
}

func TestWaitForReset_NotParseable(t *testing.T) {
	err := WaitForReset(context.Background(), &Info{Detected: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil or not parseable")
}

func TestWaitForReset_AlreadyPast(t *testing.T) {
	info := &Info{Detected: true, Parseable: true, ResetAt: time.Now().Add(-10 * time.Second)}
	require.NoError(t, WaitForReset(context.Background(), info))
}

func TestWaitForReset_ShortWait(t *testing.T) {
	info := &Info{Detected: true, Parseable: true, ResetAt: time.Now().Add(30 * time.Millisecond)}

	start := time.Now()
	require.NoError(t, WaitForReset(context.Background(), info))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitForReset_ContextCancelled(t *testing.T) {
	info := &Info{Detected: true, Parseable: true, ResetAt: time.Now().Add(time.Hour)}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := WaitForReset(ctx, info)
	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{2 * time.Minute, "2m"},
		{135 * time.Second, "2m 15s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}
