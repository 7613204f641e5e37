package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// WaitForReset blocks until info.ResetAt, capped at MaxWait, or until ctx is
// done.
func WaitForReset(ctx context.Context, info *Info) error {
	if info == nil || !info.Parseable {
		return fmt.Errorf("cannot wait: rate limit info is nil or not parseable")
	}

	wait := time.Until(info.ResetAt)
	if wait <= 0 {
		return nil
	}
	if wait > MaxWait {
		wait = MaxWait
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FormatDuration formats d for log lines.
// Examples: "2m 15s", "45s", "0s"
func FormatDuration(d time.Duration) string {
	seconds := int64(d.Round(time.Second) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	secs := seconds % 60

	if minutes > 0 && secs > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", secs)
}
