package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/CodexForgeBR/scenario-sim/internal/ratelimit"
)

var (
	// ErrNotConfigured is returned when a provider lacks required settings.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrMissingAPIKey is returned when a provider's API key is not set.
	ErrMissingAPIKey = errors.New("API key required")

	// ErrNoJSON is returned when an extraction reply holds no JSON object.
	ErrNoJSON = errors.New("no JSON object in reply")

	// ErrEmptyReply is returned when a provider answers with no text.
	ErrEmptyReply = errors.New("empty reply")
)

// APIError is a non-2xx response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
	// RateLimit is set for 429 responses.
	RateLimit *ratelimit.Info
	Err       error
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth another attempt: throttling,
// server errors and network timeouts. Cancellation never is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

const maxErrorBody = 512

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
