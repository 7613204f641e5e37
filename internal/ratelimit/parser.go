// Package ratelimit interprets provider throttling hints and waits them out.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// BufferSeconds is added to every parsed reset so the retry does not land
	// on the boundary.
	BufferSeconds = 1

	// MaxWait caps how long a single hint may hold a request.
	MaxWait = 2 * time.Minute
)

// Info describes a throttling response.
type Info struct {
	// Detected indicates the response was a rate limit.
	Detected bool

	// Parseable indicates a reset time was recovered from the headers.
	Parseable bool

	// ResetAt is when the request may be retried, buffer included.
	ResetAt time.Time

	// ResetHuman is ResetAt formatted for logs.
	ResetHuman string
}

// resetHeaders are provider-specific headers checked after Retry-After,
// in order. Values are either delta seconds or RFC 3339 timestamps.
var resetHeaders = []string{
	"anthropic-ratelimit-requests-reset",
	"x-ratelimit-reset-requests",
	"x-ratelimit-reset",
}

// FromResponse inspects status and header. It returns nil unless status is
// 429. A 429 without a usable reset hint is Detected but not Parseable.
func FromResponse(status int, header http.Header, now time.Time) *Info {
	if status != http.StatusTooManyRequests {
		return nil
	}
	info := &Info{Detected: true}
	if header == nil {
		return info
	}

	if reset, ok := ParseRetryAfter(header.Get("Retry-After"), now); ok {
		return parsed(reset)
	}
	for _, name := range resetHeaders {
		if reset, ok := parseReset(header.Get(name), now); ok {
			return parsed(reset)
		}
	}
	return info
}

// ParseRetryAfter parses a Retry-After value, either delta seconds or an
// HTTP date, relative to now.
func ParseRetryAfter(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 {
			return time.Time{}, false
		}
		return now.Add(time.Duration(secs * float64(time.Second))), true
	}
	if at, err := http.ParseTime(value); err == nil {
		return at, true
	}
	return time.Time{}, false
}

func parseReset(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return at, true
	}
	// OpenAI-style durations such as "6s" or "1m30s".
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return now.Add(d), true
	}
	return ParseRetryAfter(value, now)
}

func parsed(reset time.Time) *Info {
	reset = reset.Add(BufferSeconds * time.Second)
	return &Info{
		Detected:   true,
		Parseable:  true,
		ResetAt:    reset,
		ResetHuman: reset.Format("2006-01-02 15:04:05 MST"),
	}
}
