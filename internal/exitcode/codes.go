// Package exitcode defines named exit codes for the scenario-sim CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

import (
	"context"
	"errors"

	"github.com/CodexForgeBR/scenario-sim/internal/router"
)

// Exit code constants.
const (
	Success      = 0   // Parameters extracted (or analysis produced)
	Error        = 1   // Invalid args, file not found, misconfiguration
	NoResult     = 2   // Nothing found locally or remotely
	RemoteFailed = 3   // Remote provider failed with nothing local to fall back on
	Interrupted  = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case NoResult:
		return "NoResult"
	case RemoteFailed:
		return "RemoteFailed"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// RemoteError marks a failure of the remote provider.
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string { return e.Err.Error() }

func (e *RemoteError) Unwrap() error { return e.Err }

// FromError maps a command error onto an exit code.
func FromError(err error) int {
	var remoteErr *RemoteError
	switch {
	case err == nil:
		return Success
	case errors.Is(err, context.Canceled):
		return Interrupted
	case errors.Is(err, router.ErrNoResult):
		return NoResult
	case errors.As(err, &remoteErr):
		return RemoteFailed
	default:
		return Error
	}
}
