// Package router decides between the local scenario parser and a remote
// extractor.
//
// The local parser always runs first. Its result is used as-is when it
// passes the usability gate; otherwise the remote extractor supplies the
// confusion-matrix fields and the local operational fields, if any, are
// kept. Fields are never mixed per category within one call.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodexForgeBR/scenario-sim/internal/ai"
	"github.com/CodexForgeBR/scenario-sim/internal/logging"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

// Source records where a Result's confusion-matrix fields came from.
type Source string

const (
	// SourceLocal means the local parser passed the usability gate.
	SourceLocal Source = "local"
	// SourceRemote means the remote extractor supplied the matrix fields.
	SourceRemote Source = "remote"
	// SourceLocalPartial means only a sub-threshold local result was
	// available, because the remote path was disabled, failed, or found
	// nothing.
	SourceLocalPartial Source = "local-partial"
)

// ErrNoResult is returned when neither path produced any field.
var ErrNoResult = errors.New("no parameters found in scenario")

// Result is the outcome of ParseScenario.
type Result struct {
	Params   *scenario.Params `json:"params" yaml:"params"`
	Source   Source           `json:"source" yaml:"source"`
	Provider string           `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    string           `json:"model,omitempty" yaml:"model,omitempty"`
	// RemoteErr is set when the remote path failed but a partial local
	// result was still returned.
	RemoteErr error `json:"-" yaml:"-"`
}

// Router routes scenario text through the local parser and, when needed, a
// remote extractor.
type Router struct {
	// Extractor is the remote fallback. Nil disables it.
	Extractor ai.Extractor
	// LocalOnly skips the remote fallback even when Extractor is set.
	LocalOnly bool
}

type describer interface {
	Name() string
	Model() string
}

// ParseScenario parses text local-first.
//
// It returns ErrNoResult when nothing was found anywhere, and a wrapped
// remote error when the remote call failed with no local fields to fall
// back on.
func (r *Router) ParseScenario(ctx context.Context, text string) (*Result, error) {
	local := scenario.Parse(text)
	if local.Usable() {
		logging.Debug("router: local parse passed usability gate")
		return &Result{Params: local, Source: SourceLocal}, nil
	}

	if r.Extractor == nil || r.LocalOnly {
		logging.Debug("router: remote extraction disabled")
		return partial(local, nil)
	}

	res := &Result{Source: SourceRemote}
	if d, ok := r.Extractor.(describer); ok {
		res.Provider = d.Name()
		res.Model = d.Model()
	}

	logging.Debug(fmt.Sprintf("router: escalating to remote extractor %s", res.Provider))
	remote, err := r.Extractor.ExtractScenario(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if local == nil {
			return nil, fmt.Errorf("remote extraction: %w", err)
		}
		logging.Warn(fmt.Sprintf("remote extraction failed, using partial local result: %v", err))
		out, _ := partial(local, err)
		return out, nil
	}

	if !remote.HasMatrix() {
		logging.Debug("router: remote extractor found no confusion-matrix fields")
		if local == nil && remote.HasOperational() {
			res.Params = remote
			return res, nil
		}
		if local == nil {
			return nil, ErrNoResult
		}
		out, _ := partial(local, nil)
		return out, nil
	}

	res.Params = mergeByCategory(local, remote)
	return res, nil
}

// mergeByCategory takes the matrix fields from remote and the operational
// fields from local when local has any, else from remote.
func mergeByCategory(local, remote *scenario.Params) *scenario.Params {
	merged := &scenario.Params{
		TotalPatients:  remote.TotalPatients,
		PositiveCases:  remote.PositiveCases,
		TruePositives:  remote.TruePositives,
		FalsePositives: remote.FalsePositives,
	}
	operational := remote
	if local.HasOperational() {
		operational = local
	}
	merged.FillOperational(operational)
	return merged
}

func partial(local *scenario.Params, remoteErr error) (*Result, error) {
	if local == nil {
		return nil, ErrNoResult
	}
	return &Result{Params: local, Source: SourceLocalPartial, RemoteErr: remoteErr}, nil
}
