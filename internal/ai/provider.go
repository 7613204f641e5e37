// Package ai talks to remote language-model providers.
//
// Every backend implements Provider: structured scenario extraction through
// ExtractScenario and free-form narrative analysis through Analyze. Backends
// differ only in how a prompt.Request becomes a reply string; the shared
// extraction path turns that reply into scenario.Params.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/CodexForgeBR/scenario-sim/internal/parser"
	"github.com/CodexForgeBR/scenario-sim/internal/prompt"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

// Sampling temperatures. Extraction is deterministic; analysis gets a little
// room for phrasing.
const (
	extractTemperature = 0.0
	analyzeTemperature = 0.3
)

// Extractor pulls simulation parameters out of free text.
type Extractor interface {
	ExtractScenario(ctx context.Context, text string) (*scenario.Params, error)
}

// Analyst produces a narrative reply for a prepared prompt.
type Analyst interface {
	Analyze(ctx context.Context, req prompt.Request) (string, error)
}

// Provider is a configured remote backend.
type Provider interface {
	Extractor
	Analyst
	Name() string
	Model() string
}

// completeFunc sends req and returns the raw reply text. structured asks the
// backend to constrain output to the parameter JSON object.
type completeFunc func(ctx context.Context, req prompt.Request, structured bool) (string, error)

// extractWith runs the extraction prompt through complete and decodes the
// reply.
func extractWith(ctx context.Context, name string, complete completeFunc, text string) (*scenario.Params, error) {
	reply, err := complete(ctx, prompt.BuildExtractionPrompt(text), true)
	if err != nil {
		return nil, err
	}

	obj, err := parser.ExtractObject(reply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrNoJSON, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoJSON)
	}
	return decodeParams(obj), nil
}

// analyzeWith runs req through complete and rejects blank replies.
func analyzeWith(ctx context.Context, name string, complete completeFunc, req prompt.Request) (string, error) {
	reply, err := complete(ctx, req, false)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmptyReply)
	}
	return reply, nil
}
