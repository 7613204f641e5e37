// Package state persists a simulation between runs so a sparse extraction
// can be merged over the values a clinician already settled on.
package state

import (
	"github.com/CodexForgeBR/scenario-sim/internal/metrics"
	"github.com/CodexForgeBR/scenario-sim/internal/scenario"
)

// SchemaVersion is written to every saved file. Files with a newer version
// are rejected.
const SchemaVersion = 1

// SimulationState is the JSON document stored at the --state path.
type SimulationState struct {
	SchemaVersion int    `json:"schema_version"`
	UpdatedAt     string `json:"updated_at"`

	// InputHash identifies the scenario text Params were extracted from.
	InputHash string           `json:"input_hash,omitempty"`
	Source    string           `json:"source,omitempty"`
	Provider  string           `json:"provider,omitempty"`
	Model     string           `json:"model,omitempty"`
	Params    *scenario.Params `json:"params,omitempty"`

	Simulation metrics.Simulation `json:"simulation"`
}

// New returns a state holding the default simulation.
func New() *SimulationState {
	return &SimulationState{
		SchemaVersion: SchemaVersion,
		Simulation:    metrics.DefaultSimulation(),
	}
}
