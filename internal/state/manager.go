package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Save writes s to path as indented JSON, creating the parent directory.
// UpdatedAt is stamped with now.
func Save(path string, s *SimulationState, now time.Time) error {
	s.SchemaVersion = SchemaVersion
	s.UpdatedAt = now.UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Load reads the state at path.
func Load(path string) (*SimulationState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s SimulationState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if s.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("state file schema version %d is newer than supported %d", s.SchemaVersion, SchemaVersion)
	}
	return &s, nil
}

// LoadOrNew is Load, except that a missing file yields New().
func LoadOrNew(path string) (*SimulationState, error) {
	s, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return s, err
}
