package state

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText returns the SHA-256 hex digest of text with line endings
// normalised, so the same scenario pasted on Windows and Unix matches.
func HashText(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	sum := sha256.Sum256([]byte(strings.TrimSpace(normalized)))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether s holds an extraction made from text.
func (s *SimulationState) Matches(text string) bool {
	if s == nil || s.Params == nil || s.InputHash == "" {
		return false
	}
	return s.InputHash == HashText(text)
}
