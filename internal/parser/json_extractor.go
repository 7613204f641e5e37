// Package parser extracts structured data from language-model replies.
//
// ExtractObject locates and parses the first JSON object in a reply that
// may wrap it in prose or a fenced code block.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject returns the first JSON object found in text.
//
// Strategy:
//  1. The whole reply, trimmed, is a JSON object.
//  2. A ``` or ```json fenced block whose body is a JSON object.
//  3. Bracket matching from each '{' in turn, respecting string literals.
//
// A reply with no '{' at all returns (nil, nil). An object that opens but
// never closes returns an error.
func ExtractObject(text string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !strings.Contains(trimmed, "{") {
		return nil, nil
	}

	if obj, ok := decodeObject(trimmed); ok {
		return obj, nil
	}

	if obj := extractFromCodeBlock(trimmed); obj != nil {
		return obj, nil
	}

	return extractByBracketMatch(trimmed)
}

func decodeObject(s string) (map[string]interface{}, bool) {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(s), &result); err != nil || result == nil {
		return nil, false
	}
	return result, true
}

// extractFromCodeBlock parses the first fenced block holding a valid object.
func extractFromCodeBlock(text string) map[string]interface{} {
	const fence = "```"
	remaining := text

	for {
		openIdx := strings.Index(remaining, fence)
		if openIdx == -1 {
			return nil
		}
		blockStart := openIdx + len(fence)
		// Skip the optional language tag up to the end of the line.
		if nl := strings.IndexByte(remaining[blockStart:], '\n'); nl >= 0 {
			blockStart += nl + 1
		}

		closeIdx := strings.Index(remaining[blockStart:], fence)
		if closeIdx == -1 {
			return nil
		}

		block := strings.TrimSpace(remaining[blockStart : blockStart+closeIdx])
		if obj, ok := decodeObject(block); ok {
			return obj
		}
		remaining = remaining[blockStart+closeIdx+len(fence):]
	}
}

// extractByBracketMatch tries each '{' in order and returns the first
// balanced span that decodes as an object.
func extractByBracketMatch(text string) (map[string]interface{}, error) {
	var lastErr error
	offset := 0
	for {
		idx := strings.IndexByte(text[offset:], '{')
		if idx == -1 {
			break
		}
		start := offset + idx
		raw := text[start:]

		end, ok := matchBraces(raw)
		if !ok {
			if lastErr == nil {
				lastErr = fmt.Errorf("unmatched braces at offset %d", start)
			}
			offset = start + 1
			continue
		}

		var result map[string]interface{}
		if err := json.Unmarshal([]byte(raw[:end+1]), &result); err == nil {
			return result, nil
		} else {
			lastErr = fmt.Errorf("bracket-matched json: %w", err)
		}
		offset = start + 1
	}
	return nil, lastErr
}

// matchBraces returns the index of the '}' closing the '{' at position 0.
// Braces and brackets inside string literals, including escaped quotes, are
// ignored. Returns (0, false) if the object never closes.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	depth := 0
	inString := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
