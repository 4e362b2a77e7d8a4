// Package jsonutil decodes layer payloads produced by a generating model,
// which may arrive wrapped in markdown code fences, embedded in prose, or
// as either a bare array or a {"layers": [...]} document.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// ErrNoJSON is returned when text holds no JSON object or array.
var ErrNoJSON = errors.New("no JSON content found")

// StripMarkdownFences removes ```json ... ``` or ``` ... ``` wrapping from text.
// Returns the content between the fences, or the trimmed text if there are none.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}
	end := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.Join(lines[1:end], "\n")
}

// ExtractJSON returns the JSON object or array in text, from the first {
// or [ to the last matching closer, dropping surrounding prose.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", ErrNoJSON
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	text = text[start:]
	end := strings.LastIndex(text, closer)
	if end < 0 {
		return "", fmt.Errorf("no closing %s found", closer)
	}
	return text[:end+1], nil
}

// ParseJSON strips fences, extracts the JSON content and unmarshals it into T.
func ParseJSON[T any](raw string) (T, error) {
	var zero T
	text, err := ExtractJSON(StripMarkdownFences(raw))
	if err != nil {
		return zero, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}
	var result T
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return zero, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview(text))
	}
	return result, nil
}

// DecodeLayers parses a layer list from raw model output. Both a bare array
// and an object with a "layers" field are accepted.
func DecodeLayers(raw string) ([]layer.Layer, error) {
	text, err := ExtractJSON(StripMarkdownFences(raw))
	if err != nil {
		return nil, fmt.Errorf("decode layers: %w", err)
	}
	if text[0] == '{' {
		var doc struct {
			Layers *[]layer.Layer `json:"layers"`
		}
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("decode layers: %w (text: %s)", err, preview(text))
		}
		if doc.Layers == nil {
			return nil, errors.New(`decode layers: object has no "layers" field`)
		}
		return *doc.Layers, nil
	}
	var layers []layer.Layer
	if err := json.Unmarshal([]byte(text), &layers); err != nil {
		return nil, fmt.Errorf("decode layers: %w (text: %s)", err, preview(text))
	}
	return layers, nil
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
