// Package utils holds small helpers for cleaning LLM output: lenient JSON
// parsing and markdown hygiene.
package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFences removes a wrapping markdown code block (```json ... ```)
// if present. Models routinely fence their JSON despite instructions.
func StripCodeFences(input string) string {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimPrefix(s, "```")
	// A language tag may follow the opening fence.
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// RepairJSON fixes common JSON defects in model output (single quotes,
// trailing commas, unclosed brackets, comments).
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// DecodeLenient unmarshals model output into schema, trying progressively
// more forgiving strategies: strict JSON, repaired JSON, then Hjson. Code
// fences are stripped first.
func DecodeLenient(input string, schema interface{}) error {
	s := StripCodeFences(input)

	if err := json.Unmarshal([]byte(s), schema); err == nil {
		return nil
	}
	if repaired, err := RepairJSON(s); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return nil
		}
	}
	if err := hjson.Unmarshal([]byte(s), schema); err == nil {
		return nil
	}
	return fmt.Errorf("all parsing strategies failed for model output")
}
