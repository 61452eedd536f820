// Package jsonutil provides the JSON helpers the Hearts CLI prints with.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Indent marshals v with two-space indentation.
func Indent(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return string(b), nil
}

// MustIndent is Indent for values known to be marshalable. It panics on error.
func MustIndent(v any) string {
	s, err := Indent(v)
	if err != nil {
		panic(fmt.Sprintf("jsonutil.MustIndent: %v", err))
	}
	return s
}

// CompactJSON minifies a JSON string.
// Returns the original string if it's not valid JSON.
func CompactJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// TruncateString truncates a string to maxLen runes, adding "..."
// if truncation occurred.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
