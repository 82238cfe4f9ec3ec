// Package jsonx recovers structured JSON from messy LLM output.
// Models wrap payloads in markdown fences, prepend prose, leave trailing
// commas or single quotes. Each helper tries progressively more aggressive
// recovery before giving up.
package jsonx

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var ErrNoJSON = errors.New("jsonx: no parsable JSON found in response")

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)
	singleQuoteKey  = regexp.MustCompile(`'([^']*)'\s*:`)
	singleQuoteVal  = regexp.MustCompile(`:\s*'([^']*)'`)
)

// Extract isolates the first JSON value (object or array) in raw.
// Recovery order: direct parse, fenced code block, first delimited
// value found anywhere, then a normalization pass (fences stripped,
// trailing commas removed, single quotes converted).
func Extract(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)

	// 1. Direct parse
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	// 2. Fenced code block
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		inner := strings.TrimSpace(m[1])
		if json.Valid([]byte(inner)) {
			return json.RawMessage(inner), nil
		}
		// the fence content may itself need cleanup below
		trimmed = inner
	}

	// 3. First bracket/brace-delimited value anywhere in the text
	if candidate := firstDelimited(trimmed); candidate != "" {
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
		trimmed = candidate
	}

	// 4. Normalize and retry
	normalized := Normalize(trimmed)
	if json.Valid([]byte(normalized)) {
		return json.RawMessage(normalized), nil
	}
	if candidate := firstDelimited(normalized); candidate != "" && json.Valid([]byte(candidate)) {
		return json.RawMessage(candidate), nil
	}

	return nil, ErrNoJSON
}

// ExtractArray behaves like Extract but only accepts a JSON array.
// If the recovered value is an object, a named sub-array can still be
// pulled out by the caller via ExtractNamedArray.
func ExtractArray(raw string) (json.RawMessage, error) {
	value, err := Extract(raw)
	if err != nil {
		// Maybe an array is buried in text that defeated Extract.
		if candidate := sliceDelimited(raw, '[', ']'); candidate != "" {
			normalized := Normalize(candidate)
			if json.Valid([]byte(normalized)) {
				return json.RawMessage(normalized), nil
			}
		}
		return nil, err
	}
	if strings.HasPrefix(strings.TrimSpace(string(value)), "[") {
		return value, nil
	}
	return nil, ErrNoJSON
}

// ExtractNamedArray finds the array held by the given field, wherever the
// field sits in the text. Used as the last resort when the model wraps the
// payload in an envelope object ({"questions": [...]}).
func ExtractNamedArray(raw, field string) (json.RawMessage, error) {
	// Cheap path: the whole thing parses and holds the field.
	if value, err := Extract(raw); err == nil {
		var envelope map[string]json.RawMessage
		if json.Unmarshal(value, &envelope) == nil {
			if inner, ok := envelope[field]; ok && strings.HasPrefix(strings.TrimSpace(string(inner)), "[") {
				return inner, nil
			}
		}
		if strings.HasPrefix(strings.TrimSpace(string(value)), "[") {
			return value, nil
		}
	}

	// Pattern search: locate the field name, then bracket-match from the
	// first '[' that follows it.
	idx := strings.Index(raw, `"`+field+`"`)
	if idx == -1 {
		idx = strings.Index(raw, `'`+field+`'`)
	}
	if idx == -1 {
		return nil, ErrNoJSON
	}
	rest := raw[idx:]
	start := strings.Index(rest, "[")
	if start == -1 {
		return nil, ErrNoJSON
	}
	candidate := sliceDelimited(rest[start:], '[', ']')
	if candidate == "" {
		return nil, ErrNoJSON
	}
	normalized := Normalize(candidate)
	if !json.Valid([]byte(normalized)) {
		return nil, ErrNoJSON
	}
	return json.RawMessage(normalized), nil
}

// Unmarshal recovers JSON from raw and decodes it into v.
func Unmarshal(raw string, v interface{}) error {
	value, err := Extract(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(value, v)
}

// Normalize strips markdown fences, removes trailing commas and converts
// single-quoted keys/values to double quotes. Quote conversion is naive on
// purpose: it only fires when strict parsing already failed.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = singleQuoteKey.ReplaceAllString(s, `"$1":`)
	s = singleQuoteVal.ReplaceAllString(s, `: "$1"`)
	return s
}

// firstDelimited returns the first balanced JSON-looking slice, preferring
// whichever delimiter appears first in the text.
func firstDelimited(s string) string {
	objIdx := strings.Index(s, "{")
	arrIdx := strings.Index(s, "[")

	if arrIdx != -1 && (objIdx == -1 || arrIdx < objIdx) {
		if c := sliceDelimited(s[arrIdx:], '[', ']'); c != "" {
			return c
		}
	}
	if objIdx != -1 {
		if c := sliceDelimited(s[objIdx:], '{', '}'); c != "" {
			return c
		}
	}
	if arrIdx != -1 {
		if c := sliceDelimited(s[arrIdx:], '[', ']'); c != "" {
			return c
		}
	}
	return ""
}

// sliceDelimited returns the balanced slice starting at the first open
// delimiter, respecting strings and escapes.
func sliceDelimited(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// delimiters inside strings don't count
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
