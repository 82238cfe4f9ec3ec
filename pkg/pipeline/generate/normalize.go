package generate

import (
	"fmt"
	"sort"
	"strings"
)

const optionCount = 4

// normalizeQuestion converts one raw decoded question into the canonical
// representation. Models emit options as plain string lists, lists of
// {"text": ...} objects, or letter-keyed maps ({"A": ..., "B": ...}), and
// name the correct answer by index, letter, or full option text. Questions
// that cannot be resolved to exactly four options with one identifiable
// correct answer are dropped.
func normalizeQuestion(raw map[string]interface{}, source string) (Question, bool) {
	text := firstString(raw, "question", "question_text", "text")
	if strings.TrimSpace(text) == "" {
		return Question{}, false
	}

	options, ok := normalizeOptions(raw["options"])
	if !ok || len(options) != optionCount {
		return Question{}, false
	}

	correct, ok := normalizeCorrect(raw, options)
	if !ok {
		return Question{}, false
	}

	return Question{
		Text:         strings.TrimSpace(text),
		Options:      options,
		CorrectIndex: correct,
		Explanation:  strings.TrimSpace(firstString(raw, "explanation", "answer_explanation")),
		Difficulty:   normalizeDifficulty(firstString(raw, "difficulty", "level")),
		Topic:        strings.TrimSpace(firstString(raw, "topic", "subject")),
		Source:       source,
	}, true
}

func normalizeOptions(v interface{}) ([]string, bool) {
	switch opts := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(opts))
		for _, o := range opts {
			switch item := o.(type) {
			case string:
				out = append(out, strings.TrimSpace(item))
			case map[string]interface{}:
				// {"text": "..."} or a single letter-keyed entry {"A": "..."}
				if s := firstString(item, "text", "option", "value"); s != "" {
					out = append(out, strings.TrimSpace(s))
				} else if len(item) == 1 {
					for _, inner := range item {
						if s, ok := inner.(string); ok {
							out = append(out, strings.TrimSpace(s))
						}
					}
				}
			}
		}
		return out, len(out) > 0
	case map[string]interface{}:
		// Letter-keyed map; letters sort into option order.
		letters := make([]string, 0, len(opts))
		for k := range opts {
			letters = append(letters, k)
		}
		sort.Strings(letters)
		out := make([]string, 0, len(letters))
		for _, letter := range letters {
			if s, ok := opts[letter].(string); ok {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out, len(out) > 0
	default:
		return nil, false
	}
}

func normalizeCorrect(raw map[string]interface{}, options []string) (int, bool) {
	for _, key := range []string{"correct_index", "correct_answer", "correctAnswer", "answer", "correct"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch c := v.(type) {
		case float64:
			idx := int(c)
			if idx >= 0 && idx < len(options) {
				return idx, true
			}
		case string:
			if idx, ok := resolveCorrectString(c, options); ok {
				return idx, true
			}
		}
	}
	return 0, false
}

func resolveCorrectString(s string, options []string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Single letter ("B", "b)", "C.")
	letter := strings.ToUpper(strings.TrimRight(s, ".):"))
	if len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'Z' {
		idx := int(letter[0] - 'A')
		if idx < len(options) {
			return idx, true
		}
	}
	// Numeric string
	var idx int
	if _, err := fmt.Sscanf(s, "%d", &idx); err == nil && idx >= 0 && idx < len(options) {
		return idx, true
	}
	// Full option text
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), s) {
			return i, true
		}
	}
	return 0, false
}

func normalizeDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return "easy"
	case "hard":
		return "hard"
	default:
		return "medium"
	}
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
