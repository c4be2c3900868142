package assessment

import (
	"strconv"
	"strings"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
)

// Select picks the instrument for a free-text problem description.
// Depression signals are checked before anxiety signals; anything else gets
// the stress scale.
func Select(message string) Kind {
	switch {
	case emotion.ContainsCategory(message, emotion.Depression):
		return PHQ9
	case emotion.ContainsCategory(message, emotion.Anxiety):
		return GAD7
	default:
		return PSS
	}
}

// SuggestionThreshold is the number of distinct Turns a category must appear
// in before its instrument is proposed.
const SuggestionThreshold = 3

// SuggestionFor maps a category to the instrument that measures it.
func SuggestionFor(c emotion.Category) (Kind, bool) {
	switch c {
	case emotion.Depression:
		return PHQ9, true
	case emotion.Anxiety:
		return GAD7, true
	case emotion.Stress:
		return PSS, true
	default:
		return "", false
	}
}

// ValidRating reports whether r is on the shared scale.
func ValidRating(r int) bool {
	return r >= 0 && r <= MaxRating
}

// ParseRating accepts a bare number or an anchor label typed as text.
func ParseRating(text string) (int, bool) {
	trimmed := strings.TrimSpace(text)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, ValidRating(n)
	}
	for _, a := range Scale {
		if strings.Contains(trimmed, a.Label) {
			return a.Score, true
		}
	}
	return 0, false
}
