package emotion

import (
	"math"
	"math/rand/v2"
	"strings"
)

// Sentiment is the coarse polarity of a message.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Intensity grades how many high-intensity markers a message carries.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Keywords maps a category to the literal triggers found for it. Categories
// without a match are absent.
type Keywords map[Category][]string

// Analysis is the per-Turn emotional reading stored in history.
type Analysis struct {
	Sentiment Sentiment            `json:"sentiment"`
	Emotions  map[Category]float64 `json:"emotions"`
	// Confidence is a placeholder drawn uniformly from [0.7, 1.0]; it is not
	// derived from the message.
	Confidence float64 `json:"confidence"`
}

// Result bundles every signal the analyzer derives from one message.
type Result struct {
	Analysis  Analysis
	Keywords  Keywords
	Intensity Intensity
	Urgency   bool
	Progress  bool
	Confusion bool
}

// Analyzer runs the keyword pipeline. The zero value draws confidence from
// the global random source.
type Analyzer struct {
	rng *rand.Rand
}

// NewAnalyzer returns an analyzer drawing confidence from rng. A nil rng uses
// the global source.
func NewAnalyzer(rng *rand.Rand) *Analyzer {
	return &Analyzer{rng: rng}
}

// Analyze reads a message with the global random source.
func Analyze(message string) Result {
	return (&Analyzer{}).Analyze(message)
}

// Analyze derives sentiment, keywords, emotion densities and context flags.
func (a *Analyzer) Analyze(message string) Result {
	normalized := strings.ToLower(message)
	keywords := extractKeywords(normalized)

	return Result{
		Analysis: Analysis{
			Sentiment:  sentimentOf(normalized),
			Emotions:   emotionScores(keywords),
			Confidence: 0.7 + a.float()*0.3,
		},
		Keywords:  keywords,
		Intensity: intensityOf(normalized),
		Urgency:   containsAny(normalized, urgencyWords()),
		Progress:  containsAny(normalized, progressWords),
		Confusion: containsAny(normalized, confusionWords),
	}
}

func (a *Analyzer) float() float64 {
	if a == nil || a.rng == nil {
		return rand.Float64()
	}
	return a.rng.Float64()
}

// ExtractKeywords collects every trigger of every category found in message.
func ExtractKeywords(message string) Keywords {
	return extractKeywords(strings.ToLower(message))
}

// ContainsCategory reports whether message holds any trigger of c.
func ContainsCategory(message string, c Category) bool {
	return containsAny(strings.ToLower(message), KeywordPatterns[c])
}

// DominantCategory returns the category with the most matched triggers, or
// General when nothing matched. Ties resolve in Categories order.
func DominantCategory(keywords Keywords) Category {
	best := General
	bestCount := 0
	for _, c := range Categories {
		if n := len(keywords[c]); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// IntensityOf grades a message by its high-intensity markers.
func IntensityOf(message string) Intensity {
	return intensityOf(strings.ToLower(message))
}

func extractKeywords(normalized string) Keywords {
	found := make(Keywords)
	for _, c := range Categories {
		var hits []string
		for _, word := range KeywordPatterns[c] {
			if strings.Contains(normalized, word) {
				hits = append(hits, word)
			}
		}
		if len(hits) > 0 {
			found[c] = hits
		}
	}
	return found
}

func emotionScores(keywords Keywords) map[Category]float64 {
	scores := make(map[Category]float64, len(keywords))
	for c, hits := range keywords {
		total := len(KeywordPatterns[c])
		if total == 0 {
			continue
		}
		scores[c] = math.Min(float64(len(hits))/float64(total), 1.0)
	}
	return scores
}

func sentimentOf(normalized string) Sentiment {
	positive := countMatches(normalized, positiveWords)
	negative := countMatches(normalized, negativeWords)
	switch {
	case positive > negative:
		return Positive
	case negative > positive:
		return Negative
	default:
		return Neutral
	}
}

func intensityOf(normalized string) Intensity {
	switch n := countMatches(normalized, intensityMarkers); {
	case n >= 3:
		return IntensityHigh
	case n >= 1:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

func countMatches(normalized string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(normalized, word) {
			count++
		}
	}
	return count
}

func containsAny(normalized string, words []string) bool {
	for _, word := range words {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}
