// Package responder builds replies from a fixed template corpus when no
// external provider is configured or the provider fails.
package responder

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
)

const (
	recentWindow         = 3
	repetitionLookback   = 3
	supportProbability   = 0.3
	extendedSupportAfter = 5
)

// Selector picks templates and remembers the last few it returned so they
// are not repeated. A Selector belongs to one session and is not safe for
// concurrent use.
type Selector struct {
	rng    *rand.Rand
	recent []string
}

// NewSelector returns a selector sampling from rng. A nil rng uses the global
// source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select composes a reply for the latest turn in state. signals must be the
// analysis of message.
func (s *Selector) Select(message string, state *chat.ConversationState, signals emotion.Result) string {
	count := state.TurnCount()
	pace := chat.PaceOf(count)
	dominant := emotion.DominantCategory(signals.Keywords)

	parts := []string{s.base(dominant, pace, signals)}
	if q := s.followUp(pace, signals, repeated(state, signals.Keywords)); q != "" {
		parts = append(parts, q)
	}
	if s.float() < supportProbability {
		parts = append(parts, s.support(count))
	}
	return strings.Join(parts, " ")
}

// Recent returns the anti-repetition window, oldest first.
func (s *Selector) Recent() []string {
	return slices.Clone(s.recent)
}

func (s *Selector) base(dominant emotion.Category, pace chat.Pace, signals emotion.Result) string {
	switch {
	case signals.Urgency:
		return s.pick(crisisResponses)
	case signals.Progress:
		return s.pick(improvementResponses)
	case signals.Confusion:
		return s.pick(confusionResponses)
	}

	b, ok := templates[dominant]
	if !ok {
		b = templates[emotion.General]
	}
	return s.pick(b[pace])
}

func (s *Selector) followUp(pace chat.Pace, signals emotion.Result, repetition bool) string {
	switch {
	case repetition:
		return s.pick(perspectiveQuestions)
	case signals.Intensity == emotion.IntensityHigh:
		return s.pick(urgentQuestions)
	default:
		return s.pick(paceQuestions[pace])
	}
}

func (s *Selector) support(count int) string {
	pool := supportLines
	if count > extendedSupportAfter {
		pool = append(slices.Clone(supportLines), extendedSupportLines...)
	}
	return s.pick(pool)
}

// pick samples uniformly from options, skipping anything in the recent window
// while an alternative exists.
func (s *Selector) pick(options []string) string {
	if len(options) == 0 {
		return fallbackResponse
	}

	available := make([]string, 0, len(options))
	for _, o := range options {
		if !slices.Contains(s.recent, o) {
			available = append(available, o)
		}
	}
	if len(available) == 0 {
		available = options
	}

	chosen := available[s.intN(len(available))]
	s.recent = append(s.recent, chosen)
	if len(s.recent) > recentWindow {
		s.recent = s.recent[len(s.recent)-recentWindow:]
	}
	return chosen
}

// repeated reports whether the current message shares a category with one of
// the turns before it. The current turn itself is not compared.
func repeated(state *chat.ConversationState, current emotion.Keywords) bool {
	if state.TurnCount() < repetitionLookback || len(current) == 0 {
		return false
	}
	for _, t := range state.Recent(repetitionLookback, true) {
		for c := range current {
			if _, ok := t.Keywords[c]; ok {
				return true
			}
		}
	}
	return false
}

func (s *Selector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

func (s *Selector) float() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	return s.rng.Float64()
}
