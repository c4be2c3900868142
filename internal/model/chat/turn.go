package chat

import (
	"time"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
)

// Turn is one user message plus its derived analysis and eventual reply.
// Input is always anonymized.
type Turn struct {
	Input     string           `json:"input"`
	Analysis  emotion.Analysis `json:"analysis"`
	Keywords  emotion.Keywords `json:"keywords"`
	Response  string           `json:"response,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Pace is the content pacing derived from the turn count. It only shapes
// wording; it does not drive the state machine.
type Pace string

const (
	PaceOpening Pace = "opening"
	PaceMiddle  Pace = "middle"
	PaceDeep    Pace = "deep"
)

// PaceOf maps a turn count to a pace.
func PaceOf(turns int) Pace {
	switch {
	case turns <= 2:
		return PaceOpening
	case turns <= 6:
		return PaceMiddle
	default:
		return PaceDeep
	}
}
