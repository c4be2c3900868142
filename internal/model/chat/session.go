package chat

import (
	"time"

	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
)

// Mode is the counseling mode picked at the start of a session.
type Mode string

const (
	ModeNone         Mode = ""
	ModeConversation Mode = "conversation"
	ModeAssessment   Mode = "assessment"
)

// ParseMode validates a mode coming from a client.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeConversation, ModeAssessment:
		return Mode(raw), true
	default:
		return ModeNone, false
	}
}

// Session captures a transient anonymous counseling session. Nothing in it
// outlives the process.
type Session struct {
	ID        string               `json:"id"`
	Mode      Mode                 `json:"mode"`
	Scores    assessment.ScoreBook `json:"scores"`
	CreatedAt time.Time            `json:"createdAt"`
}

// NewSession returns a session with an empty score book.
func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		Scores:    assessment.NewScoreBook(),
		CreatedAt: now.UTC(),
	}
}

// Clear drops every user-derived field. The id is kept so late callers can
// still be told the session ended.
func (s *Session) Clear() {
	s.Mode = ModeNone
	s.Scores.Clear()
}
