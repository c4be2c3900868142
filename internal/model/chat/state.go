package chat

import (
	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
)

// Phase is the state of the conversation state machine.
type Phase string

const (
	PhaseGreeting     Phase = "greeting"
	PhaseConversation Phase = "conversation"
	PhaseAssessment   Phase = "assessment"
	PhaseSummary      Phase = "summary"
	PhaseEnded        Phase = "ended"
)

// ConversationState is owned by one dialogue for the lifetime of a session.
type ConversationState struct {
	Phase                 Phase                         `json:"phase"`
	CurrentAssessmentType assessment.Kind               `json:"currentAssessmentType,omitempty"`
	CurrentQuestionIndex  int                           `json:"currentQuestionIndex"`
	History               []Turn                        `json:"history"`
	EmotionalThemes       map[emotion.Category]struct{} `json:"-"`
}

// NewConversationState starts in the greeting phase.
func NewConversationState() ConversationState {
	return ConversationState{
		Phase:           PhaseGreeting,
		EmotionalThemes: make(map[emotion.Category]struct{}),
	}
}

// AppendTurn records a turn and unions its categories into the themes.
func (s *ConversationState) AppendTurn(t Turn) {
	s.History = append(s.History, t)
	if s.EmotionalThemes == nil {
		s.EmotionalThemes = make(map[emotion.Category]struct{})
	}
	for c := range t.Keywords {
		s.EmotionalThemes[c] = struct{}{}
	}
}

// AttachResponse fills the response of the latest turn. It reports false when
// there is no turn or the latest one already has a response.
func (s *ConversationState) AttachResponse(text string) bool {
	if len(s.History) == 0 {
		return false
	}
	last := &s.History[len(s.History)-1]
	if last.Response != "" {
		return false
	}
	last.Response = text
	return true
}

// TurnCount is the number of recorded turns.
func (s *ConversationState) TurnCount() int {
	return len(s.History)
}

// Themes lists the observed categories in display order.
func (s *ConversationState) Themes() []emotion.Category {
	var out []emotion.Category
	for _, c := range emotion.Categories {
		if _, ok := s.EmotionalThemes[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// CategoryTurnCounts counts, per category, how many distinct turns matched it.
func (s *ConversationState) CategoryTurnCounts() map[emotion.Category]int {
	counts := make(map[emotion.Category]int)
	for _, t := range s.History {
		for c := range t.Keywords {
			counts[c]++
		}
	}
	return counts
}

// Recent returns up to n turns preceding the latest one.
func (s *ConversationState) Recent(n int, excludeLatest bool) []Turn {
	history := s.History
	if excludeLatest && len(history) > 0 {
		history = history[:len(history)-1]
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}

// BeginAssessment enters the assessment phase at the first question of kind.
func (s *ConversationState) BeginAssessment(kind assessment.Kind) {
	s.Phase = PhaseAssessment
	s.CurrentAssessmentType = kind
	s.CurrentQuestionIndex = 0
}

// LeaveAssessment clears the instrument pointer once results are shown.
func (s *ConversationState) LeaveAssessment() {
	s.CurrentAssessmentType = ""
	s.CurrentQuestionIndex = 0
}

// Reset clears history and themes for the ended state.
func (s *ConversationState) Reset() {
	*s = NewConversationState()
	s.Phase = PhaseEnded
}
