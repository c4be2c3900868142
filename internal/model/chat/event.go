package chat

import (
	"time"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/analysis/risk"
	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
)

// EventType names an outbound renderer event.
type EventType string

const (
	EventUserEcho             EventType = "user_echo"
	EventBotMessage           EventType = "bot_message"
	EventSystemNotice         EventType = "system_notice"
	EventAssessmentQuestion   EventType = "assessment_question"
	EventAssessmentProgress   EventType = "assessment_progress"
	EventAssessmentSummary    EventType = "assessment_summary"
	EventAssessmentDetail     EventType = "assessment_detail"
	EventCrisisAlert          EventType = "crisis_alert"
	EventEmotionAnalysis      EventType = "emotion_analysis"
	EventConversationAnalysis EventType = "conversation_analysis"
	EventSessionEnded         EventType = "session_ended"
)

// Event is one item handed to the transcript renderer. Only the payload
// matching Type is set.
type Event struct {
	Type      EventType `json:"type"`
	Text      string    `json:"text,omitempty"`
	Options   []string  `json:"options,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Question *Question           `json:"question,omitempty"`
	Progress *Progress           `json:"progress,omitempty"`
	Summary  *Summary            `json:"summary,omitempty"`
	Crisis   *Crisis             `json:"crisis,omitempty"`
	Emotion  *EmotionReading     `json:"emotion,omitempty"`
	Report   *ConversationReport `json:"report,omitempty"`
}

// Question is an assessment question with its 1-based position.
type Question struct {
	Text           string              `json:"text"`
	Index          int                 `json:"index"`
	Total          int                 `json:"total"`
	InstrumentName string              `json:"instrumentName"`
	Scale          []assessment.Anchor `json:"scale"`
}

// Progress is shown every few answered questions.
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Summary is the result card of a completed instrument.
type Summary struct {
	Kind            assessment.Kind             `json:"kind"`
	InstrumentName  string                      `json:"instrumentName"`
	Score           int                         `json:"score"`
	MaxScore        int                         `json:"maxScore"`
	Interpretation  string                      `json:"interpretation"`
	Level           assessment.Level            `json:"level"`
	Recommendations []assessment.Recommendation `json:"recommendations"`
	HighScoreItems  []int                       `json:"highScoreItems,omitempty"`
	Trend           *assessment.Trend           `json:"trend,omitempty"`
	Hotlines        []risk.Hotline              `json:"hotlines"`
}

// Crisis carries the fixed crisis block.
type Crisis struct {
	Message  string         `json:"message"`
	Hotlines []risk.Hotline `json:"hotlines"`
}

// EmotionReading is the side panel shown after a turn with matched keywords.
type EmotionReading struct {
	Sentiment  emotion.Sentiment  `json:"sentiment"`
	Label      string             `json:"label"`
	Categories []emotion.Category `json:"categories"`
	Names      []string           `json:"names"`
}

// ThemeCount is how many turns mentioned a category.
type ThemeCount struct {
	Category emotion.Category `json:"category"`
	Name     string           `json:"name"`
	Count    int              `json:"count"`
}

// ConversationReport is a whole-conversation analysis.
type ConversationReport struct {
	Text       string                    `json:"text"`
	Source     string                    `json:"source"`
	TurnCount  int                       `json:"turnCount"`
	Themes     []ThemeCount              `json:"themes"`
	Sentiments map[emotion.Sentiment]int `json:"sentiments"`
}

// Snapshot is a read-only view of a dialogue for clients.
type Snapshot struct {
	SessionID            string             `json:"sessionId"`
	Mode                 Mode               `json:"mode"`
	Phase                Phase              `json:"phase"`
	Instrument           assessment.Kind    `json:"instrument,omitempty"`
	QuestionIndex        int                `json:"questionIndex"`
	QuestionTotal        int                `json:"questionTotal,omitempty"`
	Themes               []emotion.Category `json:"themes"`
	TurnCount            int                `json:"turnCount"`
	AwaitingConfirmation bool               `json:"awaitingConfirmation,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
}
