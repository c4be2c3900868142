// Package dialogue drives one counseling session: the conversation state
// machine, the per-message policy, assessments and crisis handling.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/ai"
	"github.com/zhouzirui/z-counsel/backend/internal/service/insight"
	"github.com/zhouzirui/z-counsel/backend/internal/service/responder"
)

var (
	ErrSessionEnded    = errors.New("session has ended")
	ErrInvalidMode     = errors.New("invalid counseling mode")
	ErrNotInAssessment = errors.New("no assessment in progress")
	ErrInvalidRating   = errors.New("rating must be between 0 and 3")
	ErrEmptyMessage    = errors.New("message is empty")
)

const defaultTimeout = 20 * time.Second

// Options wires the collaborators of a Dialogue. Every field is optional.
type Options struct {
	// Generator is the external provider; nil means local replies only.
	Generator ai.Generator
	Insight   *insight.Service
	// Timeout bounds each provider call.
	Timeout time.Duration
	Now     func() time.Time
	Rand    *rand.Rand
	// OnTransition is called after every phase change.
	OnTransition func(from, to chat.Phase)
}

// Dialogue owns a Session and its ConversationState. It is not safe for
// concurrent use; the registry serialises calls per session.
type Dialogue struct {
	session chat.Session
	state   chat.ConversationState

	analyzer  *emotion.Analyzer
	selector  *responder.Selector
	generator ai.Generator
	insight   *insight.Service

	timeout      time.Duration
	now          func() time.Time
	rng          *rand.Rand
	onTransition func(from, to chat.Phase)

	awaitingDescription bool
	pendingRetake       assessment.Kind
	lastSuggested       assessment.Kind
	suggested           map[emotion.Category]bool
	ended               bool
}

// New starts a dialogue in the greeting phase.
func New(id string, opts Options) *Dialogue {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	svc := opts.Insight
	if svc == nil {
		svc = insight.NewService(nil, insight.Config{})
	}

	return &Dialogue{
		session:      chat.NewSession(id, now()),
		state:        chat.NewConversationState(),
		analyzer:     emotion.NewAnalyzer(opts.Rand),
		selector:     responder.NewSelector(opts.Rand),
		generator:    opts.Generator,
		insight:      svc,
		timeout:      timeout,
		now:          now,
		rng:          opts.Rand,
		onTransition: opts.OnTransition,
		suggested:    make(map[emotion.Category]bool),
	}
}

// ID returns the session id.
func (d *Dialogue) ID() string {
	return d.session.ID
}

// Ended reports whether the session was terminated.
func (d *Dialogue) Ended() bool {
	return d.ended
}

// Greeting returns the events shown when a session opens.
func (d *Dialogue) Greeting() []chat.Event {
	b := d.batch()
	b.notice("🔒 개인정보 보호: 모든 대화는 익명화되어 임시 저장되며, 상담 종료 시 자동 삭제됩니다.")
	b.bot("안녕하세요! AI 심리상담 도우미입니다. 어떤 방식으로 상담을 진행하시겠어요?", welcomeOptions...)
	return b.events
}

// Snapshot returns a read-only view of the dialogue.
func (d *Dialogue) Snapshot() chat.Snapshot {
	snap := chat.Snapshot{
		SessionID:            d.session.ID,
		Mode:                 d.session.Mode,
		Phase:                d.state.Phase,
		Instrument:           d.state.CurrentAssessmentType,
		QuestionIndex:        d.state.CurrentQuestionIndex,
		Themes:               d.state.Themes(),
		TurnCount:            d.state.TurnCount(),
		AwaitingConfirmation: d.pendingRetake != "",
		CreatedAt:            d.session.CreatedAt,
	}
	if inst, ok := assessment.Lookup(d.state.CurrentAssessmentType); ok {
		snap.QuestionTotal = len(inst.Questions)
	}
	return snap
}

// SelectMode applies an explicit mode choice.
func (d *Dialogue) SelectMode(mode chat.Mode) ([]chat.Event, error) {
	if d.ended {
		return nil, ErrSessionEnded
	}
	if _, ok := chat.ParseMode(string(mode)); !ok {
		return nil, ErrInvalidMode
	}
	if d.state.Phase == chat.PhaseAssessment {
		return nil, fmt.Errorf("%w: an assessment is in progress", ErrInvalidMode)
	}

	b := d.batch()
	d.selectMode(b, mode)
	return b.events, nil
}

// HandleMessage runs the per-message policy for one user message.
func (d *Dialogue) HandleMessage(ctx context.Context, text string) ([]chat.Event, error) {
	if d.ended {
		return nil, ErrSessionEnded
	}
	text = normalizeInput(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	b := d.batch()
	b.add(chat.Event{Type: chat.EventUserEcho, Text: text})
	d.checkRisk(b, text)
	d.route(ctx, b, text)
	return b.events, nil
}

// SubmitRating answers the current assessment question.
func (d *Dialogue) SubmitRating(rating int) ([]chat.Event, error) {
	if d.ended {
		return nil, ErrSessionEnded
	}
	if d.state.Phase != chat.PhaseAssessment {
		return nil, ErrNotInAssessment
	}
	if !assessment.ValidRating(rating) {
		return nil, ErrInvalidRating
	}

	b := d.batch()
	d.recordRating(b, rating)
	return b.events, nil
}

// RequestAnalysis produces an on-demand conversation analysis.
func (d *Dialogue) RequestAnalysis(ctx context.Context) ([]chat.Event, error) {
	if d.ended {
		return nil, ErrSessionEnded
	}
	b := d.batch()
	d.analyse(ctx, b)
	return b.events, nil
}

// End runs the final analysis and clears the session irreversibly.
func (d *Dialogue) End(ctx context.Context) ([]chat.Event, error) {
	if d.ended {
		return nil, ErrSessionEnded
	}
	b := d.batch()
	d.end(ctx, b)
	return b.events, nil
}

func (d *Dialogue) moveTo(to chat.Phase) {
	from := d.state.Phase
	d.state.Phase = to
	d.notify(from, to)
}

func (d *Dialogue) notify(from, to chat.Phase) {
	if from != to && d.onTransition != nil {
		d.onTransition(from, to)
	}
}
