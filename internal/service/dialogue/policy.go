package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/analysis/risk"
	"github.com/zhouzirui/z-counsel/backend/internal/anonymize"
	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/ai"
	"github.com/zhouzirui/z-counsel/backend/internal/service/responder"
)

// Message tokens.
const (
	endToken      = "종료"
	analysisToken = "분석"
	analysisEvery = 5
)

var assessmentTokens = []string{"검사", "평가", "test", "evaluate"}

func normalizeInput(text string) string {
	return strings.TrimSpace(text)
}

// route applies the token checks in order and falls through to a
// conversation turn. The user echo and any crisis alert are already in b.
func (d *Dialogue) route(ctx context.Context, b *batch, text string) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, endToken) {
		d.end(ctx, b)
		return
	}

	if d.pendingRetake != "" && d.resolveRetake(b, lower) {
		return
	}

	switch d.state.Phase {
	case chat.PhaseAssessment:
		d.answerText(b, text)
		return
	case chat.PhaseGreeting:
		if containsAny(lower, assessmentTokens) {
			if describesProblem(text) {
				d.session.Mode = chat.ModeAssessment
				d.moveTo(chat.PhaseConversation)
				b.notice("📋 표준 심리검사 모드를 선택하셨습니다.")
				d.startAssessment(b, assessment.Select(text), false)
				return
			}
			d.selectMode(b, chat.ModeAssessment)
			return
		}
		d.session.Mode = chat.ModeConversation
		d.moveTo(chat.PhaseConversation)
	}

	if d.awaitingDescription {
		d.awaitingDescription = false
		d.startAssessment(b, assessment.Select(text), false)
		return
	}

	if d.session.Mode == chat.ModeConversation && containsAny(lower, assessmentTokens) {
		b.notice("📋 표준 심리검사로 전환합니다.")
		d.startAssessment(b, d.routeKind(text), false)
		return
	}

	if strings.Contains(lower, analysisToken) && d.state.TurnCount() > 0 {
		d.analyse(ctx, b)
		return
	}

	d.conversationTurn(ctx, b, text)
}

// checkRisk emits the crisis block whenever the risk lexicon matches. It runs
// before any other handling in every phase.
func (d *Dialogue) checkRisk(b *batch, text string) {
	if res := risk.Detect(text); res.Triggered {
		log.Printf("[dialogue] session=%s risk lexicon matched, terms=%d", d.session.ID, len(res.Matches))
		b.add(chat.Event{
			Type:   chat.EventCrisisAlert,
			Text:   risk.CrisisMessage(),
			Crisis: &chat.Crisis{Message: risk.CrisisMessage(), Hotlines: risk.Hotlines},
		})
	}
}

func (d *Dialogue) selectMode(b *batch, mode chat.Mode) {
	d.session.Mode = mode
	d.pendingRetake = ""
	d.moveTo(chat.PhaseConversation)

	if mode == chat.ModeConversation {
		d.awaitingDescription = false
		b.notice("💬 자유 대화 상담 모드를 선택하셨습니다.")
		b.bot("안녕하세요! 편안한 마음으로 현재 상황이나 고민을 자유롭게 말씀해주세요. "+
			"필요하다면 언제든 표준 심리검사를 제안드릴 수 있습니다.", conversationOptions...)
		return
	}

	d.awaitingDescription = true
	b.notice("📋 표준 심리검사 모드를 선택하셨습니다.")
	b.bot("어떤 문제로 검사를 받고 싶으신지 간단히 말씀해주세요. "+
		"적절한 표준화된 심리검사를 추천해드리겠습니다.", descriptionOptions...)
}

func (d *Dialogue) conversationTurn(ctx context.Context, b *batch, text string) {
	input := anonymize.Text(text)
	signals := d.analyzer.Analyze(input)

	d.state.AppendTurn(chat.Turn{
		Input:     input,
		Analysis:  signals.Analysis,
		Keywords:  signals.Keywords,
		Timestamp: b.at,
	})

	reply := d.reply(ctx, input, signals)
	d.state.AttachResponse(reply)
	b.bot(reply)

	if len(signals.Keywords) > 0 {
		b.add(emotionEvent(signals))
	}

	d.suggest(b)

	if d.state.TurnCount()%analysisEvery == 0 {
		b.notice("📊 대화 분석을 제공합니다.")
		d.analyse(ctx, b)
	}
}

// reply asks the provider first and falls back to the local selector on any
// failure. Failures are logged only.
func (d *Dialogue) reply(ctx context.Context, input string, signals emotion.Result) string {
	if d.generator != nil {
		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		prompt := ai.ConversationPrompt(input, &d.state, d.session.Mode, signals)
		text, err := d.generator.Generate(callCtx, prompt)
		if err == nil {
			return text
		}
		log.Printf("[dialogue] session=%s %s generation failed, use local: %v", d.session.ID, d.generator.Name(), err)
	}
	return d.selector.Select(input, &d.state, signals)
}

// suggest proposes an instrument once per category per session after the
// category shows up in enough turns. At most one proposal is made per turn;
// a category still waiting is proposed on a later turn.
func (d *Dialogue) suggest(b *batch) {
	if d.session.Mode != chat.ModeConversation {
		return
	}

	counts := d.state.CategoryTurnCounts()
	for _, c := range emotion.Categories {
		if counts[c] < assessment.SuggestionThreshold || d.suggested[c] {
			continue
		}
		kind, ok := assessment.SuggestionFor(c)
		if !ok {
			continue
		}
		d.suggested[c] = true
		d.lastSuggested = kind

		inst := assessment.MustLookup(kind)
		b.bot(fmt.Sprintf("대화를 통해 %s 내용이 지속적으로 나타나고 있습니다. "+
			"보다 정확한 평가를 위해 %s를 받아보시는 것은 어떨까요?", emotion.DisplayName(c), inst.Name),
			suggestionOptions...)
		return
	}
}

func (d *Dialogue) analyse(ctx context.Context, b *batch) {
	if d.state.TurnCount() == 0 {
		b.bot("아직 분석할 대화 내용이 충분하지 않습니다.")
		return
	}
	report := d.insight.Report(ctx, d.state.History)
	b.add(chat.Event{Type: chat.EventConversationAnalysis, Text: report.Text, Report: &report})
}

func (d *Dialogue) end(ctx context.Context, b *batch) {
	if d.state.TurnCount() > 0 {
		b.notice("상담을 종료하기 전, 전체 대화 내용을 바탕으로 '초기 진단' 요약을 제공해 드립니다.")
		d.analyse(ctx, b)
	}

	b.notice("상담을 종료합니다.")
	b.bot("🙏 상담에 참여해주셔서 감사합니다.\n" +
		"🔒 모든 대화 기록이 안전하게 삭제됩니다.\n" +
		"💚 언제든 다시 도움이 필요하시면 새로운 상담을 시작하세요.")
	b.add(chat.Event{Type: chat.EventSessionEnded})

	from := d.state.Phase
	d.session.Clear()
	d.state.Reset()
	d.selector = responder.NewSelector(d.rng)
	d.awaitingDescription = false
	d.pendingRetake = ""
	d.lastSuggested = ""
	d.suggested = make(map[emotion.Category]bool)
	d.ended = true
	d.notify(from, chat.PhaseEnded)

	log.Printf("[dialogue] session=%s ended, data cleared", d.session.ID)
}

func emotionEvent(signals emotion.Result) chat.Event {
	reading := &chat.EmotionReading{
		Sentiment: signals.Analysis.Sentiment,
		Label:     sentimentLabel(signals.Analysis.Sentiment),
	}
	for _, c := range emotion.Categories {
		if _, ok := signals.Keywords[c]; ok {
			reading.Categories = append(reading.Categories, c)
			reading.Names = append(reading.Names, emotion.DisplayName(c))
		}
	}
	return chat.Event{
		Type:    chat.EventEmotionAnalysis,
		Text:    fmt.Sprintf("전반적 감정: %s · 감지된 키워드: %s", reading.Label, strings.Join(reading.Names, ", ")),
		Emotion: reading,
	}
}

func sentimentLabel(s emotion.Sentiment) string {
	switch s {
	case emotion.Positive:
		return "긍정적"
	case emotion.Negative:
		return "부정적"
	default:
		return "중립적"
	}
}

// describesProblem reports whether text names a category that maps to an
// instrument.
func describesProblem(text string) bool {
	for _, c := range emotion.Categories {
		if _, ok := assessment.SuggestionFor(c); ok && emotion.ContainsCategory(text, c) {
			return true
		}
	}
	return false
}

func containsAny(lower string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
