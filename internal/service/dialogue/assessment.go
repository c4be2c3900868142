package dialogue

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/analysis/risk"
	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
)

const (
	progressEvery     = 3
	detailQuestionLen = 50
)

var typeNotices = map[assessment.Kind]string{
	assessment.PHQ9: "🔍 우울감과 관련된 내용이 감지되었습니다.",
	assessment.GAD7: "🔍 불안감과 관련된 내용이 감지되었습니다.",
	assessment.PSS:  "🔍 전반적인 스트레스 평가를 진행하겠습니다.",
}

// routeKind picks the instrument for an assessment request. A message that
// names no category of its own follows the last suggestion.
func (d *Dialogue) routeKind(text string) assessment.Kind {
	kind := assessment.Select(text)
	if kind == assessment.PSS && d.lastSuggested != "" && !emotion.ContainsCategory(text, emotion.Stress) {
		kind = d.lastSuggested
	}
	d.lastSuggested = ""
	return kind
}

// startAssessment begins kind unless it was started within RetakeInterval,
// in which case it asks for confirmation first.
func (d *Dialogue) startAssessment(b *batch, kind assessment.Kind, override bool) {
	if !override {
		if gate := d.session.Scores.CheckRetake(kind, d.now()); gate.Blocked {
			d.pendingRetake = kind
			b.bot(fmt.Sprintf("이 검사는 %d일 전에 실시하셨습니다. "+
				"신뢰도 있는 결과를 위해 최소 7일 간격을 두고 검사하시는 것을 권장합니다. "+
				"그래도 진행하시겠습니까?", gate.DaysSince), retakeOptions...)
			return
		}
	}

	inst := assessment.MustLookup(kind)
	b.notice(typeNotices[kind])
	b.bot(fmt.Sprintf("%s를 진행하겠습니다. 각 질문에 솔직하게 답변해주세요. "+
		"정답은 없으며, 지난 2주간 당신이 느낀 그대로 응답하시면 됩니다.", inst.Name))

	d.pendingRetake = ""
	d.awaitingDescription = false
	d.session.Mode = chat.ModeAssessment
	d.session.Scores.Begin(kind, d.now())

	from := d.state.Phase
	d.state.BeginAssessment(kind)
	d.notify(from, chat.PhaseAssessment)

	d.askQuestion(b)
}

// resolveRetake consumes a pending re-take confirmation. It reports whether
// the message was an answer to it; anything else cancels the confirmation.
func (d *Dialogue) resolveRetake(b *batch, lower string) bool {
	kind := d.pendingRetake
	d.pendingRetake = ""
	if d.session.Mode == chat.ModeAssessment {
		d.session.Mode = chat.ModeConversation
	}

	switch {
	case isNegative(lower):
		b.bot("알겠습니다. 검사는 다음에 진행하겠습니다. 편하게 대화를 이어가셔도 좋습니다.")
		return true
	case isAffirmative(lower):
		d.startAssessment(b, kind, true)
		return true
	default:
		return false
	}
}

func isAffirmative(lower string) bool {
	return strings.HasPrefix(lower, "네") || strings.HasPrefix(lower, "예") ||
		strings.HasPrefix(lower, "yes") || strings.Contains(lower, "진행하")
}

func isNegative(lower string) bool {
	return strings.HasPrefix(lower, "아니") || strings.HasPrefix(lower, "no") ||
		strings.Contains(lower, "다음에")
}

func (d *Dialogue) askQuestion(b *batch) {
	inst := assessment.MustLookup(d.state.CurrentAssessmentType)
	idx := d.state.CurrentQuestionIndex
	text := inst.Question(idx)

	b.add(chat.Event{
		Type: chat.EventAssessmentQuestion,
		Text: text,
		Question: &chat.Question{
			Text:           text,
			Index:          idx + 1,
			Total:          len(inst.Questions),
			InstrumentName: inst.Name,
			Scale:          assessment.Scale,
		},
	})
}

// answerText treats a typed message during an assessment as a rating, or
// asks the question again.
func (d *Dialogue) answerText(b *batch, text string) {
	if rating, ok := assessment.ParseRating(text); ok {
		d.recordRating(b, rating)
		return
	}
	b.notice("0~3 사이의 숫자나 보기 중 하나로 답변해주세요.")
	d.askQuestion(b)
}

func (d *Dialogue) recordRating(b *batch, rating int) {
	kind := d.state.CurrentAssessmentType
	inst := assessment.MustLookup(kind)
	total := len(inst.Questions)
	if d.state.CurrentQuestionIndex >= total {
		panic(fmt.Sprintf("dialogue: rating recorded past the last question of %s", kind))
	}

	d.session.Scores.Record(kind, rating)
	d.state.CurrentQuestionIndex++
	answered := d.state.CurrentQuestionIndex

	if answered == total {
		d.complete(b, inst)
		return
	}
	if answered%progressEvery == 0 {
		b.add(chat.Event{
			Type:     chat.EventAssessmentProgress,
			Text:     fmt.Sprintf("진행률: %d/%d (%d%%)", answered, total, answered*100/total),
			Progress: &chat.Progress{Answered: answered, Total: total},
		})
	}
	d.askQuestion(b)
}

func (d *Dialogue) complete(b *batch, inst assessment.Instrument) {
	d.moveTo(chat.PhaseSummary)
	b.notice("✅ 검사가 완료되었습니다. 결과를 분석하고 있습니다...")

	res := d.session.Scores.Complete(inst.Kind)
	b.add(chat.Event{
		Type: chat.EventAssessmentSummary,
		Text: fmt.Sprintf("📊 %s 결과: %d점 (%s)", inst.Name, res.Total, res.Band.Label),
		Summary: &chat.Summary{
			Kind:            inst.Kind,
			InstrumentName:  inst.Name,
			Score:           res.Total,
			MaxScore:        inst.MaxScore(),
			Interpretation:  res.Band.Label,
			Level:           res.Band.Level,
			Recommendations: res.Recommendations,
			HighScoreItems:  res.HighScoreItems,
			Trend:           res.Trend,
			Hotlines:        risk.Hotlines,
		},
	})
	b.add(chat.Event{Type: chat.EventAssessmentDetail, Text: detailText(inst, res)})
	b.bot("검사 결과를 바탕으로 추가 상담을 계속하시거나, 다른 검사를 받아보실 수 있습니다.", followUpOptions...)

	d.session.Mode = chat.ModeConversation
	d.state.LeaveAssessment()
	d.moveTo(chat.PhaseConversation)
}

func detailText(inst assessment.Instrument, res assessment.Result) string {
	var b strings.Builder
	b.WriteString("## 세부 분석\n\n")

	if len(res.HighScoreItems) > 0 {
		b.WriteString("특히 다음 항목들에서 높은 점수를 보이셨습니다:\n")
		for _, i := range res.HighScoreItems {
			fmt.Fprintf(&b, "\n• 항목 %d: %q\n", i+1, truncate(inst.Question(i), detailQuestionLen))
		}
		b.WriteString("\n이러한 증상들이 일상생활에 영향을 미치고 있다면, 전문가와 상담하는 것이 도움이 될 수 있습니다.\n")
	} else {
		b.WriteString("전반적으로 균형잡힌 응답을 보이셨습니다. 현재 상태를 잘 유지하시되, 변화가 있다면 다시 평가해보시는 것을 권장합니다.\n")
	}

	if t := res.Trend; t != nil {
		b.WriteString("\n## 변화 추이\n\n")
		switch t.Direction {
		case assessment.Worsening:
			fmt.Fprintf(&b, "⚠️ 이전 검사 대비 %d점 증가했습니다. 증상이 악화되고 있을 수 있으니 주의가 필요합니다.\n", t.Delta)
		case assessment.Improving:
			fmt.Fprintf(&b, "✅ 이전 검사 대비 %d점 감소했습니다. 긍정적인 변화가 보이고 있습니다.\n", -t.Delta)
		default:
			b.WriteString("유사한 수준을 유지하고 있습니다.\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
