package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
)

const (
	userPromptTurns    = 5
	historyExchanges   = 3
	analysisMaxTokens  = 1000
	analysisInputRunes = 100
)

var analysisTemperature = float32(0.5)

// AnalysisSystemPrompt frames the conversation analysis request.
const AnalysisSystemPrompt = "당신은 전문 심리상담 분석가입니다."

// ConversationPrompt builds the prompt for the latest turn in state. The
// crisis protocol replaces the counseling prompt when signals.Urgency is set.
func ConversationPrompt(message string, state *chat.ConversationState, mode chat.Mode, signals emotion.Result) Prompt {
	system := SystemPrompt(state, mode)
	if signals.Urgency {
		system = CrisisPrompt(message)
	}

	previous := state.Recent(historyExchanges, true)
	history := make([]Exchange, 0, len(previous))
	for _, t := range previous {
		history = append(history, Exchange{User: t.Input, Assistant: t.Response})
	}

	return Prompt{
		System:  system,
		User:    UserPrompt(message, state, signals),
		History: history,
	}
}

// AnalysisPrompt builds the prompt for a whole-conversation analysis.
func AnalysisPrompt(turns []chat.Turn) Prompt {
	return Prompt{
		System:      AnalysisSystemPrompt,
		User:        analysisRequest(turns),
		MaxTokens:   analysisMaxTokens,
		Temperature: &analysisTemperature,
	}
}

// SystemPrompt describes the counselor role, tuned to the conversation pace.
func SystemPrompt(state *chat.ConversationState, mode chat.Mode) string {
	count := state.TurnCount()
	pace := chat.PaceOf(count)

	themes := make([]string, 0)
	for _, c := range state.Themes() {
		themes = append(themes, emotion.DisplayName(c))
	}
	themeText := strings.Join(themes, ", ")
	if themeText == "" {
		themeText = "분석 중"
	}

	modeText := "대화형 상담"
	if mode == chat.ModeAssessment {
		modeText = "표준 심리검사"
	}

	var b strings.Builder
	b.WriteString(counselorRole)
	b.WriteString("\n\n### 대화 단계별 접근\n")
	fmt.Fprintf(&b, "현재 대화 단계: %s\n", pace)
	b.WriteString(paceGuidance[pace])
	b.WriteString("\n")
	b.WriteString(counselorRules)
	b.WriteString("\n\n## 현재 상담 컨텍스트\n")
	fmt.Fprintf(&b, "- 상담 모드: %s\n", modeText)
	fmt.Fprintf(&b, "- 대화 횟수: %d회\n", count)
	fmt.Fprintf(&b, "- 주요 감정 테마: %s\n", themeText)
	b.WriteString("\n이제 내담자와의 대화를 이어가세요. 위의 지침을 염두에 두고 진심 어린 상담을 제공해주세요.")
	return b.String()
}

// UserPrompt wraps the message with recent context and the hidden analysis.
func UserPrompt(message string, state *chat.ConversationState, signals emotion.Result) string {
	recent := state.Recent(userPromptTurns, true)
	earlier := state.TurnCount() - 1 - len(recent)

	var b strings.Builder
	if len(recent) > 0 {
		b.WriteString("## 최근 대화 맥락\n")
		for i, t := range recent {
			fmt.Fprintf(&b, "\n### 대화 %d\n", earlier+i+1)
			fmt.Fprintf(&b, "내담자: %q\n", t.Input)
			if t.Response != "" {
				fmt.Fprintf(&b, "상담사: %q\n", t.Response)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## 현재 메시지 분석\n")
	fmt.Fprintf(&b, "- 전반적 감정: %s\n", sentimentLabel(signals.Analysis.Sentiment))
	if len(signals.Keywords) > 0 {
		b.WriteString("- 감지된 키워드 카테고리:\n")
		for _, c := range emotion.Categories {
			if _, ok := signals.Keywords[c]; ok {
				fmt.Fprintf(&b, "  * %s\n", emotion.DisplayName(c))
			}
		}
	}
	if signals.Urgency {
		b.WriteString("\n⚠️ **위험 신호 감지**: 자살/자해 관련 표현이 포함되어 있습니다. 즉각적이고 신중한 대응이 필요합니다.\n")
	}
	fmt.Fprintf(&b, "- 감정 강도: %s\n", intensityLabel(signals.Intensity))

	fmt.Fprintf(&b, "\n## 내담자의 현재 메시지\n%q\n\n---\n\n", message)
	b.WriteString("**중요**: 위의 분석 정보는 참고용이며, 내담자에게 보이지 않습니다. 분석 내용을 직접 언급하지 말고, 자연스럽게 공감하고 탐색하는 응답을 생성하세요.\n")
	fmt.Fprintf(&b, "대화 횟수(%d회)에 맞는 깊이로, 1-2개의 개방형 질문으로 탐색을 유도하세요.\n", state.TurnCount())
	if signals.Urgency {
		b.WriteString("🚨 위험 상황입니다. 전문기관 연계를 반드시 안내하세요.\n")
	}
	return b.String()
}

// CrisisPrompt is the crisis intervention protocol for message.
func CrisisPrompt(message string) string {
	return fmt.Sprintf(`⚠️ 위기 상황 감지됨

내담자의 메시지:
%q

## 즉각 대응 프로토콜
다음 순서로 응답하세요:
1. **즉각적 안전 확인** (1문장): "지금 안전한 상태이신가요?"와 같은 직접적 질문
2. **우려 표현** (2문장): 진심 어린 걱정과 판단하지 않는 태도
3. **전문 도움 강력 권유** (필수): 생명의전화 1393, 정신건강위기상담전화 1577-0199, 119 (응급상황), 가까운 정신건강복지센터
4. **즉각적 지지** (2-3문장): 혼자가 아니라는 것을 강조하고 전문 기관 연락을 권유
5. **추가 안전 계획** (선택적): 신뢰할 수 있는 사람에게 연락하거나 안전한 장소로 이동

**중요**: AI 상담의 한계를 인정하고 전문가 개입의 필요성을 강조하세요.
**톤**: 침착하고 확고하지만 따뜻하게`, message)
}

func analysisRequest(turns []chat.Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "지금까지 %d회의 대화가 진행되었습니다.\n\n## 대화 내용 요약\n", len(turns))
	for i, t := range turns {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, truncateRunes(t.Input, analysisInputRunes))
	}

	sentiments := map[emotion.Sentiment]int{}
	themes := map[emotion.Category]int{}
	for _, t := range turns {
		sentiments[t.Analysis.Sentiment]++
		for c := range t.Keywords {
			themes[c]++
		}
	}

	b.WriteString("\n## 감정 변화 패턴\n")
	fmt.Fprintf(&b, "긍정적: %d회\n중립적: %d회\n부정적: %d회\n", sentiments[emotion.Positive], sentiments[emotion.Neutral], sentiments[emotion.Negative])

	b.WriteString("\n## 주요 테마 (출현 빈도)\n")
	for _, c := range emotion.Categories {
		if n := themes[c]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d회\n", emotion.DisplayName(c), n)
		}
	}

	b.WriteString(`
## 분석 요청
위 대화 내용을 바탕으로 다음을 제공해주세요:
1. **주요 발견사항** (3-4개): 반복되는 주제, 감정 패턴의 변화, 내담자의 대처 방식
2. **강점과 자원**: 내담자가 보여준 강점과 활용 가능한 자원
3. **주의가 필요한 영역**: 지속적인 모니터링이나 추가 탐색이 필요한 부분
4. **상담 방향 제안**: 앞으로 다룰 주제와 도움이 될 접근 방법

**형식**: 전문적이지만 이해하기 쉽게
**톤**: 객관적이면서 희망적`)
	return b.String()
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

func intensityLabel(i emotion.Intensity) string {
	switch i {
	case emotion.IntensityHigh:
		return "매우 높음 (즉각적 지지 필요)"
	case emotion.IntensityMedium:
		return "중간"
	default:
		return "낮음"
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

var paceGuidance = map[chat.Pace]string{
	chat.PaceOpening: "- 초기 단계: 라포 형성에 집중하고 주요 호소 문제를 파악하세요.\n- 너무 깊이 파고들지 말고 수용적 태도를 유지하세요.\n",
	chat.PaceMiddle:  "- 중기 단계: 문제의 본질과 패턴을 탐색하세요.\n- 감정과 생각의 연결, 구체적인 상황을 질문하세요.\n",
	chat.PaceDeep:    "- 심화 단계: 통찰과 대처 방법을 함께 모색하세요.\n- 필요하면 전문가 도움을 권유하세요.\n",
}

const counselorRole = `# 당신의 역할
당신은 전문적이고 공감적인 심리상담사 AI입니다. 내담자가 자신의 감정과 상황을 이해하고 정리할 수 있도록 돕는 것이 주요 목표입니다.

## 핵심 가치
- **공감과 경청**: 내담자의 감정을 진심으로 이해하고 인정합니다
- **비판단적 태도**: 어떤 감정이나 생각도 옳고 그름으로 판단하지 않습니다
- **안전한 공간**: 내담자가 편안하게 자신을 표현할 수 있는 환경을 조성합니다

## 응답 스타일
- 따뜻하고 공감적이며 전문적인 톤, 존댓말 사용
- 3-5문장으로 간결하게 작성
- 한 번에 1-2개 이하의 질문`

const counselorRules = `### 위험 상황 대응
자살 사고, 자해, 극심한 절망감, 타인에 대한 위해 의도가 보이면 즉시 우려를 표현하고 생명의전화 1393, 정신건강위기상담 1577-0199 연락을 강력히 권유하세요.

### 금지 사항
- 의학적 진단 제공 (예: "우울증입니다")
- 약물 복용 권유나 중단 조언
- 내담자의 감정이나 경험 부정, 가벼운 위로
- 다른 사람과 비교하거나 책임 전가

### 전문가 의뢰 시점
증상이 2주 이상 지속되어 일상생활에 지장이 있거나, 반복적인 자살/자해 사고, 심각한 불안이나 공황 증상이 있을 때 전문 상담을 권유하세요.`
