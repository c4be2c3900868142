package risk

import "strings"

// Lexicon is the canonical self-harm/suicide vocabulary. The text analyzer's
// urgency flag is a superset of it, so every Detect hit also sets urgency.
var Lexicon = []string{
	"죽고싶", "죽고 싶", "자살", "자해", "끝내고싶", "끝내고 싶",
	"사라지고싶", "사라지고 싶", "살기싫", "살기 싫", "살고싶지않", "살고 싶지 않",
	"더이상못", "더 이상 못", "더이상", "포기", "한계",
	"suicide", "kill myself", "self-harm", "end my life",
}

// Hotline is a crisis contact surfaced with every crisis alert.
type Hotline struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Note   string `json:"note,omitempty"`
}

// Hotlines lists the contacts included in the crisis block.
var Hotlines = []Hotline{
	{Name: "생명의전화", Number: "1393", Note: "24시간"},
	{Name: "청소년전화", Number: "1388"},
	{Name: "정신건강위기상담전화", Number: "1577-0199"},
	{Name: "응급상황", Number: "119"},
}

// Result reports which lexicon entries matched a message.
type Result struct {
	Triggered bool
	Matches   []string
}

// Detect checks a message against the canonical lexicon. It has no state and
// no rate limiting: every call with a matching message triggers.
func Detect(message string) Result {
	normalized := strings.ToLower(message)
	var matches []string
	for _, term := range Lexicon {
		if strings.Contains(normalized, term) {
			matches = append(matches, term)
		}
	}
	return Result{Triggered: len(matches) > 0, Matches: matches}
}

// CrisisMessage renders the fixed crisis block shown when Detect triggers.
func CrisisMessage() string {
	var b strings.Builder
	b.WriteString("지금 매우 힘든 상황에 계신 것 같습니다. 혼자서 이 모든 것을 감당하지 마세요. ")
	b.WriteString("전문가의 도움을 받으실 것을 강력히 권합니다.\n\n")
	for _, h := range Hotlines {
		b.WriteString("• ")
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Number)
		if h.Note != "" {
			b.WriteString(" (")
			b.WriteString(h.Note)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n당신의 생명은 소중합니다.")
	return b.String()
}
