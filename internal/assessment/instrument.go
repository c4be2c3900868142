// Package assessment holds the PHQ-9, GAD-7 and PSS definitions and the
// scoring, interpretation and re-take rules around them.
package assessment

import (
	"fmt"
	"math"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
)

// Kind identifies an instrument.
type Kind string

const (
	PHQ9 Kind = "phq9"
	GAD7 Kind = "gad7"
	PSS  Kind = "stress"
)

// Level is the machine-readable severity of a band.
type Level string

const (
	LevelMinimal          Level = "minimal"
	LevelMild             Level = "mild"
	LevelModerate         Level = "moderate"
	LevelModeratelySevere Level = "moderately_severe"
	LevelSevere           Level = "severe"
	LevelLow              Level = "low"
	LevelHigh             Level = "high"
)

// Band maps every total up to Max (inclusive) to a label.
type Band struct {
	Max   int    `json:"max"`
	Level Level  `json:"level"`
	Label string `json:"label"`
}

// Instrument is the static definition of one questionnaire.
type Instrument struct {
	Kind      Kind             `json:"kind"`
	Name      string           `json:"name"`
	Category  emotion.Category `json:"category"`
	Questions []string         `json:"questions"`
	Bands     []Band           `json:"bands"`
}

// MaxScore is the total when every question is answered with MaxRating.
func (i Instrument) MaxScore() int {
	return len(i.Questions) * MaxRating
}

// Question returns the question at a zero-based index. An index outside the
// instrument is a caller bug and panics.
func (i Instrument) Question(index int) string {
	if index < 0 || index >= len(i.Questions) {
		panic(fmt.Sprintf("assessment: question index %d out of range for %s (%d questions)", index, i.Kind, len(i.Questions)))
	}
	return i.Questions[index]
}

// Anchor is one point of the shared rating scale.
type Anchor struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// MaxRating is the highest accepted response.
const MaxRating = 3

// Scale is shared by all instruments.
var Scale = []Anchor{
	{Score: 0, Label: "전혀 아니다"},
	{Score: 1, Label: "며칠 동안"},
	{Score: 2, Label: "일주일 이상"},
	{Score: 3, Label: "거의 매일"},
}

const unbounded = math.MaxInt

var definitions = map[Kind]Instrument{
	PHQ9: {
		Kind:     PHQ9,
		Name:     "PHQ-9 우울증 선별검사",
		Category: emotion.Depression,
		Questions: []string{
			"일을 하는 것에 대한 흥미나 재미가 거의 없었다",
			"가라앉은 느낌, 우울감 혹은 절망감을 느꼈다",
			"잠들기 어렵거나 자주 깼다, 혹은 너무 많이 잤다",
			"피곤하다고 느끼거나 기운이 거의 없었다",
			"식욕이 줄었다, 혹은 너무 많이 먹었다",
			"내 자신이 실패자로 여겨지거나, 자신과 가족을 실망시켰다고 느꼈다",
			"신문을 읽거나 TV를 보는 것과 같은 일상적인 일에 집중하기 어려웠다",
			"다른 사람들이 눈치챌 정도로 말과 행동이 느려졌다, 혹은 너무 안절부절못했다",
			"차라리 죽는 것이 낫겠다고 생각하거나, 어떻게든 자해를 하려고 생각했다",
		},
		Bands: []Band{
			{Max: 4, Level: LevelMinimal, Label: "최소 수준의 우울감"},
			{Max: 9, Level: LevelMild, Label: "경미한 우울감"},
			{Max: 14, Level: LevelModerate, Label: "중등도 우울감"},
			{Max: 19, Level: LevelModeratelySevere, Label: "중등도-심한 우울감"},
			{Max: unbounded, Level: LevelSevere, Label: "심한 우울감"},
		},
	},
	GAD7: {
		Kind:     GAD7,
		Name:     "GAD-7 불안장애 선별검사",
		Category: emotion.Anxiety,
		Questions: []string{
			"초조하거나 불안하거나 조마조마하게 느꼈다",
			"걱정하는 것을 멈추거나 조절할 수가 없었다",
			"여러 가지 것들에 대해 걱정을 너무 많이 했다",
			"편하게 있기가 어려웠다",
			"너무 안절부절못해서 가만히 있기가 힘들었다",
			"쉽게 짜증이 나거나 쉽게 성을 내게 되었다",
			"마치 끔찍한 일이 생길 것처럼 두렵게 느껴졌다",
		},
		Bands: []Band{
			{Max: 4, Level: LevelMinimal, Label: "최소 수준의 불안감"},
			{Max: 9, Level: LevelMild, Label: "경미한 불안감"},
			{Max: 14, Level: LevelModerate, Label: "중등도 불안감"},
			{Max: unbounded, Level: LevelSevere, Label: "심한 불안감"},
		},
	},
	PSS: {
		Kind:     PSS,
		Name:     "지각된 스트레스 척도(PSS)",
		Category: emotion.Stress,
		Questions: []string{
			"예상치 못한 일 때문에 당황했다",
			"인생에서 중요한 일들을 조절할 수 없다고 느꼈다",
			"신경이 예민해지고 스트레스를 받고 있다고 느꼈다",
			"개인적인 문제를 다루는 능력에 자신감이 없었다",
			"일상의 일들이 내 뜻대로 되지 않는다고 느꼈다",
			"꼭 해야 하는 일을 처리할 수 없다고 생각했다",
			"일상생활의 짜증을 다스리기 어려웠다",
			"상황을 통제하지 못하고 있다고 느꼈다",
			"통제할 수 없는 일 때문에 화가 났다",
			"어려운 일들이 너무 많이 쌓여서 극복하지 못할 것 같았다",
		},
		Bands: []Band{
			{Max: 13, Level: LevelLow, Label: "낮은 스트레스 수준"},
			{Max: 26, Level: LevelModerate, Label: "보통 스트레스 수준"},
			{Max: unbounded, Level: LevelHigh, Label: "높은 스트레스 수준"},
		},
	},
}

// Kinds lists the instruments in display order.
var Kinds = []Kind{PHQ9, GAD7, PSS}

// Lookup returns the definition of kind.
func Lookup(kind Kind) (Instrument, bool) {
	inst, ok := definitions[kind]
	return inst, ok
}

// MustLookup panics on an unknown kind; callers only pass kinds produced by
// Select or SuggestionFor.
func MustLookup(kind Kind) Instrument {
	inst, ok := definitions[kind]
	if !ok {
		panic("assessment: unknown instrument " + string(kind))
	}
	return inst
}

// All returns every instrument in display order.
func All() []Instrument {
	out := make([]Instrument, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, definitions[k])
	}
	return out
}
