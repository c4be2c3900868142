package assessment

// Recommendation is one item of the result payload.
type Recommendation struct {
	Icon   string `json:"icon"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Direction classifies the change against the previous total.
type Direction string

const (
	Worsening Direction = "worsening"
	Improving Direction = "improving"
	Unchanged Direction = "unchanged"
)

// Trend compares a total with the immediately prior attempt.
type Trend struct {
	Previous  int       `json:"previous"`
	Delta     int       `json:"delta"`
	Direction Direction `json:"direction"`
}

// Result is emitted when an instrument completes.
type Result struct {
	Kind            Kind             `json:"kind"`
	Name            string           `json:"name"`
	Responses       []int            `json:"responses"`
	Total           int              `json:"total"`
	Band            Band             `json:"band"`
	Recommendations []Recommendation `json:"recommendations"`
	// HighScoreItems holds zero-based indexes answered with MaxRating.
	HighScoreItems []int  `json:"highScoreItems"`
	Trend          *Trend `json:"trend,omitempty"`
}

// GeneralRecommendations are appended to every result.
var GeneralRecommendations = []Recommendation{
	{Icon: "🌱", Title: "규칙적인 생활 리듬 유지"},
	{Icon: "🏃", Title: "적절한 운동과 신체 활동"},
	{Icon: "👥", Title: "사회적 지지체계 활용"},
	{Icon: "💬", Title: "필요시 전문가 상담 받기"},
}

type tier struct {
	min   int
	items []Recommendation
}

// tiers are ordered from the most severe threshold down.
var tiers = map[Kind][]tier{
	PHQ9: {
		{min: 20, items: []Recommendation{
			{Icon: "🚨", Title: "심한 우울감이 감지되었습니다.", Detail: "즉시 정신건강의학과 전문의 상담을 받으시기를 강력히 권장합니다."},
			{Icon: "🏥", Title: "전문 치료가 필요합니다.", Detail: "약물치료와 심리치료를 병행하는 것이 효과적일 수 있습니다."},
		}},
		{min: 15, items: []Recommendation{
			{Icon: "⚠️", Title: "중등도-심한 우울감이 감지되었습니다.", Detail: "전문가 상담을 받으시는 것이 좋습니다."},
			{Icon: "💊", Title: "치료 고려", Detail: "심리치료나 약물치료가 도움이 될 수 있습니다."},
		}},
		{min: 10, items: []Recommendation{
			{Icon: "🏥", Title: "중등도 우울감이 감지되었습니다.", Detail: "상담이나 치료를 받아보시는 것을 권장합니다."},
		}},
		{min: 5, items: []Recommendation{
			{Icon: "📊", Title: "경미한 우울감이 있습니다.", Detail: "자가 관리와 함께 경과를 관찰해보세요."},
		}},
		{min: 0, items: []Recommendation{
			{Icon: "✅", Title: "우울증 증상이 최소 수준입니다.", Detail: "현재 상태를 잘 유지하시면 됩니다."},
		}},
	},
	GAD7: {
		{min: 15, items: []Recommendation{
			{Icon: "🚨", Title: "심한 불안감이 감지되었습니다.", Detail: "전문가 상담을 강력히 권장합니다."},
		}},
		{min: 10, items: []Recommendation{
			{Icon: "😰", Title: "중등도 불안감이 감지되었습니다.", Detail: "이완 기법, 규칙적인 운동, 전문 상담을 고려해보세요."},
		}},
		{min: 5, items: []Recommendation{
			{Icon: "😟", Title: "경미한 불안감이 있습니다.", Detail: "스트레스 관리와 자기 돌봄이 도움이 될 수 있습니다."},
		}},
		{min: 0, items: []Recommendation{
			{Icon: "✅", Title: "불안 증상이 최소 수준입니다.", Detail: "현재 상태를 잘 유지하세요."},
		}},
	},
	PSS: {
		{min: 27, items: []Recommendation{
			{Icon: "🔥", Title: "높은 스트레스 수준입니다.", Detail: "즉각적인 스트레스 관리가 필요합니다."},
		}},
		{min: 14, items: []Recommendation{
			{Icon: "⚖️", Title: "보통 수준의 스트레스입니다.", Detail: "적절한 휴식과 스트레스 관리 기법이 도움이 됩니다."},
		}},
		{min: 0, items: []Recommendation{
			{Icon: "😌", Title: "낮은 스트레스 수준입니다.", Detail: "현재의 스트레스 대처 방식을 잘 유지하세요."},
		}},
	},
}

// Interpret resolves the band of score for kind. Unknown kinds get a
// neutral "completed" band.
func Interpret(score int, kind Kind) Band {
	inst, ok := definitions[kind]
	if !ok {
		return Band{Max: unbounded, Label: "평가 완료"}
	}
	for _, b := range inst.Bands {
		if score <= b.Max {
			return b
		}
	}
	return inst.Bands[len(inst.Bands)-1]
}

// Recommendations returns the severity tier for score followed by
// GeneralRecommendations.
func Recommendations(score int, kind Kind) []Recommendation {
	var out []Recommendation
	for _, t := range tiers[kind] {
		if score >= t.min {
			out = append(out, t.items...)
			break
		}
	}
	return append(out, GeneralRecommendations...)
}

// HighScoreItems returns the zero-based indexes answered with MaxRating.
func HighScoreItems(responses []int) []int {
	var items []int
	for i, r := range responses {
		if r == MaxRating {
			items = append(items, i)
		}
	}
	return items
}

// Compare classifies total against previous.
func Compare(total, previous int) Trend {
	delta := total - previous
	dir := Unchanged
	switch {
	case delta > 0:
		dir = Worsening
	case delta < 0:
		dir = Improving
	}
	return Trend{Previous: previous, Delta: delta, Direction: dir}
}

// Score builds the result payload for a full response list. previous is the
// prior total for the same instrument, if any.
func Score(kind Kind, responses []int, previous *int) Result {
	total := 0
	for _, r := range responses {
		total += r
	}
	res := Result{
		Kind:            kind,
		Name:            MustLookup(kind).Name,
		Responses:       append([]int(nil), responses...),
		Total:           total,
		Band:            Interpret(total, kind),
		Recommendations: Recommendations(total, kind),
		HighScoreItems:  HighScoreItems(responses),
	}
	if previous != nil {
		trend := Compare(total, *previous)
		res.Trend = &trend
	}
	return res
}
