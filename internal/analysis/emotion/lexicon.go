package emotion

import "github.com/zhouzirui/z-counsel/backend/internal/analysis/risk"

// Category is a keyword theme shared by analysis, routing and display.
type Category string

const (
	Depression   Category = "depression"
	Anxiety      Category = "anxiety"
	Stress       Category = "stress"
	Anger        Category = "anger"
	Loneliness   Category = "loneliness"
	Relationship Category = "relationship"
	Sleep        Category = "sleep"
	General      Category = "general"
)

// Categories fixes the iteration order used for extraction and tie-breaking.
var Categories = []Category{Depression, Anxiety, Stress, Anger, Loneliness, Relationship, Sleep}

// KeywordPatterns maps each category to its trigger substrings.
var KeywordPatterns = map[Category][]string{
	Depression: {
		"우울", "슬프", "슬퍼", "무기력", "의욕이 없", "공허", "절망", "눈물", "허무",
		"희망이 없", "재미없", "depressed", "hopeless",
	},
	Anxiety: {
		"불안", "걱정", "초조", "긴장", "두려", "무서", "공황", "떨려", "조마조마", "겁나",
		"anxious", "panic",
	},
	Stress: {
		"스트레스", "압박", "부담", "지쳐", "지친", "피곤", "힘들", "과로", "벅차", "번아웃",
		"stress", "burnout",
	},
	Anger: {
		"화나", "화가", "짜증", "분노", "억울", "답답", "열받", "빡치", "angry",
	},
	Loneliness: {
		"외로", "혼자", "고독", "쓸쓸", "소외", "lonely",
	},
	Relationship: {
		"친구", "가족", "부모", "연인", "남자친구", "여자친구", "동료", "싸웠", "이별", "헤어졌",
	},
	Sleep: {
		"불면", "못 자", "못자", "잠이 안", "악몽", "수면", "insomnia",
	},
}

// CategoryNames holds the display label of every category.
var CategoryNames = map[Category]string{
	Depression:   "우울감",
	Anxiety:      "불안감",
	Stress:       "스트레스",
	Anger:        "분노",
	Loneliness:   "외로움",
	Relationship: "대인관계",
	Sleep:        "수면 문제",
	General:      "일반",
}

// DisplayName returns the label for c, falling back to the raw key.
func DisplayName(c Category) string {
	if name, ok := CategoryNames[c]; ok {
		return name
	}
	return string(c)
}

var positiveWords = []string{"좋", "행복", "기쁨", "만족", "즐거", "편안", "희망", "사랑"}

var negativeWords = []string{"나쁘", "슬프", "화나", "우울", "불안", "걱정", "힘들", "괴로"}

var intensityMarkers = []string{
	"정말", "너무", "매우", "완전히", "극도로", "심각하게", "절대", "전혀",
	"죽을것같", "미치겠", "견딜수없", "한계", "최악", "끝", "절망적",
	"!!!", "!!", "...", "ㅠㅠ", "ㅜㅜ", "진짜", "레알",
}

// generalUrgency holds non-self-harm urgency terms; urgency is the union of
// these and the risk lexicon.
var generalUrgency = []string{"지금당장", "즉시", "빨리", "급하게", "응급", "위급", "위험"}

var progressWords = []string{
	"나아지", "좋아지", "개선", "회복", "극복", "해결", "성공",
	"발전", "성장", "변화", "희망", "긍정적", "다행", "기쁘",
}

var confusionWords = []string{
	"모르겠", "헷갈", "혼란", "복잡", "애매", "불분명", "확실하지않",
	"어떻게해야", "뭘해야", "어디서부터", "무엇부터", "갈피못잡",
}

func urgencyWords() []string {
	words := make([]string, 0, len(generalUrgency)+len(risk.Lexicon))
	words = append(words, generalUrgency...)
	return append(words, risk.Lexicon...)
}
