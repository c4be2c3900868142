package emotion

import (
	"math/rand/v2"
	"testing"
)

func TestAnalyzeDepressiveMessage(t *testing.T) {
	result := Analyze("요즘 너무 우울해요")
	if result.Analysis.Sentiment != Negative {
		t.Fatalf("expected negative sentiment, got %s", result.Analysis.Sentiment)
	}
	hits, ok := result.Keywords[Depression]
	if !ok || len(hits) == 0 {
		t.Fatalf("expected depression keywords, got %v", result.Keywords)
	}
	if score := result.Analysis.Emotions[Depression]; score <= 0 || score > 1 {
		t.Fatalf("depression score out of range: %f", score)
	}
	if result.Intensity != IntensityMedium {
		t.Fatalf("expected medium intensity for a single marker, got %s", result.Intensity)
	}
}

func TestSentimentTieIsNeutral(t *testing.T) {
	cases := []string{"", "그냥 평범한 하루였어요", "좋은데 힘들어요"}
	for _, msg := range cases {
		if got := Analyze(msg).Analysis.Sentiment; got != Neutral {
			t.Fatalf("expected neutral for %q, got %s", msg, got)
		}
	}
}

func TestConfidenceRange(t *testing.T) {
	a := NewAnalyzer(rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 200; i++ {
		c := a.Analyze("안녕하세요").Analysis.Confidence
		if c < 0.7 || c > 1.0 {
			t.Fatalf("confidence %f outside [0.7, 1.0]", c)
		}
	}
}

func TestKeywordsOmitUnmatchedCategories(t *testing.T) {
	keywords := ExtractKeywords("불안하고 걱정이 많아요")
	if len(keywords) != 1 {
		t.Fatalf("expected only anxiety, got %v", keywords)
	}
	if got := len(keywords[Anxiety]); got != 2 {
		t.Fatalf("expected two anxiety triggers, got %d", got)
	}
}

func TestIntensityLevels(t *testing.T) {
	if got := IntensityOf("괜찮아요"); got != IntensityLow {
		t.Fatalf("expected low, got %s", got)
	}
	if got := IntensityOf("정말 너무 최악이에요!!!"); got != IntensityHigh {
		t.Fatalf("expected high, got %s", got)
	}
}

func TestUrgencyCoversRiskLexicon(t *testing.T) {
	if !Analyze("죽고싶다는 생각이 들어요").Urgency {
		t.Fatal("expected urgency for self-harm language")
	}
	if !Analyze("지금당장 도와주세요").Urgency {
		t.Fatal("expected urgency for general urgency language")
	}
}

func TestProgressAndConfusionFlags(t *testing.T) {
	r := Analyze("조금씩 나아지고 있어요")
	if !r.Progress || r.Confusion {
		t.Fatalf("unexpected flags: progress=%v confusion=%v", r.Progress, r.Confusion)
	}
	r = Analyze("뭘해야 할지 모르겠어요")
	if !r.Confusion {
		t.Fatal("expected confusion flag")
	}
}

func TestDominantCategory(t *testing.T) {
	if got := DominantCategory(Keywords{}); got != General {
		t.Fatalf("expected general, got %s", got)
	}
	kw := Keywords{
		Anxiety: {"불안"},
		Stress:  {"스트레스", "압박"},
	}
	if got := DominantCategory(kw); got != Stress {
		t.Fatalf("expected stress, got %s", got)
	}
	tie := Keywords{Anxiety: {"불안"}, Depression: {"우울"}}
	if got := DominantCategory(tie); got != Depression {
		t.Fatalf("expected depression to win tie, got %s", got)
	}
}
