package responder

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func stateWith(messages ...string) *chat.ConversationState {
	state := chat.NewConversationState()
	for _, m := range messages {
		state.AppendTurn(chat.Turn{Input: m, Keywords: emotion.ExtractKeywords(m)})
	}
	return &state
}

func hasPrefixIn(reply string, pool []string) bool {
	for _, p := range pool {
		if strings.HasPrefix(reply, p) {
			return true
		}
	}
	return false
}

func TestSelectUrgencyWins(t *testing.T) {
	msg := "너무 힘들어서 죽고싶어요. 이제 좀 나아졌다고 생각했는데"
	state := stateWith(msg)
	reply := NewSelector(seeded()).Select(msg, state, emotion.NewAnalyzer(seeded()).Analyze(msg))

	if !hasPrefixIn(reply, crisisResponses) {
		t.Fatalf("expected crisis template, got %q", reply)
	}
}

func TestSelectUsesCategoryAndPace(t *testing.T) {
	msg := "요즘 너무 우울해요"
	state := stateWith(msg)
	reply := NewSelector(seeded()).Select(msg, state, emotion.Analyze(msg))

	if !hasPrefixIn(reply, templates[emotion.Depression][chat.PaceOpening]) {
		t.Fatalf("expected depression opening template, got %q", reply)
	}
}

func TestSelectFallsBackToGeneral(t *testing.T) {
	msg := "외로워요"
	state := stateWith("그냥", "그래요", "음", msg)
	reply := NewSelector(seeded()).Select(msg, state, emotion.Analyze(msg))

	if !hasPrefixIn(reply, templates[emotion.General][chat.PaceMiddle]) {
		t.Fatalf("expected general middle template, got %q", reply)
	}
}

func TestPickAvoidsRecentWindow(t *testing.T) {
	s := NewSelector(seeded())
	pool := []string{"a", "b", "c", "d"}
	for i := 0; i < 50; i++ {
		before := s.Recent()
		got := s.pick(pool)
		if slices.Contains(before, got) {
			t.Fatalf("pick %d returned %q from recent window %v", i, got, before)
		}
		if len(s.Recent()) > recentWindow {
			t.Fatalf("window grew to %d", len(s.Recent()))
		}
	}
}

func TestPickSmallPoolStillAnswers(t *testing.T) {
	s := NewSelector(seeded())
	s.pick([]string{"x"})
	if got := s.pick([]string{"x"}); got != "x" {
		t.Fatalf("expected fallback to full pool, got %q", got)
	}
	if got := s.pick(nil); got != fallbackResponse {
		t.Fatalf("expected fallback response, got %q", got)
	}
}

func TestRepetitionIgnoresCurrentTurn(t *testing.T) {
	current := emotion.Keywords{emotion.Depression: {"우울"}}

	state := stateWith("날씨가 좋네요", "그냥 그래요", "요즘 너무 우울해요")
	if repeated(state, current) {
		t.Fatal("expected no repetition when only the current turn matches")
	}

	state = stateWith("우울해요", "그냥 그래요", "요즘 너무 우울해요")
	if !repeated(state, current) {
		t.Fatal("expected repetition against an earlier turn")
	}
}

func TestRepetitionSwitchesFollowUp(t *testing.T) {
	msg := "요즘 너무 우울해요"
	state := stateWith("우울해요", "그냥 그래요", msg)
	reply := NewSelector(seeded()).Select(msg, state, emotion.Analyze(msg))

	found := false
	for _, q := range perspectiveQuestions {
		if strings.Contains(reply, q) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected perspective-shift question in %q", reply)
	}
}

func TestSelectorsDoNotShareWindow(t *testing.T) {
	a := NewSelector(seeded())
	b := NewSelector(seeded())
	a.pick([]string{"only"})
	if len(b.Recent()) != 0 {
		t.Fatal("expected independent windows")
	}
}
