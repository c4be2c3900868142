package chat

import (
	"testing"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
)

func TestAttachResponseWritesOnce(t *testing.T) {
	state := NewConversationState()
	if state.AttachResponse("early") {
		t.Fatal("expected no write without a turn")
	}

	state.AppendTurn(Turn{Input: "요즘 너무 우울해요"})
	if !state.AttachResponse("first") {
		t.Fatal("expected first write to succeed")
	}
	if state.AttachResponse("second") {
		t.Fatal("expected second write to be rejected")
	}
	if got := state.History[0].Response; got != "first" {
		t.Fatalf("unexpected response %q", got)
	}
}

func TestAppendTurnUnionsThemes(t *testing.T) {
	state := NewConversationState()
	state.AppendTurn(Turn{Keywords: emotion.Keywords{emotion.Anxiety: {"불안"}}})
	state.AppendTurn(Turn{Keywords: emotion.Keywords{emotion.Depression: {"우울"}, emotion.Anxiety: {"걱정"}}})
	state.AppendTurn(Turn{})

	themes := state.Themes()
	if len(themes) != 2 || themes[0] != emotion.Depression || themes[1] != emotion.Anxiety {
		t.Fatalf("unexpected themes %v", themes)
	}

	counts := state.CategoryTurnCounts()
	if counts[emotion.Anxiety] != 2 || counts[emotion.Depression] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestRecentExcludesLatest(t *testing.T) {
	state := NewConversationState()
	for _, in := range []string{"a", "b", "c", "d", "e"} {
		state.AppendTurn(Turn{Input: in})
	}

	recent := state.Recent(3, true)
	if len(recent) != 3 || recent[0].Input != "b" || recent[2].Input != "d" {
		t.Fatalf("unexpected recent turns %+v", recent)
	}
	if got := state.Recent(10, false); len(got) != 5 {
		t.Fatalf("expected all turns, got %d", len(got))
	}
}

func TestPaceOf(t *testing.T) {
	cases := map[int]Pace{
		0: PaceOpening,
		2: PaceOpening,
		3: PaceMiddle,
		6: PaceMiddle,
		7: PaceDeep,
	}
	for turns, want := range cases {
		if got := PaceOf(turns); got != want {
			t.Fatalf("PaceOf(%d) = %s, want %s", turns, got, want)
		}
	}
}

func TestResetEndsAndClears(t *testing.T) {
	state := NewConversationState()
	state.AppendTurn(Turn{Input: "x", Keywords: emotion.Keywords{emotion.Stress: {"스트레스"}}})
	state.Reset()

	if state.Phase != PhaseEnded || state.TurnCount() != 0 || len(state.Themes()) != 0 {
		t.Fatalf("expected cleared ended state, got %+v", state)
	}
}
