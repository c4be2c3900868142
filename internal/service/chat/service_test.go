package chat_test

import (
	"context"
	"errors"
	"testing"

	model "github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/ai"
	chat "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/dialogue"
)

func TestServiceCreateAndGetSession(t *testing.T) {
	svc := chat.NewService(nil)
	ctx := context.Background()

	snap, greeting, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if snap.SessionID == "" || snap.Phase != model.PhaseGreeting {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if len(greeting) == 0 {
		t.Fatal("expected greeting events")
	}

	got, err := svc.GetSession(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if got.SessionID != snap.SessionID {
		t.Fatalf("unexpected session ID: got %s want %s", got.SessionID, snap.SessionID)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService(nil)
	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, chat.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceConversationFlow(t *testing.T) {
	svc := chat.NewService(nil)
	ctx := context.Background()
	snap, _, _ := svc.CreateSession(ctx)

	if _, err := svc.SelectMode(ctx, snap.SessionID, model.ModeConversation); err != nil {
		t.Fatalf("SelectMode err: %v", err)
	}
	events, err := svc.SendMessage(ctx, snap.SessionID, "요즘 잠이 안 와요")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if events[0].Type != model.EventUserEcho {
		t.Fatalf("expected echo first, got %s", events[0].Type)
	}
	if _, err := svc.SubmitRating(ctx, snap.SessionID, 1); !errors.Is(err, dialogue.ErrNotInAssessment) {
		t.Fatalf("expected ErrNotInAssessment, got %v", err)
	}

	got, _ := svc.GetSession(ctx, snap.SessionID)
	if got.TurnCount != 1 {
		t.Fatalf("expected one turn, got %d", got.TurnCount)
	}
}

func TestServiceEndedSessionIsTombstoned(t *testing.T) {
	svc := chat.NewService(nil)
	ctx := context.Background()
	snap, _, _ := svc.CreateSession(ctx)

	events, err := svc.EndSession(ctx, snap.SessionID)
	if err != nil {
		t.Fatalf("EndSession err: %v", err)
	}
	if events[len(events)-1].Type != model.EventSessionEnded {
		t.Fatalf("expected session_ended, got %s", events[len(events)-1].Type)
	}
	if svc.Count() != 0 {
		t.Fatalf("expected no live sessions, got %d", svc.Count())
	}
	if _, err := svc.SendMessage(ctx, snap.SessionID, "안녕하세요"); !errors.Is(err, dialogue.ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, _ ai.Prompt) (string, error) {
	close(g.started)
	<-g.release
	return "천천히 말씀해 주세요.", nil
}

func (g *blockingGenerator) Name() string { return "blocking" }

func TestServiceRejectsConcurrentRequests(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	svc := chat.NewService(func(id string) *dialogue.Dialogue {
		return dialogue.New(id, dialogue.Options{Generator: gen})
	})
	ctx := context.Background()
	snap, _, _ := svc.CreateSession(ctx)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, snap.SessionID, "이야기 좀 들어주세요")
		done <- err
	}()
	<-gen.started

	if _, err := svc.SendMessage(ctx, snap.SessionID, "여보세요"); !errors.Is(err, chat.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}

	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first message err: %v", err)
	}
	if _, err := svc.GetSession(ctx, snap.SessionID); err != nil {
		t.Fatalf("expected session to be free again, got %v", err)
	}
}
