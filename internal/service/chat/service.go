package chat

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/dialogue"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is handling another request")
)

// Factory builds the dialogue for a freshly allocated session id.
type Factory func(id string) *dialogue.Dialogue

type entry struct {
	mu       sync.Mutex
	dialogue *dialogue.Dialogue
	lastUsed time.Time
}

// Service keeps the live dialogues of this process. Each session handles one
// request at a time; a concurrent request is rejected rather than queued.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	// ended remembers terminated ids so late callers get ErrSessionEnded
	// instead of ErrSessionNotFound.
	ended map[string]time.Time

	factory Factory
	now     func() time.Time
}

// NewService bootstraps the in-memory registry.
func NewService(factory Factory) *Service {
	if factory == nil {
		factory = func(id string) *dialogue.Dialogue {
			return dialogue.New(id, dialogue.Options{})
		}
	}
	return &Service{
		sessions: make(map[string]*entry),
		ended:    make(map[string]time.Time),
		factory:  factory,
		now:      time.Now,
	}
}

// CreateSession provisions an anonymous session and returns its greeting.
func (s *Service) CreateSession(_ context.Context) (chat.Snapshot, []chat.Event, error) {
	id := uuid.NewString()
	d := s.factory(id)
	greeting := d.Greeting()

	s.mu.Lock()
	s.sessions[id] = &entry{dialogue: d, lastUsed: s.now()}
	s.mu.Unlock()

	log.Printf("[chat] session=%s created", id)
	return d.Snapshot(), greeting, nil
}

// SelectMode applies an explicit counseling mode.
func (s *Service) SelectMode(ctx context.Context, id string, mode chat.Mode) ([]chat.Event, error) {
	return s.do(ctx, id, func(d *dialogue.Dialogue) ([]chat.Event, error) {
		return d.SelectMode(mode)
	})
}

// SendMessage runs the per-message policy.
func (s *Service) SendMessage(ctx context.Context, id, text string) ([]chat.Event, error) {
	return s.do(ctx, id, func(d *dialogue.Dialogue) ([]chat.Event, error) {
		return d.HandleMessage(ctx, text)
	})
}

// SubmitRating answers the current assessment question.
func (s *Service) SubmitRating(ctx context.Context, id string, rating int) ([]chat.Event, error) {
	return s.do(ctx, id, func(d *dialogue.Dialogue) ([]chat.Event, error) {
		return d.SubmitRating(rating)
	})
}

// RequestAnalysis produces an on-demand conversation analysis.
func (s *Service) RequestAnalysis(ctx context.Context, id string) ([]chat.Event, error) {
	return s.do(ctx, id, func(d *dialogue.Dialogue) ([]chat.Event, error) {
		return d.RequestAnalysis(ctx)
	})
}

// EndSession terminates the session and drops its data.
func (s *Service) EndSession(ctx context.Context, id string) ([]chat.Event, error) {
	return s.do(ctx, id, func(d *dialogue.Dialogue) ([]chat.Event, error) {
		return d.End(ctx)
	})
}

// GetSession returns a snapshot of a live session.
func (s *Service) GetSession(ctx context.Context, id string) (chat.Snapshot, error) {
	var snap chat.Snapshot
	_, err := s.do(ctx, id, func(d *dialogue.Dialogue) ([]chat.Event, error) {
		snap = d.Snapshot()
		return nil, nil
	})
	return snap, err
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Service) do(_ context.Context, id string, fn func(*dialogue.Dialogue) ([]chat.Event, error)) ([]chat.Event, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !e.mu.TryLock() {
		return nil, ErrSessionBusy
	}
	defer e.mu.Unlock()

	if e.dialogue.Ended() {
		return nil, dialogue.ErrSessionEnded
	}
	e.lastUsed = s.now()

	events, err := fn(e.dialogue)
	if e.dialogue.Ended() {
		s.retire(id)
	}
	return events, err
}

func (s *Service) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[id]; ok {
		return e, nil
	}
	if _, ok := s.ended[id]; ok {
		return nil, dialogue.ErrSessionEnded
	}
	return nil, ErrSessionNotFound
}

func (s *Service) retire(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.ended[id] = s.now()
	s.mu.Unlock()
}

// Reap ends sessions idle for longer than idle and forgets tombstones of the
// same age. Sessions busy with a request are skipped.
func (s *Service) Reap(ctx context.Context, idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	for id, at := range s.ended {
		if at.Before(cutoff) {
			delete(s.ended, id)
		}
	}
	candidates := make(map[string]*entry)
	for id, e := range s.sessions {
		candidates[id] = e
	}
	s.mu.Unlock()

	reaped := 0
	for id, e := range candidates {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) && !e.dialogue.Ended() {
			if _, err := e.dialogue.End(ctx); err != nil {
				log.Printf("[chat] session=%s reap failed: %v", id, err)
			}
			s.retire(id)
			reaped++
		}
		e.mu.Unlock()
	}
	if reaped > 0 {
		log.Printf("[chat] reaped %d idle sessions", reaped)
	}
	return reaped
}

// RunReaper calls Reap every interval until ctx is done.
func (s *Service) RunReaper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(ctx, idle)
		}
	}
}
