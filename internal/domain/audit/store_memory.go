package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	evt.ID = uuid.NewString()
	evt.CreatedAt = time.Now()
	s.events = append(s.events, evt)
	return nil
}

// List returns matching events newest first.
func (s *MemoryStore) List(_ context.Context, filter Filter, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		evt := s.events[i]
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && evt.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && evt.EntityID != filter.EntityID {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}
