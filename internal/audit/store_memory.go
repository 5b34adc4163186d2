package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps events in memory. The default sink when Kafka is not
// configured; also used by tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByTask(_ context.Context, taskID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Event, 0)
	for _, e := range s.events {
		if e.TaskID == taskID {
			result = append(result, e)
		}
	}
	return result, nil
}
