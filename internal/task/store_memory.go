package task

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"taskshare/pkg/platform/sentinel"
)

// InMemoryStore keeps tasks in a mutex-guarded map. Used by tests and by
// deployments without a DATABASE_URL.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tasks: make(map[string]*Task)}
}

func (s *InMemoryStore) Create(_ context.Context, t *Task) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := t.Clone()
	stored.ID = uuid.NewString()
	if stored.SharedWith == nil {
		stored.SharedWith = []string{}
	}
	s.tasks[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *InMemoryStore) ListForEmail(_ context.Context, email string) ([]*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Task, 0)
	for _, t := range s.tasks {
		if t.VisibleTo(email) {
			result = append(result, t.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.Compare(result[i].Title, result[j].Title) < 0
	})
	return result, nil
}

func (s *InMemoryStore) Update(_ context.Context, id string, fields UpdateFields) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Status != nil {
		t.Status = *fields.Status
	}
	if fields.SharedWith != nil {
		t.SharedWith = append([]string{}, (*fields.SharedWith)...)
	}
	return t.Clone(), nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
