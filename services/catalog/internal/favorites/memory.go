package favorites

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore lives for the lifetime of the process.
type InMemoryStore struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{ids: make(map[string]struct{})}
}

// List returns the favorited ids sorted, so responses are stable.
func (s *InMemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *InMemoryStore) Add(_ context.Context, titleID string) error {
	if titleID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids[titleID] = struct{}{}
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, titleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ids, titleID)
	return nil
}

func (s *InMemoryStore) IsFavorite(_ context.Context, titleID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ids[titleID]
	return ok, nil
}
