package hintstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps dismissals for the process lifetime only. It is the
// fallback when the SQLite store cannot be opened, and the natural choice
// for tests.
type MemoryStore struct {
	mu        sync.RWMutex
	dismissed map[string]time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{dismissed: make(map[string]time.Time)}
}

func (s *MemoryStore) Dismiss(_ context.Context, hintID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[hintID] = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Dismissed(_ context.Context, hintID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dismissed[hintID]
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]DismissedHint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DismissedHint, 0, len(s.dismissed))
	for id, at := range s.dismissed {
		out = append(out, DismissedHint{HintID: id, DismissedAt: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DismissedAt.Equal(out[j].DismissedAt) {
			return out[i].DismissedAt.After(out[j].DismissedAt)
		}
		return out[i].HintID < out[j].HintID
	})
	return out, nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = make(map[string]time.Time)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
