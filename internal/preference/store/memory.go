package store

import (
	"context"
	"slices"
	"sync"

	id "tonetags/pkg/domain"
	"tonetags/pkg/platform/sentinel"
)

// InMemory keeps preference records in a map. It backs tests, the CLI and
// deployments that accept losing preferences on restart.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.UserID][]string
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.UserID][]string)}
}

func (s *InMemory) Find(_ context.Context, userID id.UserID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if standards, ok := s.records[userID]; ok {
		return slices.Clone(standards), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Upsert(_ context.Context, userID id.UserID, standards []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = slices.Clone(standards)
	return nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

// Count returns the number of stored records.
func (s *InMemory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
