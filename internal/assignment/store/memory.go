package store

import (
	"context"
	"sync"

	"campus/internal/assignment/models"
	"campus/internal/sentinel"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory assignment store for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	assignments map[uuid.UUID]models.Assignment
}

// NewMemory constructs an empty in-memory assignment store.
func NewMemory() *MemoryStore {
	return &MemoryStore{assignments: make(map[uuid.UUID]models.Assignment)}
}

func (s *MemoryStore) Create(_ context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[assignment.ID] = *assignment
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &assignment, nil
}

// Len reports the number of stored assignments. Used by tests to assert that
// rejected writes left no row behind.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assignments)
}
