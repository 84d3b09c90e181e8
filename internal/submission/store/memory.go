package store

import (
	"context"
	"sync"

	"campus/internal/sentinel"
	"campus/internal/submission/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory submission store for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	submissions map[uuid.UUID]models.Submission
}

// NewMemory constructs an empty in-memory submission store.
func NewMemory() *MemoryStore {
	return &MemoryStore{submissions: make(map[uuid.UUID]models.Submission)}
}

func (s *MemoryStore) Create(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[submission.ID] = *submission
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &submission, nil
}

// Len reports the number of stored submissions. Used by tests to assert that
// rejected writes left no row behind.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}
