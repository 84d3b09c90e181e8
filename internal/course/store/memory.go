package store

import (
	"context"
	"sync"

	"campus/internal/course/models"
	"campus/internal/sentinel"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory course store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	courses map[uuid.UUID]models.Course
}

// NewMemory constructs an empty in-memory course store.
func NewMemory() *MemoryStore {
	return &MemoryStore{courses: make(map[uuid.UUID]models.Course)}
}

func (s *MemoryStore) Create(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = *course
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &course, nil
}
