// Package store persists courses. The postgres store is the production
// backend; the memory store backs tests and local development.
package store

import (
	"context"

	"campus/internal/course/models"

	"github.com/google/uuid"
)

// Store is the persistence contract for courses.
type Store interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}
