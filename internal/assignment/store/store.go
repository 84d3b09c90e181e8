// Package store persists assignments. The postgres store is the production
// backend; the memory store backs tests and local development.
package store

import (
	"context"

	"campus/internal/assignment/models"

	"github.com/google/uuid"
)

// Store is the persistence contract for assignments.
type Store interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
}
