// Package store persists submissions. The postgres store is the production
// backend; the memory store backs tests and local development.
package store

import (
	"context"

	"campus/internal/submission/models"

	"github.com/google/uuid"
)

// Store is the persistence contract for submissions.
type Store interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
}
