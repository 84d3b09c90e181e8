package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus/internal/assignment/models"
	"campus/internal/sentinel"

	"github.com/google/uuid"
)

// PostgresStore persists assignments in PostgreSQL under the teacher schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed assignment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("assignment is required")
	}
	query := `
		INSERT INTO teacher.assignments (id, course_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.CourseID,
		assignment.Title,
		assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	query := `
		SELECT id, course_id, title, created_at
		FROM teacher.assignments
		WHERE id = $1
	`
	var assignment models.Assignment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.CourseID,
		&assignment.Title,
		&assignment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}
