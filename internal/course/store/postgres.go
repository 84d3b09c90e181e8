package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus/internal/course/models"
	"campus/internal/sentinel"

	"github.com/google/uuid"
)

// PostgresStore persists courses in PostgreSQL under the admin schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed course store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, course *models.Course) error {
	if course == nil {
		return fmt.Errorf("course is required")
	}
	query := `
		INSERT INTO admin.courses (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, course.ID, course.Name, course.CreatedAt)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `
		SELECT id, name, created_at
		FROM admin.courses
		WHERE id = $1
	`
	var course models.Course
	err := s.db.QueryRowContext(ctx, query, id).Scan(&course.ID, &course.Name, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}
