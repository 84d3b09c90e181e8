package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus/internal/sentinel"
	"campus/internal/submission/models"

	"github.com/google/uuid"
)

// PostgresStore persists submissions in PostgreSQL under the student schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, submission *models.Submission) error {
	if submission == nil {
		return fmt.Errorf("submission is required")
	}
	query := `
		INSERT INTO student.submissions (id, assignment_id, student_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		submission.ID,
		submission.AssignmentID,
		submission.StudentID,
		submission.Content,
		submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	query := `
		SELECT id, assignment_id, student_id, content, created_at
		FROM student.submissions
		WHERE id = $1
	`
	var submission models.Submission
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.StudentID,
		&submission.Content,
		&submission.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &submission, nil
}
