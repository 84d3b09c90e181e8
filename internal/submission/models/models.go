package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Submission belongs to the student service and references an assignment
// owned by the teacher service. The student ID is the credential subject of
// the submitting caller, never client-supplied.
type Submission struct {
	ID           uuid.UUID
	AssignmentID uuid.UUID
	StudentID    string
	Content      *string
	CreatedAt    time.Time
}

// CreateSubmissionRequest is the JSON body for submission creation. Content
// is optional; an empty submission still records participation.
type CreateSubmissionRequest struct {
	Content *string `json:"content"`
}

func (r *CreateSubmissionRequest) Validate() error {
	if r.Content != nil && len(*r.Content) > 100_000 {
		return errors.New("content must be at most 100000 characters")
	}
	return nil
}

// SubmissionResponse is the JSON shape returned to callers.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Content      *string   `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToSubmissionResponse(s *Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           s.ID.String(),
		AssignmentID: s.AssignmentID.String(),
		StudentID:    s.StudentID,
		Content:      s.Content,
		CreatedAt:    s.CreatedAt,
	}
}
