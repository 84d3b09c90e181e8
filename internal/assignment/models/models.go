package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assignment belongs to the teacher service and references a course owned by
// the admin service. The reference is verified remotely before insert; no
// foreign key spans the two databases.
type Assignment struct {
	ID        uuid.UUID
	CourseID  uuid.UUID
	Title     string
	CreatedAt time.Time
}

// CreateAssignmentRequest is the JSON body for assignment creation. The
// course ID comes from the URL, not the body.
type CreateAssignmentRequest struct {
	Title string `json:"title"`
}

func (r *CreateAssignmentRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if len(title) > 200 {
		return errors.New("title must be at most 200 characters")
	}
	r.Title = title
	return nil
}

// AssignmentResponse is the JSON shape returned to callers.
type AssignmentResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAssignmentResponse(a *Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.ID.String(),
		CourseID:  a.CourseID.String(),
		Title:     a.Title,
		CreatedAt: a.CreatedAt,
	}
}
