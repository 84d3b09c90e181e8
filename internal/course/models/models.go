package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Course is a unit of teaching owned by the admin service. Other services
// hold course IDs only and must verify them here before writing.
type Course struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// CreateCourseRequest is the JSON body for course creation.
type CreateCourseRequest struct {
	Name string `json:"name"`
}

func (r *CreateCourseRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 200 {
		return errors.New("name must be at most 200 characters")
	}
	r.Name = name
	return nil
}

// CourseResponse is the JSON shape returned to callers.
type CourseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCourseResponse(c *Course) CourseResponse {
	return CourseResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
