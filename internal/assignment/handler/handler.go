package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campus/internal/assignment/models"
	"campus/internal/platform/metrics"
	"campus/internal/platform/middleware"
	"campus/internal/sentinel"
	"campus/internal/token"
	"campus/internal/verify"
	dErrors "campus/pkg/domain-errors"
	"campus/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence dependency for assignment handlers.
type Store interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
}

// CourseChecker verifies a referenced course with the admin service,
// forwarding the caller's bearer credential. Satisfied by *verify.Verifier.
type CourseChecker interface {
	CourseExists(ctx context.Context, courseID uuid.UUID, bearer string) verify.Outcome
}

type Handler struct {
	store   Store
	courses CourseChecker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store Store, courses CourseChecker, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{store: store, courses: courses, logger: logger, metrics: m}
}

// Register mounts the assignment routes. The read endpoint accepts student
// credentials as well: the student service forwards its caller's token here
// when verifying an assignment before accepting a submission.
func (h *Handler) Register(r chi.Router, tokens middleware.TokenVerifier) {
	r.Route("/api/teacher", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, h.logger, h.metrics))
		r.With(middleware.RequireRole(h.logger, h.metrics, token.RoleTeacher)).
			Post("/courses/{courseID}/assignments", h.HandleCreateAssignment)
		r.With(middleware.RequireRole(h.logger, h.metrics, token.RoleTeacher, token.RoleStudent)).
			Get("/assignments/{assignmentID}", h.HandleGetAssignment)
	})
}

// HandleCreateAssignment creates an assignment after verifying the referenced
// course with the admin service. The insert happens strictly after a
// confirmed existence; a confirmed absence answers 404 and an unreachable
// admin service answers 502, never conflated.
func (h *Handler) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid course id"))
		return
	}

	req, ok := httputil.DecodeAndValidate[models.CreateAssignmentRequest](w, r, h.logger)
	if !ok {
		return
	}

	switch outcome := h.courses.CourseExists(ctx, courseID, r.Header.Get("Authorization")); outcome {
	case verify.OutcomeExists:
		// fall through to the insert
	case verify.OutcomeNotFound:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "course not found"))
		return
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "course service unavailable"))
		return
	}

	assignment := &models.Assignment{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     req.Title,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Create(ctx, assignment); err != nil {
		h.logger.ErrorContext(ctx, "create assignment failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "database error"))
		return
	}

	h.metrics.IncRowsCreated("assignment")
	httputil.WriteJSON(w, http.StatusCreated, models.ToAssignmentResponse(assignment))
}

// HandleGetAssignment returns an assignment by ID.
func (h *Handler) HandleGetAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid assignment id"))
		return
	}

	assignment, err := h.store.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "assignment not found"))
			return
		}
		h.logger.ErrorContext(ctx, "get assignment failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
			"assignment_id", assignmentID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "database error"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToAssignmentResponse(assignment))
}
