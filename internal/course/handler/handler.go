package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campus/internal/course/models"
	"campus/internal/platform/metrics"
	"campus/internal/platform/middleware"
	"campus/internal/sentinel"
	"campus/internal/token"
	dErrors "campus/pkg/domain-errors"
	"campus/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence dependency for course handlers.
type Store interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type Handler struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store Store, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{store: store, logger: logger, metrics: m}
}

// Register mounts the course routes. The read endpoint accepts teacher
// credentials as well: the teacher service forwards its caller's token here
// when verifying a course before creating an assignment.
func (h *Handler) Register(r chi.Router, tokens middleware.TokenVerifier) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, h.logger, h.metrics))
		r.With(middleware.RequireRole(h.logger, h.metrics, token.RoleAdmin)).
			Post("/courses", h.HandleCreateCourse)
		r.With(middleware.RequireRole(h.logger, h.metrics, token.RoleAdmin, token.RoleTeacher)).
			Get("/courses/{courseID}", h.HandleGetCourse)
	})
}

// HandleCreateCourse creates a course.
func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndValidate[models.CreateCourseRequest](w, r, h.logger)
	if !ok {
		return
	}

	course := &models.Course{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Create(ctx, course); err != nil {
		h.logger.ErrorContext(ctx, "create course failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "database error"))
		return
	}

	h.metrics.IncRowsCreated("course")
	httputil.WriteJSON(w, http.StatusCreated, models.ToCourseResponse(course))
}

// HandleGetCourse returns a course by ID.
func (h *Handler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid course id"))
		return
	}

	course, err := h.store.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "course not found"))
			return
		}
		h.logger.ErrorContext(ctx, "get course failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
			"course_id", courseID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "database error"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToCourseResponse(course))
}
