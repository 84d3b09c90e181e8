package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campus/internal/platform/metrics"
	"campus/internal/platform/middleware"
	"campus/internal/sentinel"
	"campus/internal/submission/models"
	"campus/internal/token"
	"campus/internal/verify"
	dErrors "campus/pkg/domain-errors"
	"campus/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence dependency for submission handlers.
type Store interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
}

// AssignmentChecker verifies a referenced assignment with the teacher
// service, forwarding the caller's bearer credential. Satisfied by
// *verify.Verifier.
type AssignmentChecker interface {
	AssignmentExists(ctx context.Context, assignmentID uuid.UUID, bearer string) verify.Outcome
}

type Handler struct {
	store       Store
	assignments AssignmentChecker
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func New(store Store, assignments AssignmentChecker, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{store: store, assignments: assignments, logger: logger, metrics: m}
}

// Register mounts the submission routes.
func (h *Handler) Register(r chi.Router, tokens middleware.TokenVerifier) {
	r.Route("/api/student", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, h.logger, h.metrics))
		r.With(middleware.RequireRole(h.logger, h.metrics, token.RoleStudent)).
			Post("/assignments/{assignmentID}/submissions", h.HandleCreateSubmission)
		r.With(middleware.RequireRole(h.logger, h.metrics, token.RoleStudent, token.RoleTeacher)).
			Get("/submissions/{submissionID}", h.HandleGetSubmission)
	})
}

// HandleCreateSubmission records a submission after verifying the referenced
// assignment with the teacher service. The student's token is forwarded for
// that check; the assignment read endpoint accepts the student role for
// exactly this purpose.
func (h *Handler) HandleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid assignment id"))
		return
	}

	req, ok := httputil.DecodeAndValidate[models.CreateSubmissionRequest](w, r, h.logger)
	if !ok {
		return
	}

	claims := middleware.GetClaims(ctx)
	if claims == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	switch outcome := h.assignments.AssignmentExists(ctx, assignmentID, r.Header.Get("Authorization")); outcome {
	case verify.OutcomeExists:
		// fall through to the insert
	case verify.OutcomeNotFound:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "assignment not found"))
		return
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "assignment service unavailable"))
		return
	}

	submission := &models.Submission{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		StudentID:    claims.Subject,
		Content:      req.Content,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.Create(ctx, submission); err != nil {
		h.logger.ErrorContext(ctx, "create submission failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "database error"))
		return
	}

	h.metrics.IncRowsCreated("submission")
	httputil.WriteJSON(w, http.StatusCreated, models.ToSubmissionResponse(submission))
}

// HandleGetSubmission returns a submission by ID. Students may only read
// their own submissions; teachers may read any.
func (h *Handler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	submissionID, err := uuid.Parse(chi.URLParam(r, "submissionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid submission id"))
		return
	}

	submission, err := h.store.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "submission not found"))
			return
		}
		h.logger.ErrorContext(ctx, "get submission failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
			"submission_id", submissionID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "database error"))
		return
	}

	claims := middleware.GetClaims(ctx)
	if claims != nil && claims.Role == token.RoleStudent && submission.StudentID != claims.Subject {
		// Absence and denial look the same to the caller.
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "submission not found"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToSubmissionResponse(submission))
}
