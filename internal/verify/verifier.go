// Package verify confirms that an entity owned by a peer service exists
// before a dependent local write is permitted. The caller's credential is
// forwarded unchanged; the peer re-applies its own access policy to it.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"campus/internal/platform/metrics"
	"campus/internal/platform/outbound"

	"github.com/google/uuid"
)

// Outcome is the verification result surfaced to the write path. It is always
// one of the three values below, never inferred by absence.
type Outcome int

const (
	// OutcomeExists confirms the entity is present; the write may proceed.
	OutcomeExists Outcome = iota + 1
	// OutcomeNotFound is a confirmed absence; the write is rejected with 404.
	OutcomeNotFound
	// OutcomeUnavailable means the peer could not be consulted (transport
	// failure, timeout, or open circuit); the write is rejected with 502.
	// The entity's true state is unknown, which is why this is never
	// collapsed into OutcomeNotFound.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExists:
		return "exists"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Prober issues the outbound existence probe. Satisfied by *outbound.Client.
type Prober interface {
	Get(ctx context.Context, target, path, bearer string) error
}

// Verifier maps outbound call results onto write-path outcomes.
type Verifier struct {
	client  Prober
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(client Prober, logger *slog.Logger, m *metrics.Metrics) *Verifier {
	return &Verifier{client: client, logger: logger, metrics: m}
}

// CourseExists checks the admin service for the given course, forwarding the
// caller's bearer credential.
func (v *Verifier) CourseExists(ctx context.Context, courseID uuid.UUID, bearer string) Outcome {
	path := fmt.Sprintf("/api/admin/courses/%s", courseID)
	return v.check(ctx, outbound.TargetAdmin, path, bearer)
}

// AssignmentExists checks the teacher service for the given assignment,
// forwarding the caller's bearer credential.
func (v *Verifier) AssignmentExists(ctx context.Context, assignmentID uuid.UUID, bearer string) Outcome {
	path := fmt.Sprintf("/api/teacher/assignments/%s", assignmentID)
	return v.check(ctx, outbound.TargetTeacher, path, bearer)
}

func (v *Verifier) check(ctx context.Context, target, path, bearer string) Outcome {
	err := v.client.Get(ctx, target, path, bearer)

	var outcome Outcome
	var statusErr *outbound.StatusError
	switch {
	case err == nil:
		outcome = OutcomeExists
	case errors.As(err, &statusErr):
		v.logger.InfoContext(ctx, "existence check: entity absent",
			"target", target,
			"path", path,
			"status", statusErr.Code,
		)
		outcome = OutcomeNotFound
	default:
		v.logger.WarnContext(ctx, "existence check: peer unavailable",
			"target", target,
			"path", path,
			"error", err,
		)
		outcome = OutcomeUnavailable
	}

	v.metrics.IncVerifyOutcome(target, outcome.String())
	return outcome
}
