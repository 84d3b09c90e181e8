// Package outbound performs existence probes against peer services with
// bounded retry, exponential backoff, and per-target circuit breaking.
package outbound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"campus/internal/platform/metrics"
	"campus/pkg/platform/circuit"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stable target keys. Each is bound to one base URL and one breaker at startup.
const (
	TargetAdmin   = "admin"
	TargetTeacher = "teacher"
)

const (
	connectTimeout = 5 * time.Second
	requestTimeout = 30 * time.Second

	// retryCount is the number of retries after the first attempt.
	retryCount  = 3
	baseBackoff = 100 * time.Millisecond
)

// StatusError reports that the target answered, but with a non-2xx status.
// Reachability was intact, so it does not count toward the target's breaker.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

type target struct {
	base    string
	breaker *circuit.Breaker
}

// Client issues GET probes against named targets. Failures calling one target
// never influence another target's breaker.
type Client struct {
	http        *http.Client
	targets     map[string]*target
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	baseBackoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTarget binds a target key to a base URL (without trailing slash) and a
// breaker. The breaker must be the long-lived per-target instance shared by
// every request in the process.
func WithTarget(name, baseURL string, breaker *circuit.Breaker) Option {
	return func(c *Client) {
		c.targets[name] = &target{base: baseURL, breaker: breaker}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseBackoff overrides the first retry delay. Used by tests to keep the
// backoff schedule fast; the doubling shape is not configurable.
func WithBaseBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseBackoff = d
		}
	}
}

// WithMetrics attaches the service metrics set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates an outbound client. The shared http.Client enforces the connect
// and total attempt timeouts; its connection pool is safe for concurrent use.
func New(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
				MaxIdleConnsPerHost: 16,
			},
		},
		targets:     make(map[string]*target),
		logger:      logger,
		tracer:      otel.Tracer("campus/outbound"),
		baseBackoff: baseBackoff,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get probes GET {base}{path} against the named target, forwarding the
// bearer credential verbatim when present.
//
// Returns nil on any 2xx. Returns circuit.ErrOpen with zero network attempts
// when the target's breaker is open. Returns *StatusError when all attempts
// were answered but none with 2xx, or the transport error of the last attempt
// otherwise. Only exhausted transport failures count toward the breaker; an
// answered non-2xx proves the target reachable and resets it.
func (c *Client) Get(ctx context.Context, targetName, path, bearer string) error {
	t, ok := c.targets[targetName]
	if !ok {
		return fmt.Errorf("unknown target %q", targetName)
	}

	if !t.breaker.Allow() {
		c.logger.WarnContext(ctx, "outbound call rejected, circuit open",
			"target", targetName,
			"path", path,
		)
		c.metrics.IncCircuitRejection(targetName)
		return circuit.ErrOpen
	}

	ctx, span := c.tracer.Start(ctx, "outbound.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("peer.service", targetName),
			attribute.String("http.path", path),
		),
	)
	err := c.getWithRetry(ctx, targetName, t, path, bearer)

	var statusErr *StatusError
	switch {
	case err == nil:
		t.breaker.RecordSuccess()
		span.SetStatus(codes.Ok, "")
	case errors.As(err, &statusErr):
		t.breaker.RecordSuccess()
		span.SetAttributes(attribute.Int("http.status_code", statusErr.Code))
		span.SetStatus(codes.Ok, "")
	default:
		if state := t.breaker.RecordFailure(); state == circuit.StateOpen {
			c.logger.WarnContext(ctx, "circuit opened",
				"target", targetName,
				"failures", t.breaker.Failures(),
			)
			c.metrics.IncCircuitOpened(targetName)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	return err
}

func (c *Client) getWithRetry(ctx context.Context, targetName string, t *target, path, bearer string) error {
	var lastErr error
	for attempt := 0; attempt <= retryCount; attempt++ {
		if attempt > 0 {
			// 100ms, 200ms, 400ms before attempts 2-4. The timer select keeps
			// the wait cooperative and cancellable; no other request is held up.
			wait := c.baseBackoff << (attempt - 1)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base+path, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if bearer != "" {
			req.Header.Set("Authorization", bearer)
		}

		res, err := c.http.Do(req)
		if err != nil {
			c.metrics.IncOutboundAttempt(targetName, "error")
			lastErr = err
			if ctx.Err() != nil {
				// Caller gone or deadline elapsed; stop retrying promptly.
				return ctx.Err()
			}
			continue
		}

		// Drain so the connection returns to the pool.
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			c.metrics.IncOutboundAttempt(targetName, "ok")
			return nil
		}
		c.metrics.IncOutboundAttempt(targetName, "status")
		lastErr = &StatusError{Code: res.StatusCode}
	}
	return lastErr
}
