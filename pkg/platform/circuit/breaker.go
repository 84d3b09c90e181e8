// Package circuit provides a per-target circuit breaker for outbound calls.
package circuit

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by callers when a call is rejected because the circuit
// is open. No network attempt is made for a rejected call.
var ErrOpen = errors.New("circuit open")

// State is the breaker state derived from the stored counters.
type State int

const (
	// StateClosed means the target is healthy and calls flow normally.
	StateClosed State = iota
	// StateOpen means the failure threshold was crossed and the cooldown has
	// not yet elapsed; calls are rejected without network I/O.
	StateOpen
	// StateHalfOpen means the cooldown has elapsed and one probing call may
	// go through to test whether the target recovered.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker tracks consecutive failures for one remote target. It does not
// store an explicit state; closed/open/half-open are derived from the failure
// count and the last-failure timestamp. One long-lived instance per target is
// constructed at startup and shared by every request touching that target.
type Breaker struct {
	mu          sync.Mutex
	name        string
	failures    int
	lastFailure time.Time

	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the number of consecutive failures that opens the
// circuit. Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown sets how long the circuit stays open before admitting a probe.
// Default is 30s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a circuit breaker named after its remote target.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the breaker's target name for logging/metrics.
func (b *Breaker) Name() string {
	return b.name
}

// Allow reports whether a call may proceed. When the cooldown has elapsed on
// an open circuit, the first caller is admitted as the half-open probe;
// admission restamps the last-failure time so concurrent callers see the
// window closed behind the probe.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.failureThreshold {
		return true
	}
	if !b.lastFailure.IsZero() && b.now().Sub(b.lastFailure) < b.cooldown {
		return false
	}

	// Half-open: admit one probe.
	b.lastFailure = b.now()
	return true
}

// State derives the current breaker state without admitting a call.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.failureThreshold {
		return StateClosed
	}
	if !b.lastFailure.IsZero() && b.now().Sub(b.lastFailure) < b.cooldown {
		return StateOpen
	}
	return StateHalfOpen
}

// RecordSuccess zeroes the failure count and clears the last-failure
// timestamp. A successful half-open probe closes the circuit through here.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.lastFailure = time.Time{}
}

// RecordFailure increments the failure count and stamps the current time.
// Returns the state after recording so callers can log the open transition.
func (b *Breaker) RecordFailure() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = b.now()
	if b.failures < b.failureThreshold {
		return StateClosed
	}
	return StateOpen
}

// Failures returns the current consecutive-failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
