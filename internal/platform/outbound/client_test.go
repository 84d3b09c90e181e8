package outbound

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campus/pkg/platform/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadTarget is a base URL that refuses connections immediately.
const deadTarget = "http://127.0.0.1:1"

type countingServer struct {
	*httptest.Server
	hits atomic.Int32
}

// newCountingServer serves statuses in order, repeating the last one once the
// sequence is exhausted, and counts every request it receives.
func newCountingServer(t *testing.T, statuses ...int) *countingServer {
	t.Helper()
	cs := &countingServer{}
	var mu sync.Mutex
	i := 0
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		mu.Lock()
		status := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func newTestClient(base string, breaker *circuit.Breaker) *Client {
	return New(slog.Default(),
		WithTarget(TargetAdmin, base, breaker),
		WithBaseBackoff(5*time.Millisecond),
	)
}

func TestGetSucceedsOnFirstAttempt(t *testing.T) {
	srv := newCountingServer(t, http.StatusOK)
	b := circuit.New(TargetAdmin)
	// A long base backoff makes any pre-attempt sleep visible in the latency.
	c := New(slog.Default(),
		WithTarget(TargetAdmin, srv.URL, b),
		WithBaseBackoff(300*time.Millisecond),
	)

	start := time.Now()
	err := c.Get(context.Background(), TargetAdmin, "/api/admin/courses/x", "")

	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load(), "success must not trigger further attempts")
	assert.Less(t, time.Since(start), 200*time.Millisecond,
		"no backoff sleep may precede the first attempt")
	assert.Equal(t, circuit.StateClosed, b.State())
}

func TestGetRetriesUntilSuccess(t *testing.T) {
	srv := newCountingServer(t, http.StatusInternalServerError, http.StatusInternalServerError, http.StatusOK)
	b := circuit.New(TargetAdmin)
	c := newTestClient(srv.URL, b)

	err := c.Get(context.Background(), TargetAdmin, "/api/admin/courses/x", "")

	require.NoError(t, err)
	assert.Equal(t, int32(3), srv.hits.Load())
	assert.Equal(t, 0, b.Failures())
}

func TestGetExhaustsAttemptsOnPersistentStatus(t *testing.T) {
	srv := newCountingServer(t, http.StatusNotFound)
	b := circuit.New(TargetAdmin)
	c := newTestClient(srv.URL, b)

	err := c.Get(context.Background(), TargetAdmin, "/api/admin/courses/x", "")

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, int32(4), srv.hits.Load(), "one attempt plus three retries")
	// The target answered, so reachability is intact and the breaker resets.
	assert.Equal(t, 0, b.Failures())
	assert.Equal(t, circuit.StateClosed, b.State())
}

func TestGetBackoffDelaysBetweenAttempts(t *testing.T) {
	srv := newCountingServer(t, http.StatusInternalServerError)
	b := circuit.New(TargetAdmin)
	c := New(slog.Default(),
		WithTarget(TargetAdmin, srv.URL, b),
		WithBaseBackoff(20*time.Millisecond),
	)

	start := time.Now()
	err := c.Get(context.Background(), TargetAdmin, "/x", "")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Equal(t, int32(4), srv.hits.Load())
	// Waits double per retry: 20 + 40 + 80 = 140ms minimum.
	assert.GreaterOrEqual(t, elapsed, 140*time.Millisecond)
}

func TestGetForwardsBearerVerbatim(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv.URL, circuit.New(TargetAdmin))
	err := c.Get(context.Background(), TargetAdmin, "/x", "Bearer some.jwt.value")

	require.NoError(t, err)
	assert.Equal(t, "Bearer some.jwt.value", gotAuth.Load())
}

func TestTransportFailuresOpenBreaker(t *testing.T) {
	b := circuit.New(TargetAdmin)
	dead := newTestClient(deadTarget, b)

	// Five exhausted transport-failure calls cross the threshold.
	for i := 0; i < 5; i++ {
		err := dead.Get(context.Background(), TargetAdmin, "/x", "")
		require.Error(t, err)
		require.NotErrorIs(t, err, circuit.ErrOpen)
	}
	require.Equal(t, circuit.StateOpen, b.State())

	// The sixth call is rejected locally: same breaker, live server, zero hits.
	srv := newCountingServer(t, http.StatusOK)
	live := newTestClient(srv.URL, b)

	err := live.Get(context.Background(), TargetAdmin, "/x", "")

	require.ErrorIs(t, err, circuit.ErrOpen)
	assert.Equal(t, int32(0), srv.hits.Load(), "open circuit must make no network attempt")
}

func TestBreakerProbeClosesAfterCooldown(t *testing.T) {
	clock := time.Now()
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	}
	b := circuit.New(TargetAdmin, circuit.WithClock(now))

	dead := newTestClient(deadTarget, b)
	for i := 0; i < 5; i++ {
		require.Error(t, dead.Get(context.Background(), TargetAdmin, "/x", ""))
	}
	require.Equal(t, circuit.StateOpen, b.State())

	mu.Lock()
	clock = clock.Add(30 * time.Second)
	mu.Unlock()

	srv := newCountingServer(t, http.StatusOK)
	live := newTestClient(srv.URL, b)

	err := live.Get(context.Background(), TargetAdmin, "/x", "")

	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load(), "exactly one probe goes through")
	assert.Equal(t, circuit.StateClosed, b.State(), "probe success closes the circuit")
}

func TestGetStopsRetryingOnCancellation(t *testing.T) {
	b := circuit.New(TargetAdmin)
	c := New(slog.Default(),
		WithTarget(TargetAdmin, deadTarget, b),
		WithBaseBackoff(50*time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Get(ctx, TargetAdmin, "/x", "")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation must end the retry loop promptly")
}

func TestGetUnknownTarget(t *testing.T) {
	c := New(slog.Default())
	err := c.Get(context.Background(), "nowhere", "/x", "")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, circuit.ErrOpen))
}

func TestTargetBreakersAreIndependent(t *testing.T) {
	adminBreaker := circuit.New(TargetAdmin)
	teacherBreaker := circuit.New(TargetTeacher)
	srv := newCountingServer(t, http.StatusOK)

	c := New(slog.Default(),
		WithTarget(TargetAdmin, deadTarget, adminBreaker),
		WithTarget(TargetTeacher, srv.URL, teacherBreaker),
		WithBaseBackoff(time.Millisecond),
	)

	for i := 0; i < 5; i++ {
		require.Error(t, c.Get(context.Background(), TargetAdmin, "/x", ""))
	}
	require.Equal(t, circuit.StateOpen, adminBreaker.State())

	// The teacher target is unaffected by the admin target's failures.
	err := c.Get(context.Background(), TargetTeacher, "/x", "")
	require.NoError(t, err)
	assert.Equal(t, circuit.StateClosed, teacherBreaker.State())
}
