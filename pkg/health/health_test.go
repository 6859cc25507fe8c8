package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingCheck() CheckFunc {
	return func(_ context.Context) error {
		return nil
	}
}

func failingCheck(msg string) CheckFunc {
	return func(_ context.Context) error {
		return errors.New(msg)
	}
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	return w
}

func runTimes(c *check, n int) {
	for range n {
		c.run(context.Background())
	}
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	h := New()
	h.Add(Liveness, "check1", time.Second, passingCheck())
	h.Add(Liveness, "check2", time.Second, passingCheck())

	w := serve(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLiveEndpoint_FailingCheck(t *testing.T) {
	h := New()
	h.Add(Liveness, "db", time.Second, failingCheck("connection refused"))

	// Checks start healthy and need three consecutive failures to flip.
	runTimes(h.checks[0], 3)

	w := serve(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"db":"connection refused"}}`, w.Body.String())
}

func TestCheck_FailureBelowThreshold(t *testing.T) {
	h := New()
	h.Add(Liveness, "flaky", time.Second, failingCheck("temporary"))

	runTimes(h.checks[0], 2)

	w := serve(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheck_CustomThresholds(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	fn := func(context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	}

	h := New()
	h.Add(Readiness, "db", time.Second, fn, WithThresholds(1, 2))
	h.SetReady(true)
	c := h.checks[0]

	runTimes(c, 1)
	assert.False(t, h.IsReady(), "one failure is enough")

	fail.Store(false)
	runTimes(c, 1)
	assert.False(t, h.IsReady(), "needs two successes")
	runTimes(c, 1)
	assert.True(t, h.IsReady())
}

func TestReadyEndpoint(t *testing.T) {
	h := New()
	h.Add(Readiness, "catalog", time.Second, passingCheck())
	h.Add(Liveness, "goroutines", time.Second, failingCheck("too many"))
	runTimes(h.checks[1], 3)

	w := serve(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"_readiness":"service is not ready"}}`, w.Body.String())

	h.SetReady(true)
	w = serve(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, w.Code, "liveness failures do not affect readiness")
	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestStartStop(t *testing.T) {
	var calls atomic.Int32
	h := New()
	h.Add(Readiness, "counter", time.Second, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()
	time.Sleep(30 * time.Millisecond)
	stopped := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load(), "no runs after Stop")
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestCheckers(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, GoroutineCountCheck(1_000_000)(ctx))
	require.Error(t, GoroutineCountCheck(0)(ctx))

	require.NoError(t, PingCheck(fakePinger{})(ctx))
	require.ErrorContains(t, PingCheck(fakePinger{err: errors.New("refused")})(ctx), "refused")

	require.NoError(t, NonEmptyCheck("catalog", func() int { return 6 })(ctx))
	require.ErrorContains(t, NonEmptyCheck("catalog", func() int { return 0 })(ctx), "catalog is empty")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "liveness", Liveness.String())
	assert.Equal(t, "readiness", Readiness.String())
}
