package monitor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtosity/wirefires-tracker/internal/app/monitor"
	"github.com/mtosity/wirefires-tracker/internal/observability"
)

type fakeWatcher struct {
	mu      sync.Mutex
	watched []*monitor.Coordinator
	ctxs    []context.Context
}

func (w *fakeWatcher) Watch(ctx context.Context, c *monitor.Coordinator) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watched = append(w.watched, c)
	w.ctxs = append(w.ctxs, ctx)
}

func newManager(fc clockwork.Clock, w monitor.Watcher, metrics *observability.Metrics) *monitor.Manager {
	return monitor.NewManager(w, monitor.Settings{
		LocateZoom: 10,
		AlertZoom:  12,
		PublicURL:  "https://fires.example.com",
	}, 30*time.Minute, time.Minute, fc, nopLogger{}, metrics)
}

func TestManager_CreateGetRemove(t *testing.T) {
	fc := clockwork.NewFakeClock()
	w := &fakeWatcher{}
	m := newManager(fc, w, observability.NewMetricsForTesting())
	ctx := context.Background()

	s := m.Create(ctx, monitor.Capabilities{Mobile: true, CanShare: true})
	require.NotNil(t, s)
	assert.Len(t, s.ID, 32)
	assert.True(t, s.Buffer.CanShare())

	w.mu.Lock()
	require.Len(t, w.watched, 1)
	assert.Same(t, s.Coordinator, w.watched[0])
	w.mu.Unlock()

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	require.True(t, m.Remove(ctx, s.ID))
	_, ok = m.Get(s.ID)
	assert.False(t, ok)

	assert.False(t, m.Remove(ctx, s.ID))
}

func TestManager_RemoveCancelsWatcher(t *testing.T) {
	fc := clockwork.NewFakeClock()
	w := &fakeWatcher{}
	m := newManager(fc, w, observability.NewMetricsForTesting())
	ctx := context.Background()

	s := m.Create(ctx, monitor.Capabilities{})
	m.Remove(ctx, s.ID)

	w.mu.Lock()
	wctx := w.ctxs[0]
	w.mu.Unlock()

	select {
	case <-wctx.Done():
	default:
		t.Fatal("expected watcher context to be cancelled on remove")
	}
}

func TestManager_EvictsIdleSessions(t *testing.T) {
	fc := clockwork.NewFakeClock()
	w := &fakeWatcher{}
	metrics := observability.NewMetricsForTesting()
	m := newManager(fc, w, metrics)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = m.Run(runCtx)
		close(done)
	}()

	// The sweep ticker must be armed before the clock advances past it.
	require.NoError(t, fc.BlockUntilContext(runCtx, 1))

	idle := m.Create(runCtx, monitor.Capabilities{})
	active := m.Create(runCtx, monitor.Capabilities{})

	fc.Advance(20 * time.Minute)
	_, ok := m.Get(active.ID) // touch keeps it alive
	require.True(t, ok)

	fc.Advance(15 * time.Minute)

	// Poll the gauge rather than Get: Get counts as activity.
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.SessionsActive) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(active.ID)
	assert.True(t, ok)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop on context cancel")
	}

	// Shutdown closes every remaining session.
	_, ok = m.Get(active.ID)
	assert.False(t, ok)
}
