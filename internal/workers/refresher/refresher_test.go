package refresher_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtosity/wirefires-tracker/internal/app/monitor"
	"github.com/mtosity/wirefires-tracker/internal/domain/alerts"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/observability"
	"github.com/mtosity/wirefires-tracker/internal/workers/refresher"
)

const debounce = 400 * time.Millisecond

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

type fakeFeeds struct {
	mu       sync.Mutex
	bounds   []wildfires.Bounds
	snap     wildfires.Snapshot
	notices  []alerts.Notice
	firesErr error
}

func (f *fakeFeeds) Wildfires(ctx context.Context, b wildfires.Bounds) (wildfires.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.firesErr != nil {
		return wildfires.Snapshot{}, f.firesErr
	}
	f.bounds = append(f.bounds, b)
	return f.snap, nil
}

func (f *fakeFeeds) Alerts(ctx context.Context, pos *wildfires.Point) ([]alerts.Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notices, nil
}

func (f *fakeFeeds) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bounds)
}

func (f *fakeFeeds) lastBounds() wildfires.Bounds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds[len(f.bounds)-1]
}

func newCoordinator() *monitor.Coordinator {
	metrics := observability.NewMetricsForTesting()
	buf := monitor.NewCommandBuffer(false, metrics)
	return monitor.New("test-session", false, monitor.Collaborators{
		Map:      buf,
		Notifier: buf,
		Browser:  buf,
		Sensor:   buf,
	}, monitor.Settings{LocateZoom: 10, AlertZoom: 12}, nopLogger{}, metrics)
}

// settle drives the fake clock until the loop's debounce window elapses and a
// fetch lands.
func settle(t *testing.T, fc *clockwork.FakeClock, feeds *fakeFeeds, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		fc.Advance(debounce)
		return feeds.calls() >= want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefresher_FetchesAfterDebounce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := clockwork.NewFakeClock()
	feeds := &fakeFeeds{
		snap:    wildfires.Snapshot{Incidents: []wildfires.Incident{{ID: "A", Name: "Caldor Ridge Fire"}}},
		notices: []alerts.Notice{{ID: "n1", WildfireID: "A"}},
	}
	c := newCoordinator()

	r := refresher.New(feeds, fc, debounce, nopLogger{}, observability.NewMetricsForTesting())
	r.Watch(ctx, c)

	b := wildfires.Bounds{North: 40, South: 37, East: -118, West: -122}
	c.OnViewportChange(ctx, b)

	settle(t, fc, feeds, 1)
	assert.Equal(t, b, feeds.lastBounds())

	require.Eventually(t, func() bool {
		return len(c.ViewState().Incidents) == 1
	}, 2*time.Second, 10*time.Millisecond)

	vs := c.ViewState()
	assert.Equal(t, "A", vs.Incidents[0].ID)
	require.NotNil(t, vs.Alert)
	assert.Equal(t, "n1", vs.Alert.ID)
}

func TestRefresher_CoalescesBurstIntoOneFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := clockwork.NewFakeClock()
	feeds := &fakeFeeds{}
	c := newCoordinator()

	r := refresher.New(feeds, fc, debounce, nopLogger{}, observability.NewMetricsForTesting())
	r.Watch(ctx, c)

	// A pan-zoom burst: only the final bounds matter.
	c.OnViewportChange(ctx, wildfires.Bounds{North: 40, South: 37, East: -118, West: -122})
	c.OnViewportChange(ctx, wildfires.Bounds{North: 41, South: 38, East: -117, West: -121})
	last := wildfires.Bounds{North: 42, South: 39, East: -116, West: -120}
	c.OnViewportChange(ctx, last)

	settle(t, fc, feeds, 1)

	assert.Equal(t, 1, feeds.calls())
	assert.Equal(t, last, feeds.lastBounds())
}

func TestRefresher_SkipsWithoutBounds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := clockwork.NewFakeClock()
	feeds := &fakeFeeds{}
	c := newCoordinator()

	r := refresher.New(feeds, fc, debounce, nopLogger{}, observability.NewMetricsForTesting())
	r.Watch(ctx, c)

	// A position fix moves the scope but there is no viewport yet.
	c.ResolvePosition(ctx, wildfires.Point{Lat: 38, Lon: -120})

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(debounce)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, feeds.calls())
}

func TestRefresher_FeedErrorLeavesStateUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := clockwork.NewFakeClock()
	feeds := &fakeFeeds{firesErr: errors.New("upstream down")}
	c := newCoordinator()

	r := refresher.New(feeds, fc, debounce, nopLogger{}, observability.NewMetricsForTesting())
	r.Watch(ctx, c)

	c.OnViewportChange(ctx, wildfires.Bounds{North: 40, South: 37, East: -118, West: -122})

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(debounce)
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, c.ViewState().Incidents)
	assert.Equal(t, 0, feeds.calls())
}
