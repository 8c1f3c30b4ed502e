// Package refresher keeps each session's incident and alert data scoped to
// its current viewport and position.
package refresher

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mtosity/wirefires-tracker/internal/app/monitor"
	"github.com/mtosity/wirefires-tracker/internal/domain/alerts"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/observability"
)

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

type FeedRepository interface {
	Wildfires(ctx context.Context, b wildfires.Bounds) (wildfires.Snapshot, error)
	Alerts(ctx context.Context, pos *wildfires.Point) ([]alerts.Notice, error)
}

// Refresher watches session scope changes, coalesces bursts of camera
// settles into one fetch, and applies resolved snapshots under the session's
// sequence token so a late stale fetch never overwrites fresher data.
type Refresher struct {
	feeds    FeedRepository
	clock    clockwork.Clock
	debounce time.Duration
	timeout  time.Duration
	log      Logger
	metrics  *observability.Metrics
}

func New(feeds FeedRepository, clock clockwork.Clock, debounce time.Duration, log Logger, metrics *observability.Metrics) *Refresher {
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	return &Refresher{
		feeds:    feeds,
		clock:    clock,
		debounce: debounce,
		timeout:  15 * time.Second,
		log:      log,
		metrics:  metrics,
	}
}

// Watch starts the per-session refresh loop. It returns immediately; the
// loop stops when ctx is cancelled.
func (r *Refresher) Watch(ctx context.Context, c *monitor.Coordinator) {
	go r.run(ctx, c)
}

func (r *Refresher) run(ctx context.Context, c *monitor.Coordinator) {
	r.log.Info(ctx, "refresher started", "session_id", c.ID())
	for {
		select {
		case <-ctx.Done():
			r.log.Info(ctx, "refresher stopped", "session_id", c.ID())
			return
		case <-c.ScopeChanged():
		}

		// Coalesce: every further scope change inside the debounce window
		// restarts it, so a pan-zoom burst costs one fetch.
		t := r.clock.NewTimer(r.debounce)
	settle:
		for {
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-c.ScopeChanged():
				t.Reset(r.debounce)
			case <-t.Chan():
				break settle
			}
		}

		r.refresh(ctx, c)
	}
}

func (r *Refresher) refresh(ctx context.Context, c *monitor.Coordinator) {
	scope := c.Scope()
	if !scope.HasBounds {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snap, err := r.feeds.Wildfires(fetchCtx, scope.Bounds)
	if err != nil {
		r.metrics.FeedRequests.WithLabelValues("wildfires", "error").Inc()
		r.log.Error(ctx, "wildfire feed fetch failed", "session_id", c.ID(), "error", err)
		return
	}
	r.metrics.FeedRequests.WithLabelValues("wildfires", "success").Inc()

	notices, err := r.feeds.Alerts(fetchCtx, scope.Position)
	if err != nil {
		r.metrics.FeedRequests.WithLabelValues("alerts", "error").Inc()
		r.log.Error(ctx, "alert feed fetch failed", "session_id", c.ID(), "error", err)
		return
	}
	r.metrics.FeedRequests.WithLabelValues("alerts", "success").Inc()

	c.ApplySnapshot(ctx, scope.Seq, snap, notices)
}
