// Package monitor implements the view-state coordinator for the wildfire
// dashboard: one Coordinator per session correlates the incident snapshot,
// the alert stream, and the user's position into a single consistent view,
// and turns user intents into state changes or collaborator commands.
package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/mtosity/wirefires-tracker/internal/domain/alerts"
	"github.com/mtosity/wirefires-tracker/internal/domain/view"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/errs"
	"github.com/mtosity/wirefires-tracker/internal/observability"
)

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// MapController accepts camera commands and zoom deltas. Ready reports
// whether the map emitted its initialization handle yet.
type MapController interface {
	Ready() bool
	FlyTo(cmd CameraCommand)
	ZoomBy(delta int)
}

// Notifier renders transient user-visible feedback. Fire-and-forget.
type Notifier interface {
	Notify(t Toast)
}

// Browser covers the browsing-context collaborators: opening URLs, the
// platform share API, and the clipboard. Share may reject.
type Browser interface {
	CanShare() bool
	Share(p SharePayload) error
	OpenURL(req NavigationRequest)
	WriteClipboard(text string)
}

// Sensor requests a location fix. Resolution arrives asynchronously through
// ResolvePosition or FailPosition and may suspend indefinitely pending user
// permission.
type Sensor interface {
	RequestPosition()
}

type Collaborators struct {
	Map      MapController
	Notifier Notifier
	Browser  Browser
	Sensor   Sensor
}

// Settings are the fixed camera and link parameters. AlertZoom must be
// closer than LocateZoom: alert navigation targets a point feature.
type Settings struct {
	LocateZoom float64
	AlertZoom  float64
	PublicURL  string
}

type PositionStatus string

const (
	PositionIdle    PositionStatus = "idle"
	PositionLoading PositionStatus = "loading"
	PositionReady   PositionStatus = "ready"
	PositionFailed  PositionStatus = "failed"
)

type PositionState struct {
	Status PositionStatus
	Point  wildfires.Point
	Err    string
}

// Scope is the set of parameters that drive feed refresh: the current
// viewport bounds and, when a fix is available, the user position. Seq is a
// monotonic token issued per scope change and compared at snapshot
// resolution time.
type Scope struct {
	Seq       int64
	Bounds    wildfires.Bounds
	HasBounds bool
	Position  *wildfires.Point
}

// Coordinator owns all session view state. Every operation is one discrete,
// atomic state transition under the state lock; derived views (alert head,
// selection) are always recomputed from the latest committed snapshot.
// Collaborators are invoked while the lock is held and must not call back in.
type Coordinator struct {
	id       string
	collab   Collaborators
	settings Settings
	log      Logger
	metrics  *observability.Metrics

	mu     sync.Mutex
	mobile bool

	bounds    wildfires.Bounds
	hasBounds bool

	scopeSeq   int64
	appliedSeq int64
	scopeCh    chan struct{}

	incidents []wildfires.Incident
	stats     wildfires.Stats
	notices   []alerts.Notice

	triage    *alerts.Triage
	selection view.Selection
	position  PositionState

	// posArmed re-arms failure surfacing: each new fix request may notify
	// about at most one failure.
	posArmed     bool
	pendingShare *SharePayload
}

func New(id string, mobile bool, collab Collaborators, settings Settings, log Logger, metrics *observability.Metrics) *Coordinator {
	return &Coordinator{
		id:       id,
		mobile:   mobile,
		collab:   collab,
		settings: settings,
		log:      log,
		metrics:  metrics,
		scopeCh:  make(chan struct{}, 1),
		triage:   alerts.NewTriage(),
		position: PositionState{Status: PositionIdle},
	}
}

func (c *Coordinator) ID() string { return c.id }

// --- Viewport tracker ---

// OnViewportChange replaces the scoping bounds wholesale whenever the map
// camera settles. Malformed bounds are passed through unchanged; the data
// layer rejects them. Rapid successive changes are coalesced downstream by
// the refresher.
func (c *Coordinator) OnViewportChange(ctx context.Context, b wildfires.Bounds) {
	c.mu.Lock()
	c.bounds = b
	c.hasBounds = true
	c.scopeSeq++
	c.mu.Unlock()

	c.signalScope()
}

// Scope returns the current refresh scope and its sequence token.
func (c *Coordinator) Scope() Scope {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Scope{
		Seq:       c.scopeSeq,
		Bounds:    c.bounds,
		HasBounds: c.hasBounds,
	}
	if c.position.Status == PositionReady {
		p := c.position.Point
		s.Position = &p
	}
	return s
}

// ScopeChanged signals that the refresh scope moved. The channel is
// buffered; consumers coalesce bursts.
func (c *Coordinator) ScopeChanged() <-chan struct{} {
	return c.scopeCh
}

func (c *Coordinator) signalScope() {
	select {
	case c.scopeCh <- struct{}{}:
	default:
	}
}

// ApplySnapshot commits one resolved fetch. Snapshots race when bounds move
// while a fetch is in flight; the token issued at fetch time decides at
// resolution time, so a snapshot older than one already applied is discarded.
func (c *Coordinator) ApplySnapshot(ctx context.Context, seq int64, snap wildfires.Snapshot, notices []alerts.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.appliedSeq {
		c.metrics.SnapshotsSuperseded.Inc()
		c.log.Info(ctx, "snapshot superseded", "session_id", c.id, "seq", seq, "applied_seq", c.appliedSeq)
		return
	}

	c.appliedSeq = seq
	c.incidents = snap.Incidents
	c.stats = snap.Stats
	c.notices = notices
	c.metrics.SnapshotsApplied.Inc()
}

// --- Location tracker ---

// ResolvePosition commits a sensor fix. It never retroactively re-triggers
// the locate-me centering; it does re-scope the alert feed.
func (c *Coordinator) ResolvePosition(ctx context.Context, p wildfires.Point) {
	c.mu.Lock()
	c.position = PositionState{Status: PositionReady, Point: p}
	c.scopeSeq++
	c.mu.Unlock()

	c.signalScope()
}

// FailPosition records a sensor failure and surfaces it to the user exactly
// once per failure occurrence. A later retry re-arms the surfacing.
func (c *Coordinator) FailPosition(ctx context.Context, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.position = PositionState{Status: PositionFailed, Err: msg}
	if !c.posArmed {
		return
	}
	c.posArmed = false

	c.log.Warn(ctx, "position fix failed", "session_id", c.id, "error", msg)
	c.collab.Notifier.Notify(Toast{
		Title:    "Location unavailable",
		Message:  msg,
		Severity: ToastWarning,
	})
}

func (c *Coordinator) Position() PositionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// --- Selection state machine ---

// SetDeviceContext updates the mobile flag. The flag is sampled at selection
// time; changing it never retroactively alters an existing selection.
func (c *Coordinator) SetDeviceContext(ctx context.Context, mobile bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mobile = mobile
}

// Select makes the incident with the given id the current selection. The id
// must exist in the current snapshot.
func (c *Coordinator) Select(ctx context.Context, id string) error {
	const op = "monitor.coordinator.select"

	c.mu.Lock()
	defer c.mu.Unlock()

	inc, ok := wildfires.Find(c.incidents, id)
	if !ok {
		return errs.E(errs.KindNotFound, "WILDFIRE_NOT_FOUND", op, "wildfire not in current snapshot", map[string]string{"id": id}, nil)
	}

	c.selection.Select(inc, c.mobile)
	c.metrics.Selections.Inc()
	return nil
}

// Deselect clears the selection and closes the popup and the mobile sheet
// regardless of device.
func (c *Coordinator) Deselect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

func (c *Coordinator) ClosePopup(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.ClosePopup()
}

func (c *Coordinator) CloseMobileSheet(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.CloseSheet()
}

// --- Alert triage ---

// DismissNotice hides the notice for the rest of the session.
func (c *Coordinator) DismissNotice(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.triage.Dismiss(id)
	c.metrics.AlertsDismissed.Inc()
}

// OpenNotice resolves an alert click. An unbound notice or one referring to
// an incident outside the current snapshot is a silent no-op; an inactive
// target surfaces an informational message; an active target is selected and
// the camera centers on it at the alert zoom with essential motion.
func (c *Coordinator) OpenNotice(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	notice, ok := findNotice(c.notices, id)
	if !ok || notice.WildfireID == "" {
		c.metrics.AlertNavigations.WithLabelValues("unbound").Inc()
		return
	}

	inc, ok := wildfires.Find(c.incidents, notice.WildfireID)
	if !ok {
		// Expected consequence of viewport scoping, not an error.
		c.metrics.AlertNavigations.WithLabelValues("stale").Inc()
		c.log.Info(ctx, "alert target outside snapshot", "session_id", c.id, "alert_id", id, "wildfire_id", notice.WildfireID)
		return
	}

	if !inc.IsActive() {
		c.triage.Dismiss(notice.ID)
		c.metrics.AlertNavigations.WithLabelValues("inactive").Inc()
		c.collab.Notifier.Notify(Toast{
			Title:    inc.Name,
			Message:  fmt.Sprintf("%s is %d%% contained and no longer active.", inc.Name, inc.ContainmentPercent),
			Severity: ToastInfo,
		})
		return
	}

	c.triage.Dismiss(notice.ID)
	c.selection.Select(inc, c.mobile)
	c.metrics.Selections.Inc()
	c.metrics.AlertNavigations.WithLabelValues("selected").Inc()
	c.collab.Map.FlyTo(CameraCommand{
		Center:    inc.Location,
		Zoom:      c.settings.AlertZoom,
		Essential: true,
	})
}

func findNotice(list []alerts.Notice, id string) (alerts.Notice, bool) {
	for _, n := range list {
		if n.ID == id {
			return n, true
		}
	}
	return alerts.Notice{}, false
}
