package monitor

import (
	"github.com/mtosity/wirefires-tracker/internal/domain/alerts"
	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
)

type SelectionView struct {
	Incident  *wildfires.Incident
	PopupOpen bool
	SheetOpen bool
}

// ViewState is one consistent render of the session: the committed incident
// snapshot, the selection, the single alert to present, and the position.
type ViewState struct {
	Incidents []wildfires.Incident
	Stats     wildfires.Stats

	Selection SelectionView

	// Alert is the head of the dismissed-filtered stream, in stream order.
	// At most one alert is presented at a time.
	Alert         *alerts.Notice
	AlertsPending int

	Position PositionState

	Bounds *wildfires.Bounds
}

// ViewState derives the current view from the latest committed state. The
// whole derivation runs under the state lock, so no partially-updated set is
// ever observed.
func (c *Coordinator) ViewState() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	vs := ViewState{
		Incidents: append([]wildfires.Incident(nil), c.incidents...),
		Stats:     c.stats,
		Position:  c.position,
	}

	if inc, ok := c.selection.Incident(); ok {
		cp := inc
		vs.Selection.Incident = &cp
	}
	vs.Selection.PopupOpen = c.selection.PopupOpen()
	vs.Selection.SheetOpen = c.selection.SheetOpen()

	visible := c.triage.Visible(c.notices)
	vs.AlertsPending = len(visible)
	if len(visible) > 0 {
		head := visible[0]
		vs.Alert = &head
	}

	if c.hasBounds {
		b := c.bounds
		vs.Bounds = &b
	}

	return vs
}
