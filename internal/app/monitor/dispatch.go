package monitor

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Action dispatcher: each user intent is total by contract. Collaborator
// failures degrade to a no-op or a clipboard fallback, never to a crash.

// ZoomIn forwards a zoom delta to the map when it is initialized, and drops
// it otherwise.
func (c *Coordinator) ZoomIn(ctx context.Context) {
	c.zoomBy(1)
}

func (c *Coordinator) ZoomOut(ctx context.Context) {
	c.zoomBy(-1)
}

func (c *Coordinator) zoomBy(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.collab.Map.Ready() {
		return
	}
	c.collab.Map.ZoomBy(delta)
}

// LocateMe requests a fresh fix and, when a position is already available at
// invocation time, centers the camera on it. The centering uses the value
// available at call time; the concurrent refresh resolving later never
// re-triggers it.
func (c *Coordinator) LocateMe(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	haveFix := c.position.Status == PositionReady
	at := c.position.Point

	c.position.Status = PositionLoading
	c.position.Err = ""
	c.posArmed = true
	c.collab.Sensor.RequestPosition()

	if haveFix {
		c.collab.Map.FlyTo(CameraCommand{
			Center: at,
			Zoom:   c.settings.LocateZoom,
		})
	}
}

// GetDirections opens an external navigation request for the selected
// incident in a new browsing context. No-op when nothing is selected.
func (c *Coordinator) GetDirections(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inc, ok := c.selection.Incident()
	if !ok {
		return
	}

	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", fmt.Sprintf("%.6f,%.6f", inc.Location.Lat, inc.Location.Lon))

	c.collab.Browser.OpenURL(NavigationRequest{
		URL:   "https://www.google.com/maps/dir/?" + q.Encode(),
		Label: inc.Name,
	})
}

// Share hands the selected incident to the native share surface when the
// platform supports it. On platform absence or handoff failure it falls back
// to the clipboard and confirms via notification; the two paths are not
// distinguished to the user.
func (c *Coordinator) Share(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inc, ok := c.selection.Incident()
	if !ok {
		return
	}

	p := SharePayload{
		Title: inc.Name,
		Text:  fmt.Sprintf("%s: %d%% contained, %.0f acres burning", inc.Name, inc.ContainmentPercent, inc.AcresBurning),
		URL:   fmt.Sprintf("%s/?wildfire=%s", strings.TrimRight(c.settings.PublicURL, "/"), url.QueryEscape(inc.ID)),
	}

	if !c.collab.Browser.CanShare() {
		c.shareFallback(p)
		return
	}

	cp := p
	c.pendingShare = &cp
	if err := c.collab.Browser.Share(p); err != nil {
		c.pendingShare = nil
		c.shareFallback(p)
	}
}

// ShareFailed handles a rejected native share handoff by replaying the
// pending payload through the clipboard fallback.
func (c *Coordinator) ShareFailed(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingShare == nil {
		return
	}
	p := *c.pendingShare
	c.pendingShare = nil
	c.shareFallback(p)
}

func (c *Coordinator) shareFallback(p SharePayload) {
	c.collab.Browser.WriteClipboard(p.Title + "\n" + p.Text + "\n" + p.URL)
	c.collab.Notifier.Notify(Toast{
		Title:    "Link copied",
		Message:  "Wildfire details copied to your clipboard.",
		Severity: ToastInfo,
	})
}

// SubscribeToAlerts acknowledges the subscription intent for the selected
// incident. No subscription state is kept; this is a collaborator stub.
func (c *Coordinator) SubscribeToAlerts(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inc, ok := c.selection.Incident()
	if !ok {
		return
	}

	c.collab.Notifier.Notify(Toast{
		Title:    "Subscribed",
		Message:  fmt.Sprintf("You will be notified about updates to %s.", inc.Name),
		Severity: ToastInfo,
	})
}
