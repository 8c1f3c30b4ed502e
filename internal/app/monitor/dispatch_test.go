package monitor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
)

func selectActive(t *testing.T, h *harness) {
	t.Helper()
	apply(t, h, 1, []wildfires.Incident{activeFire}, nil)
	require.NoError(t, h.coord.Select(context.Background(), "A"))
}

func TestZoom_DroppedUntilMapReady(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	h.coord.ZoomIn(ctx)
	h.coord.ZoomOut(ctx)
	assert.Empty(t, h.mapCtl.zooms)

	h.mapCtl.ready = true
	h.coord.ZoomIn(ctx)
	h.coord.ZoomOut(ctx)
	assert.Equal(t, []int{1, -1}, h.mapCtl.zooms)
}

func TestGetDirections_RequiresSelection(t *testing.T) {
	h := newHarness(t, false)

	h.coord.GetDirections(context.Background())
	assert.Empty(t, h.browser.opened)
}

func TestGetDirections_OpensMapsLinkForSelection(t *testing.T) {
	h := newHarness(t, false)
	selectActive(t, h)

	h.coord.GetDirections(context.Background())

	require.Len(t, h.browser.opened, 1)
	req := h.browser.opened[0]
	assert.Contains(t, req.URL, "https://www.google.com/maps/dir/?")
	assert.Contains(t, req.URL, "38.620000")
	assert.Contains(t, req.URL, "-120.540000")
	assert.Equal(t, "Caldor Ridge Fire", req.Label)
}

func TestShare_RequiresSelection(t *testing.T) {
	h := newHarness(t, false)
	h.browser.canShare = true

	h.coord.Share(context.Background())

	assert.Empty(t, h.browser.shared)
	assert.Empty(t, h.browser.clipboard)
}

func TestShare_NativeWhenSupported(t *testing.T) {
	h := newHarness(t, false)
	h.browser.canShare = true
	selectActive(t, h)

	h.coord.Share(context.Background())

	require.Len(t, h.browser.shared, 1)
	p := h.browser.shared[0]
	assert.Equal(t, "Caldor Ridge Fire", p.Title)
	assert.Contains(t, p.Text, "40% contained")
	assert.Contains(t, p.Text, "48210 acres")
	assert.Equal(t, "https://fires.example.com/?wildfire=A", p.URL)

	assert.Empty(t, h.browser.clipboard)
	assert.Empty(t, h.notifier.toasts)
}

func TestShare_ClipboardFallbackWhenUnsupported(t *testing.T) {
	h := newHarness(t, false)
	selectActive(t, h)

	h.coord.Share(context.Background())

	assert.Empty(t, h.browser.shared)
	require.Len(t, h.browser.clipboard, 1)
	assert.Contains(t, h.browser.clipboard[0], "Caldor Ridge Fire")
	assert.Contains(t, h.browser.clipboard[0], "https://fires.example.com/?wildfire=A")

	require.Len(t, h.notifier.toasts, 1)
	assert.Equal(t, "Link copied", h.notifier.toasts[0].Title)
}

func TestShare_ClipboardFallbackWhenHandoffRejected(t *testing.T) {
	h := newHarness(t, false)
	h.browser.canShare = true
	h.browser.shareErr = errors.New("share dismissed")
	selectActive(t, h)

	h.coord.Share(context.Background())

	// The failed path and the unsupported path converge on the same fallback.
	assert.Empty(t, h.browser.shared)
	require.Len(t, h.browser.clipboard, 1)
	require.Len(t, h.notifier.toasts, 1)
	assert.Equal(t, "Link copied", h.notifier.toasts[0].Title)
}

func TestShareFailed_ReplaysPendingPayload(t *testing.T) {
	h := newHarness(t, false)
	h.browser.canShare = true
	selectActive(t, h)

	// Handoff accepted, then the client reports the async rejection.
	h.coord.Share(context.Background())
	require.Len(t, h.browser.shared, 1)

	h.coord.ShareFailed(context.Background())

	require.Len(t, h.browser.clipboard, 1)
	assert.Contains(t, h.browser.clipboard[0], h.browser.shared[0].URL)

	// The payload replays at most once.
	h.coord.ShareFailed(context.Background())
	assert.Len(t, h.browser.clipboard, 1)
}

func TestShareFailed_NoPendingIsNoOp(t *testing.T) {
	h := newHarness(t, false)

	h.coord.ShareFailed(context.Background())

	assert.Empty(t, h.browser.clipboard)
	assert.Empty(t, h.notifier.toasts)
}

func TestSubscribeToAlerts_AcknowledgesSelection(t *testing.T) {
	h := newHarness(t, false)

	h.coord.SubscribeToAlerts(context.Background())
	assert.Empty(t, h.notifier.toasts)

	selectActive(t, h)
	h.coord.SubscribeToAlerts(context.Background())

	require.Len(t, h.notifier.toasts, 1)
	assert.Equal(t, "Subscribed", h.notifier.toasts[0].Title)
	assert.Contains(t, h.notifier.toasts[0].Message, "Caldor Ridge Fire")
}
