package monitor

import (
	"sync"
	"sync/atomic"

	"github.com/mtosity/wirefires-tracker/internal/domain/wildfires"
	"github.com/mtosity/wirefires-tracker/internal/observability"
)

type CommandKind string

const (
	CommandCamera          CommandKind = "camera"
	CommandZoomBy          CommandKind = "zoom_by"
	CommandOpenURL         CommandKind = "open_url"
	CommandShare           CommandKind = "share"
	CommandClipboard       CommandKind = "clipboard"
	CommandToast           CommandKind = "toast"
	CommandRequestPosition CommandKind = "request_position"
)

// CameraCommand moves the map camera. Essential commands must not be skipped
// by reduced-motion settings.
type CameraCommand struct {
	Center    wildfires.Point
	Zoom      float64
	Essential bool
}

// NavigationRequest opens a URL in a new browsing context, with a
// human-readable label for the destination.
type NavigationRequest struct {
	URL   string
	Label string
}

type SharePayload struct {
	Title string
	Text  string
	URL   string
}

type ToastSeverity string

const (
	ToastInfo    ToastSeverity = "info"
	ToastWarning ToastSeverity = "warning"
	ToastError   ToastSeverity = "error"
)

// Toast is transient user-visible feedback, fire-and-forget.
type Toast struct {
	Title    string
	Message  string
	Severity ToastSeverity
}

// Command is one instruction for a client-side collaborator. Exactly one of
// the payload fields matching Kind is set.
type Command struct {
	Kind      CommandKind
	Camera    *CameraCommand
	ZoomDelta int
	Navigate  *NavigationRequest
	Share     *SharePayload
	Clipboard string
	Toast     *Toast
}

// CommandBuffer implements the map, notifier, browser, and sensor
// collaborators by queueing commands for the dashboard client to drain and
// apply. The client reports asynchronous results (position fixes, share
// failures, map readiness) back through the session event endpoints.
//
// Buffer methods must not call back into the coordinator; the coordinator
// invokes them while holding its state lock.
type CommandBuffer struct {
	mu    sync.Mutex
	queue []Command

	mapReady atomic.Bool
	canShare bool

	metrics *observability.Metrics
}

func NewCommandBuffer(canShare bool, metrics *observability.Metrics) *CommandBuffer {
	return &CommandBuffer{canShare: canShare, metrics: metrics}
}

// Drain returns every queued command in FIFO order and empties the queue.
// Each command is delivered at most once.
func (b *CommandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.queue
	b.queue = nil
	return out
}

func (b *CommandBuffer) push(c Command) {
	b.mu.Lock()
	b.queue = append(b.queue, c)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.CommandsQueued.WithLabelValues(string(c.Kind)).Inc()
	}
}

// SetMapReady records that the client map emitted its initialization handle.
func (b *CommandBuffer) SetMapReady() {
	b.mapReady.Store(true)
}

// Ready reports whether the client map is initialized. Zoom deltas are
// dropped until then.
func (b *CommandBuffer) Ready() bool {
	return b.mapReady.Load()
}

func (b *CommandBuffer) FlyTo(cmd CameraCommand) {
	cp := cmd
	b.push(Command{Kind: CommandCamera, Camera: &cp})
}

func (b *CommandBuffer) ZoomBy(delta int) {
	b.push(Command{Kind: CommandZoomBy, ZoomDelta: delta})
}

func (b *CommandBuffer) Notify(t Toast) {
	cp := t
	b.push(Command{Kind: CommandToast, Toast: &cp})
}

func (b *CommandBuffer) CanShare() bool {
	return b.canShare
}

// Share queues a native share handoff. The handoff outcome is only known
// client-side; a rejection comes back as a share-failed event.
func (b *CommandBuffer) Share(p SharePayload) error {
	cp := p
	b.push(Command{Kind: CommandShare, Share: &cp})
	return nil
}

func (b *CommandBuffer) OpenURL(req NavigationRequest) {
	cp := req
	b.push(Command{Kind: CommandOpenURL, Navigate: &cp})
}

func (b *CommandBuffer) WriteClipboard(text string) {
	b.push(Command{Kind: CommandClipboard, Clipboard: text})
}

func (b *CommandBuffer) RequestPosition() {
	b.push(Command{Kind: CommandRequestPosition})
}
