package monitor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mtosity/wirefires-tracker/internal/observability"
)

// Capabilities are the device context reported by the client at session
// creation: whether the viewport is mobile and whether the platform supports
// the native share API.
type Capabilities struct {
	Mobile   bool
	CanShare bool
}

// Session pairs one coordinator with its outbound command buffer.
type Session struct {
	ID          string
	Coordinator *Coordinator
	Buffer      *CommandBuffer

	cancel   context.CancelFunc
	lastSeen time.Time
}

// Watcher keeps a session's feed scope fresh for as long as its context
// lives. Wired to the refresher worker in main.
type Watcher interface {
	Watch(ctx context.Context, c *Coordinator)
}

// Manager owns the in-memory session table. Sessions live for the page
// session only and are evicted after idling past the TTL; nothing is
// persisted.
type Manager struct {
	watcher  Watcher
	settings Settings
	idleTTL  time.Duration
	sweep    time.Duration
	clock    clockwork.Clock
	log      Logger
	metrics  *observability.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
	runCtx   context.Context
}

func NewManager(watcher Watcher, settings Settings, idleTTL, sweep time.Duration, clock clockwork.Clock, log Logger, metrics *observability.Metrics) *Manager {
	return &Manager{
		watcher:  watcher,
		settings: settings,
		idleTTL:  idleTTL,
		sweep:    sweep,
		clock:    clock,
		log:      log,
		metrics:  metrics,
		sessions: map[string]*Session{},
	}
}

// Run sweeps idle sessions until the context is cancelled. Sessions created
// while Run is active inherit its context for their watchers.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	m.runCtx = ctx
	m.mu.Unlock()

	t := m.clock.NewTicker(m.sweep)
	defer t.Stop()

	m.log.Info(ctx, "session manager started", "idle_ttl", m.idleTTL)
	for {
		select {
		case <-ctx.Done():
			m.log.Info(ctx, "session manager stopped")
			m.closeAll()
			return ctx.Err()
		case <-t.Chan():
			m.evictIdle(ctx)
		}
	}
}

func (m *Manager) Create(ctx context.Context, caps Capabilities) *Session {
	buf := NewCommandBuffer(caps.CanShare, m.metrics)
	id := newSessionID()

	coord := New(id, caps.Mobile, Collaborators{
		Map:      buf,
		Notifier: buf,
		Browser:  buf,
		Sensor:   buf,
	}, m.settings, m.log, m.metrics)

	m.mu.Lock()
	base := m.runCtx
	if base == nil {
		base = context.Background()
	}
	sctx, cancel := context.WithCancel(base)

	s := &Session{
		ID:          id,
		Coordinator: coord,
		Buffer:      buf,
		cancel:      cancel,
		lastSeen:    m.clock.Now(),
	}
	m.sessions[id] = s
	m.mu.Unlock()

	if m.watcher != nil {
		m.watcher.Watch(sctx, coord)
	}

	m.metrics.SessionsCreated.Inc()
	m.metrics.SessionsActive.Set(float64(m.count()))
	m.log.Info(ctx, "session created", "session_id", id, "mobile", caps.Mobile, "can_share", caps.CanShare)

	return s
}

// Get returns the session and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = m.clock.Now()
	return s, true
}

// Remove ends the session and cancels its watcher. All session state,
// including the dismissed set, is gone with it.
func (m *Manager) Remove(ctx context.Context, id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	s.cancel()
	m.metrics.SessionsActive.Set(float64(m.count()))
	m.log.Info(ctx, "session removed", "session_id", id)
	return true
}

func (m *Manager) evictIdle(ctx context.Context) {
	cutoff := m.clock.Now().Add(-m.idleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.cancel()
		m.log.Info(ctx, "session evicted", "session_id", s.ID)
	}
	if len(expired) > 0 {
		m.metrics.SessionsActive.Set(float64(m.count()))
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.cancel()
	}
	m.metrics.SessionsActive.Set(0)
}

func (m *Manager) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b[:])
}
