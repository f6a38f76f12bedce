package engine

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/respawn/internal/notify"
	"github.com/claude/respawn/internal/plan"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
	ErrManagerClosed   = errors.New("session manager closed")
)

// Plan sources recorded on a Session and echoed in API responses.
const (
	PlanSourceRequest = "request"
	PlanSourceDefault = "default"
)

// Session pairs an engine with its registry metadata. PlanSource records
// whether the plan came from the request or the built-in default.
type Session struct {
	ID         string
	Engine     *Engine
	PlanSource string
	CreatedAt  time.Time
}

// ManagerConfig contains runtime options for a Manager. Zero values fall
// back to one-second ticks, a five-minute sweep and a one-hour expiry.
type ManagerConfig struct {
	TickInterval  time.Duration
	MaxSessions   int
	SweepInterval time.Duration
	ExpireAfter   time.Duration
	Sink          notify.Notifier
	Log           *slog.Logger
}

// Manager is an id-keyed registry of session engines. Finished sessions stay
// queryable until the background sweep evicts them.
type Manager struct {
	mu       sync.Mutex
	options  ManagerConfig
	sessions map[string]*Session
	stopCh   chan struct{}
	closed   bool
}

// NewManager creates a Manager and starts its sweep loop.
func NewManager(options ManagerConfig) *Manager {
	if options.SweepInterval <= 0 {
		options.SweepInterval = 5 * time.Minute
	}
	if options.ExpireAfter <= 0 {
		options.ExpireAfter = time.Hour
	}
	if options.Log == nil {
		options.Log = slog.Default()
	}
	m := &Manager{
		options:  options,
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Create registers a fresh session over the given plan.
func (m *Manager) Create(p *plan.SessionPlan, planSource string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if m.options.MaxSessions > 0 && len(m.sessions) >= m.options.MaxSessions {
		return nil, ErrTooManySessions
	}

	id := uuid.New().String()
	sess := &Session{
		ID: id,
		Engine: New(p, Config{
			ID:           id,
			TickInterval: m.options.TickInterval,
			Sink:         m.options.Sink,
			Log:          m.options.Log,
		}),
		PlanSource: planSource,
		CreatedAt:  time.Now(),
	}
	m.sessions[id] = sess
	m.options.Log.Info("session created", "session_id", id, "plan_source", planSource, "total_seconds", p.TotalSeconds())
	return sess, nil
}

// Get looks a session up by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List returns live sessions ordered by creation time.
func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Close stops the sweep loop and tears down every live session. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.stopCh)
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Engine.Close()
	}
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.options.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweepExpired()
		}
	}
}

// sweepExpired evicts sessions that have been terminal longer than the
// expiry window. Live sessions are never evicted; there is no timeout.
func (m *Manager) sweepExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.options.ExpireAfter)
	for id, sess := range m.sessions {
		at, terminal := sess.Engine.TerminalSince()
		if terminal && at.Before(cutoff) {
			sess.Engine.Close()
			delete(m.sessions, id)
			m.options.Log.Info("session expired", "session_id", id)
		}
	}
}
