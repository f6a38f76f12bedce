package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/respawn/internal/notify"
	"github.com/claude/respawn/internal/plan"
)

// newTestManager builds a manager whose background loops never fire inside a
// test run.
func newTestManager(sink notify.Notifier, maxSessions int) *Manager {
	return NewManager(ManagerConfig{
		TickInterval:  time.Hour,
		MaxSessions:   maxSessions,
		SweepInterval: time.Hour,
		ExpireAfter:   time.Hour,
		Sink:          sink,
	})
}

// TestManagerCreateAndGet verifies sessions round-trip through the registry
// with distinct ids.
func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(nil, 0)
	defer m.Close()

	a, err := m.Create(plan.Default(), "default")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := m.Create(plan.Default(), "request")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not distinct: %q vs %q", a.ID, b.ID)
	}

	got, err := m.Get(a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != a {
		t.Errorf("get returned a different session")
	}
	if got.Engine.ID() != a.ID {
		t.Errorf("engine id = %q, want %q", got.Engine.ID(), a.ID)
	}
}

// TestManagerGetUnknown verifies the not-found sentinel.
func TestManagerGetUnknown(t *testing.T) {
	m := newTestManager(nil, 0)
	defer m.Close()

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

// TestManagerMaxSessions verifies the session cap.
func TestManagerMaxSessions(t *testing.T) {
	m := newTestManager(nil, 2)
	defer m.Close()

	for range 2 {
		if _, err := m.Create(plan.Default(), "default"); err != nil {
			t.Fatalf("create under cap: %v", err)
		}
	}
	if _, err := m.Create(plan.Default(), "default"); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("got %v, want ErrTooManySessions", err)
	}
}

// TestManagerList verifies every live session shows up exactly once.
func TestManagerList(t *testing.T) {
	m := newTestManager(nil, 0)
	defer m.Close()

	want := map[string]bool{}
	for range 3 {
		sess, err := m.Create(plan.Default(), "default")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		want[sess.ID] = true
	}

	list := m.List()
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	for _, sess := range list {
		if !want[sess.ID] {
			t.Errorf("unexpected session %q in list", sess.ID)
		}
		delete(want, sess.ID)
	}
}

// TestManagerSweepExpired verifies terminal sessions past the expiry window
// are evicted while live ones stay.
func TestManagerSweepExpired(t *testing.T) {
	m := newTestManager(nil, 0)
	defer m.Close()

	stale, err := m.Create(plan.Default(), "default")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	live, err := m.Create(plan.Default(), "default")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := stale.Engine.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	stale.Engine.mu.Lock()
	stale.Engine.terminalAt = time.Now().Add(-2 * time.Hour)
	stale.Engine.mu.Unlock()

	m.sweepExpired()

	if _, err := m.Get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session still present: %v", err)
	}
	if _, err := m.Get(live.ID); err != nil {
		t.Errorf("live session evicted: %v", err)
	}
}

// TestManagerClose verifies shutdown closes every session (firing their
// closed notifications) and refuses further creates.
func TestManagerClose(t *testing.T) {
	sink := newChannelSink()
	m := newTestManager(sink, 0)

	if _, err := m.Create(plan.Default(), "default"); err != nil {
		t.Fatalf("create: %v", err)
	}
	m.Close()

	if ev := sink.wait(t); ev.Type != notify.TypeClosed {
		t.Errorf("notification type = %s, want closed", ev.Type)
	}
	if _, err := m.Create(plan.Default(), "default"); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("create after close: got %v, want ErrManagerClosed", err)
	}
	m.Close() // idempotent
}
