package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/respawn/internal/notify"
	"github.com/claude/respawn/internal/plan"
)

var (
	// ErrClosed reports an operation on a session that was torn down.
	ErrClosed = errors.New("session closed")
	// ErrCompleted reports a start on a session that already finished.
	ErrCompleted = errors.New("session already completed")
	// ErrNotStarted reports a skip on a session that never started.
	ErrNotStarted = errors.New("session not started")
)

// Config contains runtime options for an Engine.
type Config struct {
	// ID labels outbound notifications; assigned by the Manager.
	ID string
	// TickInterval defaults to one second. Tests shorten it.
	TickInterval time.Duration
	// Sink receives the single terminal notification. Optional.
	Sink notify.Notifier
	Log  *slog.Logger
}

// Engine is the state machine for one exercise session. It owns its timer
// state exclusively; every operation and the internal tick serialize on one
// mutex, so remaining+elapsed==total holds at every observable point.
type Engine struct {
	mu      sync.Mutex
	plan    *plan.SessionPlan
	options Config

	status    Status
	index     int
	remaining int
	elapsed   int

	closed     bool
	notified   bool
	terminalAt time.Time
	subs       []chan Event
	stopCh     chan struct{}
}

// New creates an Engine over a loaded plan, in the Idle state with the full
// plan duration remaining.
func New(p *plan.SessionPlan, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Log == nil {
		options.Log = slog.Default()
	}
	return &Engine{
		plan:      p,
		options:   options,
		status:    StatusIdle,
		remaining: p.TotalSeconds(),
	}
}

// ID returns the session id given at construction, if any.
func (eng *Engine) ID() string { return eng.options.ID }

// Plan returns the session plan. Shared read-only.
func (eng *Engine) Plan() *plan.SessionPlan { return eng.plan }

// Subscribe registers a new observer channel. After Close it returns a
// channel that is already closed.
func (eng *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		close(ch)
		return ch
	}
	eng.subs = append(eng.subs, ch)
	eng.mu.Unlock()
	return ch
}

// Snapshot returns a copy of the current timer state.
func (eng *Engine) Snapshot() Snapshot {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.snapshotLocked()
}

// Start begins tick delivery from Idle, or resumes it from Paused. Calling
// Start while already Running is a no-op.
func (eng *Engine) Start() error {
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		return ErrClosed
	}
	switch eng.status {
	case StatusRunning:
		eng.mu.Unlock()
		return nil
	case StatusCompleted:
		eng.mu.Unlock()
		return ErrCompleted
	}

	evType := EventStarted
	if eng.status == StatusPaused {
		evType = EventResumed
	}
	eng.status = StatusRunning
	eng.stopCh = make(chan struct{})
	go eng.run(eng.stopCh)
	eng.emitLocked(Event{Type: evType, Snapshot: eng.snapshotLocked(), At: time.Now()})
	eng.mu.Unlock()
	return nil
}

// Pause freezes the timer, preserving remaining and elapsed exactly.
// A no-op unless Running.
func (eng *Engine) Pause() error {
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		return ErrClosed
	}
	if eng.status != StatusRunning {
		eng.mu.Unlock()
		return nil
	}
	eng.status = StatusPaused
	eng.stopTickerLocked()
	eng.emitLocked(Event{Type: EventPaused, Snapshot: eng.snapshotLocked(), At: time.Now()})
	eng.mu.Unlock()
	return nil
}

// Skip fast-forwards to the start of the next exercise, charging the time
// left in the current one to elapsed. Skipping the final exercise completes
// the session.
func (eng *Engine) Skip() error {
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		return ErrClosed
	}
	switch eng.status {
	case StatusCompleted:
		eng.mu.Unlock()
		return ErrCompleted
	case StatusIdle:
		eng.mu.Unlock()
		return ErrNotStarted
	}

	left := eng.plan.Exercise(eng.index).DurationSeconds - eng.exerciseElapsedLocked()
	eng.remaining -= left
	eng.elapsed += left
	eng.index++

	var fire *notify.Event
	if eng.index >= eng.plan.Len() {
		fire = eng.completeLocked()
	} else {
		eng.emitLocked(Event{Type: EventSkipped, Snapshot: eng.snapshotLocked(), At: time.Now()})
	}
	eng.mu.Unlock()

	eng.dispatch(fire)
	return nil
}

// Complete forces the session to Completed from any non-terminal state and
// fires the completed notification. Calling it again is a no-op.
func (eng *Engine) Complete() error {
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		return ErrClosed
	}
	if eng.status == StatusCompleted {
		eng.mu.Unlock()
		return nil
	}
	fire := eng.completeLocked()
	eng.mu.Unlock()

	eng.dispatch(fire)
	return nil
}

// Close tears the session down from any state and closes observer channels.
// If no terminal notification has fired yet, the closed one fires now; a
// session that already completed keeps its completed notification as the
// only one. Close is idempotent.
func (eng *Engine) Close() error {
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		return nil
	}
	eng.closed = true
	eng.stopTickerLocked()
	now := time.Now()
	if eng.terminalAt.IsZero() {
		eng.terminalAt = now
	}

	var fire *notify.Event
	if !eng.notified {
		eng.notified = true
		fire = &notify.Event{
			Type:      notify.TypeClosed,
			SessionID: eng.options.ID,
			Title:     eng.plan.Title(),
			At:        now,
		}
	}
	eng.emitLocked(Event{Type: EventClosed, Snapshot: eng.snapshotLocked(), At: now})
	subs := eng.subs
	eng.subs = nil
	eng.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
	eng.dispatch(fire)
	return nil
}

// TerminalSince reports when the session completed or was closed. The second
// return is false while the session is still live.
func (eng *Engine) TerminalSince() (time.Time, bool) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.terminalAt.IsZero() {
		return time.Time{}, false
	}
	return eng.terminalAt, true
}

func (eng *Engine) run(stop <-chan struct{}) {
	ticker := time.NewTicker(eng.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			eng.tick()
		}
	}
}

// tick is the single per-second transition. A tick that raced a pause or
// close re-checks status under the lock and applies nothing.
func (eng *Engine) tick() {
	eng.mu.Lock()
	if eng.closed || eng.status != StatusRunning {
		eng.mu.Unlock()
		return
	}

	eng.remaining--
	eng.elapsed++

	evType := EventTick
	if eng.exerciseElapsedLocked() >= eng.plan.Exercise(eng.index).DurationSeconds {
		eng.index++
		evType = EventExerciseAdvanced
	}

	// Completion by exercise count and by exhausted time are checked
	// independently every tick; duration rounding can make them disagree by
	// one tick and missing either would leave the session stuck.
	var fire *notify.Event
	if eng.index >= eng.plan.Len() || eng.remaining <= 0 {
		fire = eng.completeLocked()
	} else {
		eng.emitLocked(Event{Type: evType, Snapshot: eng.snapshotLocked(), At: time.Now()})
	}
	eng.mu.Unlock()

	eng.dispatch(fire)
}

func (eng *Engine) completeLocked() *notify.Event {
	eng.status = StatusCompleted
	eng.stopTickerLocked()
	eng.terminalAt = time.Now()
	eng.emitLocked(Event{Type: EventCompleted, Snapshot: eng.snapshotLocked(), At: eng.terminalAt})
	if eng.notified {
		return nil
	}
	eng.notified = true
	return &notify.Event{
		Type:         notify.TypeCompleted,
		SessionID:    eng.options.ID,
		Title:        eng.plan.Title(),
		MinutesTaken: MinutesTaken(eng.elapsed),
		At:           eng.terminalAt,
	}
}

func (eng *Engine) stopTickerLocked() {
	if eng.stopCh != nil {
		close(eng.stopCh)
		eng.stopCh = nil
	}
}

func (eng *Engine) exerciseElapsedLocked() int {
	return eng.elapsed - eng.plan.StartOffset(eng.index)
}

func (eng *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Status:                 eng.status,
		ExerciseIndex:          eng.index,
		ExerciseCount:          eng.plan.Len(),
		RemainingSeconds:       eng.remaining,
		ElapsedSeconds:         eng.elapsed,
		ExerciseElapsedSeconds: eng.exerciseElapsedLocked(),
		TotalSeconds:           eng.plan.TotalSeconds(),
		Closed:                 eng.closed,
	}
}

func (eng *Engine) emitLocked(event Event) {
	subs := append([]chan Event(nil), eng.subs...)
	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// dispatch delivers a terminal notification outside the engine mutex.
// Failures are logged and swallowed; delivery never blocks teardown.
func (eng *Engine) dispatch(ev *notify.Event) {
	if ev == nil || eng.options.Sink == nil {
		return
	}
	go func() {
		if err := eng.options.Sink.Notify(context.Background(), *ev); err != nil {
			eng.options.Log.Error("session notify", "type", ev.Type, "session_id", ev.SessionID, "error", err)
		}
	}()
}
