package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Terminal notification types. Each session delivers exactly one of these to
// its owning collaborator.
const (
	TypeCompleted = "workout_completed"
	TypeClosed    = "workout_closed"
)

// Event is the single terminal message a session sends when it ends.
// MinutesTaken is populated only for completed sessions.
type Event struct {
	Type         string    `json:"type"`
	SessionID    string    `json:"session_id,omitempty"`
	Title        string    `json:"title,omitempty"`
	MinutesTaken int       `json:"minutes_taken,omitempty"`
	At           time.Time `json:"at"`
}

// Notifier is an injected notification sink. Delivery is best-effort: the
// caller logs and swallows errors, so a sink must never be load-bearing for
// session teardown.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, ev Event) error

func (f Func) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// LogSink records terminal events in the structured log. It is the always-on
// sink; transports layer on top via Multi.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(_ context.Context, ev Event) error {
	if ev.Type == TypeCompleted {
		s.log.Info("session notification", "type", ev.Type, "session_id", ev.SessionID, "minutes_taken", ev.MinutesTaken)
		return nil
	}
	s.log.Info("session notification", "type", ev.Type, "session_id", ev.SessionID)
	return nil
}

// Multi fans one event out to every sink. All sinks run even when earlier
// ones fail; the joined error is returned for logging.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
