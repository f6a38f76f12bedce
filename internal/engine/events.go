package engine

import "time"

// Status represents the timer state machine position.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// EventType defines the type of engine event delivered to subscribers.
type EventType string

const (
	EventStarted          EventType = "started"
	EventResumed          EventType = "resumed"
	EventTick             EventType = "tick"
	EventExerciseAdvanced EventType = "exercise_advanced"
	EventPaused           EventType = "paused"
	EventSkipped          EventType = "skipped"
	EventCompleted        EventType = "completed"
	EventClosed           EventType = "closed"
)

// Snapshot is an immutable copy of the timer state at one observable point.
// RemainingSeconds + ElapsedSeconds always equals TotalSeconds.
type Snapshot struct {
	Status                 Status
	ExerciseIndex          int
	ExerciseCount          int
	RemainingSeconds       int
	ElapsedSeconds         int
	ExerciseElapsedSeconds int
	TotalSeconds           int
	Closed                 bool
}

// Event represents an engine update for observers.
type Event struct {
	Type EventType
	Snapshot
	At time.Time
}

// MinutesTaken converts elapsed seconds to the whole minutes reported when a
// session completes, rounding up so a 61 second session counts as 2 minutes.
func MinutesTaken(elapsedSeconds int) int {
	return (elapsedSeconds + 59) / 60
}
