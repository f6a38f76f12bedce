package progress

import (
	"fmt"
	"strings"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/plan"
)

// ExerciseView is one exercise's display row. Active marks the exercise the
// timer is currently inside; Done marks the ones already passed.
type ExerciseView struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Benefit         string `json:"benefit"`
	DisplayDuration string `json:"display_duration"`
	DurationSeconds int    `json:"duration_seconds"`
	Active          bool   `json:"active"`
	Done            bool   `json:"done"`
}

// Report is the display-ready projection of one engine snapshot. It is a
// pure derivation: reporters never touch engine state.
type Report struct {
	Status            engine.Status  `json:"status"`
	Closed            bool           `json:"closed,omitempty"`
	Title             string         `json:"title"`
	Intro             string         `json:"intro,omitempty"`
	Countdown         string         `json:"countdown"`
	ExerciseCountdown string         `json:"exercise_countdown"`
	RemainingSeconds  int            `json:"remaining_seconds"`
	ElapsedSeconds    int            `json:"elapsed_seconds"`
	TotalSeconds      int            `json:"total_seconds"`
	Percent           int            `json:"percent"`
	Fraction          float64        `json:"fraction"`
	ExerciseIndex     int            `json:"exercise_index"`
	ExerciseCount     int            `json:"exercise_count"`
	MinutesTaken      int            `json:"minutes_taken,omitempty"`
	Exercises         []ExerciseView `json:"exercises"`
}

// Current returns the active exercise row. ok is false once the session has
// advanced past the final exercise.
func (r Report) Current() (ExerciseView, bool) {
	if r.ExerciseIndex < 0 || r.ExerciseIndex >= len(r.Exercises) {
		return ExerciseView{}, false
	}
	return r.Exercises[r.ExerciseIndex], true
}

// FromSnapshot derives a report from one engine snapshot and the plan it was
// taken against.
func FromSnapshot(p *plan.SessionPlan, snap engine.Snapshot) Report {
	exercises := make([]ExerciseView, 0, p.Len())
	for i, e := range p.Exercises() {
		exercises = append(exercises, ExerciseView{
			Name:            e.Name,
			Description:     e.Description,
			Benefit:         e.Benefit,
			DisplayDuration: e.DisplayDuration,
			DurationSeconds: e.DurationSeconds,
			Active:          i == snap.ExerciseIndex && snap.Status != engine.StatusCompleted,
			Done:            i < snap.ExerciseIndex,
		})
	}

	exerciseRemaining := 0
	if snap.ExerciseIndex < p.Len() {
		exerciseRemaining = p.Exercise(snap.ExerciseIndex).DurationSeconds - snap.ExerciseElapsedSeconds
	}

	r := Report{
		Status:            snap.Status,
		Closed:            snap.Closed,
		Title:             p.Title(),
		Intro:             p.Intro(),
		Countdown:         FormatCountdown(snap.RemainingSeconds),
		ExerciseCountdown: FormatCountdown(exerciseRemaining),
		RemainingSeconds:  snap.RemainingSeconds,
		ElapsedSeconds:    snap.ElapsedSeconds,
		TotalSeconds:      snap.TotalSeconds,
		Percent:           percent(snap.TotalSeconds, snap.RemainingSeconds),
		Fraction:          fraction(snap.TotalSeconds, snap.RemainingSeconds),
		ExerciseIndex:     snap.ExerciseIndex,
		ExerciseCount:     snap.ExerciseCount,
		Exercises:         exercises,
	}
	if snap.Status == engine.StatusCompleted {
		r.MinutesTaken = engine.MinutesTaken(snap.ElapsedSeconds)
	}
	return r
}

// FormatCountdown renders whole seconds as MM:SS, both fields zero-padded.
// Minutes grow past two digits for totals beyond 99:59.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Bar renders a fixed-width text progress bar from a 0..1 fraction.
func Bar(f float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	filled := int(f * float64(width))
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

func percent(total, remaining int) int {
	if total <= 0 {
		return 0
	}
	return (total - remaining) * 100 / total
}

func fraction(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(total-remaining) / float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
