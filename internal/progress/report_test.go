package progress

import (
	"strings"
	"testing"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/plan"
)

func twoStepPlan(t *testing.T) *plan.SessionPlan {
	t.Helper()
	p, err := plan.FromRaw(plan.RawSession{
		Title: "Desk Reset",
		Intro: "Loosen up.",
		Exercises: []plan.RawExercise{
			{Name: "Stretch", Duration: "60 seconds", Description: "reach up", Benefit: "posture"},
			{Name: "Walk", Duration: "120 seconds", Description: "around the room", Benefit: "circulation"},
		},
	})
	if err != nil {
		t.Fatalf("building plan: %v", err)
	}
	return p
}

// TestFormatCountdown verifies zero padding on both fields and unbounded
// minutes past 99:59.
func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{59, "00:59"},
		{60, "01:00"},
		{61, "01:01"},
		{180, "03:00"},
		{5999, "99:59"},
		{6000, "100:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.seconds); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

// TestFromSnapshotMidSession verifies the derived fields thirty seconds into
// the second exercise of a 180 second plan.
func TestFromSnapshotMidSession(t *testing.T) {
	p := twoStepPlan(t)
	r := FromSnapshot(p, engine.Snapshot{
		Status:                 engine.StatusRunning,
		ExerciseIndex:          1,
		ExerciseCount:          2,
		RemainingSeconds:       90,
		ElapsedSeconds:         90,
		ExerciseElapsedSeconds: 30,
		TotalSeconds:           180,
	})

	if r.Countdown != "01:30" {
		t.Errorf("countdown = %q, want 01:30", r.Countdown)
	}
	if r.ExerciseCountdown != "01:30" {
		t.Errorf("exercise countdown = %q, want 01:30 (120-30 left)", r.ExerciseCountdown)
	}
	if r.Percent != 50 {
		t.Errorf("percent = %d, want 50", r.Percent)
	}
	if r.Fraction != 0.5 {
		t.Errorf("fraction = %v, want 0.5", r.Fraction)
	}
	if r.Title != "Desk Reset" || r.Intro != "Loosen up." {
		t.Errorf("metadata = %q/%q", r.Title, r.Intro)
	}

	cur, ok := r.Current()
	if !ok || cur.Name != "Walk" {
		t.Fatalf("current = %+v ok=%v, want Walk", cur, ok)
	}
	if !r.Exercises[1].Active || r.Exercises[0].Active {
		t.Errorf("active flags = %v/%v, want second exercise active only",
			r.Exercises[0].Active, r.Exercises[1].Active)
	}
	if !r.Exercises[0].Done || r.Exercises[1].Done {
		t.Errorf("done flags = %v/%v, want first exercise done only",
			r.Exercises[0].Done, r.Exercises[1].Done)
	}
	if r.MinutesTaken != 0 {
		t.Errorf("minutes taken = %d, want 0 while running", r.MinutesTaken)
	}
}

// TestFromSnapshotCompleted verifies the completion view: no active row,
// everything done, minutes summary present.
func TestFromSnapshotCompleted(t *testing.T) {
	p := twoStepPlan(t)
	r := FromSnapshot(p, engine.Snapshot{
		Status:           engine.StatusCompleted,
		ExerciseIndex:    2,
		ExerciseCount:    2,
		RemainingSeconds: 0,
		ElapsedSeconds:   180,
		TotalSeconds:     180,
	})

	if r.Percent != 100 || r.Countdown != "00:00" {
		t.Errorf("percent/countdown = %d/%q, want 100/00:00", r.Percent, r.Countdown)
	}
	if _, ok := r.Current(); ok {
		t.Error("completed report still has a current exercise")
	}
	for i, e := range r.Exercises {
		if e.Active {
			t.Errorf("exercise %d still active after completion", i)
		}
		if !e.Done {
			t.Errorf("exercise %d not marked done", i)
		}
	}
	if r.MinutesTaken != 3 {
		t.Errorf("minutes taken = %d, want 3", r.MinutesTaken)
	}
	if r.ExerciseCountdown != "00:00" {
		t.Errorf("exercise countdown = %q, want 00:00", r.ExerciseCountdown)
	}
}

// TestFromSnapshotIdle verifies the pre-start report shows the full plan
// ahead.
func TestFromSnapshotIdle(t *testing.T) {
	p := twoStepPlan(t)
	r := FromSnapshot(p, engine.Snapshot{
		Status:           engine.StatusIdle,
		ExerciseCount:    2,
		RemainingSeconds: 180,
		TotalSeconds:     180,
	})
	if r.Percent != 0 || r.Countdown != "03:00" {
		t.Errorf("percent/countdown = %d/%q, want 0/03:00", r.Percent, r.Countdown)
	}
	if !r.Exercises[0].Active {
		t.Error("first exercise should be active before start")
	}
	if r.ExerciseCountdown != "01:00" {
		t.Errorf("exercise countdown = %q, want 01:00", r.ExerciseCountdown)
	}
}

// TestPercentFloors verifies integer percent never rounds up to a value the
// timer has not reached.
func TestPercentFloors(t *testing.T) {
	if got := percent(180, 179); got != 0 {
		t.Errorf("percent(180,179) = %d, want 0", got)
	}
	if got := percent(180, 1); got != 99 {
		t.Errorf("percent(180,1) = %d, want 99", got)
	}
	if got := percent(3, 1); got != 66 {
		t.Errorf("percent(3,1) = %d, want 66", got)
	}
}

// TestBar verifies the fixed-width fill rendering at the edges and midpoint.
func TestBar(t *testing.T) {
	if got := Bar(0, 20); strings.Contains(got, "▓") {
		t.Errorf("empty bar contains fill: %q", got)
	}
	if got := Bar(1, 20); strings.Contains(got, "░") {
		t.Errorf("full bar contains empty cells: %q", got)
	}
	got := Bar(0.5, 20)
	if strings.Count(got, "▓") != 10 || strings.Count(got, "░") != 10 {
		t.Errorf("half bar = %q, want 10 filled / 10 empty", got)
	}
	if n := len([]rune(Bar(0.37, 20))); n != 20 {
		t.Errorf("bar width = %d runes, want 20", n)
	}
}
