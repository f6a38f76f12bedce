package plan

import "testing"

// TestDefaultPlan verifies the built-in desk workout: ten exercises of sixty
// seconds each, so every fallback session is exactly ten minutes.
func TestDefaultPlan(t *testing.T) {
	p := Default()
	if p.Len() != 10 {
		t.Fatalf("len = %d, want 10", p.Len())
	}
	if got := p.TotalSeconds(); got != 600 {
		t.Errorf("total = %d, want 600", got)
	}
	if p.Title() != DefaultTitle {
		t.Errorf("title = %q, want %q", p.Title(), DefaultTitle)
	}
	if p.Intro() != DefaultIntro {
		t.Errorf("intro = %q, want %q", p.Intro(), DefaultIntro)
	}
	for i, e := range p.Exercises() {
		if e.DurationSeconds != 60 {
			t.Errorf("exercise %d (%s) duration = %d, want 60", i, e.Name, e.DurationSeconds)
		}
		if e.Name == "" || e.Description == "" || e.Benefit == "" {
			t.Errorf("exercise %d has empty display fields", i)
		}
	}
	if got := p.Exercise(0).Name; got != "Neck Stretches" {
		t.Errorf("first exercise = %q, want Neck Stretches", got)
	}
	if got := p.Exercise(9).Name; got != "Final Stretch" {
		t.Errorf("last exercise = %q, want Final Stretch", got)
	}
}

// TestDefaultPlanIsolated verifies each Default call yields an independent
// plan backed by its own exercise slice.
func TestDefaultPlanIsolated(t *testing.T) {
	a, b := Default(), Default()
	if a == b {
		t.Fatal("Default returned the same plan twice")
	}
	if a.TotalSeconds() != b.TotalSeconds() {
		t.Errorf("totals differ: %d vs %d", a.TotalSeconds(), b.TotalSeconds())
	}
}
