package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/plan"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	p, err := plan.ParseJSON([]byte(deskResetJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	eng := engine.New(p, engine.Config{
		ID:           "break-test",
		TickInterval: time.Hour,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

// syncReport refreshes the model's report the way the event bridge would.
func syncReport(m model, eng *engine.Engine) model {
	next, _ := m.Update(sessionEventMsg{event: engine.Event{Snapshot: eng.Snapshot()}})
	return next.(model)
}

func pressKey(m model, k string) (model, tea.Cmd) {
	var msg tea.KeyMsg
	if k == "esc" {
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func TestModelPauseResumeKey(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m := syncReport(newModel(eng, ""), eng)

	m, _ = pressKey(m, " ")
	if got := eng.Snapshot().Status; got != engine.StatusPaused {
		t.Errorf("status = %q, want %q", got, engine.StatusPaused)
	}

	m = syncReport(m, eng)
	if _, _ = pressKey(m, " "); eng.Snapshot().Status != engine.StatusRunning {
		t.Errorf("status = %q, want %q", eng.Snapshot().Status, engine.StatusRunning)
	}
}

func TestModelSkipKey(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m := syncReport(newModel(eng, ""), eng)

	if _, _ = pressKey(m, "s"); eng.Snapshot().ExerciseIndex != 1 {
		t.Errorf("index = %d, want 1", eng.Snapshot().ExerciseIndex)
	}
}

func TestModelQuitKeyClosesSession(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m := syncReport(newModel(eng, ""), eng)

	_, cmd := pressKey(m, "q")
	if cmd == nil {
		t.Fatal("cmd = nil, want quit")
	}
	if !eng.Snapshot().Closed {
		t.Error("session not closed after quit key")
	}
}

func TestModelEscClosesSession(t *testing.T) {
	eng := newTestEngine(t)
	m := syncReport(newModel(eng, ""), eng)

	_, cmd := pressKey(m, "esc")
	if cmd == nil {
		t.Fatal("cmd = nil, want quit")
	}
	if !eng.Snapshot().Closed {
		t.Error("session not closed after esc")
	}
}

func TestViewShowsActiveExercise(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	m := syncReport(newModel(eng, ""), eng)

	view := m.View()
	for _, want := range []string{"Desk Reset", "Stretch", "03:00", "Loosens shoulders", "Follow along"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewCompleted(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Skipping the first exercise charges its 60 seconds to elapsed, so the
	// completion banner reports one minute taken.
	if err := eng.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if err := eng.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	m := syncReport(newModel(eng, ""), eng)

	view := m.View()
	if !strings.Contains(view, "Workout Complete!") {
		t.Error("view missing completion banner")
	}
	if !strings.Contains(view, "1 minute") {
		t.Error("view missing minutes taken")
	}
}

func TestViewShowsNotice(t *testing.T) {
	eng := newTestEngine(t)
	m := syncReport(newModel(eng, "invalid workout plan, running the default break"), eng)

	if !strings.Contains(m.View(), "invalid workout plan") {
		t.Error("view missing fallback notice")
	}
}
