package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/notify"
	"github.com/claude/respawn/internal/plan"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: respawn-break [flags] [plan.json]\n\nRun one guided exercise break in the terminal.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	workoutJSON := flag.String("workout", "", "inline workout JSON (overrides the file argument)")
	flag.Parse()

	if err := run(*workoutJSON, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(workoutJSON, planPath string) error {
	p, notice, err := loadPlan(workoutJSON, planPath)
	if err != nil {
		return err
	}

	// The card is the only surface here, so engine logging and the
	// notification sink stay quiet.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(p, engine.Config{
		ID:           uuid.NewString(),
		TickInterval: time.Second,
		Sink:         notify.NewLogSink(log),
		Log:          log,
	})

	program := tea.NewProgram(newModel(eng, notice), tea.WithAltScreen())

	// Send the program reference so the model can start the event bridge.
	go func() {
		program.Send(programReadyMsg{program: program})
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	// Leaving the program without finishing counts as closing the break.
	return eng.Close()
}

// loadPlan builds the session plan from the inline JSON flag, a plan file,
// or the built-in default, in that order. Malformed plan content falls back
// to the default with a notice; an unreadable file is a hard error.
func loadPlan(workoutJSON, planPath string) (*plan.SessionPlan, string, error) {
	var raw []byte
	switch {
	case workoutJSON != "":
		raw = []byte(workoutJSON)
	case planPath != "":
		data, err := os.ReadFile(planPath)
		if err != nil {
			return nil, "", err
		}
		raw = data
	default:
		return plan.Default(), "", nil
	}

	p, err := plan.ParseJSON(raw)
	if err != nil {
		return plan.Default(), "invalid workout plan, running the default break", nil
	}
	return p, "", nil
}
