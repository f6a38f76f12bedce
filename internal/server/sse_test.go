package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/plan"
)

// readFrame consumes one data frame from an event stream.
func readFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	var data []byte
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		line = bytes.TrimRight(line, "\n")
		if len(line) == 0 {
			if data != nil {
				break
			}
			continue
		}
		if after, ok := bytes.CutPrefix(line, []byte("data: ")); ok {
			data = after
		}
	}

	var frame sseFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame %q: %v", data, err)
	}
	return frame
}

// TestSessionEventsStream verifies the event stream delivers a snapshot
// first, then one frame per engine transition, and ends when the session
// closes.
func TestSessionEventsStream(t *testing.T) {
	s, manager := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	p, err := plan.ParseJSON([]byte(workoutJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess, err := manager.Create(p, engine.PlanSourceRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/sessions/" + sess.ID + "/events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)

	frame := readFrame(t, reader)
	if frame.Type != "snapshot" {
		t.Fatalf("first frame type = %q, want snapshot", frame.Type)
	}
	if frame.Report.Status != engine.StatusIdle {
		t.Errorf("snapshot status = %q, want %q", frame.Report.Status, engine.StatusIdle)
	}
	if frame.Report.Countdown != "03:00" {
		t.Errorf("snapshot countdown = %q, want 03:00", frame.Report.Countdown)
	}

	if err := sess.Engine.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame = readFrame(t, reader)
	if frame.Type != string(engine.EventStarted) {
		t.Errorf("frame type = %q, want %q", frame.Type, engine.EventStarted)
	}
	if frame.Report.Status != engine.StatusRunning {
		t.Errorf("status = %q, want %q", frame.Report.Status, engine.StatusRunning)
	}

	if err := sess.Engine.Skip(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame = readFrame(t, reader)
	if frame.Type != string(engine.EventSkipped) {
		t.Errorf("frame type = %q, want %q", frame.Type, engine.EventSkipped)
	}
	if frame.Report.ExerciseIndex != 1 {
		t.Errorf("exercise_index = %d, want 1", frame.Report.ExerciseIndex)
	}
	if frame.Report.Countdown != "02:00" {
		t.Errorf("countdown = %q, want 02:00", frame.Report.Countdown)
	}

	if err := sess.Engine.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame = readFrame(t, reader)
	if frame.Type != string(engine.EventClosed) {
		t.Errorf("frame type = %q, want %q", frame.Type, engine.EventClosed)
	}

	// Subscriber channels close with the session; the stream ends.
	if _, err := reader.ReadByte(); err != io.EOF {
		t.Fatalf("read after close = %v, want EOF", err)
	}
}

// TestSessionEventsClosedSession verifies a stream opened against an
// already closed session delivers the final snapshot and ends.
func TestSessionEventsClosedSession(t *testing.T) {
	s, manager := newTestServer(t)
	srv := httptest.NewServer(s)
	defer srv.Close()

	sess, err := manager.Create(plan.Default(), engine.PlanSourceDefault)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sess.Engine.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Get(srv.URL + "/api/v1/sessions/" + sess.ID + "/events")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	frame := readFrame(t, reader)
	if frame.Type != "snapshot" {
		t.Fatalf("first frame type = %q, want snapshot", frame.Type)
	}
	if !frame.Report.Closed {
		t.Error("snapshot does not show the session as closed")
	}
	if _, err := reader.ReadByte(); err != io.EOF {
		t.Fatalf("read after snapshot = %v, want EOF", err)
	}
}

// TestSessionEventsUnknownSession verifies the stream 404s before switching
// protocols.
func TestSessionEventsUnknownSession(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(s, http.MethodGet, "/api/v1/sessions/ghost/events", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
