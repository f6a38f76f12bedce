package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/plan"
	"github.com/claude/respawn/internal/progress"
	"github.com/go-chi/chi/v5"
)

// sessionResponse is the payload shared by the create, get and control
// endpoints: registry metadata plus a fresh progress report.
type sessionResponse struct {
	ID         string          `json:"id"`
	PlanSource string          `json:"plan_source"`
	CreatedAt  time.Time       `json:"created_at"`
	Report     progress.Report `json:"report"`
}

func newSessionResponse(sess *engine.Session) sessionResponse {
	return sessionResponse{
		ID:         sess.ID,
		PlanSource: sess.PlanSource,
		CreatedAt:  sess.CreatedAt,
		Report:     progress.FromSnapshot(sess.Engine.Plan(), sess.Engine.Snapshot()),
	}
}

// handleCreateSession registers a new session. The plan comes from the
// request body, or from a workout query parameter for callers that cannot
// send one. A missing or unparseable plan falls back to the built-in
// default, recorded in the plan_source field.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	data := []byte(r.URL.Query().Get("workout"))
	if len(data) == 0 {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read body: " + err.Error()})
			return
		}
		data = body
	}

	p := plan.Default()
	source := engine.PlanSourceDefault
	if len(data) > 0 {
		parsed, err := plan.ParseJSON(data)
		if err != nil {
			s.log.Warn("invalid session plan, using default", "error", err)
		} else {
			p = parsed
			source = engine.PlanSourceRequest
		}
	}

	sess, err := s.manager.Create(p, source)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, engine.ErrTooManySessions):
			status = http.StatusTooManyRequests
		case errors.Is(err, engine.ErrManagerClosed):
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.List()
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, newSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	s.controlSession(w, r, func(eng *engine.Engine) error { return eng.Start() })
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	s.controlSession(w, r, func(eng *engine.Engine) error { return eng.Pause() })
}

func (s *Server) handleSkipSession(w http.ResponseWriter, r *http.Request) {
	s.controlSession(w, r, func(eng *engine.Engine) error { return eng.Skip() })
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	s.controlSession(w, r, func(eng *engine.Engine) error { return eng.Complete() })
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.controlSession(w, r, func(eng *engine.Engine) error { return eng.Close() })
}

// controlSession runs one engine operation against the addressed session and
// returns the refreshed session payload. Operations the engine rejects map
// to 409.
func (s *Server) controlSession(w http.ResponseWriter, r *http.Request, op func(*engine.Engine) error) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	if err := op(sess.Engine); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDefaultPlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, plan.Default().Raw())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
