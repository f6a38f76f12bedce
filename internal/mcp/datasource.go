package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/respawn/internal/engine"
	"github.com/claude/respawn/internal/plan"
	"github.com/claude/respawn/internal/progress"
)

// SessionState is the session payload returned by every tool: registry
// metadata plus a display-ready progress report. It matches the REST API's
// session responses.
type SessionState struct {
	ID         string          `json:"id"`
	PlanSource string          `json:"plan_source"`
	CreatedAt  time.Time       `json:"created_at"`
	Report     progress.Report `json:"report"`
}

// SessionSource abstracts session access for MCP tools. Both *ManagerSource
// (in-process) and *HTTPClient (remote via REST API) satisfy this interface.
type SessionSource interface {
	StartSession(ctx context.Context, workoutJSON []byte) (SessionState, error)
	GetSession(ctx context.Context, id string) (SessionState, error)
	ControlSession(ctx context.Context, id, action string) (SessionState, error)
	ListSessions(ctx context.Context) ([]SessionState, error)
	DefaultPlan(ctx context.Context) (plan.RawSession, error)
}

// Compile-time check: *ManagerSource satisfies SessionSource.
var _ SessionSource = (*ManagerSource)(nil)

// ManagerSource serves MCP tools straight from the in-process session
// manager.
type ManagerSource struct {
	manager *engine.Manager
	log     *slog.Logger
}

// NewManagerSource wraps an in-process session manager.
func NewManagerSource(manager *engine.Manager, log *slog.Logger) *ManagerSource {
	return &ManagerSource{manager: manager, log: log}
}

func sessionState(sess *engine.Session) SessionState {
	return SessionState{
		ID:         sess.ID,
		PlanSource: sess.PlanSource,
		CreatedAt:  sess.CreatedAt,
		Report:     progress.FromSnapshot(sess.Engine.Plan(), sess.Engine.Snapshot()),
	}
}

// StartSession creates a session and starts its countdown. A missing or
// unparseable plan falls back to the built-in default.
func (s *ManagerSource) StartSession(ctx context.Context, workoutJSON []byte) (SessionState, error) {
	p := plan.Default()
	source := engine.PlanSourceDefault
	if len(workoutJSON) > 0 {
		parsed, err := plan.ParseJSON(workoutJSON)
		if err != nil {
			s.log.Warn("invalid session plan, using default", "error", err)
		} else {
			p = parsed
			source = engine.PlanSourceRequest
		}
	}

	sess, err := s.manager.Create(p, source)
	if err != nil {
		return SessionState{}, err
	}
	if err := sess.Engine.Start(); err != nil {
		return SessionState{}, err
	}
	return sessionState(sess), nil
}

func (s *ManagerSource) GetSession(ctx context.Context, id string) (SessionState, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return SessionState{}, err
	}
	return sessionState(sess), nil
}

func (s *ManagerSource) ControlSession(ctx context.Context, id, action string) (SessionState, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return SessionState{}, err
	}

	switch action {
	case "pause":
		err = sess.Engine.Pause()
	case "resume":
		err = sess.Engine.Start()
	case "skip":
		err = sess.Engine.Skip()
	case "complete":
		err = sess.Engine.Complete()
	case "close":
		err = sess.Engine.Close()
	default:
		return SessionState{}, fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return SessionState{}, err
	}
	return sessionState(sess), nil
}

func (s *ManagerSource) ListSessions(ctx context.Context) ([]SessionState, error) {
	sessions := s.manager.List()
	out := make([]SessionState, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionState(sess))
	}
	return out, nil
}

func (s *ManagerSource) DefaultPlan(ctx context.Context) (plan.RawSession, error) {
	return plan.Default().Raw(), nil
}
