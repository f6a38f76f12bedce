package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolStartBreakSession = mcp.NewTool("start_break_session",
	mcp.WithDescription("Start a guided exercise break. Creates a session from the given workout plan and begins its countdown. A missing or invalid plan uses the built-in default break."),
	mcp.WithString("workout_json", mcp.Description(`Workout plan as JSON: {"title", "intro", "exercises": [{"name", "duration", "description", "benefit"}]}. Optional.`)),
)

var toolGetBreakProgress = mcp.NewTool("get_break_progress",
	mcp.WithDescription("Get a break session's progress: overall and per-exercise countdowns, percent complete, and the active exercise."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by start_break_session")),
)

var toolControlBreakSession = mcp.NewTool("control_break_session",
	mcp.WithDescription("Control a break session: pause or resume the countdown, skip to the next exercise, force completion, or close the session."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by start_break_session")),
	mcp.WithString("action", mcp.Required(), mcp.Description("Control action to apply"), mcp.Enum("pause", "resume", "skip", "complete", "close")),
)

var toolListBreakSessions = mcp.NewTool("list_break_sessions",
	mcp.WithDescription("List live break sessions with their progress, oldest first."),
)

// --- Tool handlers ---

func (h *handlers) startBreakSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workout := req.GetString("workout_json", "")

	state, err := h.source.StartSession(ctx, []byte(workout))
	if err != nil {
		h.log.Error("mcp start_break_session", "error", err)
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBreakProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	state, err := h.source.GetSession(ctx, id)
	if err != nil {
		h.log.Error("mcp get_break_progress", "error", err)
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) controlBreakSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	action, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("action parameter is required"), nil
	}

	state, err := h.source.ControlSession(ctx, id, action)
	if err != nil {
		h.log.Error("mcp control_break_session", "action", action, "error", err)
		return mcp.NewToolResultError(action + " failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listBreakSessions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	states, err := h.source.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp list_break_sessions", "error", err)
		return mcp.NewToolResultError("list failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(states)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
