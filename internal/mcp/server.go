package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(source SessionSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Respawn", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Respawn break session server. Start guided exercise breaks, check their countdown progress, and pause, skip, complete or close them."),
	)

	h := &handlers{source: source, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolStartBreakSession, Handler: h.startBreakSession},
		server.ServerTool{Tool: toolGetBreakProgress, Handler: h.getBreakProgress},
		server.ServerTool{Tool: toolControlBreakSession, Handler: h.controlBreakSession},
		server.ServerTool{Tool: toolListBreakSessions, Handler: h.listBreakSessions},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDefaultPlan, Handler: h.defaultPlan},
		server.ServerResource{Resource: resLiveSessions, Handler: h.liveSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	source SessionSource
	log    *slog.Logger
}

// --- Resource definitions ---

var resDefaultPlan = mcp.NewResource(
	"respawn://plans/default",
	"Default Break Plan",
	mcp.WithResourceDescription("The built-in ten exercise desk break in session plan JSON form"),
	mcp.WithMIMEType("application/json"),
)

var resLiveSessions = mcp.NewResource(
	"respawn://sessions",
	"Live Break Sessions",
	mcp.WithResourceDescription("All live break sessions with their current progress"),
	mcp.WithMIMEType("application/json"),
)
