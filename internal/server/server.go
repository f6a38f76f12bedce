package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/respawn/internal/engine"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	manager *engine.Manager
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(manager *engine.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		manager: manager,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/v1/plans/default", s.handleDefaultPlan)

	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		// Read endpoints (no auth — tsnet handles access)
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Get("/{id}/events", s.handleSessionEvents)

		// Control endpoints (API key required when configured)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreateSession)
			r.Post("/{id}/start", s.handleStartSession)
			r.Post("/{id}/pause", s.handlePauseSession)
			r.Post("/{id}/skip", s.handleSkipSession)
			r.Post("/{id}/complete", s.handleCompleteSession)
			r.Post("/{id}/close", s.handleCloseSession)
		})
	})
}
