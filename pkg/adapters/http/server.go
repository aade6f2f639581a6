// Package http exposes the catalog, content lookups and runner sessions as a JSON API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/pkg/ports"
	"github.com/aretw0/roomread/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Default identity headers set by the upstream identity provider.
const (
	DefaultUserHeader = "X-Forwarded-User"
	DefaultNameHeader = "X-Forwarded-Name"
)

// Identity configures how callers are recognised.
type Identity struct {
	UserHeader string
	NameHeader string
	// Disabled lets requests without a user header through. Local use only.
	Disabled bool
}

// Server holds the collaborators behind the HTTP handlers.
type Server struct {
	Sessions *session.Manager
	Content  ports.ContentStore
	Metrics  http.Handler
	Identity Identity
	Version  string
	Logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts a metrics handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithIdentity overrides the identity headers.
func WithIdentity(id Identity) Option {
	return func(s *Server) {
		if id.UserHeader == "" {
			id.UserHeader = DefaultUserHeader
		}
		if id.NameHeader == "" {
			id.NameHeader = DefaultNameHeader
		}
		s.Identity = id
	}
}

// WithVersion sets the application version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewServer creates a Server. Content serves the direct question and lesson lookups.
func NewServer(sessions *session.Manager, content ports.ContentStore, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Content:  content,
		Identity: Identity{UserHeader: DefaultUserHeader, NameHeader: DefaultNameHeader},
		Version:  "dev",
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler builds the routed handler for sessions and content.
func NewHandler(sessions *session.Manager, content ports.ContentStore, opts ...Option) http.Handler {
	return NewServer(sessions, content, opts...).Routes()
}

// Routes wires every endpoint onto a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/openapi.yaml", s.getDocument)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireIdentity)

		r.Get("/dashboard", s.getDashboard)
		r.Get("/countries", s.listCountries)
		r.Get("/countries/{country}", s.getCountry)
		r.Get("/countries/{country}/{category}/lessons", s.listLessonTiers)
		r.Get("/questions/{country}/{category}", s.getQuestions)
		r.Get("/lessons/{country}/{category}/{tier}", s.getLesson)

		r.Post("/sessions", s.startSession)
		r.Get("/sessions/{id}", s.getSession)
		r.Delete("/sessions/{id}", s.deleteSession)
		r.Post("/sessions/{id}/select", s.selectOption)
		r.Post("/sessions/{id}/advance", s.advanceSession)
	})
	return r
}
