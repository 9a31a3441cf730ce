// Package server serves the dashboard over HTTP: an HTML page, the JSON
// snapshot and view, and a websocket notifying every applied update.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/poll"
	"github.com/etnz/dashboard/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Source is the state cell the server reads from. *poll.Poller implements it.
type Source interface {
	Current() *dashboard.Snapshot
	Applied() uint64
	Subscribe(fn func(poll.Update)) (cancel func())
}

// Config holds server configuration.
type Config struct {
	Log    zerolog.Logger
	Addr   string // listen address, ":8080" when empty.
	Source Source
	Render renderer.Options
}

// Server is the HTTP dashboard.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	source Source
	render renderer.Options
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		source: cfg.Source,
		render: cfg.Render,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// no WriteTimeout: websocket connections are long lived.
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.handleIndex)
		r.Get("/health", s.handleHealth)
		r.Route("/api", func(r chi.Router) {
			r.Get("/snapshot", s.handleSnapshot)
			r.Get("/view", s.handleView)
		})
	})
	s.router.Get("/ws", s.handleUpdates)
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown.
// It returns http.ErrServerClosed after a Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
