// Package api serves the derived dashboard tables to a presentation
// layer over HTTP. The server owns a read-through cache of built
// dashboards, keyed by source identifier, refreshed only on request.
package api

import (
	"log"
	"net/http"

	"github.com/freshconn/tfcdash/pkg/tfcdash"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// DefaultSource is the workbook used when a request names none.
	DefaultSource string
	// AllowedOrigins configures CORS for the frontend.
	AllowedOrigins []string
}

// Server exposes the dashboard tables as JSON.
type Server struct {
	cfg   Config
	cache *dashCache
}

// New creates a Server building dashboards with the given options.
func New(cfg Config, opts tfcdash.Options) *Server {
	return &Server{
		cfg:   cfg,
		cache: newDashCache(opts),
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/dashboard", s.handleDashboard)
	r.Get("/api/finance", s.handleFinance)
	r.Get("/api/domains/{domain}", s.handleDomain)
	r.Get("/api/domains/{domain}/kpis", s.handleDomainKPIs)
	r.Post("/api/refresh", s.handleRefresh)

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	log.Printf("tfcdash API listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.Router())
}
