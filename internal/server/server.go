package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/probsched/internal/config"
	"github.com/me/probsched/internal/metrics"
	"github.com/me/probsched/internal/simulation"
	"github.com/prometheus/client_golang/prometheus"
)

// maxBodyBytes caps request bodies; process tables and simulation requests are small.
const maxBodyBytes = 1 << 20

// Server is the probsched REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	runner    *simulation.Runner
	runtime   string              // engine runtime name, reported by /health
	gatherer  prometheus.Gatherer // optional; serves /metrics when set
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithGatherer serves the metrics in g at /metrics when metrics are enabled.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRuntimeName sets the engine runtime name shown by the health endpoint.
func WithRuntimeName(name string) Option {
	return func(s *Server) {
		s.runtime = name
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, runner *simulation.Runner, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		runner:    runner,
		runtime:   config.RuntimeLocal,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	if s.config.Metrics && s.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)
		r.Get("/algorithms", s.handleListAlgorithms)

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/", s.handleCreateSimulation)
			r.Get("/latest", s.handleLatestSimulation)
		})

		r.Post("/processes/parse", s.handleParseProcesses)
	})
}
