// Package api serves channel analyses over HTTP.
//
// Routes:
//   - GET /api/v1/channels/{channelID}/analysis  full report as JSON
//   - GET /api/v1/health                          liveness
//   - GET /metrics                                Prometheus exposition
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gauthierbraillon/tubelens/internal/aggregator"
)

// Analyzer produces a channel report. *aggregator.Aggregator satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, channelID string) (*aggregator.Report, error)
}

// Config holds the HTTP layer settings.
type Config struct {
	AnalyzeTimeout    time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSOrigins       []string
	Version           string
}

// Server wires the analyzer into a chi router.
type Server struct {
	analyzer Analyzer
	config   Config
	validate *validator.Validate
	started  time.Time
}

// NewServer creates a Server. Zero config values fall back to defaults.
func NewServer(analyzer Analyzer, cfg Config) *Server {
	if cfg.AnalyzeTimeout <= 0 {
		cfg.AnalyzeTimeout = 45 * time.Second
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	return &Server{
		analyzer: analyzer,
		config:   cfg,
		validate: newValidator(),
		started:  time.Now(),
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(s.config.CORSOrigins))

	r.Get("/api/v1/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/channels", func(r chi.Router) {
		r.Use(RateLimit(s.config.RateLimitRequests, s.config.RateLimitWindow))
		r.Get("/{channelID}/analysis", s.handleAnalysis)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "no such route")
	})

	return r
}
