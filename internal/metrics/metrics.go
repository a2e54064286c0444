// Package metrics holds the Prometheus collectors for tubelens.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// YouTube Data API calls
	YouTubeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubelens_youtube_requests_total",
			Help: "YouTube Data API requests by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)

	YouTubeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubelens_youtube_request_duration_seconds",
			Help:    "YouTube Data API request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Analysis pipeline
	Analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubelens_analyses_total",
			Help: "Channel analyses by result (ok, not_found, fetch_error, error)",
		},
		[]string{"result"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tubelens_analysis_duration_seconds",
			Help:    "End-to-end channel analysis duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tubelens_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Inbound HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubelens_http_requests_total",
			Help: "Inbound HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
)
