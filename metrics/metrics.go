package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthDecisionsTotal counts guard outcomes on protected endpoints.
	//
	// Example usage:
	// metrics.AuthDecisionsTotal.WithLabelValues("post:drinks", "granted").Inc()
	AuthDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drinks_auth_decisions_total",
			Help: "Number of authorization decisions by permission and outcome.",
		},
		[]string{"permission", "outcome"},
	)

	// JWKSFetchTotal counts key set lookups by source ("remote", "cached")
	// and status.
	JWKSFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drinks_jwks_fetch_total",
			Help: "Number of JWKS lookups by source and status.",
		},
		[]string{"source", "status"},
	)

	// JWKSFetchDuration tracks the latency of remote JWKS fetches.
	JWKSFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drinks_jwks_fetch_duration_seconds",
			Help:    "A histogram of remote JWKS fetch latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// DrinkOperationsTotal counts catalog operations by name and status.
	//
	// Example usage:
	// metrics.DrinkOperationsTotal.WithLabelValues("create", "ok").Inc()
	DrinkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drinks_operations_total",
			Help: "Number of drink catalog operations by operation and status.",
		},
		[]string{"operation", "status"},
	)

	// HTTPRequestsTotal counts served requests by method, route pattern and
	// status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drinks_http_requests_total",
			Help: "Number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drinks_http_request_duration_seconds",
			Help:    "A histogram of HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
