package observability

import (
	"strconv"
	"time"

	"github.com/upb/coffee-shop/metrics"
)

// RequestLabels contains the dimensions of one served request
type RequestLabels struct {
	Method string
	Route  string // chi route pattern, never the raw path
	Status int
}

// RecordRequest counts a served request and observes its latency
func RecordRequest(labels RequestLabels, duration time.Duration) {
	route := labels.Route
	if route == "" {
		route = "unmatched"
	}
	status := strconv.Itoa(labels.Status)

	metrics.HTTPRequestsTotal.WithLabelValues(labels.Method, route, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(labels.Method, route).Observe(duration.Seconds())
}
