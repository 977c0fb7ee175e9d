package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService exposes Prometheus counters for the API surface plus the
// domain events the scheduler cares about: enrollment outcomes keyed by
// rejection code and presence writes keyed by code.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	enrollResults *prometheus.CounterVec
	presenceSet   *prometheus.CounterVec
	cacheOps      *prometheus.CounterVec
}

// NewMetricsService registers all collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	s := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scheduler_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		enrollResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_enrollment_results_total",
			Help: "Enrollment attempts by outcome short code.",
		}, []string{"result"}),
		presenceSet: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_presence_updates_total",
			Help: "Presence writes by code.",
		}, []string{"code"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_cache_operations_total",
			Help: "Cache operations by kind and outcome.",
		}, []string{"operation", "outcome"}),
	}

	registry.MustRegister(
		s.httpRequests, s.httpDuration,
		s.enrollResults, s.presenceSet,
		s.cacheOps,
	)
	return s
}

// Handler serves the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one completed request.
func (s *MetricsService) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	s.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordEnrollment counts one enrollment attempt. result is "enrolled" or
// the rejection short code.
func (s *MetricsService) RecordEnrollment(result string) {
	s.enrollResults.WithLabelValues(result).Inc()
}

// RecordPresenceUpdate counts one presence write. The empty code is
// reported as "none" to keep the label readable.
func (s *MetricsService) RecordPresenceUpdate(code string) {
	if code == "" {
		code = "none"
	}
	s.presenceSet.WithLabelValues(code).Inc()
}

// RecordCacheOperation counts one cache access.
func (s *MetricsService) RecordCacheOperation(operation, outcome string) {
	s.cacheOps.WithLabelValues(operation, outcome).Inc()
}
