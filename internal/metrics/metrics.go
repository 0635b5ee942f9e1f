// Package metrics defines the Prometheus collectors exported by specdeck.
//
//   - http_requests_total: requests by route pattern, method and status
//   - http_request_duration_seconds: request latency by route pattern and method
//   - github_requests_total: GitHub API calls by endpoint kind and outcome
//   - content_cache_lookups_total: content cache lookups by result (hit/miss)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	GitHubRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "github_requests_total", Help: "GitHub API calls by endpoint kind and outcome."},
		[]string{"endpoint", "outcome"},
	)
	ContentCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "content_cache_lookups_total", Help: "Fetched-content cache lookups by result."},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, GitHubRequests, ContentCacheLookups)
}

// ObserveGitHub records one GitHub call. status is the HTTP status, or 0 when
// the request never got a response.
func ObserveGitHub(endpoint string, status int) {
	outcome := "error"
	if status != 0 {
		outcome = strconv.Itoa(status)
	}
	GitHubRequests.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveCache records a content cache lookup.
func ObserveCache(hit bool) {
	if hit {
		ContentCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	ContentCacheLookups.WithLabelValues("miss").Inc()
}

// Middleware records request count and latency. The chi route pattern is used
// as the path label so /documents/{id} does not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		HTTPLatency.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(path, r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
