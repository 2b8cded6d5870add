// Package metrics provides Prometheus metrics for the arbor server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbor_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// calls made against the remote repository api
	remoteFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbor_remote_fetch_total",
			Help: "Total number of remote repository API calls",
		},
		[]string{"kind", "status"},
	)

	remoteFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbor_remote_fetch_duration_seconds",
			Help:    "Remote repository API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbor_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"kind", "result"},
	)

	branchFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arbor_branch_fallback_total",
			Help: "Times the main branch was missing and master was tried instead",
		},
	)

	fileTooLargeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arbor_file_too_large_total",
			Help: "File selections refused because of the size limit",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRemoteFetch(kind string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	remoteFetchTotal.WithLabelValues(kind, status).Inc()
	remoteFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

func RecordBranchFallback() {
	branchFallbackTotal.Inc()
}

func RecordFileTooLarge() {
	fileTooLargeTotal.Inc()
}
