package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odprema_http_requests_total",
		Help: "HTTP requests served, by route pattern and status.",
	}, []string{"pattern", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odprema_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pattern"})
)

func observeHTTPRequest(r *http.Request, status int, elapsed time.Duration) {
	pattern := r.Method + " " + normalizePath(r.URL.Path)
	httpRequests.WithLabelValues(pattern, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(pattern).Observe(elapsed.Seconds())
}

// normalizePath collapses numeric path segments so ids do not blow up the
// label cardinality.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
