package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odprema_backend_requests_total",
		Help: "Requests sent to the procurement backend, by path prefix and outcome.",
	}, []string{"path", "outcome"})

	staleSearchDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "odprema_search_results_dropped_total",
		Help: "Lookup results discarded because a newer query superseded them.",
	})
)

func observeRequest(path, outcome string) {
	backendRequests.WithLabelValues(pathPrefix(path), outcome).Inc()
}

func observeStaleSearchDrop() {
	staleSearchDrops.Inc()
}

// pathPrefix strips ids so the label set stays bounded.
func pathPrefix(path string) string {
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return path
}
