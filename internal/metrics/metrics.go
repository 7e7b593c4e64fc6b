package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "merchant_admin"

var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Requests forwarded to the external backend, by operation and status.",
	}, []string{"operation", "status"})

	backendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of backend calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	rejectedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_requests_total",
		Help:      "Requests rejected before reaching the backend, by operation and reason.",
	}, []string{"operation", "reason"})
)

// ObserveBackendCall records one backend round trip. status is 0 when no
// response was received.
func ObserveBackendCall(operation string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendRequests.WithLabelValues(operation, label).Inc()
	backendDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func ObserveRejected(operation, reason string) {
	rejectedRequests.WithLabelValues(operation, reason).Inc()
}
