package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "siruang",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "siruang",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	reservationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "siruang",
			Name:      "reservation_decisions_total",
			Help:      "Reservation status transitions by resulting status.",
		},
		[]string{"status"},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "siruang",
			Name:      "reservation_conflicts_total",
			Help:      "Reservation creation attempts rejected for overlap.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, reservationDecisions, reservationConflicts)
	})
}

// ObserveHTTP records one handled request.
func ObserveHTTP(endpoint, status string, dur time.Duration) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
	httpDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// IncDecision increments the transition counter for a resulting status.
func IncDecision(status string) {
	reservationDecisions.WithLabelValues(status).Inc()
}

// IncConflict increments the conflict counter.
func IncConflict() {
	reservationConflicts.Inc()
}
