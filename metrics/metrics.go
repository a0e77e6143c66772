package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ranks",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ranks",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	promotions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ranks",
			Subsystem: "progression",
			Name:      "promotions_total",
			Help:      "Promotion attempts by outcome.",
		},
		[]string{"outcome"},
	)

	notificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ranks",
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Notifications persisted, by type.",
		},
		[]string{"type"},
	)

	metadataFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ranks",
			Subsystem: "notifications",
			Name:      "metadata_fallbacks_total",
			Help:      "Notification metadata that could not be encoded and used the fallback payload.",
		},
	)

	notificationsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ranks",
			Subsystem: "notifications",
			Name:      "purged_total",
			Help:      "Read notifications removed by the retention sweep.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		promotions,
		notificationsCreated,
		metadataFallbacks,
		notificationsPurged,
	)
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPromotion counts a promotion attempt; outcome is "promoted" or an error code.
func RecordPromotion(outcome string) {
	promotions.WithLabelValues(outcome).Inc()
}

func RecordNotification(notificationType string) {
	notificationsCreated.WithLabelValues(notificationType).Inc()
}

func RecordMetadataFallback() {
	metadataFallbacks.Inc()
}

func RecordPurged(n int64) {
	if n > 0 {
		notificationsPurged.Add(float64(n))
	}
}
