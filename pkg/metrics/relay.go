package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics records outbox publisher outcomes.
type RelayMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewRelayMetrics registers the relay metrics on the provided registerer.
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	if reg == nil {
		return &RelayMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events published to the broker, by event type.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox publish attempts that failed, by event type.",
	}, []string{"event_type"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(published, failed, duration)
	return &RelayMetrics{
		published: published,
		failed:    failed,
		duration:  duration,
	}
}

// IncPublished counts a successfully published event.
func (r *RelayMetrics) IncPublished(eventType string) {
	if r == nil || r.published == nil {
		return
	}
	r.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed counts a failed publish attempt.
func (r *RelayMetrics) IncFailed(eventType string) {
	if r == nil || r.failed == nil {
		return
	}
	r.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObserveBatchDuration records how long a publish batch took.
func (r *RelayMetrics) ObserveBatchDuration(duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.Observe(duration.Seconds())
}
