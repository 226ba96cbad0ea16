package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxPublisherMetrics records publish outcomes for the outbox worker.
type OutboxPublisherMetrics struct {
	pollDuration *prometheus.HistogramVec
	published    *prometheus.CounterVec
	failed       *prometheus.CounterVec
}

// NewOutboxPublisherMetrics registers the publisher metrics on the provided registerer.
func NewOutboxPublisherMetrics(reg prometheus.Registerer) *OutboxPublisherMetrics {
	if reg == nil {
		return &OutboxPublisherMetrics{}
	}
	pollDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_poll_duration_seconds",
		Help:    "Duration of outbox poll cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events published successfully.",
	}, []string{"topic"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_failed",
		Help: "Outbox events that failed to publish.",
	}, []string{"topic"})
	reg.MustRegister(pollDuration, published, failed)
	return &OutboxPublisherMetrics{
		pollDuration: pollDuration,
		published:    published,
		failed:       failed,
	}
}

// ObservePoll records the duration of one poll cycle for the named topic.
func (o *OutboxPublisherMetrics) ObservePoll(topic string, duration time.Duration) {
	if o == nil || o.pollDuration == nil {
		return
	}
	o.pollDuration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncPublished increments the published counter for the named topic.
func (o *OutboxPublisherMetrics) IncPublished(topic string) {
	if o == nil || o.published == nil {
		return
	}
	o.published.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailed increments the failure counter for the named topic.
func (o *OutboxPublisherMetrics) IncFailed(topic string) {
	if o == nil || o.failed == nil {
		return
	}
	o.failed.WithLabelValues(normalizeLabel(topic)).Inc()
}

func normalizeLabel(topic string) string {
	if topic == "" {
		return "unknown"
	}
	return topic
}
