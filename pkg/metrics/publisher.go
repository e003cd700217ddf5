package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublisherMetrics records outcomes for the outbox publisher loop.
type PublisherMetrics struct {
	batchDuration *prometheus.HistogramVec
	published     *prometheus.CounterVec
	failed        *prometheus.CounterVec
	backlog       prometheus.Gauge
}

// NewPublisherMetrics registers the publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	batchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
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
	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_backlog",
		Help: "Unpublished outbox events seen in the last poll.",
	})
	reg.MustRegister(batchDuration, published, failed, backlog)
	return &PublisherMetrics{
		batchDuration: batchDuration,
		published:     published,
		failed:        failed,
		backlog:       backlog,
	}
}

// ObserveBatch records the duration of a publish batch for the topic.
func (p *PublisherMetrics) ObserveBatch(topic string, duration time.Duration) {
	if p == nil || p.batchDuration == nil {
		return
	}
	p.batchDuration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncPublished increments the published counter for the topic.
func (p *PublisherMetrics) IncPublished(topic string) {
	if p == nil || p.published == nil {
		return
	}
	p.published.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailed increments the failure counter for the topic.
func (p *PublisherMetrics) IncFailed(topic string) {
	if p == nil || p.failed == nil {
		return
	}
	p.failed.WithLabelValues(normalizeLabel(topic)).Inc()
}

// SetBacklog records the number of unpublished events seen in a poll.
func (p *PublisherMetrics) SetBacklog(count int) {
	if p == nil || p.backlog == nil {
		return
	}
	p.backlog.Set(float64(count))
}

func normalizeLabel(topic string) string {
	if topic == "" {
		return "unknown"
	}
	return topic
}
