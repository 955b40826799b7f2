package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt outcomes recorded on the transitions counter.
const (
	OutcomeCommitted   = "committed"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
	OutcomeErrorRouted = "error_routed"
)

// Collector records transition attempts as Prometheus metrics.
type Collector struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fsmkit",
			Name:      "transition_attempts_total",
			Help:      "Transition attempts by field, transition name, and outcome.",
		}, []string{"field", "transition", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fsmkit",
			Name:      "transition_duration_seconds",
			Help:      "Wall time of transition attempts, gate check through commit.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"field", "transition"}),
	}
	reg.MustRegister(c.attempts, c.duration)
	return c
}

// Observe records one attempt. Safe on a nil collector.
func (c *Collector) Observe(field, transition, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(field, transition, outcome).Inc()
	c.duration.WithLabelValues(field, transition).Observe(elapsed.Seconds())
}
