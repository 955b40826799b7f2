package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRecordsAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Observe("status", "publish", OutcomeCommitted, 5*time.Millisecond)
	c.Observe("status", "publish", OutcomeCommitted, 7*time.Millisecond)
	c.Observe("status", "publish", OutcomeRejected, time.Millisecond)

	committed := c.attempts.WithLabelValues("status", "publish", OutcomeCommitted)
	assert.Equal(t, float64(2), testutil.ToFloat64(committed))

	rejected := c.attempts.WithLabelValues("status", "publish", OutcomeRejected)
	assert.Equal(t, float64(1), testutil.ToFloat64(rejected))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Observe("status", "publish", OutcomeFailed, time.Second)
	})
}
