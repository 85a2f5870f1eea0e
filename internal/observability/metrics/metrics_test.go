package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSchedulerMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulerMetrics(reg)

	m.ObserveOperation("schedule", "ok", 0.001)
	m.ObserveOperation("schedule", "ok", 0.002)
	m.ObserveOperation("schedule", "provider_unavailable", 0.001)
	m.SetActiveAppointments(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("schedule", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("schedule", "provider_unavailable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.active))
}

func TestSchedulerMetricsNilSafe(t *testing.T) {
	var m *SchedulerMetrics
	m.ObserveOperation("cancel", "ok", 0.1)
	m.SetActiveAppointments(1)
}
