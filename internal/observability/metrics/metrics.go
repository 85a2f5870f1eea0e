package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics exposes counters and histograms for engine operations.
// A nil *SchedulerMetrics is valid and records nothing.
type SchedulerMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	active     prometheus.Gauge
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "operations_total",
			Help:      "Scheduling engine operations by outcome",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "operation_duration_seconds",
			Help:      "Latency of scheduling engine operations",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"op"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "active_appointments",
			Help:      "Appointments currently on the calendar",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operations, m.latency, m.active)
	return m
}

func (m *SchedulerMetrics) ObserveOperation(op, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(seconds)
}

func (m *SchedulerMetrics) SetActiveAppointments(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}
