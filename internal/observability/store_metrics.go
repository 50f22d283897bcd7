package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics tracks state store round-trips per backend.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	version    prometheus.Gauge
}

// NewStoreMetrics registers the store collectors on reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &StoreMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teacherbot",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "State store operations by backend and operation",
		}, []string{"backend", "op"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teacherbot",
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Failed state store operations by backend and operation",
		}, []string{"backend", "op"}),
		version: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "teacherbot",
			Subsystem: "state",
			Name:      "version",
			Help:      "Version of the most recently saved state blob",
		}),
	}
}

// Observe records one store operation.
func (m *StoreMetrics) Observe(backend, op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(backend, op).Inc()
	if err != nil {
		m.failures.WithLabelValues(backend, op).Inc()
	}
}

// SetVersion publishes the saved state version.
func (m *StoreMetrics) SetVersion(version int64) {
	if m == nil {
		return
	}
	m.version.Set(float64(version))
}
