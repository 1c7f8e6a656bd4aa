package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GraphMetrics is the Prometheus-backed Recorder wired into a FilterGraph
// (audiocore.SetRecorder). One operationsTotal/errorsTotal counter vector and
// one durationSeconds histogram vector cover every filter's Process/Flush
// call, labeled by operation (filter name) and status/errorType.
type GraphMetrics struct {
	operationsTotal *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewGraphMetrics registers valib's metric families against reg and returns
// a Recorder backed by them.
func NewGraphMetrics(reg prometheus.Registerer) (*GraphMetrics, error) {
	m := &GraphMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "valib",
			Subsystem: "graph",
			Name:      "operations_total",
			Help:      "Count of filter operations by operation name and status.",
		}, []string{"operation", "status"}),
		durationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "valib",
			Subsystem: "graph",
			Name:      "operation_duration_seconds",
			Help:      "Duration of filter operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs .. ~42s
		}, []string{"operation"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "valib",
			Subsystem: "graph",
			Name:      "errors_total",
			Help:      "Count of filter operation errors by operation name and error type.",
		}, []string{"operation", "error_type"}),
	}

	for _, c := range []prometheus.Collector{m.operationsTotal, m.durationSeconds, m.errorsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *GraphMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

func (m *GraphMetrics) RecordDuration(operation string, seconds float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(seconds)
}

func (m *GraphMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}
