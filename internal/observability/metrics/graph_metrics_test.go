package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGraphMetricsRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewGraphMetrics(reg)
	require.NoError(t, err)

	m.RecordOperation("process:gain", "success")
	m.RecordOperation("process:gain", "success")
	m.RecordOperation("process:gain", "error")

	require.Equal(t, float64(2), testutil.ToFloat64(m.operationsTotal.WithLabelValues("process:gain", "success")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.operationsTotal.WithLabelValues("process:gain", "error")))
}

func TestGraphMetricsRecordError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewGraphMetrics(reg)
	require.NoError(t, err)

	m.RecordError("process:resample", "open")
	require.Equal(t, float64(1), testutil.ToFloat64(m.errorsTotal.WithLabelValues("process:resample", "open")))
}

func TestGraphMetricsRecordDurationObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewGraphMetrics(reg)
	require.NoError(t, err)

	m.RecordDuration("process:mixer", 0.002)
	m.RecordDuration("process:mixer", 0.004)
	require.Equal(t, 1, testutil.CollectAndCount(m.durationSeconds))
}

func TestNewGraphMetricsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewGraphMetrics(reg)
	require.NoError(t, err)

	_, err = NewGraphMetrics(reg)
	require.Error(t, err, "registering the same metric families twice must fail")
}
