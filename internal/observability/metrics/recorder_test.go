package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordOperation("prediction", "success")
	recorder.RecordOperation("prediction", "success")
	recorder.RecordOperation("prediction", "error")
	recorder.RecordOperation("model_load", "success")

	assert.Equal(t, 2, recorder.GetOperationCount("prediction", "success"))
	assert.Equal(t, 1, recorder.GetOperationCount("prediction", "error"))
	assert.Equal(t, 1, recorder.GetOperationCount("model_load", "success"))
	assert.Equal(t, 0, recorder.GetOperationCount("model_load", "error"))
}

func TestRecordDuration(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordDuration("prediction", 0.123)
	recorder.RecordDuration("prediction", 0.456)
	recorder.RecordDuration("chunk_process", 0.789)

	predDurations := recorder.GetDurations("prediction")
	require.Len(t, predDurations, 2)
	assert.InDelta(t, 0.123, predDurations[0], 0.01)
	assert.InDelta(t, 0.456, predDurations[1], 0.01)

	chunkDurations := recorder.GetDurations("chunk_process")
	require.Len(t, chunkDurations, 1)
	assert.InDelta(t, 0.789, chunkDurations[0], 0.01)

	assert.Nil(t, recorder.GetDurations("non_existent"))
}

func TestRecordError(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordError("prediction", "validation")
	recorder.RecordError("prediction", "validation")
	recorder.RecordError("prediction", "model_error")
	recorder.RecordError("db_query", "connection")

	assert.Equal(t, 2, recorder.GetErrorCount("prediction", "validation"))
	assert.Equal(t, 1, recorder.GetErrorCount("prediction", "model_error"))
	assert.Equal(t, 1, recorder.GetErrorCount("db_query", "connection"))
	assert.Equal(t, 0, recorder.GetErrorCount("db_query", "timeout"))
}

func TestRecorderThreadSafety(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	done := make(chan bool)
	const numGoroutines, opsPerGoroutine = 10, 100

	for range numGoroutines {
		go func() {
			for range opsPerGoroutine {
				recorder.RecordOperation("concurrent", "success")
				recorder.RecordDuration("concurrent", 0.001)
				recorder.RecordError("concurrent", "test")
			}
			done <- true
		}()
	}
	for range numGoroutines {
		<-done
	}

	expected := numGoroutines * opsPerGoroutine
	assert.Equal(t, expected, recorder.GetOperationCount("concurrent", "success"))
	assert.Len(t, recorder.GetDurations("concurrent"), expected)
	assert.Equal(t, expected, recorder.GetErrorCount("concurrent", "test"))
}

func TestGetAllOperations(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordOperation("op1", "success")
	recorder.RecordOperation("op1", "error")
	recorder.RecordOperation("op2", "success")

	all := recorder.GetAllOperations()
	assert.Len(t, all, 2)
	assert.Equal(t, 1, all["op1"]["success"])
	assert.Equal(t, 1, all["op1"]["error"])
	assert.Equal(t, 1, all["op2"]["success"])
}

func TestGetAllErrors(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	recorder.RecordError("op1", "type1")
	recorder.RecordError("op1", "type2")
	recorder.RecordError("op2", "type1")

	all := recorder.GetAllErrors()
	assert.Len(t, all, 2)
	assert.Equal(t, 1, all["op1"]["type1"])
	assert.Equal(t, 1, all["op1"]["type2"])
	assert.Equal(t, 1, all["op2"]["type1"])
}

func TestHasRecordedMetrics(t *testing.T) {
	t.Parallel()

	recorder := NewTestRecorder()
	assert.False(t, recorder.HasRecordedMetrics())

	recorder.RecordOperation("test", "success")
	assert.True(t, recorder.HasRecordedMetrics())

	recorder.Reset()
	assert.False(t, recorder.HasRecordedMetrics())

	recorder.RecordDuration("test", 0.1)
	assert.True(t, recorder.HasRecordedMetrics())

	recorder.Reset()
	recorder.RecordError("test", "error")
	assert.True(t, recorder.HasRecordedMetrics())
}

func TestNoOpRecorder(t *testing.T) {
	t.Parallel()

	var recorder Recorder = NoOpRecorder{}
	recorder.RecordOperation("test", "success")
	recorder.RecordDuration("test", 0.123)
	recorder.RecordError("test", "error")
}

func TestGraphMetricsImplementsRecorder(t *testing.T) {
	t.Parallel()
	var _ Recorder = (*GraphMetrics)(nil)
}

func TestRecorderUsageExample(t *testing.T) {
	type component struct {
		metrics Recorder
	}
	doWork := func(c *component, simulated time.Duration) error {
		defer c.metrics.RecordDuration("work", simulated.Seconds())
		c.metrics.RecordOperation("work", "success")
		return nil
	}

	testRecorder := NewTestRecorder()
	c := &component{metrics: testRecorder}
	simulated := 15 * time.Millisecond

	require.NoError(t, doWork(c, simulated))
	assert.Equal(t, 1, testRecorder.GetOperationCount("work", "success"))
	durations := testRecorder.GetDurations("work")
	require.Len(t, durations, 1)
	assert.InDelta(t, simulated.Seconds(), durations[0], 0.01)
}
