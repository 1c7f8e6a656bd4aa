package audiocore

import (
	"sync/atomic"
	"time"

	verrors "github.com/valib-go/valib/internal/errors"
	"github.com/valib-go/valib/internal/observability/metrics"
)

// globalRecorder is the metrics.Recorder every Graph/Filter reports
// through. Defaults to a no-op so the library stays silent until a host
// opts in (mirrors internal/errors' reporter pattern).
var globalRecorder atomic.Pointer[metrics.Recorder]

// SetRecorder installs the process-wide metrics recorder. Pass nil to
// revert to the no-op recorder.
func SetRecorder(r metrics.Recorder) {
	if r == nil {
		r = metrics.NoOpRecorder{}
	}
	globalRecorder.Store(&r)
}

// Recorder returns the currently installed recorder, defaulting to a no-op.
func Recorder() metrics.Recorder {
	if p := globalRecorder.Load(); p != nil {
		return *p
	}
	return metrics.NoOpRecorder{}
}

// RecordProcess wraps a node's Process call with duration/error metrics,
// tagged by filter name — called from Graph.Process.
func RecordProcess(filterName string, start time.Time, err error) {
	r := Recorder()
	r.RecordDuration("process:"+filterName, time.Since(start).Seconds())
	if err != nil {
		r.RecordError("process:"+filterName, classifyError(err))
		return
	}
	r.RecordOperation("process:"+filterName, "success")
}

func classifyError(err error) string {
	if c, ok := err.(verrors.CategorizedError); ok {
		return string(c.ErrorCategory())
	}
	return "error"
}
