package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, LogLevelWarn, nil)

	l.Debug("should be dropped")
	assert.Empty(t, buf.String())

	l.Warn("should appear")
	assert.Contains(t, buf.String(), "should appear")
	assert.Contains(t, buf.String(), "WARN")
}

func TestLoggerModuleScoping(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, LogLevelInfo, nil).Module("analyzer").Module("ai")

	l.Info("ready")
	require.Contains(t, buf.String(), "[analyzer.ai]")
}

func TestLoggerWithAccumulatesFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewSlogLogger(&buf, LogLevelInfo, nil).With(String("request_id", "req-1"))
	base.Info("processing", Int("count", 3))

	line := buf.String()
	assert.True(t, strings.Contains(line, "request_id=req-1"))
	assert.True(t, strings.Contains(line, "count=3"))
}

func TestLoggerFieldConstructors(t *testing.T) {
	assert.Equal(t, "k=v", String("k", "v").String())
	assert.Equal(t, "n=5", Int("n", 5).String())
	assert.Equal(t, "error=EOF", Error(assertErrEOF{}).String())
}

type assertErrEOF struct{}

func (assertErrEOF) Error() string { return "EOF" }
