package check

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures forwarded messages for assertions.
type recordingSink struct {
	levels   []Level
	messages []string
}

func (rs *recordingSink) Log(level Level, msg string) {
	rs.levels = append(rs.levels, level)
	rs.messages = append(rs.messages, msg)
}

func TestLoggerForwardsToSink(t *testing.T) {
	sink := &recordingSink{}
	logger := NewLogger(sink)

	logger.Critical("c")
	logger.Error("e")
	logger.Warning("w")
	logger.Debug("d")
	logger.Trace("t")
	logger.Info("i")

	assert.Equal(t, []Level{LevelCrit, LevelErr, LevelWarning, LevelDebug, LevelTrace, LevelInformation}, sink.levels)
	assert.Equal(t, []string{"c", "e", "w", "d", "t", "i"}, sink.messages)
}

func TestLoggerFallbackRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerWithOutput(nil, &out, &errOut)

	logger.Info("user facing")
	logger.Critical("crit")
	logger.Error("err")
	logger.Warning("warn")
	logger.Debug("dropped")
	logger.Trace("dropped too")

	assert.Equal(t, "user facing\n", out.String())
	assert.Equal(t, "crit\nerr\nwarn\n", errOut.String())
}

func TestLoggerFallbackDropsDebugAndTrace(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerWithOutput(nil, &out, &errOut)

	logger.Debug("nothing")
	logger.Trace("nothing")

	assert.Zero(t, out.Len())
	assert.Zero(t, errOut.Len())
}

func TestLevelOrdering(t *testing.T) {
	// Severity ordering drives the fallback routing rule: anything at or
	// below warning goes to stderr.
	assert.Less(t, int(LevelCrit), int(LevelErr))
	assert.Less(t, int(LevelErr), int(LevelWarning))
	assert.Less(t, int(LevelWarning), int(LevelDebug))
	assert.Less(t, int(LevelDebug), int(LevelTrace))
	assert.Equal(t, 127, int(LevelInformation))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "critical", LevelCrit.String())
	assert.Equal(t, "error", LevelErr.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "trace", LevelTrace.String())
	assert.Equal(t, "information", LevelInformation.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestSlogSinkMapsLevels(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	sink := NewSlogSink(slog.New(handler))

	sink.Log(LevelCrit, "critical message")
	sink.Log(LevelWarning, "warning message")
	sink.Log(LevelInformation, "info message")
	sink.Log(LevelTrace, "trace message")

	logged := buf.String()
	require.NotEmpty(t, logged)
	assert.Contains(t, logged, "level=ERROR")
	assert.Contains(t, logged, "level=WARN")
	assert.Contains(t, logged, "level=INFO")
	assert.Contains(t, logged, "level=DEBUG")
}

func TestSlogSinkNilLoggerIsSafe(t *testing.T) {
	sink := NewSlogSink(nil)
	assert.NotPanics(t, func() { sink.Log(LevelErr, "message") })
}
