package check

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Level represents the severity of a log message forwarded to the host
// agent. Values mirror the host agent's log levels: lower is more severe,
// with Information out of band for always-shown user-facing output.
type Level int

// Host agent log levels.
const (
	LevelCrit        Level = 1
	LevelErr         Level = 2
	LevelWarning     Level = 3
	LevelDebug       Level = 4
	LevelTrace       Level = 5
	LevelInformation Level = 127
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelCrit:
		return "critical"
	case LevelErr:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	case LevelInformation:
		return "information"
	default:
		return "unknown"
	}
}

// Sink receives leveled log messages on behalf of the host agent process.
// Implementations must not fail; delivery problems are handled inside the
// sink.
type Sink interface {
	Log(level Level, msg string)
}

// Logger is the logging facade check providers rely on for diagnostics. It
// forwards every message to the host-supplied sink when one was configured
// at process start. Without a sink it degrades to console output:
// Information goes to stdout, Warning and more severe go to stderr, and
// Debug/Trace are dropped. The sink selection is decided once at
// construction and is not reconfigurable afterward.
type Logger struct {
	sink   Sink
	out    io.Writer
	errOut io.Writer
}

// NewLogger creates a logging facade forwarding to sink. A nil sink selects
// the console fallback.
func NewLogger(sink Sink) *Logger {
	return NewLoggerWithOutput(sink, os.Stdout, os.Stderr)
}

// NewLoggerWithOutput creates a logging facade with explicit fallback
// writers. Used by tests and by hosts that redirect console output.
func NewLoggerWithOutput(sink Sink, out, errOut io.Writer) *Logger {
	return &Logger{sink: sink, out: out, errOut: errOut}
}

// Log forwards a leveled message. It never fails and has no side effects
// beyond the write.
func (l *Logger) Log(level Level, msg string) {
	if l.sink != nil {
		l.sink.Log(level, msg)
		return
	}

	switch {
	case level == LevelInformation:
		fmt.Fprintln(l.out, msg)
	case level <= LevelWarning:
		fmt.Fprintln(l.errOut, msg)
	}
	// Debug and Trace are dropped in fallback mode.
}

// Info logs an always-shown informational message.
func (l *Logger) Info(msg string) { l.Log(LevelInformation, msg) }

// Trace logs a trace-level message.
func (l *Logger) Trace(msg string) { l.Log(LevelTrace, msg) }

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string) { l.Log(LevelDebug, msg) }

// Warning logs a warning-level message.
func (l *Logger) Warning(msg string) { l.Log(LevelWarning, msg) }

// Error logs an error-level message.
func (l *Logger) Error(msg string) { l.Log(LevelErr, msg) }

// Critical logs a critical-level message.
func (l *Logger) Critical(msg string) { l.Log(LevelCrit, msg) }

// SlogSink adapts a slog.Logger into a host log sink, for hosts that route
// provider diagnostics into their own structured logging.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps logger as a Sink.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Log forwards the message at the closest slog level.
func (s *SlogSink) Log(level Level, msg string) {
	if s.logger == nil {
		return
	}
	switch level {
	case LevelCrit, LevelErr:
		s.logger.Error(msg, "severity", int(level))
	case LevelWarning:
		s.logger.Warn(msg, "severity", int(level))
	case LevelInformation:
		s.logger.Info(msg, "severity", int(level))
	default:
		s.logger.Debug(msg, "severity", int(level))
	}
}
