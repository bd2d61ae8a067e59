package natsclient

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/agentkit/check"
)

// LogEntry is the JSON payload published for each forwarded log message.
type LogEntry struct {
	Timestamp string `json:"timestamp"` // RFC3339 format
	Level     string `json:"level"`
	Severity  int    `json:"severity"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

// LogSink forwards agent log messages to NATS while mirroring them to the
// local structured logger. It implements check.Sink and never fails:
// delivery problems are logged locally and dropped.
type LogSink struct {
	client *Client
	prefix string
	source string
	logger *slog.Logger
}

// NewLogSink creates a sink publishing to "<prefix>.<source>".
func NewLogSink(client *Client, prefix, source string, logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{
		client: client,
		prefix: prefix,
		source: source,
		logger: logger,
	}
}

// Log implements check.Sink.
func (s *LogSink) Log(level check.Level, msg string) {
	s.mirror(level, msg)

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Severity:  int(level),
		Source:    s.source,
		Message:   msg,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("failed to marshal log entry", "error", err)
		return
	}

	subject := fmt.Sprintf("%s.%s", s.prefix, s.source)
	if err := s.client.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish log entry", "error", err, "subject", subject)
	}
}

// mirror writes the message to the local structured logger.
func (s *LogSink) mirror(level check.Level, msg string) {
	switch level {
	case check.LevelCrit, check.LevelErr:
		s.logger.Error(msg, "source", s.source)
	case check.LevelWarning:
		s.logger.Warn(msg, "source", s.source)
	case check.LevelInformation:
		s.logger.Info(msg, "source", s.source)
	default:
		s.logger.Debug(msg, "source", s.source)
	}
}
