package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogFormat selects how log entries are rendered.
type LogFormat string

const (
	// TextFormat renders key=value lines for terminals.
	TextFormat LogFormat = "text"
	// JSONFormat renders one JSON object per entry for log collectors.
	JSONFormat LogFormat = "json"
)

// ParseLogFormat parses a format name case-insensitively.
func ParseLogFormat(s string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(strings.TrimSpace(s))) {
	case TextFormat, "":
		return TextFormat, nil
	case JSONFormat:
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// NewLogger creates a structured logger writing to output. A nil output
// writes to stderr so that stdout stays free for diagnostics.
func NewLogger(level logrus.Level, format LogFormat, output io.Writer) *logrus.Logger {
	if output == nil {
		output = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetLevel(level)

	if format == JSONFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// contextKey is the type for context keys
type contextKey string

const (
	// SessionIDKey is the context key for the build check session id
	SessionIDKey contextKey = "session_id"
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
)

// WithSessionID adds a session id to the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionID retrieves the session id from context
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetLogger retrieves the logger from context, falling back to the standard logger.
func GetLogger(ctx context.Context) logrus.FieldLogger {
	if logger, ok := ctx.Value(LoggerKey).(logrus.FieldLogger); ok {
		return logger
	}
	return logrus.StandardLogger()
}

// FromContext returns the context logger annotated with the session id and
// the active trace, when present.
func FromContext(ctx context.Context) logrus.FieldLogger {
	logger := GetLogger(ctx)

	if id := GetSessionID(ctx); id != "" {
		logger = logger.WithField("session", id)
	}

	return LoggerWithTraceContext(ctx, logger)
}
