package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Fields represents structured logging fields.
type Fields map[string]any

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
}

// NewLogger builds a logger writing to w. Format "json" selects the JSON
// handler; anything else the text handler.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SetupLogger installs a stderr logger as the slog default.
func SetupLogger(level slog.Level, format string) {
	slog.SetDefault(NewLogger(os.Stderr, level, format))
}

// LogError logs an error with additional context.
func LogError(err error, msg string, fields Fields) {
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("error", err.Error()))
	attrs = append(attrs, fieldAttrs(fields)...)

	slog.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// LogInfo logs an info message with fields.
func LogInfo(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelInfo, msg, fieldAttrs(fields)...)
}

// LogDebug logs a debug message with fields.
func LogDebug(msg string, fields Fields) {
	slog.LogAttrs(context.Background(), slog.LevelDebug, msg, fieldAttrs(fields)...)
}

// fieldAttrs converts fields to attributes in key order.
func fieldAttrs(fields Fields) []slog.Attr {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}
