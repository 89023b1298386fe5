package logging

import (
	"context"
	"fmt"
	"time"
)

// Logger provides logging functionality for simulation and gateway operations
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a no-op logger if not found
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// StdoutLogger prints one tagged line per call:
// [timestamp] [tag] LEVEL: message metadata
type StdoutLogger struct {
	tag string
}

// NewStdoutLogger creates a logger tagged with the emitting subsystem name
func NewStdoutLogger(tag string) *StdoutLogger {
	return &StdoutLogger{tag: tag}
}

func (l *StdoutLogger) Log(level, message string, metadata map[string]interface{}) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if len(metadata) == 0 {
		fmt.Printf("[%s] [%s] %s: %s\n", timestamp, l.tag, level, message)
		return
	}
	fmt.Printf("[%s] [%s] %s: %s %v\n", timestamp, l.tag, level, message, metadata)
}
