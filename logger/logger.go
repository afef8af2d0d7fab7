// Package logger provides the leveled, structured logger used across the
// caching layer. Console output is for interactive use; JSON output is
// shaped for log collectors. TestLogger captures entries for assertions.
package logger

import (
	"os"
	"strings"
)

// LogLevel defines the level of logging
type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// GetLevelFromEnv looks at SEARCHCACHE_LOG_LEVEL and converts it into the
// appropriate LogLevel. Unset or unrecognized values default to info.
func GetLevelFromEnv() LogLevel {
	switch strings.ToLower(os.Getenv("SEARCHCACHE_LOG_LEVEL")) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is an interface for logging
type Logger interface {
	// With will return a new logger using metadata as the base context
	With(metadata map[string]interface{}) Logger
	// WithPrefix will return a new logger with a prefix prepended to the message
	WithPrefix(prefix string) Logger
	// Trace level logging
	Trace(msg string, args ...interface{})
	// Debug level logging
	Debug(msg string, args ...interface{})
	// Info level logging
	Info(msg string, args ...interface{})
	// Warning level logging
	Warn(msg string, args ...interface{})
	// Error level logging
	Error(msg string, args ...interface{})
}

func mergeMetadata(base, extra map[string]interface{}) map[string]interface{} {
	if base == nil {
		return extra
	}
	kv := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		kv[k] = v
	}
	for k, v := range extra {
		kv[k] = v
	}
	return kv
}
