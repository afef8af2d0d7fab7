package logger

import (
	"fmt"
	"sync"
)

// TestLogEntry is one captured log call.
type TestLogEntry struct {
	Severity string
	Message  string
}

// TestLogger captures log entries in memory for test assertions.
type TestLogger struct {
	mu       sync.Mutex
	entries  []TestLogEntry
	prefix   string
	metadata map[string]interface{}
}

var _ Logger = (*TestLogger)(nil)

// NewTestLogger returns a Logger that records every call.
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

// Entries returns a copy of everything logged so far.
func (t *TestLogger) Entries() []TestLogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TestLogEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *TestLogger) With(metadata map[string]interface{}) Logger {
	return t
}

func (t *TestLogger) WithPrefix(prefix string) Logger {
	return t
}

func (t *TestLogger) record(severity, msg string, args ...interface{}) {
	t.mu.Lock()
	t.entries = append(t.entries, TestLogEntry{Severity: severity, Message: fmt.Sprintf(msg, args...)})
	t.mu.Unlock()
}

func (t *TestLogger) Trace(msg string, args ...interface{}) { t.record("TRACE", msg, args...) }
func (t *TestLogger) Debug(msg string, args ...interface{}) { t.record("DEBUG", msg, args...) }
func (t *TestLogger) Info(msg string, args ...interface{})  { t.record("INFO", msg, args...) }
func (t *TestLogger) Warn(msg string, args ...interface{})  { t.record("WARN", msg, args...) }
func (t *TestLogger) Error(msg string, args ...interface{}) { t.record("ERROR", msg, args...) }
