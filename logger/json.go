package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// JSONLogEntry defines a log entry, modeled after the JSON format expected
// by Cloud Logging.
type JSONLogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Severity  string                 `json:"severity"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type jsonLogger struct {
	level    LogLevel
	sink     io.Writer
	mu       *sync.Mutex
	prefix   string
	metadata map[string]interface{}
}

var _ Logger = (*jsonLogger)(nil)

// NewJSON returns a Logger that writes one JSON object per line to sink.
func NewJSON(level LogLevel, sink io.Writer) Logger {
	return &jsonLogger{level: level, sink: sink, mu: &sync.Mutex{}}
}

func (j *jsonLogger) With(metadata map[string]interface{}) Logger {
	return &jsonLogger{
		level:    j.level,
		sink:     j.sink,
		mu:       j.mu,
		prefix:   j.prefix,
		metadata: mergeMetadata(j.metadata, metadata),
	}
}

func (j *jsonLogger) WithPrefix(prefix string) Logger {
	p := prefix
	if j.prefix != "" {
		p = j.prefix + " " + prefix
	}
	return &jsonLogger{level: j.level, sink: j.sink, mu: j.mu, prefix: p, metadata: j.metadata}
}

func (j *jsonLogger) log(level LogLevel, severity, msg string, args ...interface{}) {
	if level < j.level {
		return
	}
	message := fmt.Sprintf(msg, args...)
	if j.prefix != "" {
		message = j.prefix + " " + message
	}
	entry := JSONLogEntry{
		Timestamp: time.Now(),
		Severity:  severity,
		Message:   message,
		Metadata:  j.metadata,
	}
	buf, err := json.Marshal(entry)
	if err != nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sink.Write(append(buf, '\n'))
}

func (j *jsonLogger) Trace(msg string, args ...interface{}) {
	j.log(LevelTrace, "TRACE", msg, args...)
}

func (j *jsonLogger) Debug(msg string, args ...interface{}) {
	j.log(LevelDebug, "DEBUG", msg, args...)
}

func (j *jsonLogger) Info(msg string, args ...interface{}) {
	j.log(LevelInfo, "INFO", msg, args...)
}

func (j *jsonLogger) Warn(msg string, args ...interface{}) {
	j.log(LevelWarn, "WARNING", msg, args...)
}

func (j *jsonLogger) Error(msg string, args ...interface{}) {
	j.log(LevelError, "ERROR", msg, args...)
}
