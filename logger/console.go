package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

type consoleLogger struct {
	level    LogLevel
	sink     io.Writer
	prefix   string
	metadata map[string]interface{}
}

var _ Logger = (*consoleLogger)(nil)

// NewConsole returns a Logger that writes human-readable lines to stderr.
func NewConsole(level LogLevel) Logger {
	return &consoleLogger{level: level, sink: os.Stderr}
}

// NewConsoleWithSink returns a console Logger writing to sink.
func NewConsoleWithSink(level LogLevel, sink io.Writer) Logger {
	return &consoleLogger{level: level, sink: sink}
}

func (c *consoleLogger) With(metadata map[string]interface{}) Logger {
	return &consoleLogger{
		level:    c.level,
		sink:     c.sink,
		prefix:   c.prefix,
		metadata: mergeMetadata(c.metadata, metadata),
	}
}

func (c *consoleLogger) WithPrefix(prefix string) Logger {
	p := prefix
	if c.prefix != "" {
		p = c.prefix + " " + prefix
	}
	return &consoleLogger{level: c.level, sink: c.sink, prefix: p, metadata: c.metadata}
}

func (c *consoleLogger) log(level LogLevel, severity, msg string, args ...interface{}) {
	if level < c.level {
		return
	}
	line := fmt.Sprintf(msg, args...)
	if c.prefix != "" {
		line = c.prefix + " " + line
	}
	if len(c.metadata) > 0 {
		keys := make([]string, 0, len(c.metadata))
		for k := range c.metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, c.metadata[k]))
		}
		line = line + " " + strings.Join(pairs, " ")
	}
	fmt.Fprintf(c.sink, "%s [%s] %s\n", time.Now().Format(time.RFC3339), severity, line)
}

func (c *consoleLogger) Trace(msg string, args ...interface{}) {
	c.log(LevelTrace, "TRACE", msg, args...)
}

func (c *consoleLogger) Debug(msg string, args ...interface{}) {
	c.log(LevelDebug, "DEBUG", msg, args...)
}

func (c *consoleLogger) Info(msg string, args ...interface{}) {
	c.log(LevelInfo, "INFO", msg, args...)
}

func (c *consoleLogger) Warn(msg string, args ...interface{}) {
	c.log(LevelWarn, "WARN", msg, args...)
}

func (c *consoleLogger) Error(msg string, args ...interface{}) {
	c.log(LevelError, "ERROR", msg, args...)
}
