// Package logger is the leveled logger behind pst's process sources, Docker
// resolver and renderers.
//
// Lines go through the standard log package to stderr, never stdout, so
// they cannot interleave with the process table. Debug lines appear only
// when PST_DEBUG is set. While watch mode owns the terminal, log output is
// redirected to DebugFile().
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// DebugEnv names the environment variable that turns on debug output.
const DebugEnv = "PST_DEBUG"

// DebugEnabled reports whether PST_DEBUG is set.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// DebugFile is where watch mode sends log output.
func DebugFile() string {
	return filepath.Join(os.TempDir(), "pst-debug.log")
}

// envLogger writes through the standard log package, tagged with a
// component prefix such as "[proc]".
type envLogger struct {
	prefix string
}

// NewEnvLogger creates a logger that respects the PST_DEBUG environment variable.
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) logf(level Level, format string, args ...interface{}) {
	if level == LevelDebug && !DebugEnabled() {
		return
	}
	tag := l.prefix
	if level >= LevelWarn {
		tag += " " + strings.ToUpper(level.String()) + ":"
	}
	log.Printf(tag+" "+format, args...)
}

func (l *envLogger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *envLogger) Info(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *envLogger) Warn(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *envLogger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

// noopLogger discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for test assertions. It is safe to
// share between the watch loop and the goroutines collecting its frames.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) record(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level.String(), Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.record(LevelDebug, format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.record(LevelInfo, format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.record(LevelWarn, format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.record(LevelError, format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains reports whether a message at level contains substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

var defaultLogger = NewEnvLogger("[pst]")

// Default returns the package-level logger, tagged "[pst]" unless replaced.
func Default() Logger {
	return defaultLogger
}

// SetDefault replaces the package-level logger, typically with a
// BufferLogger in tests.
func SetDefault(l Logger) {
	defaultLogger = l
}

// Named returns an env logger tagged with the given component, e.g.
// Named("proc") logs "[proc] ...". When the default logger has been
// replaced, Named returns that logger so captured output stays in one place.
func Named(component string) Logger {
	if _, ok := defaultLogger.(*envLogger); !ok {
		return defaultLogger
	}
	return NewEnvLogger("[" + component + "]")
}
