// Package logger provides a simple logging interface for resourcelight components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// FileLogger writes JSON lines to a log file through zap.
type FileLogger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// NewFileLogger opens (or creates) path in append mode and returns a logger
// writing one JSON object per line with "level", "ts" and "msg" keys.
// A leading "~/" in path is expanded to the user's home directory.
// Debug messages are only written when debug is true.
func NewFileLogger(path string, debug bool) (*FileLogger, error) {
	resolved, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(resolved); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(resolved, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", resolved, err)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	return &FileLogger{
		sugar: newJSONLogger(zapcore.AddSync(f), level).Sugar(),
		file:  f,
	}, nil
}

func newJSONLogger(ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.LevelKey = "level"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.CallerKey = ""
	encCfg.StacktraceKey = ""

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

func (l *FileLogger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *FileLogger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *FileLogger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *FileLogger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Close flushes buffered entries and closes the underlying file.
func (l *FileLogger) Close() error {
	_ = l.sugar.Sync()
	return l.file.Close()
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// noopLogger implements Logger but discards all messages.
// Useful for testing or when logging is not desired.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// Switch forwards to an underlying logger only while enabled. The
// underlying logger is opened lazily the first time the switch is on, so a
// disabled switch never touches the log file.
type Switch struct {
	enabled atomic.Bool

	mu     sync.Mutex
	open   func() (Logger, error)
	target Logger
	err    error
}

// NewSwitch returns a Switch that obtains its target from open.
func NewSwitch(open func() (Logger, error), enabled bool) *Switch {
	s := &Switch{open: open}
	s.enabled.Store(enabled)
	return s
}

// Enabled reports whether messages are currently forwarded.
func (s *Switch) Enabled() bool {
	return s.enabled.Load()
}

// SetEnabled turns forwarding on or off.
func (s *Switch) SetEnabled(on bool) {
	s.enabled.Store(on)
}

// Toggle flips the switch and returns the new state.
func (s *Switch) Toggle() bool {
	for {
		cur := s.enabled.Load()
		if s.enabled.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Err returns the error from opening the target, if any.
func (s *Switch) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close closes the target if it was opened and supports closing.
func (s *Switch) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.target.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (s *Switch) get() Logger {
	if !s.enabled.Load() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil && s.err == nil {
		if s.open == nil {
			s.target = Noop()
		} else if l, err := s.open(); err != nil {
			// Stays disabled for good; a typed nil from open must not leak.
			s.err = err
		} else {
			s.target = l
		}
	}
	return s.target
}

func (s *Switch) Debug(format string, args ...interface{}) {
	if l := s.get(); l != nil {
		l.Debug(format, args...)
	}
}

func (s *Switch) Info(format string, args ...interface{}) {
	if l := s.get(); l != nil {
		l.Info(format, args...)
	}
}

func (s *Switch) Warn(format string, args ...interface{}) {
	if l := s.get(); l != nil {
		l.Warn(format, args...)
	}
}

func (s *Switch) Error(format string, args ...interface{}) {
	if l := s.get(); l != nil {
		l.Error(format, args...)
	}
}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing. Safe for concurrent use.
type BufferLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
// Useful for testing that code logs expected messages.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// Messages returns a copy of the captured messages.
func (l *BufferLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages() {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any message at level contains substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	for _, m := range l.Messages() {
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
	l.messages = l.messages[:0]
}
