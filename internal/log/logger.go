// Package log is the application logger. It keeps a small package-level API
// on top of logrus so call sites never import logrus directly.
package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var logger = NewLogger()

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus logger.
type Logger struct {
	entry *logrus.Entry
}

// Option configures a Logger.
type Option func(*logrus.Logger)

// WithOutput sets the writer log lines go to.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithLevel sets the minimum level.
func WithLevel(level logrus.Level) Option {
	return func(l *logrus.Logger) {
		l.SetLevel(level)
	}
}

// NewLogger creates a logger writing text lines to stderr at info level.
func NewLogger(opts ...Option) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	for _, opt := range opts {
		opt(l)
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	f := make(logrus.Fields, len(fields))
	for _, field := range fields {
		f[field.Key] = field.Value
	}
	return &Logger{entry: l.entry.WithFields(f)}
}

func (l *Logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// SetDebug toggles debug output on the package logger.
func SetDebug(debug bool) {
	if debug {
		logger.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.entry.Logger.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	logger.entry.Logger.SetOutput(w)
}

// ToFile points the package logger at path, creating parent directories.
// The returned closer must be closed on shutdown. If the file cannot be
// opened, logging is discarded and the error is returned.
func ToFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		SetOutput(io.Discard)
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		SetOutput(io.Discard)
		return nil, err
	}
	SetOutput(f)
	return f, nil
}

// DefaultFile is where logs go when no file is configured.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "scribble", "scribble.log")
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

func Debug(args ...interface{})                 { logger.Debug(args...) }
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Info(args ...interface{})                  { logger.Info(args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warn(args ...interface{})                  { logger.Warn(args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Error(args ...interface{})                 { logger.Error(args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
