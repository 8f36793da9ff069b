package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"catadder/internal/errors"

	"github.com/sirupsen/logrus"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a structured key/value attached to a log line
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log lines through logrus
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends log lines to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log lines to the named file
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// NewLogger creates a logger. Without options it writes text to stdout.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(o.out, f)
		} else {
			fmt.Fprintf(o.out, "could not open log file %s: %v\n", o.file, err)
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timeLayout,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		base.SetFormatter(&textFormatter{})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug enables or disables debug output for every logger
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// With returns a logger that adds fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithContext attaches ctx to subsequent entries
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

func (l *Logger) Info(msg string) { l.log(2, logrus.InfoLevel, msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.log(2, logrus.InfoLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Warn(msg string) { l.log(2, logrus.WarnLevel, msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(2, logrus.WarnLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(msg string) { l.log(2, logrus.ErrorLevel, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(2, logrus.ErrorLevel, fmt.Sprintf(format, args...)) }

// Debug logs only when debug output is enabled
func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.log(2, logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message only when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.log(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) log(skip int, level logrus.Level, msg string) {
	entry := l.entry
	if _, file, line, ok := runtime.Caller(skip); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

// Package-level helpers write through the configured logger.

func Info(msg string) { logger.log(2, logrus.InfoLevel, msg) }
func Infof(format string, args ...interface{}) { logger.log(2, logrus.InfoLevel, fmt.Sprintf(format, args...)) }
func Warn(msg string) { logger.log(2, logrus.WarnLevel, msg) }
func Warnf(format string, args ...interface{}) { logger.log(2, logrus.WarnLevel, fmt.Sprintf(format, args...)) }
func Error(msg string) { logger.log(2, logrus.ErrorLevel, msg) }
func Errorf(format string, args ...interface{}) { logger.log(2, logrus.ErrorLevel, fmt.Sprintf(format, args...)) }

// Debug logs a message when debug output is enabled
func Debug(msg string) {
	if isDebug.Load() {
		logger.log(2, logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		logger.log(2, logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger annotated with err and, for
// application errors, its kind and subject.
func LogWithError(err error) *Logger {
	fields := []Field{F("error", err)}
	if err == nil {
		return logger.With(fields...)
	}
	fields = append(fields, F("error_kind", int(errors.KindOf(err))))

	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	var catErr *errors.CatalogError
	switch {
	case errors.As(err, &catErr):
		fields = append(fields, F("location", catErr.Location()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("path", fileErr.Path()))
	case errors.As(err, &configErr):
		fields = append(fields, F("param", configErr.Param()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	LogWithError(err).log(2, logrus.ErrorLevel, msg)
}

// textFormatter renders "[time] LEVEL: message key=value ..."
type textFormatter struct{}

func (f *textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := strings.ToUpper(e.Level.String())
	if e.Level == logrus.WarnLevel {
		level = "WARN"
	}
	fmt.Fprintf(&b, "[%s] %s: %s", e.Time.Format(timeLayout), level, e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
