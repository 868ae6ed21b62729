package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"dlsort/internal/errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	mu     sync.RWMutex
	logger = NewLogger()
)

// Field is a structured key/value attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes levelled, structured entries through zap
type Logger struct {
	z    *zap.Logger
	file *os.File
}

type options struct {
	out   io.Writer
	json  bool
	file  string
	level string
	core  zapcore.Core
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends entries to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to the JSON encoder
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile appends entries to path in addition to the output writer
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the shared minimum level (debug, info, warn, error)
func WithLevel(name string) Option {
	return func(o *options) { o.level = name }
}

// WithCore bypasses the encoder setup; used by tests with zaptest/observer
func WithCore(core zapcore.Core) Option {
	return func(o *options) { o.core = core }
}

// NewLogger creates a logger. Without options it writes console-encoded
// entries to stdout.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(o.level))); err == nil {
			level.SetLevel(lvl)
		}
	}

	l := &Logger{}
	core := o.core
	if core == nil {
		encCfg := zapcore.EncoderConfig{
			TimeKey:          "timestamp",
			LevelKey:         "level",
			MessageKey:       "message",
			CallerKey:        "caller",
			EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		}
		var enc zapcore.Encoder
		if o.json {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}

		sink := zapcore.AddSync(o.out)
		if o.file != "" {
			f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", o.file, err)
			} else {
				l.file = f
				sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(f))
			}
		}
		core = zapcore.NewCore(enc, zapcore.Lock(sink), level)
	}

	l.z = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	return l
}

// Configure replaces the package logger
func Configure(opts ...Option) {
	next := NewLogger(opts...)
	mu.Lock()
	prev := logger
	logger = next
	mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// Zap exposes the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.z.WithOptions(zap.AddCallerSkip(-2))
}

// With returns a child logger carrying fields
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{z: l.z.With(zapFields(fields)...)}
}

// Close flushes buffered entries and releases the log file
func (l *Logger) Close() {
	_ = l.z.Sync()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.write(zapcore.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.write(zapcore.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.write(zapcore.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.write(zapcore.ErrorLevel, msg, args) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(zapcore.DebugLevel, format, args)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(zapcore.InfoLevel, format, args)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(zapcore.WarnLevel, format, args)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(zapcore.ErrorLevel, format, args)
}

func (l *Logger) write(lvl zapcore.Level, msg string, args []interface{}) {
	ce := l.z.Check(lvl, "")
	if ce == nil {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	ce.Message = msg
	ce.Write()
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.String(f.Key, err.Error()))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Default returns the package logger
func Default() *Logger {
	return current()
}

func Debug(msg string, args ...interface{}) { current().write(zapcore.DebugLevel, msg, args) }
func Info(msg string, args ...interface{})  { current().write(zapcore.InfoLevel, msg, args) }
func Warn(msg string, args ...interface{})  { current().write(zapcore.WarnLevel, msg, args) }
func Error(msg string, args ...interface{}) { current().write(zapcore.ErrorLevel, msg, args) }

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	current().write(zapcore.DebugLevel, format, args)
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	current().write(zapcore.InfoLevel, format, args)
}

// Warnf logs a formatted warning
func Warnf(format string, args ...interface{}) {
	current().write(zapcore.WarnLevel, format, args)
}

// Errorf logs a formatted error
func Errorf(format string, args ...interface{}) {
	current().write(zapcore.ErrorLevel, format, args)
}

// LogWithFields returns the package logger carrying fields
func LogWithFields(fields ...Field) *Logger {
	return current().With(fields...)
}

// LogWithError returns the package logger carrying err plus the kind and
// subject of typed application errors.
func LogWithError(err error) *Logger {
	if err == nil {
		return current().With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error()), F("error_kind", errors.KindOf(err).String())}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	var catErr *errors.CategoryError
	if errors.As(err, &catErr) && catErr.Category() != "" {
		fields = append(fields, F("category", catErr.Category()))
	}
	return current().With(fields...)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}
