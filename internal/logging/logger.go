package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger is the logging surface used across the application.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	// WithPrefix returns a child logger whose lines carry prefix.
	WithPrefix(prefix string) Logger
	// WithFields returns a child logger that adds keyvals to every line.
	WithFields(keyvals ...interface{}) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// Options configures a Logger.
type Options struct {
	Level           Level
	Output          io.Writer
	TimeFormat      string
	Prefix          string
	NoColor         bool
	ReportTimestamp bool
}

// DefaultOptions returns console defaults: info level to stderr.
func DefaultOptions() Options {
	return Options{
		Level:      LevelInfo,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// FileOptions returns options for a log file: debug level, no color,
// full timestamps.
func FileOptions(w io.Writer) Options {
	return Options{
		Level:           LevelDebug,
		Output:          w,
		TimeFormat:      "2006-01-02 15:04:05",
		NoColor:         true,
		ReportTimestamp: true,
	}
}

type charmLogger struct {
	mu     sync.RWMutex
	impl   *log.Logger
	level  Level
	fields []interface{}
}

// New creates a Logger backed by charmbracelet/log.
func New(opts Options) Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	impl := log.NewWithOptions(opts.Output, log.Options{
		TimeFormat:      opts.TimeFormat,
		Level:           opts.Level.charm(),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
	})
	if opts.NoColor {
		impl.SetColorProfile(termenv.Ascii)
	}
	return &charmLogger{impl: impl, level: opts.Level}
}

// NewFileLogger appends to the file at path, creating it if needed.
// The returned closer releases the file.
func NewFileLogger(path string, level Level) (Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	opts := FileOptions(f)
	opts.Level = level
	return New(opts), f, nil
}

func (l *charmLogger) emit(level Level, fn func(interface{}, ...interface{}), msg string, keyvals []interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < l.level {
		return
	}
	kv := make([]interface{}, 0, len(l.fields)+len(keyvals))
	kv = append(kv, l.fields...)
	kv = append(kv, keyvals...)
	fn(msg, kv...)
}

func (l *charmLogger) Debug(msg string, keyvals ...interface{}) {
	l.emit(LevelDebug, l.impl.Debug, msg, keyvals)
}

func (l *charmLogger) Info(msg string, keyvals ...interface{}) {
	l.emit(LevelInfo, l.impl.Info, msg, keyvals)
}

func (l *charmLogger) Warn(msg string, keyvals ...interface{}) {
	l.emit(LevelWarn, l.impl.Warn, msg, keyvals)
}

func (l *charmLogger) Error(msg string, keyvals ...interface{}) {
	l.emit(LevelError, l.impl.Error, msg, keyvals)
}

func (l *charmLogger) WithPrefix(prefix string) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &charmLogger{impl: l.impl.WithPrefix(prefix), level: l.level, fields: l.fields}
}

func (l *charmLogger) WithFields(keyvals ...interface{}) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fields := make([]interface{}, 0, len(l.fields)+len(keyvals))
	fields = append(fields, l.fields...)
	fields = append(fields, keyvals...)
	return &charmLogger{impl: l.impl, level: l.level, fields: fields}
}

func (l *charmLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.impl.SetLevel(level.charm())
}

func (l *charmLogger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger { return nop{} }

type nop struct{}

func (nop) Debug(string, ...interface{})      {}
func (nop) Info(string, ...interface{})       {}
func (nop) Warn(string, ...interface{})       {}
func (nop) Error(string, ...interface{})      {}
func (n nop) WithPrefix(string) Logger        { return n }
func (n nop) WithFields(...interface{}) Logger { return n }
func (nop) SetLevel(Level)                    {}
func (nop) GetLevel() Level                   { return LevelInfo }

// NewMultiLogger fans every call out to all loggers.
func NewMultiLogger(loggers ...Logger) Logger {
	return multi(loggers)
}

type multi []Logger

func (m multi) Debug(msg string, kv ...interface{}) {
	for _, l := range m {
		l.Debug(msg, kv...)
	}
}

func (m multi) Info(msg string, kv ...interface{}) {
	for _, l := range m {
		l.Info(msg, kv...)
	}
}

func (m multi) Warn(msg string, kv ...interface{}) {
	for _, l := range m {
		l.Warn(msg, kv...)
	}
}

func (m multi) Error(msg string, kv ...interface{}) {
	for _, l := range m {
		l.Error(msg, kv...)
	}
}

func (m multi) WithPrefix(prefix string) Logger {
	out := make(multi, len(m))
	for i, l := range m {
		out[i] = l.WithPrefix(prefix)
	}
	return out
}

func (m multi) WithFields(kv ...interface{}) Logger {
	out := make(multi, len(m))
	for i, l := range m {
		out[i] = l.WithFields(kv...)
	}
	return out
}

func (m multi) SetLevel(level Level) {
	for _, l := range m {
		l.SetLevel(level)
	}
}

func (m multi) GetLevel() Level {
	if len(m) == 0 {
		return LevelInfo
	}
	return m[0].GetLevel()
}
