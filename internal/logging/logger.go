package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Logger defines the interface for logging operations.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	// WithPrefix returns a new Logger with the given prefix.
	WithPrefix(prefix string) Logger
	// WithFields returns a new Logger that adds keyvals to every message.
	WithFields(keyvals ...interface{}) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// Format selects how log lines are encoded.
type Format int

const (
	// FormatText is the human readable, optionally coloured format.
	FormatText Format = iota
	// FormatLogfmt emits key=value pairs.
	FormatLogfmt
	// FormatJSON emits one JSON object per line.
	FormatJSON
)

// ParseFormat converts "text", "logfmt" or "json" to a Format.
// Anything else yields FormatText.
func ParseFormat(s string) Format {
	switch s {
	case "logfmt":
		return FormatLogfmt
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Options configures the logger.
type Options struct {
	Level           Level
	Output          io.Writer
	Format          Format
	TimeFormat      string
	Prefix          string
	NoColor         bool
	ReportTimestamp bool
}

// DefaultOptions returns defaults for console logging on stderr.
func DefaultOptions() Options {
	return Options{
		Level:           LevelInfo,
		Output:          os.Stderr,
		Format:          FormatText,
		TimeFormat:      "15:04:05",
		ReportTimestamp: false,
	}
}

// FileOptions returns options for file logging: no colour, full timestamps
// and every level.
func FileOptions(w io.Writer) Options {
	return Options{
		Level:           LevelDebug,
		Output:          w,
		Format:          FormatLogfmt,
		TimeFormat:      "2006-01-02 15:04:05",
		NoColor:         true,
		ReportTimestamp: true,
	}
}

type logger struct {
	mu     sync.RWMutex
	impl   *log.Logger
	level  Level
	fields []interface{}
}

// New creates a new logger with the given options.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := log.NewWithOptions(out, log.Options{
		TimeFormat:      opts.TimeFormat,
		Level:           toCharmLevel(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		Formatter:       toCharmFormatter(opts.Format),
	})

	if opts.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}

	return &logger{impl: l, level: opts.Level}
}

// NewNop returns a logger that discards all output.
func NewNop() Logger {
	return &nopLogger{}
}

// NewFileLogger creates a logger that appends to the file at path. The
// returned close function releases the file.
func NewFileLogger(path string, level Level) (Logger, func() error, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	opts := FileOptions(file)
	opts.Level = level
	return New(opts), file.Close, nil
}

// NewMultiLogger creates a logger that fans every message out to loggers.
func NewMultiLogger(loggers ...Logger) Logger {
	return &multiLogger{loggers: loggers}
}

func (l *logger) Debug(msg string, keyvals ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level <= LevelDebug {
		l.impl.Debug(msg, l.merge(keyvals)...)
	}
}

func (l *logger) Info(msg string, keyvals ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level <= LevelInfo {
		l.impl.Info(msg, l.merge(keyvals)...)
	}
}

func (l *logger) Warn(msg string, keyvals ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level <= LevelWarn {
		l.impl.Warn(msg, l.merge(keyvals)...)
	}
}

// Error is always logged regardless of level.
func (l *logger) Error(msg string, keyvals ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.impl.Error(msg, l.merge(keyvals)...)
}

// merge returns a fresh slice so concurrent callers never share backing
// arrays with l.fields.
func (l *logger) merge(keyvals []interface{}) []interface{} {
	out := make([]interface{}, 0, len(l.fields)+len(keyvals))
	out = append(out, l.fields...)
	return append(out, keyvals...)
}

func (l *logger) WithPrefix(prefix string) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &logger{
		impl:   l.impl.WithPrefix(prefix),
		level:  l.level,
		fields: l.fields,
	}
}

func (l *logger) WithFields(keyvals ...interface{}) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &logger{
		impl:   l.impl,
		level:  l.level,
		fields: l.merge(keyvals),
	}
}

func (l *logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.impl.SetLevel(toCharmLevel(level))
}

func (l *logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func toCharmLevel(l Level) log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func toCharmFormatter(f Format) log.Formatter {
	switch f {
	case FormatLogfmt:
		return log.LogfmtFormatter
	case FormatJSON:
		return log.JSONFormatter
	default:
		return log.TextFormatter
	}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string, keyvals ...interface{}) {}
func (n *nopLogger) Info(msg string, keyvals ...interface{})  {}
func (n *nopLogger) Warn(msg string, keyvals ...interface{})  {}
func (n *nopLogger) Error(msg string, keyvals ...interface{}) {}
func (n *nopLogger) WithPrefix(prefix string) Logger          { return n }
func (n *nopLogger) WithFields(keyvals ...interface{}) Logger { return n }
func (n *nopLogger) SetLevel(level Level)                     {}
func (n *nopLogger) GetLevel() Level                          { return LevelInfo }

type multiLogger struct {
	loggers []Logger
}

func (m *multiLogger) Debug(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Debug(msg, keyvals...)
	}
}

func (m *multiLogger) Info(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Info(msg, keyvals...)
	}
}

func (m *multiLogger) Warn(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Warn(msg, keyvals...)
	}
}

func (m *multiLogger) Error(msg string, keyvals ...interface{}) {
	for _, l := range m.loggers {
		l.Error(msg, keyvals...)
	}
}

func (m *multiLogger) WithPrefix(prefix string) Logger {
	out := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		out[i] = l.WithPrefix(prefix)
	}
	return &multiLogger{loggers: out}
}

func (m *multiLogger) WithFields(keyvals ...interface{}) Logger {
	out := make([]Logger, len(m.loggers))
	for i, l := range m.loggers {
		out[i] = l.WithFields(keyvals...)
	}
	return &multiLogger{loggers: out}
}

// SetLevel only changes the first logger so a debug file log stays verbose
// while the console is quietened.
func (m *multiLogger) SetLevel(level Level) {
	if len(m.loggers) > 0 {
		m.loggers[0].SetLevel(level)
	}
}

func (m *multiLogger) GetLevel() Level {
	if len(m.loggers) > 0 {
		return m.loggers[0].GetLevel()
	}
	return LevelInfo
}
