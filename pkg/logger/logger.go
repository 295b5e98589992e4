package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level aliases zerolog's level type so callers do not import zerolog directly.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config holds logger configuration
type Config struct {
	Level      Level
	TimeFormat string
	Output     io.Writer
}

// Logger provides leveled, key/value structured logging for the workers.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger writing to the configured output. A nil config
// yields an info-level console logger on stdout.
func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:      InfoLevel,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
		}
	}

	output := zerolog.ConsoleWriter{
		Out:        cfg.Output,
		TimeFormat: cfg.TimeFormat,
	}

	zl := zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl}
}

// Named returns a child logger tagged with a component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Info logs at info level. Trailing arguments are alternating key/value pairs.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.zl.Info().Fields(keyvals).Msg(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.zl.Warn().Fields(keyvals).Msg(msg)
}

// Error logs an error with its message and optional key/value context.
func (l *Logger) Error(err error, msg string, keyvals ...interface{}) {
	l.zl.Error().Err(err).Fields(keyvals).Msg(msg)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.zl.Debug().Fields(keyvals).Msg(msg)
}
