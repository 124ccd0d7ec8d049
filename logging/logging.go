// Package logging provides the structured logger every command and
// pipeline stage writes through: a thin wrapper over zerolog offering
// leveled methods and a WithField/WithFields child-logger pattern, the
// ambient logging facility spec.md's Design Notes assume without
// specifying a concrete library.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging verbosity threshold.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the wire shape of emitted log lines.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger. The zero value logs JSON at info level to
// stdout.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger is a structured logger carrying a fixed set of fields through
// every call; build child loggers with WithField/WithFields to attach
// request-scoped context such as a correlation ID.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger from cfg, defaulting Output to os.Stdout and
// unrecognised/empty Level to info.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var out io.Writer = cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	z := zerolog.New(out).With().Timestamp().Logger().Level(levelOf(cfg.Level))
	return &Logger{z: z}
}

func levelOf(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithField returns a child Logger with key=value attached to every
// subsequent entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{z: l.z.With().Interface(key, value).Logger()}
}

// WithFields returns a child Logger with every entry of fields attached.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.z.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{z: ctx.Logger()}
}

func (l *Logger) Debug(msg string) { l.z.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.z.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.z.Warn().Msg(msg) }

// Error logs msg at error level, attaching err under the "error" field
// when non-nil.
func (l *Logger) Error(msg string, err error) {
	ev := l.z.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}
