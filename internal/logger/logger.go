// Package logger wraps zerolog behind a small structured-logging API.
//
// Subsystems obtain a child logger with a component field:
//
//	log := logger.New(nil).With().Str("component", "inspector").Logger()
//	log.Warnf("index reflection is not supported, returning no indexes")
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger.
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

// New creates a logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zlog zerolog.Logger
	if cfg.Format == "console" {
		// Human-readable output for development
		zlog = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		// Structured JSON for production
		zlog = zerolog.New(out).With().Timestamp().Logger()
	}

	return &Logger{zlog: zlog.Level(ParseLevel(cfg.Level))}
}

// ParseLevel converts a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLevel returns a copy of the logger with the given minimum level.
// Used by the config watcher to change verbosity without restarting.
func (l *Logger) SetLevel(level string) *Logger {
	return &Logger{zlog: l.zlog.Level(ParseLevel(level))}
}

// SetGlobalLevel caps the level of every logger in the process. Used for
// live verbosity changes driven by the config watcher.
func SetGlobalLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// WithContext stores the logger in ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zlog.WithContext(ctx)
}

// FromContext retrieves the logger from ctx, falling back to a default one.
func FromContext(ctx context.Context) *Logger {
	zlog := zerolog.Ctx(ctx)
	if zlog.GetLevel() == zerolog.Disabled {
		return New(nil)
	}
	return &Logger{zlog: *zlog}
}

// With starts a field-chaining context for a child logger.
func (l *Logger) With() *Context {
	return &Context{ctx: l.zlog.With()}
}

// Context wraps zerolog.Context for field chaining.
type Context struct {
	ctx zerolog.Context
}

func (c *Context) Str(key, val string) *Context {
	c.ctx = c.ctx.Str(key, val)
	return c
}

func (c *Context) Int(key string, val int) *Context {
	c.ctx = c.ctx.Int(key, val)
	return c
}

func (c *Context) Err(err error) *Context {
	c.ctx = c.ctx.Err(err)
	return c
}

func (c *Context) Any(key string, val any) *Context {
	c.ctx = c.ctx.Interface(key, val)
	return c
}

func (c *Context) Logger() *Logger {
	return &Logger{zlog: c.ctx.Logger()}
}

// --- leveled logging ---

func (l *Logger) Debug(msg string)                       { l.zlog.Debug().Msg(msg) }
func (l *Logger) Debugf(format string, args ...any)      { l.zlog.Debug().Msgf(format, args...) }
func (l *Logger) Info(msg string)                        { l.zlog.Info().Msg(msg) }
func (l *Logger) Infof(format string, args ...any)       { l.zlog.Info().Msgf(format, args...) }
func (l *Logger) Warn(msg string)                        { l.zlog.Warn().Msg(msg) }
func (l *Logger) Warnf(format string, args ...any)       { l.zlog.Warn().Msgf(format, args...) }
func (l *Logger) Error(msg string)                       { l.zlog.Error().Msg(msg) }
func (l *Logger) Errorf(format string, args ...any)      { l.zlog.Error().Msgf(format, args...) }
func (l *Logger) Fatal(msg string)                       { l.zlog.Fatal().Msg(msg) }

// ErrorWith logs msg at error level with err and extra fields attached.
func (l *Logger) ErrorWith(msg string, err error, fields map[string]any) {
	event := l.zlog.Error().Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Event exposes a raw zerolog info event for request-logging middleware.
func (l *Logger) Event() *zerolog.Event {
	return l.zlog.Info()
}

// Global logger, used where no configured instance is threaded through.
var global = New(nil)

func Debug(msg string) { global.Debug(msg) }
func Info(msg string)  { global.Info(msg) }
func Warn(msg string)  { global.Warn(msg) }
func Error(msg string) { global.Error(msg) }

// SetGlobal replaces the process-wide fallback logger.
func SetGlobal(l *Logger) { global = l }
