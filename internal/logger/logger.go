// Package logger wraps zerolog with service- and component-scoped loggers.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a zerolog.Logger carrying the service name and any scoping
// fields added with the With* methods. The zero value is not usable; build
// one with New or NewDefault.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// Init configures the process-wide log level and global logger from config.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	globalLogger = New(&cfg, "scribe")
}

// New builds a logger for the given service from config.
func New(cfg *Config, serviceName string) *Logger {
	if level, err := zerolog.ParseLevel(cfg.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	zl := zerolog.New(newWriter(cfg))
	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}

	return &Logger{
		zl:      zl.With().Str("service", serviceName).Logger(),
		service: serviceName,
	}
}

// NewDefault builds a console logger at info level, for early startup and
// tests.
func NewDefault(serviceName string) *Logger {
	return New(&Config{
		Level:     "info",
		Format:    "console",
		Output:    "stdout",
		Timestamp: true,
	}, serviceName)
}

// newWriter resolves the configured destination and format into a writer.
func newWriter(cfg *Config) io.Writer {
	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		return zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.Kitchen,
		}
	}
	return out
}

func (l *Logger) child(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl, service: l.service}
}

// WithComponent returns a logger scoped to one component of the service.
func (l *Logger) WithComponent(name string) *Logger {
	return l.child(l.zl.With().Str(FieldComponent, name).Logger())
}

// WithFields returns a logger carrying the given fields on every line.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return l.child(ctx.Logger())
}

// WithError returns a logger carrying err as a field.
func (l *Logger) WithError(err error) *Logger {
	return l.child(l.zl.With().Err(err).Logger())
}

// GetLogger exposes the underlying zerolog.Logger.
func (l *Logger) GetLogger() zerolog.Logger { return l.zl }

func (l *Logger) emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, m := range fields {
		for k, v := range m {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

// Debug logs at debug level with optional structured fields.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs at info level with optional structured fields.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs at warn level with optional structured fields.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs at error level with optional structured fields.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Error(), msg, fields)
}

// Fatal logs at fatal level and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	l.emit(l.zl.Fatal(), msg, fields)
}

var globalLogger *Logger

// SetGlobalLogger installs the logger returned by the package-level
// functions.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one on
// first use.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("scribe")
	}
	return globalLogger
}

// Package-level logging delegates to the global logger.

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }
