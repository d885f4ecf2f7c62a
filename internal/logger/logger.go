package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/marketintel/internal/errors"
	"github.com/rs/zerolog"
)

var log Logger = Nop()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

type zeroLogger struct {
	zl zerolog.Logger
}

// New returns a Logger writing human-readable lines to w.
func New(w io.Writer, isService bool) Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.NoColor = true
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	return &zeroLogger{zl: zerolog.New(output).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

// Init initializes the global logger on stdout at the given level
func Init(level string, isService bool) error {
	log = New(os.Stdout, isService)
	return SetLevelString(level)
}

// Get returns the global logger
func Get() Logger {
	return log
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// SetLevelString parses and sets the global log level.
// Accepts debug, info, warn/warning and error.
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLogLevel(DebugLevel)
	case "", "info":
		SetLogLevel(InfoLevel)
	case "warn", "warning":
		SetLogLevel(WarnLevel)
	case "error":
		SetLogLevel(ErrorLevel)
	default:
		return errors.New().WithData(errors.ErrInvalidLogLevel, level)
	}
	return nil
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

func (l *zeroLogger) Debug() *LogEvent {
	return &LogEvent{l.zl.Debug()}
}

func (l *zeroLogger) Info() *LogEvent {
	return &LogEvent{l.zl.Info()}
}

func (l *zeroLogger) Warn() *LogEvent {
	return &LogEvent{l.zl.Warn()}
}

func (l *zeroLogger) Error() *LogEvent {
	return &LogEvent{l.zl.Error()}
}

func (l *zeroLogger) ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{l.zl.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

func (l *zeroLogger) ErrorWithContext(err errors.Error, component, operation string) *LogEvent {
	return &LogEvent{l.ErrorWithCode(err).
		Str("component", component).
		Str("operation", operation)}
}

func (l *zeroLogger) With(component string) Logger {
	return &zeroLogger{zl: l.zl.With().Str("component", component).Logger()}
}

// Debug logs a debug message
func Debug() *LogEvent {
	return log.Debug()
}

// Info logs an info message
func Info() *LogEvent {
	return log.Info()
}

// Warn logs a warning message
func Warn() *LogEvent {
	return log.Warn()
}

// Error logs an error message
func Error() *LogEvent {
	return log.Error()
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return log.ErrorWithCode(err)
}
