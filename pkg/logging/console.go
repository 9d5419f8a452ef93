package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleLogger implements Logger on top of zerolog's console writer,
// for interactive use on a terminal
type ConsoleLogger struct {
	logger zerolog.Logger
}

// NewConsoleLogger creates a console logger writing to w (stderr when nil)
func NewConsoleLogger(w io.Writer, level Level) *ConsoleLogger {
	if w == nil {
		w = os.Stderr
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	logger := zerolog.New(out).With().Timestamp().Logger().Level(zerologLevel(level))

	return &ConsoleLogger{logger: logger}
}

// Debug logs a debug message
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.emit(l.logger.Debug(), nil, fields).Msg(msg)
}

// Info logs an info message
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.emit(l.logger.Info(), nil, fields).Msg(msg)
}

// Warn logs a warning message
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.emit(l.logger.Warn(), nil, fields).Msg(msg)
}

// Error logs an error message
func (l *ConsoleLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.emit(l.logger.Error(), err, fields).Msg(msg)
}

// Close does nothing; the console writer is not owned by the logger
func (l *ConsoleLogger) Close() error {
	return nil
}

func (l *ConsoleLogger) emit(event *zerolog.Event, err error, fields Fields) *zerolog.Event {
	if err != nil {
		event = event.Err(err)
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
