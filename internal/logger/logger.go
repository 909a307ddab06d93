// Package logger wraps zerolog.Logger with the constructors and context
// helpers used across recsync.
//
// Logger embeds zerolog.Logger, so the full zerolog API (Debug, Info, Warn,
// Error, ...) is available directly. Components receive a *Logger at
// construction; request-scoped loggers come from FromContext or FromRequest.
package logger

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger for the given role label ("edge", "store").
// Every entry carries the role, a timestamp and the caller.
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger that inherits the receiver's fields and
// adds a component label.
func (l *Logger) Component(component string) *Logger {
	return &Logger{l.Logger.With().Str("component", component).Logger()}
}

// WithContext stores the logger in ctx for later retrieval via FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext extracts the logger stored in ctx by WithContext. When none
// is attached zerolog falls back to its global logger, so the result is
// never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// FromRequest extracts the logger attached to the request's context by the
// server's logging middleware.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}
