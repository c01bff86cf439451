// Package sentry wraps optional error reporting. When no DSN is configured
// every helper is a no-op, so callers never need to guard their calls.
package sentry

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/likehub/likesbot/internal/config"
)

// Init initializes the Sentry client. An empty DSN disables reporting;
// initialization errors are logged and never fatal.
func Init(cfg config.SentryConfig, log *slog.Logger) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Warn("Sentry init failed, error reporting disabled", "error", err)
		return
	}
	if cfg.DSN == "" {
		log.Info("Sentry DSN empty, error reporting disabled")
	} else {
		log.Info("Sentry initialized", "environment", cfg.Environment)
	}
}

// Flush waits briefly for buffered events to be delivered. Call on shutdown.
func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with the given tags. Nil errors are ignored.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
