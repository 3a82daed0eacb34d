// Package sentry reports internal errors and panics to Sentry. Without a DSN
// the reporter is a no-op.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/AmineOzil/user-registration/internal/platform/config"
	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

// Reporter forwards errors to a dedicated Sentry hub.
type Reporter struct {
	hub *sentry.Hub
}

// New builds a Reporter from configuration. An empty DSN disables reporting.
func New(cfg config.SentryConfig) (*Reporter, error) {
	if cfg.DSN == "" {
		return &Reporter{}, nil
	}
	return NewWithOptions(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
	})
}

// NewWithOptions builds an enabled Reporter from raw client options.
func NewWithOptions(opts sentry.ClientOptions) (*Reporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Enabled reports whether events are sent anywhere.
func (r *Reporter) Enabled() bool {
	return r.hub != nil
}

// CaptureError sends err tagged with the request and correlation ids.
func (r *Reporter) CaptureError(ctx context.Context, err error) {
	if r.hub == nil || err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if id := requestcontext.RequestID(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		if id := requestcontext.CorrelationID(ctx); id != "" {
			scope.SetTag("correlation_id", id)
		}
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r.hub == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
