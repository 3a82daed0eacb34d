package sentry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmineOzil/user-registration/internal/platform/config"
	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

func TestDisabledReporter(t *testing.T) {
	r, err := New(config.SentryConfig{})
	require.NoError(t, err)
	assert.False(t, r.Enabled())
	r.CaptureError(context.Background(), errors.New("ignored"))
	assert.True(t, r.Flush(time.Millisecond))
}

func TestCaptureErrorTagsRequest(t *testing.T) {
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	r, err := NewWithOptions(sentry.ClientOptions{
		Dsn: "https://public@o0.ingest.sentry.io/0",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	require.True(t, r.Enabled())

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	ctx = requestcontext.WithCorrelationID(ctx, "corr-1")
	r.CaptureError(ctx, errors.New("database unreachable"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, "req-1", events[0].Tags["request_id"])
	assert.Equal(t, "corr-1", events[0].Tags["correlation_id"])
}
