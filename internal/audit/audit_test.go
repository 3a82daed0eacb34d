package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error {
	return errors.New("sink down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherEmit(t *testing.T) {
	t.Run("stamps events without a timestamp", func(t *testing.T) {
		store := NewMemoryStore()
		fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		p := NewPublisher(store)
		p.now = func() time.Time { return fixed }

		require.NoError(t, p.Emit(context.Background(), Event{Action: EventUserRegistered, Subject: "amine.bou"}))

		events := store.Events()
		require.Len(t, events, 1)
		assert.Equal(t, fixed, events[0].Timestamp)
		assert.Equal(t, "amine.bou", events[0].Subject)
	})

	t.Run("keeps an existing timestamp", func(t *testing.T) {
		store := NewMemoryStore()
		at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, NewPublisher(store).Emit(context.Background(), Event{Timestamp: at}))
		assert.Equal(t, at, store.Events()[0].Timestamp)
	})

	t.Run("log store never fails", func(t *testing.T) {
		p := NewPublisher(NewLogStore(discardLogger()))
		assert.NoError(t, p.Emit(context.Background(), Event{Action: EventUserRegistered}))
	})
}

func TestQueue(t *testing.T) {
	t.Run("worker forwards queued events", func(t *testing.T) {
		sink := NewMemoryStore()
		queue, worker := NewQueue(sink, 4, discardLogger())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- worker.Run(ctx) }()

		require.NoError(t, queue.Append(ctx, Event{Subject: "a"}))
		require.NoError(t, queue.Append(ctx, Event{Subject: "b"}))

		assert.Eventually(t, func() bool { return len(sink.Events()) == 2 }, time.Second, 5*time.Millisecond)
		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("full queue rejects without blocking", func(t *testing.T) {
		queue, _ := NewQueue(NewMemoryStore(), 1, discardLogger())
		require.NoError(t, queue.Append(context.Background(), Event{Subject: "a"}))
		assert.ErrorIs(t, queue.Append(context.Background(), Event{Subject: "b"}), ErrQueueFull)
	})

	t.Run("cancellation flushes what is buffered", func(t *testing.T) {
		sink := NewMemoryStore()
		queue, worker := NewQueue(sink, 3, discardLogger())
		for _, s := range []string{"a", "b", "c"} {
			require.NoError(t, queue.Append(context.Background(), Event{Subject: s}))
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, worker.Run(ctx))
		assert.Len(t, sink.Events(), 3)
	})

	t.Run("sink failures do not stop the worker", func(t *testing.T) {
		inbox := make(chan Event, 2)
		inbox <- Event{Subject: "a"}
		inbox <- Event{Subject: "b"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, NewWorker(failingStore{}, inbox, discardLogger()).Run(ctx))
		assert.Empty(t, inbox)
	})
}
