package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ErrQueueFull is returned by a QueueStore when the buffer has no room left.
var ErrQueueFull = errors.New("audit queue full")

// QueueStore is a Store that hands events to a Worker through a buffered
// channel so slow sinks never hold up a request.
type QueueStore struct {
	inbox chan Event
}

// NewQueue returns a QueueStore and the Worker draining it into sink.
func NewQueue(sink Store, size int, logger *slog.Logger) (*QueueStore, *Worker) {
	inbox := make(chan Event, size)
	return &QueueStore{inbox: inbox}, NewWorker(sink, inbox, logger)
}

// Append enqueues without blocking.
func (q *QueueStore) Append(_ context.Context, event Event) error {
	select {
	case q.inbox <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Worker consumes audit events from a channel and forwards them to a Store.
// Sink failures are logged and the worker keeps going.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run blocks until ctx is cancelled, then flushes whatever is still buffered.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return nil
		case event := <-w.inbox:
			w.forward(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.inbox:
			w.forward(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) forward(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to forward audit event",
			"event", string(event.Action),
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
