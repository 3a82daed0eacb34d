package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// LogStore writes each event as a structured log line.
type LogStore struct {
	logger *slog.Logger
}

func NewLogStore(logger *slog.Logger) *LogStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogStore{logger: logger}
}

func (s *LogStore) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, string(event.Action),
		"log_type", "audit",
		"subject", event.Subject,
		"user_id", event.UserID,
		"request_id", event.RequestID,
		"client_ip", event.ClientIP,
		"timestamp", event.Timestamp,
	)
	return nil
}

// MemoryStore keeps events in memory. Used by tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *MemoryStore) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}
