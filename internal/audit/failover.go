package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultFailureThreshold = 5
	defaultCooldown         = 30 * time.Second
)

// FailoverStore appends to a primary sink and diverts events to a fallback
// while the primary is failing. After threshold consecutive failures the
// primary is skipped until the cooldown elapses, then tried again.
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   *slog.Logger
	breaker  *breaker
}

type FailoverOption func(*FailoverStore)

// WithBreaker overrides the failure threshold and cooldown.
func WithBreaker(threshold int, cooldown time.Duration) FailoverOption {
	return func(f *FailoverStore) {
		f.breaker = newBreaker(threshold, cooldown, f.breaker.now)
	}
}

func withClock(now func() time.Time) FailoverOption {
	return func(f *FailoverStore) {
		f.breaker.now = now
	}
}

func NewFailoverStore(primary, fallback Store, logger *slog.Logger, opts ...FailoverOption) *FailoverStore {
	if logger == nil {
		logger = slog.Default()
	}
	f := &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		breaker:  newBreaker(defaultFailureThreshold, defaultCooldown, time.Now),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FailoverStore) Append(ctx context.Context, event Event) error {
	if !f.breaker.allow() {
		return f.fallback.Append(ctx, event)
	}
	err := f.primary.Append(ctx, event)
	if err == nil {
		if f.breaker.success() {
			f.logger.InfoContext(ctx, "audit sink recovered")
		}
		return nil
	}
	if f.breaker.failure() {
		f.logger.WarnContext(ctx, "audit sink failing, diverting to fallback",
			"error", err,
			"cooldown", f.breaker.cooldown,
		)
	}
	return f.fallback.Append(ctx, event)
}

// Open reports whether the primary is currently being skipped.
func (f *FailoverStore) Open() bool {
	return f.breaker.isOpen()
}

// breaker counts consecutive failures. Once open, a single trial call is let
// through after the cooldown.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	now       func() time.Time
	failures  int
	open      bool
	openUntil time.Time
}

func newBreaker(threshold int, cooldown time.Duration, now func() time.Time) *breaker {
	if threshold <= 0 {
		threshold = defaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &breaker{threshold: threshold, cooldown: cooldown, now: now}
}

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	if b.now().Before(b.openUntil) {
		return false
	}
	// Half-open: reopen immediately if the trial fails.
	b.failures = b.threshold - 1
	b.openUntil = b.now().Add(b.cooldown)
	return true
}

// success resets the breaker and reports whether it was open.
func (b *breaker) success() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	wasOpen := b.open
	b.failures = 0
	b.open = false
	return wasOpen
}

// failure records a failure and reports whether the breaker just opened.
func (b *breaker) failure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures < b.threshold {
		return false
	}
	opened := !b.open
	b.open = true
	b.openUntil = b.now().Add(b.cooldown)
	return opened
}

func (b *breaker) isOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}
