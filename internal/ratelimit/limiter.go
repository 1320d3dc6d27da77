package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more event for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter allows at most limit events per key in any window.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
	prefix string
}

// SlidingWindowOption configures a SlidingWindowLimiter.
type SlidingWindowOption func(*SlidingWindowLimiter)

// WithKeyPrefix namespaces every key so several limiters can share a store.
func WithKeyPrefix(prefix string) SlidingWindowOption {
	return func(l *SlidingWindowLimiter) {
		l.prefix = prefix
	}
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration, opts ...SlidingWindowOption) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Allow records the event and reports whether it is within the limit.
// Denied events are still recorded.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.store.Record(ctx, l.prefix+key, l.window)
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}
