package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// LimitExceeded describes the first limit a request ran into.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

// RetryAfter is how long the client should wait before retrying. The window
// is sliding, so this is an upper bound.
func (e *LimitExceeded) RetryAfter() time.Duration {
	return e.Config.Window
}

// PolicyLimiter enforces rate limits based on a policy and resolved scopes.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter creates a new policy-based rate limiter.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{
		store:  store,
		policy: policy,
	}
}

// Allow checks every limit of every scope in order and stops at the first
// one exceeded.
func (l *PolicyLimiter) Allow(ctx context.Context, clientKey string, scopes []Scope) (bool, *LimitExceeded, error) {
	for _, scope := range scopes {
		for _, limit := range l.policy.Limits[scope] {
			exceeded, err := l.check(ctx, clientKey, scope, limit)
			if err != nil || exceeded != nil {
				return false, exceeded, err
			}
		}
	}

	return true, nil, nil
}

// AllowLimits applies limits that are not part of the policy, tracked under
// scope. Endpoints with their own limits use this.
func (l *PolicyLimiter) AllowLimits(ctx context.Context, clientKey string, scope Scope, limits []LimitConfig) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		exceeded, err := l.check(ctx, clientKey, scope, limit)
		if err != nil || exceeded != nil {
			return false, exceeded, err
		}
	}

	return true, nil, nil
}

func (l *PolicyLimiter) check(ctx context.Context, clientKey string, scope Scope, limit LimitConfig) (*LimitExceeded, error) {
	key := fmt.Sprintf("%s:%s:%d", clientKey, scope, limit.Window.Milliseconds())

	count, err := l.store.Record(ctx, key, limit.Window)
	if err != nil {
		return nil, err
	}

	if count > limit.Max {
		return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
	}

	return nil, nil
}
