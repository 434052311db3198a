// Package ratelimit enforces per-client, fixed-window request limits. Counts
// live in a pluggable store so multiple instances can share one budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/metrics"
)

// RouteClass groups endpoints that share a request budget
type RouteClass string

const (
	RouteClassAuth  RouteClass = "auth"
	RouteClassWrite RouteClass = "write"
	RouteClassRead  RouteClass = "read"
	RouteClassAdmin RouteClass = "admin"
)

// Limit is the request budget for one route class
type Limit struct {
	Requests int
	Window   time.Duration

	// FailOpen admits traffic when the counter store is unreachable.
	// Sensitive classes keep FailOpen false and reject instead.
	FailOpen bool
}

// DefaultLimits returns the per-class budgets
func DefaultLimits() map[RouteClass]Limit {
	return map[RouteClass]Limit{
		RouteClassAuth:  {Requests: 10, Window: time.Minute},
		RouteClassWrite: {Requests: 30, Window: time.Minute},
		RouteClassRead:  {Requests: 120, Window: time.Minute, FailOpen: true},
		RouteClassAdmin: {Requests: 60, Window: time.Minute},
	}
}

// MaxWindow returns the longest window across the default budgets. Used to
// size in-process counter retention.
func MaxWindow() time.Duration {
	var max time.Duration
	for _, limit := range DefaultLimits() {
		if limit.Window > max {
			max = limit.Window
		}
	}
	return max
}

// CounterStore increments and returns the count for a window-scoped key.
// Implementations must make the increment atomic.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Decision is the outcome of a rate-limit check
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter applies fixed-window limits per (client, route class)
type Limiter struct {
	store  CounterStore
	limits map[RouteClass]Limit
	now    func() time.Time
}

// NewLimiter creates a new limiter over the given counter store
func NewLimiter(store CounterStore, limits map[RouteClass]Limit) *Limiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Limiter{store: store, limits: limits, now: time.Now}
}

// Allow checks whether the client has budget left in the current window
func (l *Limiter) Allow(ctx context.Context, clientKey string, class RouteClass) Decision {
	limit, ok := l.limits[class]
	if !ok {
		// Unconfigured classes are not limited
		return Decision{Allowed: true}
	}

	now := l.now()
	windowStart := now.Truncate(limit.Window)
	key := fmt.Sprintf("rl:%s:%s:%d", class, clientKey, windowStart.Unix())

	count, err := l.store.Incr(ctx, key, limit.Window)
	if err != nil {
		logger.FromContext(ctx).Error("Rate limit store unavailable",
			"error", err, "route_class", string(class), "fail_open", limit.FailOpen)
		if limit.FailOpen {
			return Decision{Allowed: true}
		}
		metrics.RateLimitRejections.WithLabelValues(string(class)).Inc()
		return Decision{Allowed: false, RetryAfter: limit.Window}
	}

	if count > int64(limit.Requests) {
		metrics.RateLimitRejections.WithLabelValues(string(class)).Inc()
		return Decision{
			Allowed:    false,
			RetryAfter: windowStart.Add(limit.Window).Sub(now),
		}
	}

	return Decision{
		Allowed:   true,
		Remaining: limit.Requests - int(count),
	}
}
