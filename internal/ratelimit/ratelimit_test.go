package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func newTestLimiter(limits map[RouteClass]Limit) *Limiter {
	return NewLimiter(NewMemoryStore(time.Hour), limits)
}

func TestAllow_BudgetThenReject(t *testing.T) {
	limiter := newTestLimiter(map[RouteClass]Limit{
		RouteClassAuth: {Requests: 3, Window: time.Minute},
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := limiter.Allow(ctx, "client-1", RouteClassAuth)
		assert.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d := limiter.Allow(ctx, "client-1", RouteClassAuth)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)
}

func TestAllow_NextWindowAdmits(t *testing.T) {
	limiter := newTestLimiter(map[RouteClass]Limit{
		RouteClassAuth: {Requests: 1, Window: time.Minute},
	})
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	require.True(t, limiter.Allow(ctx, "client-1", RouteClassAuth).Allowed)
	require.False(t, limiter.Allow(ctx, "client-1", RouteClassAuth).Allowed)

	// A fresh window gets a fresh budget
	limiter.now = func() time.Time { return base.Add(time.Minute) }
	assert.True(t, limiter.Allow(ctx, "client-1", RouteClassAuth).Allowed)
}

func TestAllow_ClientsIsolated(t *testing.T) {
	limiter := newTestLimiter(map[RouteClass]Limit{
		RouteClassWrite: {Requests: 1, Window: time.Minute},
	})
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "client-1", RouteClassWrite).Allowed)
	require.False(t, limiter.Allow(ctx, "client-1", RouteClassWrite).Allowed)

	assert.True(t, limiter.Allow(ctx, "client-2", RouteClassWrite).Allowed)
}

func TestAllow_ClassesIsolated(t *testing.T) {
	limiter := newTestLimiter(map[RouteClass]Limit{
		RouteClassAuth: {Requests: 1, Window: time.Minute},
		RouteClassRead: {Requests: 1, Window: time.Minute},
	})
	ctx := context.Background()

	require.True(t, limiter.Allow(ctx, "client-1", RouteClassAuth).Allowed)
	require.False(t, limiter.Allow(ctx, "client-1", RouteClassAuth).Allowed)

	assert.True(t, limiter.Allow(ctx, "client-1", RouteClassRead).Allowed)
}

func TestAllow_StoreFailurePolicy(t *testing.T) {
	limiter := NewLimiter(failingStore{}, map[RouteClass]Limit{
		RouteClassAuth: {Requests: 10, Window: time.Minute},
		RouteClassRead: {Requests: 10, Window: time.Minute, FailOpen: true},
	})
	ctx := context.Background()

	// Sensitive classes reject when the store is down
	assert.False(t, limiter.Allow(ctx, "client-1", RouteClassAuth).Allowed)

	// Read traffic is admitted rather than hard-failing the whole API
	assert.True(t, limiter.Allow(ctx, "client-1", RouteClassRead).Allowed)
}

func TestAllow_UnconfiguredClassUnlimited(t *testing.T) {
	limiter := NewLimiter(failingStore{}, map[RouteClass]Limit{})

	assert.True(t, limiter.Allow(context.Background(), "client-1", RouteClassRead).Allowed)
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	const callers = 50
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Incr(ctx, "shared", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := store.Incr(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(callers+1), count)
}
