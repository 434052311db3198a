package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryStoreSize bounds how many distinct (client, class, window) counters
// are tracked at once
const memoryStoreSize = 16384

// MemoryStore is a single-process counter store. Suitable for development
// and tests; production deployments share counts through RedisStore.
type MemoryStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *int64]
}

// NewMemoryStore creates an in-memory counter store. Entries expire with the
// given TTL, which should be at least the largest configured window.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		lru: expirable.NewLRU[string, *int64](memoryStoreSize, nil, ttl),
	}
}

// Incr atomically increments the counter for key
func (s *MemoryStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count, ok := s.lru.Get(key); ok {
		*count++
		return *count, nil
	}

	count := int64(1)
	s.lru.Add(key, &count)
	return 1, nil
}
