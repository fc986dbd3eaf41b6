package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Redis is disabled and in tests.
// Expired entries are dropped lazily on read and on prefix deletes.
type MemoryStore struct {
	store map[string]entry
	mu    sync.RWMutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]entry),
		now:   time.Now,
	}
}

// WithClock replaces the time source. Tests use it to step past TTLs.
func (c *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	c.now = now
	return c
}

func (c *MemoryStore) Name() string { return "memory" }

func (c *MemoryStore) Get(ctx context.Context, key string) Result {
	if err := ctx.Err(); err != nil {
		return Unavailable(NewCacheError("get", err))
	}
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return Miss()
	}
	if c.expired(e) {
		c.mu.Lock()
		delete(c.store, key)
		c.mu.Unlock()
		return Miss()
	}
	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return Hit(out)
}

func (c *MemoryStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return NewCacheError("set", err)
	}
	e := entry{payload: append([]byte(nil), payload...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = e
	return nil
}

func (c *MemoryStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		e, ok := c.store[k]
		if !ok {
			continue
		}
		if !c.expired(e) {
			n++
		}
		delete(c.store, k)
	}
	return n, nil
}

func (c *MemoryStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for k, e := range c.store {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if !c.expired(e) {
			n++
		}
		delete(c.store, k)
	}
	return n, nil
}

func (c *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (c *MemoryStore) Close() error { return nil }

// Keys returns the live keys. Intended for tests.
func (c *MemoryStore) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.store))
	for k, e := range c.store {
		if !c.expired(e) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *MemoryStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}
