package repositories

import (
	"context"
	"encoding/json"

	"marketplace-properties/pkg/cache"
	"marketplace-properties/pkg/logger"
)

type propertyCache struct {
	store cache.Store
	ttl   cache.TTLPolicy
}

func NewPropertyCache(store cache.Store, ttl cache.TTLPolicy) PropertyCache {
	return &propertyCache{store: store, ttl: ttl}
}

func (c *propertyCache) Get(ctx context.Context, category cache.Category, key string, dest interface{}) cache.Status {
	res := c.store.Get(ctx, key)
	switch res.Status {
	case cache.StatusUnavailable:
		logger.GlobalLogger.Warnf("cache read failed for %s, falling back to datastore: %v", key, res.Err)
	case cache.StatusHit:
		if err := json.Unmarshal(res.Payload, dest); err != nil {
			logger.GlobalLogger.Warnf("discarding undecodable cache entry %s: %v", key, err)
			_, _ = c.store.Delete(ctx, key)
			res = cache.Miss()
		}
	}
	cache.RecordLookup(category, res.Status)
	return res.Status
}

func (c *propertyCache) Set(ctx context.Context, category cache.Category, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return cache.NewCacheError("marshal", err)
	}
	if err := c.store.Set(ctx, key, data, c.ttl.For(category)); err != nil {
		logger.GlobalLogger.Warnf("cache write failed for %s: %v", key, err)
		return err
	}
	return nil
}

func (c *propertyCache) Delete(ctx context.Context, keys ...string) (int64, error) {
	return c.store.Delete(ctx, keys...)
}

func (c *propertyCache) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	return c.store.DeletePrefix(ctx, prefix)
}

func (c *propertyCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *propertyCache) StoreName() string {
	return c.store.Name()
}

func (c *propertyCache) BreakerState() string {
	if b, ok := c.store.(interface{ State() string }); ok {
		return b.State()
	}
	return ""
}
