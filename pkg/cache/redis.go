package cache

import (
	"context"
	"errors"
	"time"

	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"

	"github.com/go-redis/redis/v8"
)

const scanBatch = 200

// RedisStore is a Store backed by a go-redis client. Every call is timed into
// metrics.RedisOperationDuration and failures are counted in metrics.RedisErrorsTotal.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// WithTimeout bounds each single-key operation. Prefix deletes are not bounded.
func (s *RedisStore) WithTimeout(d time.Duration) *RedisStore {
	s.timeout = d
	return s
}

func (s *RedisStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Get(ctx context.Context, key string) Result {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	val, err := s.client.Get(ctx, key).Bytes()
	observe("get", start)
	if errors.Is(err, redis.Nil) {
		return Miss()
	}
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get").Inc()
		return Unavailable(NewCacheError("get", err))
	}
	return Hit(val)
}

func (s *RedisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := s.client.Set(ctx, key, payload, ttl).Err()
	observe("set", start)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set").Inc()
		return NewCacheError("set", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	n, err := s.client.Del(ctx, keys...).Result()
	observe("delete", start)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("delete").Inc()
		return 0, NewCacheError("delete", err)
	}
	return n, nil
}

// DeletePrefix walks the keyspace with SCAN and deletes matches in batches, so it
// never blocks the server the way KEYS would.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	start := time.Now()
	defer observe("delete_prefix", start)

	var (
		deleted int64
		batch   = make([]string, 0, scanBatch)
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += n
		batch = batch[:0]
		return nil
	}

	iter := s.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				metrics.RedisErrorsTotal.WithLabelValues("delete_prefix").Inc()
				return deleted, NewCacheError("delete_prefix", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("delete_prefix").Inc()
		return deleted, NewCacheError("scan", err)
	}
	if err := flush(); err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("delete_prefix").Inc()
		return deleted, NewCacheError("delete_prefix", err)
	}
	logger.GlobalLogger.Debugf("deleted %d keys with prefix %s", deleted, prefix)
	return deleted, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := s.client.Ping(ctx).Err()
	observe("ping", start)
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("ping").Inc()
		return NewCacheError("ping", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		logger.GlobalLogger.Errorf("error closing Redis: %v", err)
		return err
	}
	logger.GlobalLogger.Println("Redis connection closed")
	return nil
}
