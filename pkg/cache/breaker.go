package cache

import (
	"context"
	"errors"
	"time"

	"marketplace-properties/pkg/logger"

	"github.com/sony/gobreaker"
)

type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// BreakerStore short-circuits calls to an unhealthy store. While open, reads report
// Unavailable and writes fail immediately instead of waiting on network timeouts.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerStore(next Store, s BreakerSettings) *BreakerStore {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cache-" + next.Name(),
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.GlobalLogger.Warnf("circuit breaker %s changed from %s to %s", name, from, to)
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

func (b *BreakerStore) Name() string { return b.next.Name() }

// State is the gobreaker state name shown by the admin cache health check.
func (b *BreakerStore) State() string { return b.cb.State().String() }

func (b *BreakerStore) Get(ctx context.Context, key string) Result {
	var res Result
	_, err := b.cb.Execute(func() (interface{}, error) {
		res = b.next.Get(ctx, key)
		if res.Status == StatusUnavailable {
			return nil, res.Err
		}
		return nil, nil
	})
	if err != nil && res.Status != StatusUnavailable {
		return Unavailable(breakerError("get", err))
	}
	return res
}

func (b *BreakerStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Set(ctx, key, payload, ttl)
	})
	return breakerError("set", err)
}

func (b *BreakerStore) Delete(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	_, err := b.cb.Execute(func() (interface{}, error) {
		var err error
		n, err = b.next.Delete(ctx, keys...)
		return nil, err
	})
	return n, breakerError("delete", err)
}

func (b *BreakerStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	_, err := b.cb.Execute(func() (interface{}, error) {
		var err error
		n, err = b.next.DeletePrefix(ctx, prefix)
		return nil, err
	})
	return n, breakerError("delete_prefix", err)
}

// Ping bypasses the breaker so health checks always see the real store.
func (b *BreakerStore) Ping(ctx context.Context) error { return b.next.Ping(ctx) }

func (b *BreakerStore) Close() error { return b.next.Close() }

func breakerError(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return NewCacheError(op, ErrCircuitOpen)
	}
	return err
}
