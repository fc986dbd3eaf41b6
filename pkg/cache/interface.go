package cache

import (
	"context"
	"time"
)

// Status classifies the outcome of a cache read.
type Status int

const (
	StatusMiss Status = iota
	StatusHit
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "miss"
	}
}

// Result is the outcome of Store.Get. Payload is set only for a hit, Err only when the
// store could not be reached.
type Result struct {
	Status  Status
	Payload []byte
	Err     error
}

func Hit(payload []byte) Result { return Result{Status: StatusHit, Payload: payload} }

func Miss() Result { return Result{Status: StatusMiss} }

func Unavailable(err error) Result { return Result{Status: StatusUnavailable, Err: err} }

func (r Result) IsHit() bool { return r.Status == StatusHit }

// Store is a key/value cache with per-entry TTL. Implementations must be safe for
// concurrent use. Deleting an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) Result
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Delete removes keys and reports how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)
	// DeletePrefix removes every key starting with prefix and reports how many went.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
	Name() string
	Close() error
}
