package cache

import (
	"time"

	"marketplace-properties/pkg/config"
)

// Category groups cache entries that share a TTL.
type Category string

const (
	CategorySearch    Category = "search"
	CategoryDetail    Category = "detail"
	CategoryAggregate Category = "aggregate"
)

// TTLPolicy maps a category to its TTL. Detail pages outlive search pages and
// aggregates outlive both.
type TTLPolicy struct {
	Search    time.Duration
	Detail    time.Duration
	Aggregate time.Duration
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Search:    5 * time.Minute,
		Detail:    30 * time.Minute,
		Aggregate: time.Hour,
	}
}

func NewTTLPolicy(cfg config.CacheConfig) TTLPolicy {
	p := DefaultTTLPolicy()
	if cfg.SearchTTL > 0 {
		p.Search = cfg.SearchTTL
	}
	if cfg.DetailTTL > 0 {
		p.Detail = cfg.DetailTTL
	}
	if cfg.AggregateTTL > 0 {
		p.Aggregate = cfg.AggregateTTL
	}
	return p
}

func (p TTLPolicy) For(c Category) time.Duration {
	switch c {
	case CategoryDetail:
		return p.Detail
	case CategoryAggregate:
		return p.Aggregate
	default:
		return p.Search
	}
}
