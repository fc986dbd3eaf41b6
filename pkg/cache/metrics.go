package cache

import (
	"time"

	"marketplace-properties/pkg/metrics"
)

// observe records the duration of a Redis operation under the given label.
func observe(label string, start time.Time) {
	metrics.RedisOperationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
}

// RecordLookup counts a cache read outcome for a key category.
func RecordLookup(category Category, status Status) {
	switch status {
	case StatusHit:
		metrics.CacheHitsTotal.WithLabelValues(string(category)).Inc()
	case StatusMiss:
		metrics.CacheMissesTotal.WithLabelValues(string(category)).Inc()
	case StatusUnavailable:
		metrics.CacheUnavailableTotal.WithLabelValues(string(category)).Inc()
	}
}
