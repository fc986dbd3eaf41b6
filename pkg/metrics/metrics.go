package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_cache_hits_total",
			Help: "Total number of property cache hits",
		},
		[]string{"category"},
	)
	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_cache_misses_total",
			Help: "Total number of property cache misses",
		},
		[]string{"category"},
	)
	CacheUnavailableTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_cache_unavailable_total",
			Help: "Cache lookups that failed and were served from the datastore",
		},
		[]string{"category"},
	)
	CacheInvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_cache_invalidations_total",
			Help: "Cache invalidations triggered by property mutations",
		},
		[]string{"event"},
	)
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	RedisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total number of failed Redis operations",
		},
		[]string{"operation"},
	)
	DatastoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datastore_operation_duration_seconds",
			Help:    "Datastore operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)
	DatastoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_errors_total",
			Help: "Total number of failed datastore operations",
		},
		[]string{"operation", "collection"},
	)
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			CacheHitsTotal,
			CacheMissesTotal,
			CacheUnavailableTotal,
			CacheInvalidationsTotal,
			RedisOperationDuration,
			RedisErrorsTotal,
			DatastoreOperationDuration,
			DatastoreErrorsTotal,
		)
	})
}
