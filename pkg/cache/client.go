package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"marketplace-properties/pkg/config"
	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient builds a go-redis client from cfg. It does not dial; connections are
// opened lazily and re-established by the pool after an outage.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		if cfg.TLSCertFile != "" {
			cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
			if err != nil {
				logger.GlobalLogger.Errorf("failed to load TLS certificate: %v", err)
				return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
			}
			tlsConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
		} else {
			tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}

	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 2,
		TLSConfig:    tlsConfig,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}), nil
}

// PingRedis verifies the connection at startup. A failure is reported, not fatal:
// callers keep the client and let the breaker absorb errors until Redis is back.
func PingRedis(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	metrics.RedisOperationDuration.WithLabelValues("ping").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("ping").Inc()
		return fmt.Errorf("failed to connect to Redis at %s: %w", client.Options().Addr, err)
	}

	logger.GlobalLogger.Println("Redis connected successfully")
	return nil
}
