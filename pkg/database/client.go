package database

import (
	"context"
	"fmt"
	"time"

	"marketplace-properties/pkg/config"
	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo owns the client connection and the application database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect opens and verifies a MongoDB connection.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(100)

	start := time.Now()
	client, err := mongo.Connect(ctx, clientOptions)
	metrics.DatastoreOperationDuration.WithLabelValues("connect", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatastoreErrorsTotal.WithLabelValues("connect", "").Inc()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	m := &Mongo{Client: client, DB: client.Database(cfg.DBName)}
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GlobalLogger.Println("MongoDB connected successfully.")
	return m, nil
}

func (m *Mongo) Name() string { return "mongodb" }

func (m *Mongo) Ping(ctx context.Context) error {
	start := time.Now()
	err := m.Client.Ping(ctx, readpref.Primary())
	metrics.DatastoreOperationDuration.WithLabelValues("ping", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatastoreErrorsTotal.WithLabelValues("ping", "").Inc()
	}
	return err
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	start := time.Now()
	err := m.Client.Disconnect(ctx)
	metrics.DatastoreOperationDuration.WithLabelValues("disconnect", "").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatastoreErrorsTotal.WithLabelValues("disconnect", "").Inc()
		logger.GlobalLogger.Errorf("Error closing MongoDB: %v", err)
		return
	}
	logger.GlobalLogger.Println("MongoDB connection closed")
}
