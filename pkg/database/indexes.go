package database

import (
	"context"
	"time"

	"marketplace-properties/pkg/logger"
	"marketplace-properties/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes the search, photo and appraisal queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		PropertiesCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "city", Value: 1}, {Key: "bedrooms", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_featured", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		PhotosCollection: {
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "position", Value: 1}}},
		},
		AppraisalsCollection: {
			{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "appraised_at", Value: -1}}},
		},
	}

	for name, models := range specs {
		start := time.Now()
		_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		metrics.DatastoreOperationDuration.WithLabelValues("create_indexes", name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.DatastoreErrorsTotal.WithLabelValues("create_indexes", name).Inc()
			logger.GlobalLogger.Errorf("Failed to create indexes on %s: %v", name, err)
			return err
		}
	}

	logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	return nil
}
