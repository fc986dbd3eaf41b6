package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
	"marketplace-properties/pkg/database"
	"marketplace-properties/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type propertyRepository struct {
	collection *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) PropertyRepository {
	return &propertyRepository{
		collection: db.Collection(database.PropertiesCollection),
	}
}

func observe(op, collection string, start time.Time, err error) {
	metrics.DatastoreOperationDuration.WithLabelValues(op, collection).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		metrics.DatastoreErrorsTotal.WithLabelValues(op, collection).Inc()
	}
}

func (r *propertyRepository) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	start := time.Now()
	total, err := r.collection.CountDocuments(ctx, toBSON(preds))
	observe("count_documents", database.PropertiesCollection, start, err)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *propertyRepository) Find(ctx context.Context, preds []query.Predicate, offset, limit int) ([]models.Property, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := r.collection.Find(ctx, toBSON(preds), findOptions)
	observe("find", database.PropertiesCollection, start, err)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := make([]models.Property, 0, limit)
	start = time.Now()
	err = cursor.All(ctx, &properties)
	observe("cursor_all", database.PropertiesCollection, start, err)
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	start := time.Now()
	var property models.Property
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	observe("find_one", database.PropertiesCollection, start, err)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("property %s: %w", id, apperrors.ErrPropertyNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, property)
	observe("insert", database.PropertiesCollection, start, err)
	return err
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	start := time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": property.ID}, property)
	observe("replace_one", database.PropertiesCollection, start, err)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("property %s: %w", property.ID, apperrors.ErrPropertyNotFound)
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	observe("delete_one", database.PropertiesCollection, start, err)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("property %s: %w", id, apperrors.ErrPropertyNotFound)
	}
	return nil
}

type bucket struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type statisticsFacets struct {
	ByCity []bucket `bson:"by_city"`
	ByType []bucket `bson:"by_type"`
	Prices []struct {
		Total int64   `bson:"total"`
		Min   float64 `bson:"min"`
		Avg   float64 `bson:"avg"`
		Max   float64 `bson:"max"`
	} `bson:"prices"`
}

// Statistics aggregates available listings in a single $facet pass.
func (r *propertyRepository) Statistics(ctx context.Context) (*models.PropertyStatistics, error) {
	countBy := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
			bson.M{"$sort": bson.M{"count": -1}},
		}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: toBSON(query.Base())}},
		{{Key: "$facet", Value: bson.M{
			"by_city": countBy("city"),
			"by_type": countBy("property_type"),
			"prices": bson.A{bson.M{"$group": bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": 1},
				"min":   bson.M{"$min": "$price"},
				"avg":   bson.M{"$avg": "$price"},
				"max":   bson.M{"$max": "$price"},
			}}},
		}}},
	}

	start := time.Now()
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	observe("aggregate", database.PropertiesCollection, start, err)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var facets []statisticsFacets
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, err
	}

	stats := &models.PropertyStatistics{
		ByCity:      map[string]int64{},
		ByType:      map[string]int64{},
		GeneratedAt: time.Now().UTC(),
	}
	if len(facets) == 0 {
		return stats, nil
	}
	for _, b := range facets[0].ByCity {
		stats.ByCity[b.Key] = b.Count
	}
	for _, b := range facets[0].ByType {
		stats.ByType[b.Key] = b.Count
	}
	if len(facets[0].Prices) > 0 {
		p := facets[0].Prices[0]
		stats.TotalAvailable = p.Total
		stats.MinPrice, stats.AvgPrice, stats.MaxPrice = p.Min, p.Avg, p.Max
	}
	return stats, nil
}
