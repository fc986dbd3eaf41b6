package repositories

import (
	"context"
	"time"

	"marketplace-properties/internal/models"
	"marketplace-properties/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type photoRepository struct {
	collection *mongo.Collection
}

func NewPhotoRepository(db *mongo.Database) PhotoRepository {
	return &photoRepository{collection: db.Collection(database.PhotosCollection)}
}

func (r *photoRepository) FindByPropertyIDs(ctx context.Context, ids []string) (map[string][]models.Photo, error) {
	out := make(map[string][]models.Photo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "property_id", Value: 1}, {Key: "position", Value: 1}})

	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{"property_id": bson.M{"$in": ids}}, opts)
	observe("find", database.PhotosCollection, start, err)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []models.Photo
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	for _, p := range photos {
		out[p.PropertyID] = append(out[p.PropertyID], p)
	}
	return out, nil
}
