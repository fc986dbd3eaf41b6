package repositories

import (
	"context"
	"time"

	"marketplace-properties/internal/models"
	"marketplace-properties/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppraisalStatusCompleted marks an appraisal whose value may be shown to buyers.
const AppraisalStatusCompleted = "completed"

type appraisalRepository struct {
	collection *mongo.Collection
}

func NewAppraisalRepository(db *mongo.Database) AppraisalRepository {
	return &appraisalRepository{collection: db.Collection(database.AppraisalsCollection)}
}

func (r *appraisalRepository) LatestByPropertyIDs(ctx context.Context, ids []string) (map[string]models.AppraisalSummary, error) {
	out := make(map[string]models.AppraisalSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"property_id": bson.M{"$in": ids}, "status": AppraisalStatusCompleted}}},
		{{Key: "$sort", Value: bson.D{{Key: "appraised_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{"_id": "$property_id", "latest": bson.M{"$first": "$$ROOT"}}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$latest"}}},
	}

	start := time.Now()
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	observe("aggregate", database.AppraisalsCollection, start, err)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []models.AppraisalSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	for _, s := range summaries {
		out[s.PropertyID] = s
	}
	return out, nil
}
