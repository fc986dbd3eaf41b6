package repositories

import (
	"context"

	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
	"marketplace-properties/pkg/cache"
)

// PropertyRepository reads and writes listings. Count and Find take compiled
// predicates; Find orders by created_at descending, then id. FindByID, Update and
// Delete wrap errors.ErrPropertyNotFound when no listing has the id.
type PropertyRepository interface {
	Count(ctx context.Context, preds []query.Predicate) (int64, error)
	Find(ctx context.Context, preds []query.Predicate, offset, limit int) ([]models.Property, error)
	FindByID(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*models.PropertyStatistics, error)
}

// PhotoRepository returns photos grouped by property, each group ordered by position.
type PhotoRepository interface {
	FindByPropertyIDs(ctx context.Context, ids []string) (map[string][]models.Photo, error)
}

// AppraisalRepository returns the latest completed appraisal per property.
type AppraisalRepository interface {
	LatestByPropertyIDs(ctx context.Context, ids []string) (map[string]models.AppraisalSummary, error)
}

// PropertyCache stores JSON-encoded values in a cache.Store. It never returns a
// store failure to the caller as an error on reads; the Status says what happened.
type PropertyCache interface {
	Get(ctx context.Context, category cache.Category, key string, dest interface{}) cache.Status
	Set(ctx context.Context, category cache.Category, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
	StoreName() string
	// BreakerState is empty when the store has no circuit breaker.
	BreakerState() string
}
