package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
	"marketplace-properties/internal/repositories"
	"marketplace-properties/internal/transformers"
	"marketplace-properties/internal/validators"
	"marketplace-properties/pkg/cache"
)

var seedTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	data   *repositories.MemoryStore
	store  *cache.MemoryStore
	repo   *countingRepo
	cache  repositories.PropertyCache
	query  *PropertyQueryService
	inval  *CacheInvalidator
	writes *PropertyService
}

func newFixture() *fixture {
	return newFixtureWithStore(cache.NewMemoryStore())
}

func newFixtureWithStore(store cache.Store) *fixture {
	data := repositories.NewMemoryStore()
	repo := &countingRepo{PropertyRepository: data.Properties()}
	pc := repositories.NewPropertyCache(store, cache.DefaultTTLPolicy())
	v := validators.NewPropertyValidator()
	inval := NewCacheInvalidator(pc)
	f := &fixture{
		data:   data,
		repo:   repo,
		cache:  pc,
		query:  NewPropertyQueryService(repo, data.Photos(), data.Appraisals(), pc, v),
		inval:  inval,
		writes: NewPropertyService(repo, transformers.NewPropertyTransformer(transformers.NewLocationTransformer()), v, inval),
	}
	if ms, ok := store.(*cache.MemoryStore); ok {
		f.store = ms
	}
	return f
}

// listing builds an available listing; n controls id and creation order.
func listing(n int, city string, bedrooms int) models.Property {
	return models.Property{
		ID:           fmt.Sprintf("prop-%03d", n),
		Title:        fmt.Sprintf("Listing %d", n),
		City:         city,
		PropertyType: "apartment",
		Bedrooms:     bedrooms,
		Price:        float64(1000000 + n*1000),
		Currency:     "EGP",
		Status:       models.StatusAvailable,
		CreatedAt:    seedTime.Add(time.Duration(n) * time.Minute),
		UpdatedAt:    seedTime,
	}
}

type countingRepo struct {
	repositories.PropertyRepository
	counts atomic.Int64
	finds  atomic.Int64
}

func (r *countingRepo) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	r.counts.Add(1)
	return r.PropertyRepository.Count(ctx, preds)
}

func (r *countingRepo) Find(ctx context.Context, preds []query.Predicate, offset, limit int) ([]models.Property, error) {
	r.finds.Add(1)
	return r.PropertyRepository.Find(ctx, preds, offset, limit)
}

var errBrokenStore = errors.New("connection refused")

// brokenStore fails every operation the way an unreachable Redis does.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) cache.Result { return cache.Unavailable(errBrokenStore) }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errBrokenStore
}
func (brokenStore) Delete(context.Context, ...string) (int64, error) {
	return 0, errBrokenStore
}
func (brokenStore) DeletePrefix(context.Context, string) (int64, error) {
	return 0, errBrokenStore
}
func (brokenStore) Ping(context.Context) error { return errBrokenStore }
func (brokenStore) Name() string               { return "broken" }
func (brokenStore) Close() error               { return nil }

type failingRepo struct {
	repositories.PropertyRepository
}

func (failingRepo) Count(context.Context, []query.Predicate) (int64, error) {
	return 0, errors.New("connection reset by peer")
}

func (failingRepo) Create(context.Context, *models.Property) error {
	return errors.New("connection reset by peer")
}

type spyInvalidator struct {
	mu     sync.Mutex
	events []string
}

func (s *spyInvalidator) record(event, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event+":"+id)
}

func (s *spyInvalidator) OnPropertyCreated(_ context.Context, id string) { s.record("created", id) }
func (s *spyInvalidator) OnPropertyUpdated(_ context.Context, id string) { s.record("updated", id) }
func (s *spyInvalidator) OnPropertyDeleted(_ context.Context, id string) { s.record("deleted", id) }
