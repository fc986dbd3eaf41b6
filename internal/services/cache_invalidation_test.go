package services

import (
	"context"
	"testing"
	"time"

	"marketplace-properties/internal/models"
	"marketplace-properties/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warmCache(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.query.GetProperties(ctx, models.PropertyFilter{}, models.ContextSearch, models.NewPagination(1, 20))
	require.NoError(t, err)
	_, _, err = f.query.GetPropertyByID(ctx, "prop-001")
	require.NoError(t, err)
	_, _, err = f.query.GetPropertyByID(ctx, "prop-002")
	require.NoError(t, err)
	_, _, err = f.query.FeaturedProperties(ctx, DefaultFeaturedLimit)
	require.NoError(t, err)
	_, _, err = f.query.Statistics(ctx)
	require.NoError(t, err)
}

func TestInvalidationPurgesSearchAggregateAndDetail(t *testing.T) {
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2), listing(2, "Cairo", 3))
	warmCache(t, f)
	require.Len(t, f.store.Keys(), 5)

	f.inval.OnPropertyUpdated(context.Background(), "prop-001")

	assert.Equal(t, []string{cache.PropertyKey("prop-002")}, f.store.Keys())
}

func TestInvalidationIsIdempotent(t *testing.T) {
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2), listing(2, "Cairo", 3))
	warmCache(t, f)

	f.inval.OnPropertyUpdated(context.Background(), "prop-001")
	once := f.store.Keys()
	f.inval.OnPropertyUpdated(context.Background(), "prop-001")

	assert.Equal(t, once, f.store.Keys())
}

func TestInvalidationSurvivesCanceledRequest(t *testing.T) {
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2))
	_, err := f.query.GetProperties(context.Background(), models.PropertyFilter{}, models.ContextSearch, models.NewPagination(1, 20))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.inval.OnPropertyDeleted(ctx, "prop-001")

	assert.Empty(t, f.store.Keys())
}

func TestInvalidationSwallowsStoreErrors(t *testing.T) {
	f := newFixtureWithStore(brokenStore{})
	assert.NotPanics(t, func() {
		f.inval.OnPropertyCreated(context.Background(), "prop-001")
	})
}

func TestCreatePropertyForcesFeaturedMiss(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	old := listing(1, "Cairo", 2)
	old.IsFeatured = true
	f.data.Seed(old)

	featured, hit, err := f.query.FeaturedProperties(ctx, DefaultFeaturedLimit)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, featured, 1)
	assert.Contains(t, f.store.Keys(), cache.FeaturedKey(DefaultFeaturedLimit))

	created, err := f.writes.CreateProperty(ctx, &models.PropertyInput{
		Title: "New featured villa", City: "Cairo", PropertyType: "villa", Price: 9e6, IsFeatured: true,
	}, "broker-1")
	require.NoError(t, err)
	assert.NotContains(t, f.store.Keys(), cache.FeaturedKey(DefaultFeaturedLimit))

	featured, hit, err = f.query.FeaturedProperties(ctx, DefaultFeaturedLimit)
	require.NoError(t, err)
	assert.False(t, hit)
	ids := make([]string, 0, len(featured))
	for _, p := range featured {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, created.ID)
}

func TestClearAllAndProperty(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2), listing(2, "Cairo", 3))
	warmCache(t, f)

	n, err := f.inval.ClearProperty(ctx, "prop-001")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, f.store.Keys(), cache.PropertyKey("prop-001"))

	n, err = f.inval.ClearProperty(ctx, "prop-001")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.inval.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []string{cache.PropertyKey("prop-002")}, f.store.Keys())
}

func TestCacheHealth(t *testing.T) {
	h := newFixture().inval.Health(context.Background())
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "memory", h.Store)

	assert.Empty(t, h.Breaker)

	h = newFixtureWithStore(brokenStore{}).inval.Health(context.Background())
	assert.Equal(t, "unhealthy", h.Status)
	assert.NotEmpty(t, h.Error)
}

func TestCacheHealthReportsBreakerState(t *testing.T) {
	ctx := context.Background()
	store := cache.NewBreakerStore(brokenStore{}, cache.BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute})
	inval := newFixtureWithStore(store).inval

	h := inval.Health(ctx)
	assert.Equal(t, "closed", h.Breaker)
	assert.Equal(t, "broken", h.Store)

	store.Get(ctx, "k")
	store.Get(ctx, "k")
	h = inval.Health(ctx)
	assert.Equal(t, "open", h.Breaker)
	assert.Equal(t, "unhealthy", h.Status)
}
