package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"
	"marketplace-properties/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestGetPropertiesNewCairoScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for i := 0; i < 45; i++ {
		f.data.Seed(listing(i, "New Cairo", 3+i%3))
	}
	f.data.Seed(listing(100, "New Cairo", 2), listing(101, "Giza", 4))
	sold := listing(102, "New Cairo", 4)
	sold.Status = models.StatusSold
	f.data.Seed(sold)

	page, err := f.query.GetProperties(ctx,
		models.PropertyFilter{City: strPtr("New Cairo"), MinBedrooms: intPtr(3)},
		models.ContextSearch, models.NewPagination(1, 20))
	require.NoError(t, err)

	assert.Len(t, page.Items, 20)
	assert.Equal(t, int64(45), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.Performance.CacheHit)
	assert.Equal(t, models.SourceDatastore, page.Performance.Source)

	last, err := f.query.GetProperties(ctx,
		models.PropertyFilter{City: strPtr("New Cairo"), MinBedrooms: intPtr(3)},
		models.ContextSearch, models.NewPagination(3, 20))
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
}

func TestGetPropertiesVirtualTourScenario(t *testing.T) {
	f := newFixture()
	for i := 0; i < 100; i++ {
		p := listing(i, "Sheikh Zayed", 2)
		if i%20 == 0 {
			p.VirtualTourURL = strPtr(fmt.Sprintf("https://tours.example/%d", i))
		}
		if i == 1 {
			p.VirtualTourURL = strPtr("")
		}
		f.data.Seed(p)
	}

	tour := true
	page, err := f.query.GetProperties(context.Background(),
		models.PropertyFilter{HasVirtualTour: &tour}, models.ContextListing, models.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	for _, item := range page.Items {
		assert.True(t, item.HasVirtualTour())
	}
}

func TestGetPropertiesOnlyReturnsAvailable(t *testing.T) {
	f := newFixture()
	for i, status := range []string{models.StatusAvailable, models.StatusSold, models.StatusReserved, models.StatusInactive, models.StatusAvailable} {
		p := listing(i, "Cairo", 1)
		p.Status = status
		f.data.Seed(p)
	}

	page, err := f.query.GetProperties(context.Background(), models.PropertyFilter{}, models.ContextSearch, models.NewPagination(1, 50))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, item := range page.Items {
		assert.Equal(t, models.StatusAvailable, item.Status)
	}
}

func TestGetPropertiesInvertedRangeIsEmpty(t *testing.T) {
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2))
	minPrice, maxPrice := 5e6, 1e6

	page, err := f.query.GetProperties(context.Background(),
		models.PropertyFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, models.ContextSearch, models.NewPagination(1, 20))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
}

func TestGetPropertiesCacheHitMatchesMiss(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for i := 0; i < 30; i++ {
		f.data.Seed(listing(i, "New Cairo", 3))
	}
	f.data.AddPhotos(
		models.Photo{ID: "ph-2", PropertyID: "prop-029", URL: "https://img.example/2.jpg", Position: 2},
		models.Photo{ID: "ph-1", PropertyID: "prop-029", URL: "https://img.example/1.jpg", Position: 1, IsCover: true},
	)
	filter := models.PropertyFilter{City: strPtr("New Cairo")}

	miss, err := f.query.GetProperties(ctx, filter, models.ContextSearch, models.NewPagination(1, 10))
	require.NoError(t, err)
	hit, err := f.query.GetProperties(ctx, filter, models.ContextSearch, models.NewPagination(1, 10))
	require.NoError(t, err)

	assert.True(t, hit.Performance.CacheHit)
	assert.Equal(t, models.SourceCache, hit.Performance.Source)
	assert.Equal(t, int64(1), f.repo.counts.Load())

	miss.Performance, hit.Performance = models.Performance{}, models.Performance{}
	assert.Equal(t, miss, hit)
	require.Len(t, hit.Items[0].Photos, 2)
	assert.Equal(t, "ph-1", hit.Items[0].Photos[0].ID)
}

func TestGetPropertiesParameterOrderSharesCacheEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.data.Seed(listing(1, "New Cairo", 3))

	a := models.PropertyFilter{City: strPtr("New Cairo"), PropertyTypes: []string{"villa", "apartment"}}
	b := models.PropertyFilter{PropertyTypes: []string{"apartment", "villa"}, City: strPtr("New Cairo")}

	_, err := f.query.GetProperties(ctx, a, models.ContextSearch, models.NewPagination(1, 20))
	require.NoError(t, err)
	page, err := f.query.GetProperties(ctx, b, models.ContextSearch, models.NewPagination(0, 20))
	require.NoError(t, err)
	assert.True(t, page.Performance.CacheHit)
}

func TestGetPropertiesSurvivesUnavailableCache(t *testing.T) {
	f := newFixtureWithStore(brokenStore{})
	for i := 0; i < 3; i++ {
		f.data.Seed(listing(i, "Cairo", 2))
	}

	for i := 0; i < 2; i++ {
		page, err := f.query.GetProperties(context.Background(), models.PropertyFilter{}, models.ContextSearch, models.NewPagination(1, 20))
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.False(t, page.Performance.CacheHit)
	}
	assert.Equal(t, int64(2), f.repo.counts.Load())
}

func TestGetPropertiesDatastoreFailure(t *testing.T) {
	f := newFixture()
	f.query.properties = failingRepo{PropertyRepository: f.data.Properties()}

	_, err := f.query.GetProperties(context.Background(), models.PropertyFilter{}, models.ContextSearch, models.NewPagination(1, 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDatastore)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Empty(t, f.store.Keys())
}

func TestGetPropertiesRejectsNegativeBounds(t *testing.T) {
	f := newFixture()
	_, err := f.query.GetProperties(context.Background(), models.PropertyFilter{MinBedrooms: intPtr(-1)}, models.ContextSearch, models.NewPagination(1, 20))
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)
}

func TestQueryContextControlsJoins(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2))
	f.data.AddPhotos(models.Photo{ID: "ph", PropertyID: "prop-001", Position: 1})
	f.data.AddAppraisals(models.AppraisalSummary{PropertyID: "prop-001", AppraisedValue: 2e6, Status: "completed", AppraisedAt: seedTime})

	tests := []struct {
		qc            models.QueryContext
		wantPhotos    bool
		wantAppraisal bool
	}{
		{models.ContextListing, false, false},
		{models.ContextSearch, true, false},
		{models.ContextDetail, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.qc), func(t *testing.T) {
			page, err := f.query.GetProperties(ctx, models.PropertyFilter{}, tt.qc, models.NewPagination(1, 20))
			require.NoError(t, err)
			require.Len(t, page.Items, 1)
			assert.Equal(t, tt.wantPhotos, len(page.Items[0].Photos) > 0)
			assert.Equal(t, tt.wantAppraisal, page.Items[0].Appraisal != nil)
		})
	}
}

func TestGetPropertyByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.data.Seed(listing(7, "Cairo", 2))
	f.data.AddAppraisals(models.AppraisalSummary{PropertyID: "prop-007", AppraisedValue: 3e6, Status: "completed", AppraisedAt: seedTime})

	got, hit, err := f.query.GetPropertyByID(ctx, "prop-007")
	require.NoError(t, err)
	assert.False(t, hit)
	require.NotNil(t, got.Appraisal)
	assert.Equal(t, 3e6, got.Appraisal.AppraisedValue)

	_, hit, err = f.query.GetPropertyByID(ctx, "prop-007")
	require.NoError(t, err)
	assert.True(t, hit)

	_, _, err = f.query.GetPropertyByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrPropertyNotFound)
	assert.NotContains(t, f.store.Keys(), cache.PropertyKey("missing"))
}

func TestSimilarPropertiesExcludesReference(t *testing.T) {
	f := newFixture()
	for i := 0; i < 10; i++ {
		f.data.Seed(listing(i, "New Cairo", 3))
	}
	villa := listing(50, "New Cairo", 5)
	villa.PropertyType = "villa"
	f.data.Seed(villa, listing(51, "Giza", 3))

	page, err := f.query.SimilarProperties(context.Background(), "prop-003", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9), page.Total)
	assert.Len(t, page.Items, DefaultSimilarLimit)
	for _, item := range page.Items {
		assert.NotEqual(t, "prop-003", item.ID)
		assert.Equal(t, "New Cairo", item.City)
		assert.Equal(t, "apartment", item.PropertyType)
	}
}

func TestStatisticsCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.data.Seed(listing(1, "Cairo", 2), listing(2, "Giza", 3))

	stats, hit, err := f.query.Statistics(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(2), stats.TotalAvailable)

	_, hit, err = f.query.Statistics(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	f := newFixture()
	for i := 0; i < 5; i++ {
		f.data.Seed(listing(i, "Cairo", 2))
	}

	var wg sync.WaitGroup
	pages := make([]*models.PropertyPage, 8)
	for i := range pages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page, err := f.query.GetProperties(context.Background(), models.PropertyFilter{}, models.ContextListing, models.NewPagination(1, 20))
			if assert.NoError(t, err) {
				pages[i] = page
			}
		}(i)
	}
	wg.Wait()

	for _, p := range pages {
		require.NotNil(t, p)
		assert.Equal(t, int64(5), p.Total)
	}
	assert.LessOrEqual(t, f.repo.counts.Load(), int64(len(pages)))
}
