package repositories

import (
	"context"
	"testing"
	"time"

	"marketplace-properties/internal/models"
	"marketplace-properties/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	pc := NewPropertyCache(cache.NewMemoryStore(), cache.DefaultTTLPolicy())

	var got models.PropertyPage
	assert.Equal(t, cache.StatusMiss, pc.Get(ctx, cache.CategorySearch, "k", &got))

	want := models.PropertyPage{Page: 1, Limit: 20, Total: 1, TotalPages: 1, Items: []models.PropertyListing{{Property: models.Property{ID: "p"}}}}
	require.NoError(t, pc.Set(ctx, cache.CategorySearch, "k", want))

	assert.Equal(t, cache.StatusHit, pc.Get(ctx, cache.CategorySearch, "k", &got))
	assert.Equal(t, "p", got.Items[0].ID)
}

func TestPropertyCacheDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("{not json"), time.Minute))
	pc := NewPropertyCache(store, cache.DefaultTTLPolicy())

	var got models.PropertyPage
	assert.Equal(t, cache.StatusMiss, pc.Get(ctx, cache.CategorySearch, "k", &got))
	assert.Empty(t, store.Keys())
}

func TestPropertyCacheUsesCategoryTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore().WithClock(func() time.Time { return now })
	pc := NewPropertyCache(store, cache.DefaultTTLPolicy())

	require.NoError(t, pc.Set(ctx, cache.CategorySearch, "search", 1))
	require.NoError(t, pc.Set(ctx, cache.CategoryDetail, "detail", 1))

	now = now.Add(10 * time.Minute)
	var v int
	assert.Equal(t, cache.StatusMiss, pc.Get(ctx, cache.CategorySearch, "search", &v))
	assert.Equal(t, cache.StatusHit, pc.Get(ctx, cache.CategoryDetail, "detail", &v))
}
