package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
	"marketplace-properties/internal/repositories"
	"marketplace-properties/internal/validators"
	"marketplace-properties/pkg/cache"
	"marketplace-properties/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultFeaturedLimit = 8
	DefaultSimilarLimit  = 6
)

// PropertyQueryService serves the read side: search pages, detail, featured,
// statistics and similar listings. Every read goes through the cache first; a cache
// that misses or fails falls through to the repositories and the result is written
// back best effort. Datastore failures are returned wrapped in errors.ErrDatastore.
type PropertyQueryService struct {
	properties repositories.PropertyRepository
	photos     repositories.PhotoRepository
	appraisals repositories.AppraisalRepository
	cache      repositories.PropertyCache
	validator  validators.PropertyValidator
	group      singleflight.Group
	now        func() time.Time
}

func NewPropertyQueryService(
	properties repositories.PropertyRepository,
	photos repositories.PhotoRepository,
	appraisals repositories.AppraisalRepository,
	cache repositories.PropertyCache,
	validator validators.PropertyValidator,
) *PropertyQueryService {
	return &PropertyQueryService{
		properties: properties,
		photos:     photos,
		appraisals: appraisals,
		cache:      cache,
		validator:  validator,
		now:        time.Now,
	}
}

// SearchCacheKey is the cache key for one search page.
func SearchCacheKey(f models.PropertyFilter, qc models.QueryContext, p models.Pagination) string {
	params := f.Canonical()
	params["page"] = strconv.Itoa(p.Page)
	params["limit"] = strconv.Itoa(p.Limit)
	params["context"] = string(qc)
	return cache.SearchKey(params)
}

// GetProperties returns one page of available listings matching f.
func (s *PropertyQueryService) GetProperties(ctx context.Context, f models.PropertyFilter, qc models.QueryContext, p models.Pagination) (*models.PropertyPage, error) {
	start := s.now()
	if err := s.validator.ValidateFilter(f); err != nil {
		return nil, err
	}
	p = models.NewPagination(p.Page, p.Limit)

	key := SearchCacheKey(f, qc, p)
	shared, hit, err := readThrough(ctx, s, cache.CategorySearch, key, func(ctx context.Context) (*models.PropertyPage, error) {
		page, err := s.loadPage(ctx, query.Search(f), qc, p)
		if err != nil {
			return nil, err
		}
		cachedAt := s.now().UTC()
		page.Performance = models.Performance{Source: models.SourceDatastore, CachedAt: &cachedAt}
		return page, nil
	})
	if err != nil {
		return nil, err
	}

	page := *shared
	page.Items = append([]models.PropertyListing(nil), shared.Items...)
	if page.Items == nil {
		page.Items = []models.PropertyListing{}
	}
	page.Performance.CacheHit = hit
	page.Performance.Source = models.SourceDatastore
	if hit {
		page.Performance.Source = models.SourceCache
	}
	page.Performance.QueryTimeMs = s.now().Sub(start).Milliseconds()
	return &page, nil
}

// GetPropertyByID returns a listing with photos and its latest appraisal. Listings
// of any status are served here; only search is restricted to available ones.
func (s *PropertyQueryService) GetPropertyByID(ctx context.Context, id string) (*models.PropertyListing, bool, error) {
	return readThrough(ctx, s, cache.CategoryDetail, cache.PropertyKey(id), func(ctx context.Context) (*models.PropertyListing, error) {
		property, err := s.properties.FindByID(ctx, id)
		if err != nil {
			return nil, datastoreErr("find property", err)
		}
		items, err := s.enrich(ctx, []models.Property{*property}, models.ContextDetail)
		if err != nil {
			return nil, err
		}
		return &items[0], nil
	})
}

// FeaturedProperties returns up to limit featured available listings with photos.
func (s *PropertyQueryService) FeaturedProperties(ctx context.Context, limit int) ([]models.PropertyListing, bool, error) {
	limit = models.NewPagination(1, limit).Limit
	return readThrough(ctx, s, cache.CategoryAggregate, cache.FeaturedKey(limit), func(ctx context.Context) ([]models.PropertyListing, error) {
		rows, err := s.properties.Find(ctx, query.Featured(), 0, limit)
		if err != nil {
			return nil, datastoreErr("find featured", err)
		}
		return s.enrich(ctx, rows, models.ContextSearch)
	})
}

func (s *PropertyQueryService) Statistics(ctx context.Context) (*models.PropertyStatistics, bool, error) {
	return readThrough(ctx, s, cache.CategoryAggregate, cache.StatisticsKey(), func(ctx context.Context) (*models.PropertyStatistics, error) {
		stats, err := s.properties.Statistics(ctx)
		if err != nil {
			return nil, datastoreErr("statistics", err)
		}
		return stats, nil
	})
}

// SimilarProperties finds available listings in the same city with the same type,
// excluding the reference listing itself.
func (s *PropertyQueryService) SimilarProperties(ctx context.Context, id string, limit int) (*models.PropertyPage, error) {
	ref, _, err := s.GetPropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	city, exclude := ref.City, ref.ID
	f := models.PropertyFilter{
		City:          &city,
		PropertyTypes: []string{ref.PropertyType},
		ExcludeID:     &exclude,
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	return s.GetProperties(ctx, f, models.ContextListing, models.NewPagination(1, limit))
}

// loadPage runs the count and the page fetch concurrently, then enriches the page.
func (s *PropertyQueryService) loadPage(ctx context.Context, preds []query.Predicate, qc models.QueryContext, p models.Pagination) (*models.PropertyPage, error) {
	var (
		total int64
		rows  []models.Property
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.properties.Count(gctx, preds)
		if err != nil {
			return datastoreErr("count properties", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		found, err := s.properties.Find(gctx, preds, p.Offset(), p.Limit)
		if err != nil {
			return datastoreErr("find properties", err)
		}
		rows = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, rows, qc)
	if err != nil {
		return nil, err
	}
	return &models.PropertyPage{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}, nil
}

// enrich attaches photos and appraisal summaries as the query context asks.
func (s *PropertyQueryService) enrich(ctx context.Context, rows []models.Property, qc models.QueryContext) ([]models.PropertyListing, error) {
	items := make([]models.PropertyListing, len(rows))
	ids := make([]string, len(rows))
	for i, r := range rows {
		items[i].Property = r
		ids[i] = r.ID
	}
	withPhotos, withAppraisals := qc.Joins()
	if len(rows) == 0 || (!withPhotos && !withAppraisals) {
		return items, nil
	}

	var (
		photos     map[string][]models.Photo
		appraisals map[string]models.AppraisalSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	if withPhotos {
		g.Go(func() error {
			var err error
			if photos, err = s.photos.FindByPropertyIDs(gctx, ids); err != nil {
				return datastoreErr("find photos", err)
			}
			return nil
		})
	}
	if withAppraisals {
		g.Go(func() error {
			var err error
			if appraisals, err = s.appraisals.LatestByPropertyIDs(gctx, ids); err != nil {
				return datastoreErr("find appraisals", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Photos = photos[items[i].ID]
		if a, ok := appraisals[items[i].ID]; ok {
			items[i].Appraisal = &a
		}
	}
	return items, nil
}

// readThrough serves key from the cache, or loads it once per key across concurrent
// callers and writes the result back. The returned value may be shared between
// callers and must not be mutated.
func readThrough[T any](ctx context.Context, s *PropertyQueryService, category cache.Category, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var cached T
	if s.cache.Get(ctx, category, key, &cached) == cache.StatusHit {
		return cached, true, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, category, key, val); err != nil {
			logger.GlobalLogger.Debugf("skipping cache population for %s: %v", key, err)
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}

// datastoreErr wraps a repository failure in ErrDatastore unless it is a not-found.
func datastoreErr(op string, err error) error {
	if apperrors.IsNotFound(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrDatastore, op, err)
}
