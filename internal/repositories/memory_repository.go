package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
)

// MemoryStore holds properties, photos and appraisals in process. It backs the
// "memory" database driver for local runs and the service tests.
type MemoryStore struct {
	mu         sync.RWMutex
	properties map[string]models.Property
	photos     map[string][]models.Photo
	appraisals map[string][]models.AppraisalSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties: make(map[string]models.Property),
		photos:     make(map[string][]models.Photo),
		appraisals: make(map[string][]models.AppraisalSummary),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

// Seed inserts or replaces properties.
func (m *MemoryStore) Seed(properties ...models.Property) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range properties {
		m.properties[p.ID] = p
	}
}

func (m *MemoryStore) AddPhotos(photos ...models.Photo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range photos {
		m.photos[p.PropertyID] = append(m.photos[p.PropertyID], p)
	}
}

func (m *MemoryStore) AddAppraisals(appraisals ...models.AppraisalSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range appraisals {
		m.appraisals[a.PropertyID] = append(m.appraisals[a.PropertyID], a)
	}
}

func (m *MemoryStore) Properties() PropertyRepository { return memoryProperties{m} }
func (m *MemoryStore) Photos() PhotoRepository         { return memoryPhotos{m} }
func (m *MemoryStore) Appraisals() AppraisalRepository { return memoryAppraisals{m} }

type memoryProperties struct{ m *MemoryStore }

func (r memoryProperties) matching(preds []query.Predicate) []models.Property {
	out := make([]models.Property, 0)
	for _, p := range r.m.properties {
		if query.Matches(p, preds) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r memoryProperties) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.matching(preds))), nil
}

func (r memoryProperties) Find(ctx context.Context, preds []query.Predicate, offset, limit int) ([]models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	all := r.matching(preds)
	if offset < 0 || offset >= len(all) {
		return []models.Property{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memoryProperties) FindByID(ctx context.Context, id string) (*models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, apperrors.ErrPropertyNotFound)
	}
	return &p, nil
}

func (r memoryProperties) Create(ctx context.Context, property *models.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.properties[property.ID]; exists {
		return fmt.Errorf("property %s already exists", property.ID)
	}
	r.m.properties[property.ID] = *property
	return nil
}

func (r memoryProperties) Update(ctx context.Context, property *models.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.properties[property.ID]; !exists {
		return fmt.Errorf("property %s: %w", property.ID, apperrors.ErrPropertyNotFound)
	}
	r.m.properties[property.ID] = *property
	return nil
}

func (r memoryProperties) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.properties[id]; !exists {
		return fmt.Errorf("property %s: %w", id, apperrors.ErrPropertyNotFound)
	}
	delete(r.m.properties, id)
	delete(r.m.photos, id)
	delete(r.m.appraisals, id)
	return nil
}

func (r memoryProperties) Statistics(ctx context.Context) (*models.PropertyStatistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return foldStatistics(r.matching(query.Base())), nil
}

type memoryPhotos struct{ m *MemoryStore }

func (r memoryPhotos) FindByPropertyIDs(ctx context.Context, ids []string) (map[string][]models.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make(map[string][]models.Photo, len(ids))
	for _, id := range ids {
		photos := append([]models.Photo(nil), r.m.photos[id]...)
		if len(photos) == 0 {
			continue
		}
		sort.SliceStable(photos, func(i, j int) bool { return photos[i].Position < photos[j].Position })
		out[id] = photos
	}
	return out, nil
}

type memoryAppraisals struct{ m *MemoryStore }

func (r memoryAppraisals) LatestByPropertyIDs(ctx context.Context, ids []string) (map[string]models.AppraisalSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make(map[string]models.AppraisalSummary, len(ids))
	for _, id := range ids {
		for _, a := range r.m.appraisals[id] {
			if a.Status != AppraisalStatusCompleted {
				continue
			}
			if cur, ok := out[id]; !ok || a.AppraisedAt.After(cur.AppraisedAt) {
				out[id] = a
			}
		}
	}
	return out, nil
}

// foldStatistics computes counts and price bounds over already-filtered listings.
func foldStatistics(rows []models.Property) *models.PropertyStatistics {
	stats := &models.PropertyStatistics{
		ByCity:      map[string]int64{},
		ByType:      map[string]int64{},
		GeneratedAt: time.Now().UTC(),
	}
	var sum float64
	for i, p := range rows {
		stats.ByCity[p.City]++
		stats.ByType[p.PropertyType]++
		sum += p.Price
		if i == 0 || p.Price < stats.MinPrice {
			stats.MinPrice = p.Price
		}
		if p.Price > stats.MaxPrice {
			stats.MaxPrice = p.Price
		}
	}
	stats.TotalAvailable = int64(len(rows))
	if len(rows) > 0 {
		stats.AvgPrice = sum / float64(len(rows))
	}
	return stats
}
