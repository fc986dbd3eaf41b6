package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
	"marketplace-properties/pkg/database"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// The PostgREST client has no context support; the Supabase repositories check ctx
// before each call and otherwise rely on the client's HTTP timeout.

type supabasePropertyRepository struct {
	client *supabase.Client
}

func NewSupabasePropertyRepository(client *supabase.Client) PropertyRepository {
	return &supabasePropertyRepository{client: client}
}

// applyPredicates renders predicates as PostgREST filters.
func applyPredicates(fb *postgrest.FilterBuilder, preds []query.Predicate) *postgrest.FilterBuilder {
	for _, p := range preds {
		switch p.Op {
		case query.OpEq:
			fb = fb.Eq(p.Field, formatValue(p.Value))
		case query.OpNeq:
			fb = fb.Neq(p.Field, formatValue(p.Value))
		case query.OpGte:
			fb = fb.Gte(p.Field, formatValue(p.Value))
		case query.OpLte:
			fb = fb.Lte(p.Field, formatValue(p.Value))
		case query.OpIn:
			values, _ := p.Value.([]string)
			fb = fb.In(p.Field, values)
		case query.OpNotNull:
			fb = fb.Not(p.Field, "is", "null").Neq(p.Field, "")
		}
	}
	return fb
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func (r *supabasePropertyRepository) Count(ctx context.Context, preds []query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	fb := r.client.From(database.PropertiesCollection).Select("id", "exact", true)
	_, count, err := applyPredicates(fb, preds).Execute()
	observe("count", database.PropertiesCollection, start, err)
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func (r *supabasePropertyRepository) Find(ctx context.Context, preds []query.Predicate, offset, limit int) ([]models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	fb := r.client.From(database.PropertiesCollection).Select("*", "", false)
	properties := make([]models.Property, 0, limit)
	_, err := applyPredicates(fb, preds).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		Range(offset, offset+limit-1, "").
		ExecuteTo(&properties)
	observe("select", database.PropertiesCollection, start, err)
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *supabasePropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	var rows []models.Property
	_, err := r.client.From(database.PropertiesCollection).Select("*", "", false).Eq("id", id).ExecuteTo(&rows)
	observe("select_one", database.PropertiesCollection, start, err)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("property %s: %w", id, apperrors.ErrPropertyNotFound)
	}
	return &rows[0], nil
}

func (r *supabasePropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	_, _, err := r.client.From(database.PropertiesCollection).Insert(property, false, "", "minimal", "").Execute()
	observe("insert", database.PropertiesCollection, start, err)
	return err
}

func (r *supabasePropertyRepository) Update(ctx context.Context, property *models.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	var rows []models.Property
	_, err := r.client.From(database.PropertiesCollection).
		Update(property, "representation", "").
		Eq("id", property.ID).
		ExecuteTo(&rows)
	observe("update", database.PropertiesCollection, start, err)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("property %s: %w", property.ID, apperrors.ErrPropertyNotFound)
	}
	return nil
}

func (r *supabasePropertyRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	var rows []models.Property
	_, err := r.client.From(database.PropertiesCollection).
		Delete("representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	observe("delete", database.PropertiesCollection, start, err)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("property %s: %w", id, apperrors.ErrPropertyNotFound)
	}
	return nil
}

// statisticsBatch is the page size requested while collecting statistics rows.
// PostgREST caps responses at its max-rows setting, so pages may come back shorter.
var statisticsBatch = 1000

// Statistics folds the projected columns of every available listing in process.
// Rows are read in id order, one page at a time, until the exact count is reached.
func (r *supabasePropertyRepository) Statistics(ctx context.Context) (*models.PropertyStatistics, error) {
	start := time.Now()
	rows, err := r.statisticsRows(ctx)
	observe("select_statistics", database.PropertiesCollection, start, err)
	if err != nil {
		return nil, err
	}
	return foldStatistics(rows), nil
}

func (r *supabasePropertyRepository) statisticsRows(ctx context.Context) ([]models.Property, error) {
	var rows []models.Property
	for offset := 0; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var page []models.Property
		fb := r.client.From(database.PropertiesCollection).Select("city,property_type,price", "exact", false)
		total, err := applyPredicates(fb, query.Base()).
			Order("id", &postgrest.OrderOpts{Ascending: true}).
			Range(offset, offset+statisticsBatch-1, "").
			ExecuteTo(&page)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		offset += len(page)
		if len(page) == 0 || int64(offset) >= total {
			return rows, nil
		}
	}
}

type supabasePhotoRepository struct {
	client *supabase.Client
}

func NewSupabasePhotoRepository(client *supabase.Client) PhotoRepository {
	return &supabasePhotoRepository{client: client}
}

func (r *supabasePhotoRepository) FindByPropertyIDs(ctx context.Context, ids []string) (map[string][]models.Photo, error) {
	out := make(map[string][]models.Photo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	var photos []models.Photo
	_, err := r.client.From(database.PhotosCollection).Select("*", "", false).
		In("property_id", ids).
		Order("property_id", &postgrest.OrderOpts{Ascending: true}).
		Order("position", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&photos)
	observe("select", database.PhotosCollection, start, err)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		out[p.PropertyID] = append(out[p.PropertyID], p)
	}
	return out, nil
}

type supabaseAppraisalRepository struct {
	client *supabase.Client
}

func NewSupabaseAppraisalRepository(client *supabase.Client) AppraisalRepository {
	return &supabaseAppraisalRepository{client: client}
}

func (r *supabaseAppraisalRepository) LatestByPropertyIDs(ctx context.Context, ids []string) (map[string]models.AppraisalSummary, error) {
	out := make(map[string]models.AppraisalSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	var rows []models.AppraisalSummary
	_, err := r.client.From(database.AppraisalsCollection).
		Select("property_id,appraised_value,currency,appraiser_id,appraised_at,status", "", false).
		In("property_id", ids).
		Eq("status", AppraisalStatusCompleted).
		Order("appraised_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	observe("select", database.AppraisalsCollection, start, err)
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		if _, seen := out[s.PropertyID]; !seen {
			out[s.PropertyID] = s
		}
	}
	return out, nil
}
