package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"
	"marketplace-properties/internal/transformers"
)

var locations = transformers.NewLocationTransformer()

// ParseFilter reads the search filter from query parameters. Empty values are
// treated as absent. has_virtual_tour=false is normalized to absent. A free-form
// location ("Compound, City") fills city and compound when they are not given.
// Locations and property types are normalized the way listings are stored.
func ParseFilter(q url.Values) (models.PropertyFilter, error) {
	var f models.PropertyFilter
	var err error

	f.City = optLocation(q, "city")
	f.Compound = optLocation(q, "compound")
	if loc := strings.TrimSpace(q.Get("location")); loc != "" {
		compound, city := locations.ParseLocation(loc)
		if f.City == nil && city != "" {
			f.City = &city
		}
		if f.Compound == nil && compound != "" {
			f.Compound = &compound
		}
	}
	f.ExcludeID = optString(q, "exclude")
	if f.ExcludeID == nil {
		f.ExcludeID = optString(q, "exclude_id")
	}
	if v := strings.TrimSpace(q.Get("property_type")); v != "" {
		f.PropertyTypes = strings.Split(strings.ToLower(v), ",")
		if len(f.NormalizedTypes()) == 0 {
			f.PropertyTypes = nil
		}
	}
	if f.MinBedrooms, err = optInt(q, "min_bedrooms"); err != nil {
		return f, err
	}
	if f.MaxBedrooms, err = optInt(q, "max_bedrooms"); err != nil {
		return f, err
	}
	if f.MinPrice, err = optFloat(q, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optFloat(q, "max_price"); err != nil {
		return f, err
	}
	if v := strings.TrimSpace(q.Get("has_virtual_tour")); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return f, fmt.Errorf("has_virtual_tour must be a boolean: %w", apperrors.ErrInvalidParameters)
		}
		if b {
			f.HasVirtualTour = &b
		}
	}
	return f, nil
}

// ParsePagination reads page and limit and clamps them. Non-numeric values and pages
// whose offset cannot be represented are rejected.
func ParsePagination(q url.Values) (models.Pagination, error) {
	page, err := intOrZero(q, "page")
	if err != nil {
		return models.Pagination{}, err
	}
	if page > models.MaxPage {
		return models.Pagination{}, fmt.Errorf("page must not exceed %d: %w", models.MaxPage, apperrors.ErrInvalidParameters)
	}
	limit, err := intOrZero(q, "limit")
	if err != nil {
		return models.Pagination{}, err
	}
	return models.NewPagination(page, limit), nil
}

func ParseContext(q url.Values) (models.QueryContext, error) {
	c, err := models.ParseQueryContext(strings.TrimSpace(q.Get("context")))
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, apperrors.ErrInvalidParameters)
	}
	return c, nil
}

func optString(q url.Values, name string) *string {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func optLocation(q url.Values, name string) *string {
	v := locations.NormalizeLocationComponent(q.Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func optInt(q url.Values, name string) (*int, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", name, apperrors.ErrInvalidParameters)
	}
	return &n, nil
}

func optFloat(q url.Values, name string) (*float64, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", name, apperrors.ErrInvalidParameters)
	}
	return &n, nil
}

func intOrZero(q url.Values, name string) (int, error) {
	n, err := optInt(q, name)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}
