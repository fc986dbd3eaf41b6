package models

import (
	"sort"
	"strconv"
	"strings"
)

// PropertyFilter narrows a search. A nil field places no constraint. Ranges whose
// minimum exceeds the maximum are accepted and match nothing.
type PropertyFilter struct {
	City           *string
	Compound       *string
	PropertyTypes  []string
	MinBedrooms    *int
	MaxBedrooms    *int
	MinPrice       *float64
	MaxPrice       *float64
	ExcludeID      *string
	HasVirtualTour *bool
}

// Canonical returns the filter as name/value pairs using the query parameter names.
// Absent fields are omitted and property types are sorted, so semantically equal
// filters produce equal maps.
func (f PropertyFilter) Canonical() map[string]string {
	out := make(map[string]string)
	if f.City != nil {
		out["city"] = *f.City
	}
	if f.Compound != nil {
		out["compound"] = *f.Compound
	}
	if types := f.NormalizedTypes(); len(types) > 0 {
		out["property_type"] = strings.Join(types, ",")
	}
	if f.MinBedrooms != nil {
		out["min_bedrooms"] = strconv.Itoa(*f.MinBedrooms)
	}
	if f.MaxBedrooms != nil {
		out["max_bedrooms"] = strconv.Itoa(*f.MaxBedrooms)
	}
	if f.MinPrice != nil {
		out["min_price"] = formatFloat(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		out["max_price"] = formatFloat(*f.MaxPrice)
	}
	if f.ExcludeID != nil {
		out["exclude"] = *f.ExcludeID
	}
	if f.HasVirtualTour != nil && *f.HasVirtualTour {
		out["has_virtual_tour"] = "true"
	}
	return out
}

// NormalizedTypes returns the distinct non-empty property types, lower-cased and
// sorted. Stored types are lower case.
func (f PropertyFilter) NormalizedTypes() []string {
	if len(f.PropertyTypes) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(f.PropertyTypes))
	types := make([]string, 0, len(f.PropertyTypes))
	for _, t := range f.PropertyTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
