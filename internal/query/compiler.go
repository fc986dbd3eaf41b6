// Package query translates a PropertyFilter into datastore-neutral predicates.
// Repositories render the predicates into their own query language.
package query

import (
	"marketplace-properties/internal/models"
)

// Op is a predicate operator.
type Op string

const (
	OpEq      Op = "eq"
	OpNeq     Op = "neq"
	OpGte     Op = "gte"
	OpLte     Op = "lte"
	OpIn      Op = "in"
	OpNotNull Op = "not_null"
)

// Stored field names referenced by predicates.
const (
	FieldID             = "id"
	FieldCity           = "city"
	FieldCompound       = "compound"
	FieldPropertyType   = "property_type"
	FieldBedrooms       = "bedrooms"
	FieldPrice          = "price"
	FieldVirtualTourURL = "virtual_tour_url"
	FieldStatus         = "status"
	FieldIsFeatured     = "is_featured"
)

// Predicate is one compiled constraint. Value is nil for OpNotNull and a []string
// for OpIn.
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

// Base is the constraint every general search carries: only available listings.
func Base() []Predicate {
	return []Predicate{{Field: FieldStatus, Op: OpEq, Value: models.StatusAvailable}}
}

// Compile emits one predicate per present filter field, in a fixed order.
// An empty filter compiles to an empty slice.
func Compile(f models.PropertyFilter) []Predicate {
	preds := make([]Predicate, 0, 9)
	if f.City != nil {
		preds = append(preds, Predicate{FieldCity, OpEq, *f.City})
	}
	if f.Compound != nil {
		preds = append(preds, Predicate{FieldCompound, OpEq, *f.Compound})
	}
	switch types := f.NormalizedTypes(); len(types) {
	case 0:
	case 1:
		preds = append(preds, Predicate{FieldPropertyType, OpEq, types[0]})
	default:
		preds = append(preds, Predicate{FieldPropertyType, OpIn, types})
	}
	if f.MinBedrooms != nil {
		preds = append(preds, Predicate{FieldBedrooms, OpGte, *f.MinBedrooms})
	}
	if f.MaxBedrooms != nil {
		preds = append(preds, Predicate{FieldBedrooms, OpLte, *f.MaxBedrooms})
	}
	if f.MinPrice != nil {
		preds = append(preds, Predicate{FieldPrice, OpGte, *f.MinPrice})
	}
	if f.MaxPrice != nil {
		preds = append(preds, Predicate{FieldPrice, OpLte, *f.MaxPrice})
	}
	if f.ExcludeID != nil {
		preds = append(preds, Predicate{FieldID, OpNeq, *f.ExcludeID})
	}
	if f.HasVirtualTour != nil && *f.HasVirtualTour {
		preds = append(preds, Predicate{FieldVirtualTourURL, OpNotNull, nil})
	}
	return preds
}

// Search is Base followed by Compile(f).
func Search(f models.PropertyFilter) []Predicate {
	return append(Base(), Compile(f)...)
}

// Featured selects available listings flagged as featured.
func Featured() []Predicate {
	return append(Base(), Predicate{FieldIsFeatured, OpEq, true})
}
