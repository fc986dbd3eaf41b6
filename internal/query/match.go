package query

import (
	"marketplace-properties/internal/models"
)

// Matches evaluates predicates against an in-memory property. Unknown fields never match.
func Matches(p models.Property, preds []Predicate) bool {
	for _, pr := range preds {
		if !matchOne(p, pr) {
			return false
		}
	}
	return true
}

func matchOne(p models.Property, pr Predicate) bool {
	switch pr.Field {
	case FieldVirtualTourURL:
		if pr.Op == OpNotNull {
			return p.HasVirtualTour()
		}
		return false
	case FieldBedrooms:
		n, ok := pr.Value.(int)
		return ok && compareFloat(float64(p.Bedrooms), pr.Op, float64(n))
	case FieldPrice:
		v, ok := pr.Value.(float64)
		return ok && compareFloat(p.Price, pr.Op, v)
	case FieldIsFeatured:
		b, ok := pr.Value.(bool)
		return ok && pr.Op == OpEq && p.IsFeatured == b
	}

	var field string
	switch pr.Field {
	case FieldID:
		field = p.ID
	case FieldCity:
		field = p.City
	case FieldCompound:
		field = p.Compound
	case FieldPropertyType:
		field = p.PropertyType
	case FieldStatus:
		field = p.Status
	default:
		return false
	}
	switch pr.Op {
	case OpEq:
		return field == pr.Value
	case OpNeq:
		return field != pr.Value
	case OpIn:
		values, _ := pr.Value.([]string)
		for _, v := range values {
			if field == v {
				return true
			}
		}
		return false
	case OpNotNull:
		return field != ""
	}
	return false
}

func compareFloat(field float64, op Op, v float64) bool {
	switch op {
	case OpEq:
		return field == v
	case OpNeq:
		return field != v
	case OpGte:
		return field >= v
	case OpLte:
		return field <= v
	}
	return false
}
