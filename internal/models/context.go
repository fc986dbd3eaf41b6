package models

import "fmt"

// QueryContext selects which related data a read joins in.
type QueryContext string

const (
	ContextListing QueryContext = "listing"
	ContextSearch  QueryContext = "search"
	ContextDetail  QueryContext = "detail"
)

// ParseQueryContext accepts the three known contexts. An empty value means search.
func ParseQueryContext(s string) (QueryContext, error) {
	switch QueryContext(s) {
	case "":
		return ContextSearch, nil
	case ContextListing, ContextSearch, ContextDetail:
		return QueryContext(s), nil
	default:
		return "", fmt.Errorf("unknown context %q", s)
	}
}

// Joins reports whether photos and appraisal summaries are attached.
func (c QueryContext) Joins() (photos, appraisals bool) {
	switch c {
	case ContextDetail:
		return true, true
	case ContextListing:
		return false, false
	default:
		return true, false
	}
}
