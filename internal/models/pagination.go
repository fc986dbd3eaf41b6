package models

import "math"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
	// MaxPage keeps Offset from overflowing at any allowed limit.
	MaxPage = math.MaxInt / MaxPageLimit
)

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPagination clamps the requested values: page below 1 becomes 1 and above MaxPage
// becomes MaxPage, a limit of zero or less falls back to DefaultPageLimit and anything
// above MaxPageLimit is capped.
func NewPagination(page, limit int) Pagination {
	switch {
	case page < 1:
		page = 1
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}
