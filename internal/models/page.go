package models

import "time"

// Sources reported in Performance.Source.
const (
	SourceCache     = "cache"
	SourceDatastore = "datastore"
)

type Performance struct {
	CacheHit    bool       `json:"cacheHit"`
	Source      string     `json:"source"`
	QueryTimeMs int64      `json:"queryTimeMs"`
	CachedAt    *time.Time `json:"cachedAt,omitempty"`
}

type PropertyPage struct {
	Items       []PropertyListing `json:"items"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"totalPages"`
	Performance Performance       `json:"performance"`
}
