package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	SearchPrefix    = "properties:search:"
	AggregatePrefix = "properties:aggregate:"
	DetailPrefix    = "property:"
)

// SearchKey derives the cache key of a search page from its canonical parameters.
// Parameters are serialized in sorted order and empty values are dropped, so two
// requests that differ only in parameter order share a key.
func SearchKey(params map[string]string) string {
	names := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, k := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return SearchPrefix + hex.EncodeToString(sum[:16])
}

// PropertyKey is the detail cache key for a single property.
func PropertyKey(id string) string {
	return DetailPrefix + id
}

func FeaturedKey(limit int) string {
	return AggregatePrefix + "featured:" + strconv.Itoa(limit)
}

func StatisticsKey() string {
	return AggregatePrefix + "statistics"
}
