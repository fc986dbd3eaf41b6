package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BuildPaginationURL returns baseURL with params, replacing page and limit.
func BuildPaginationURL(baseURL string, page, limit int, params url.Values) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	for key, values := range params {
		if key != "page" && key != "limit" {
			for _, value := range values {
				q.Add(key, value)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LinkHeader builds an RFC 5988 Link header with prev and next relations. It
// returns "" on a single page.
func LinkHeader(baseURL string, page, limit, totalPages int, params url.Values) string {
	var links []string
	if page > 1 && totalPages > 0 {
		prev := page - 1
		if prev > totalPages {
			prev = totalPages
		}
		links = append(links, fmt.Sprintf(`<%s>; rel="prev"`, BuildPaginationURL(baseURL, prev, limit, params)))
	}
	if page < totalPages {
		links = append(links, fmt.Sprintf(`<%s>; rel="next"`, BuildPaginationURL(baseURL, page+1, limit, params)))
	}
	return strings.Join(links, ", ")
}
