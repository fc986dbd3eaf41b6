package utils

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaginationURLReplacesPaging(t *testing.T) {
	params := url.Values{"city": {"New Cairo"}, "page": {"7"}, "limit": {"3"}}
	got := BuildPaginationURL("/api/properties", 2, 20, params)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/api/properties", u.Path)
	assert.Equal(t, "2", u.Query().Get("page"))
	assert.Equal(t, "20", u.Query().Get("limit"))
	assert.Equal(t, "New Cairo", u.Query().Get("city"))
}

func TestLinkHeader(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       []string
		notWant    []string
	}{
		{name: "single page", page: 1, totalPages: 1, notWant: []string{"prev", "next"}},
		{name: "first page", page: 1, totalPages: 3, want: []string{`page=2`, `rel="next"`}, notWant: []string{"prev"}},
		{name: "middle page", page: 2, totalPages: 3, want: []string{`page=1`, `rel="prev"`, `page=3`, `rel="next"`}},
		{name: "last page", page: 3, totalPages: 3, want: []string{`page=2`, `rel="prev"`}, notWant: []string{"next"}},
		{name: "empty result", page: 1, totalPages: 0, notWant: []string{"prev", "next"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinkHeader("/api/properties", tt.page, 20, tt.totalPages, url.Values{})
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestReadSeedData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	body := `{"properties":[{"id":"p1","title":"Villa","city":"New Cairo","property_type":"villa","status":"available"}],
"photos":[{"id":"ph1","property_id":"p1","url":"https://img/1.jpg","position":0}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	seed, err := ReadSeedData(path)
	require.NoError(t, err)
	require.Len(t, seed.Properties, 1)
	assert.Equal(t, "New Cairo", seed.Properties[0].City)
	assert.Len(t, seed.Photos, 1)
	assert.Empty(t, seed.Appraisals)

	_, err = ReadSeedData(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
