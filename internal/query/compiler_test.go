package query

import (
	"net/url"
	"strconv"
	"testing"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCompileEmptyFilter(t *testing.T) {
	assert.Empty(t, Compile(models.PropertyFilter{}))
	assert.Equal(t, Base(), Search(models.PropertyFilter{}))
}

func TestCompileOnePredicatePerField(t *testing.T) {
	tour := true
	minPrice, maxPrice := 1e6, 5e6
	f := models.PropertyFilter{
		City:           strPtr("New Cairo"),
		Compound:       strPtr("Mivida"),
		PropertyTypes:  []string{"villa"},
		MinBedrooms:    intPtr(3),
		MaxBedrooms:    intPtr(5),
		MinPrice:       &minPrice,
		MaxPrice:       &maxPrice,
		ExcludeID:      strPtr("p-1"),
		HasVirtualTour: &tour,
	}

	assert.Equal(t, []Predicate{
		{FieldCity, OpEq, "New Cairo"},
		{FieldCompound, OpEq, "Mivida"},
		{FieldPropertyType, OpEq, "villa"},
		{FieldBedrooms, OpGte, 3},
		{FieldBedrooms, OpLte, 5},
		{FieldPrice, OpGte, 1e6},
		{FieldPrice, OpLte, 5e6},
		{FieldID, OpNeq, "p-1"},
		{FieldVirtualTourURL, OpNotNull, nil},
	}, Compile(f))
}

func TestCompileMultipleTypesUsesIn(t *testing.T) {
	preds := Compile(models.PropertyFilter{PropertyTypes: []string{"villa", "apartment"}})
	require.Len(t, preds, 1)
	assert.Equal(t, OpIn, preds[0].Op)
	assert.Equal(t, []string{"apartment", "villa"}, preds[0].Value)
}

func TestCompileVirtualTourFalseAddsNothing(t *testing.T) {
	off := false
	assert.Empty(t, Compile(models.PropertyFilter{HasVirtualTour: &off}))
}

func TestMatches(t *testing.T) {
	tour := "https://tour.example/1"
	p := models.Property{ID: "1", City: "New Cairo", PropertyType: "villa", Bedrooms: 4, Price: 2e6, Status: models.StatusAvailable, VirtualTourURL: &tour}

	minPrice := 3e6
	tourOn := true
	assert.True(t, Matches(p, Search(models.PropertyFilter{City: strPtr("New Cairo"), MinBedrooms: intPtr(3), HasVirtualTour: &tourOn})))
	assert.False(t, Matches(p, Search(models.PropertyFilter{MinPrice: &minPrice})))
	assert.False(t, Matches(p, Search(models.PropertyFilter{ExcludeID: strPtr("1")})))

	p.Status = models.StatusSold
	assert.False(t, Matches(p, Base()))
}

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"city":             {"New Cairo"},
		"min_bedrooms":     {"3"},
		"max_price":        {"2500000.5"},
		"property_type":    {"villa,apartment"},
		"has_virtual_tour": {"false"},
		"exclude":          {"abc"},
		"compound":         {""},
	}
	f, err := ParseFilter(q)
	require.NoError(t, err)
	assert.Equal(t, "New Cairo", *f.City)
	assert.Equal(t, 3, *f.MinBedrooms)
	assert.Equal(t, 2500000.5, *f.MaxPrice)
	assert.Equal(t, "abc", *f.ExcludeID)
	assert.Nil(t, f.Compound)
	assert.Nil(t, f.HasVirtualTour)
	assert.Equal(t, []string{"apartment", "villa"}, f.NormalizedTypes())
}

func TestParseFilterRejectsBadNumbers(t *testing.T) {
	_, err := ParseFilter(url.Values{"min_bedrooms": {"three"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

	_, err = ParseFilter(url.Values{"has_virtual_tour": {"maybe"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)
}

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(url.Values{"page": {"0"}, "limit": {"500"}})
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 50}, p)

	p, err = ParsePagination(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 20}, p)

	_, err = ParsePagination(url.Values{"limit": {"ten"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

	_, err = ParsePagination(url.Values{"page": {"300000000000000000"}, "limit": {"50"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

	p, err = ParsePagination(url.Values{"page": {strconv.Itoa(models.MaxPage)}, "limit": {"50"}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Offset(), 0)
}

func TestParseFilterNormalizesLikeStoredListings(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"city":          {"  new   cairo"},
		"compound":      {"MIVIDA"},
		"property_type": {"Villa,APARTMENT"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Cairo", *f.City)
	assert.Equal(t, "Mivida", *f.Compound)
	assert.Equal(t, []string{"apartment", "villa"}, f.NormalizedTypes())
}

func TestParseContext(t *testing.T) {
	c, err := ParseContext(url.Values{"context": {"listing"}})
	require.NoError(t, err)
	assert.Equal(t, models.ContextListing, c)

	_, err = ParseContext(url.Values{"context": {"full"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)
}

func TestParseFilterLocation(t *testing.T) {
	f, err := ParseFilter(url.Values{"location": {"mivida, new cairo"}})
	require.NoError(t, err)
	require.NotNil(t, f.City)
	require.NotNil(t, f.Compound)
	assert.Equal(t, "New Cairo", *f.City)
	assert.Equal(t, "Mivida", *f.Compound)

	f, err = ParseFilter(url.Values{"location": {"Giza"}, "city": {"Cairo"}})
	require.NoError(t, err)
	assert.Equal(t, "Cairo", *f.City)
	assert.Nil(t, f.Compound)
}
