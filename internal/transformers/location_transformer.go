package transformers

import (
	"strings"
	"unicode"
)

type locationTransformer struct{}

func NewLocationTransformer() LocationTransformer {
	return &locationTransformer{}
}

// NormalizeLocationComponent trims, collapses inner whitespace and title-cases
// each word, so "  new   cairo" and "New Cairo" are stored identically.
func (t *locationTransformer) NormalizeLocationComponent(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ParseLocation splits "Compound, City". A single component is taken as the city.
func (t *locationTransformer) ParseLocation(search string) (compound, city string) {
	parts := strings.Split(search, ",")
	switch {
	case len(parts) >= 2:
		return t.NormalizeLocationComponent(parts[0]), t.NormalizeLocationComponent(parts[len(parts)-1])
	default:
		return "", t.NormalizeLocationComponent(parts[0])
	}
}
