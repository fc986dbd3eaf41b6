package transformers

import (
	"strings"

	"marketplace-properties/internal/models"
)

type propertyTransformer struct {
	location LocationTransformer
}

func NewPropertyTransformer(location LocationTransformer) PropertyTransformer {
	return &propertyTransformer{location: location}
}

// NormalizeInput cleans a create or update body before validation. Enumerated
// fields are lower-cased, the currency code upper-cased and an empty virtual tour
// URL is dropped so it is stored as null.
func (t *propertyTransformer) NormalizeInput(input *models.PropertyInput) {
	if input == nil {
		return
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.City = t.location.NormalizeLocationComponent(input.City)
	input.Compound = t.location.NormalizeLocationComponent(input.Compound)
	input.PropertyType = strings.ToLower(strings.TrimSpace(input.PropertyType))
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))

	if input.VirtualTourURL != nil {
		url := strings.TrimSpace(*input.VirtualTourURL)
		if url == "" {
			input.VirtualTourURL = nil
		} else {
			input.VirtualTourURL = &url
		}
	}
}
