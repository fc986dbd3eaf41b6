package validators

import (
	"marketplace-properties/internal/models"
)

type PropertyValidator interface {
	ValidateInput(input *models.PropertyInput) error
	ValidateFilter(filter models.PropertyFilter) error
}
