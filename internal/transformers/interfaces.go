package transformers

import (
	"marketplace-properties/internal/models"
)

type PropertyTransformer interface {
	NormalizeInput(input *models.PropertyInput)
}

type LocationTransformer interface {
	NormalizeLocationComponent(input string) string
	ParseLocation(search string) (compound, city string)
}
