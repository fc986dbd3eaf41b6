package validators

import (
	"fmt"
	"strings"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/models"

	"github.com/go-playground/validator/v10"
)

type propertyValidator struct {
	validate *validator.Validate
}

func NewPropertyValidator() PropertyValidator {
	return &propertyValidator{validate: validator.New()}
}

// ValidateInput checks the struct tags on a create/update body and reports every
// failing field in one error.
func (v *propertyValidator) ValidateInput(input *models.PropertyInput) error {
	if input == nil {
		return fmt.Errorf("property body is required: %w", apperrors.ErrValidation)
	}
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(fields, "; "), apperrors.ErrValidation)
}

// ValidateFilter rejects negative bounds. Inverted ranges are allowed and simply match nothing.
func (v *propertyValidator) ValidateFilter(f models.PropertyFilter) error {
	if (f.MinBedrooms != nil && *f.MinBedrooms < 0) || (f.MaxBedrooms != nil && *f.MaxBedrooms < 0) {
		return fmt.Errorf("bedroom bounds must not be negative: %w", apperrors.ErrInvalidParameters)
	}
	if (f.MinPrice != nil && *f.MinPrice < 0) || (f.MaxPrice != nil && *f.MaxPrice < 0) {
		return fmt.Errorf("price bounds must not be negative: %w", apperrors.ErrInvalidParameters)
	}
	return nil
}
