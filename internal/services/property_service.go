package services

import (
	"context"
	"time"

	"marketplace-properties/internal/models"
	"marketplace-properties/internal/repositories"
	"marketplace-properties/internal/transformers"
	"marketplace-properties/internal/validators"

	"github.com/google/uuid"
)

// PropertyService handles listing mutations and fires the invalidation trigger
// after each one that succeeds.
type PropertyService struct {
	repo        repositories.PropertyRepository
	transformer transformers.PropertyTransformer
	validator   validators.PropertyValidator
	invalidator Invalidator
	now         func() time.Time
}

func NewPropertyService(
	repo repositories.PropertyRepository,
	transformer transformers.PropertyTransformer,
	validator validators.PropertyValidator,
	invalidator Invalidator,
) *PropertyService {
	return &PropertyService{
		repo:        repo,
		transformer: transformer,
		validator:   validator,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (s *PropertyService) CreateProperty(ctx context.Context, input *models.PropertyInput, brokerID string) (*models.Property, error) {
	s.transformer.NormalizeInput(input)
	if err := s.validator.ValidateInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	property := &models.Property{
		ID:        uuid.NewString(),
		BrokerID:  brokerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(property)

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, datastoreErr("create property", err)
	}
	s.invalidator.OnPropertyCreated(ctx, property.ID)
	return property, nil
}

func (s *PropertyService) UpdateProperty(ctx context.Context, id string, input *models.PropertyInput) (*models.Property, error) {
	s.transformer.NormalizeInput(input)
	if err := s.validator.ValidateInput(input); err != nil {
		return nil, err
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, datastoreErr("find property", err)
	}
	input.Apply(property)
	property.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, property); err != nil {
		return nil, datastoreErr("update property", err)
	}
	s.invalidator.OnPropertyUpdated(ctx, property.ID)
	return property, nil
}

func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return datastoreErr("delete property", err)
	}
	s.invalidator.OnPropertyDeleted(ctx, id)
	return nil
}
