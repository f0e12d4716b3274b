package plant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// Get returns one plant with its watering history.
func (s *Service) Get(ctx context.Context, plantID uuid.UUID) (*domain.Plant, []domain.WateringRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}

	plant, err := s.plants.GetByID(ctx, userID, plantID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.waterings.ListByPlant(ctx, plantID)
	if err != nil {
		return nil, nil, fmt.Errorf("list watering history: %w", err)
	}

	return plant, history, nil
}

// List returns the user's plants, excluding deleted ones.
func (s *Service) List(ctx context.Context) ([]domain.Plant, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return s.plants.List(ctx, userID, domain.PlantFilter{})
}
