package plant

import (
	"context"
	"fmt"

	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// Create registers a plant. Registration implies a first watering: a
// watering record is appended alongside the plant so the schedule has an
// anchor from day one, and the create activity carries that timestamp.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Plant, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if s.maxPlants > 0 {
		existing, err := s.plants.List(ctx, userID, domain.PlantFilter{})
		if err != nil {
			return nil, fmt.Errorf("count plants: %w", err)
		}
		if len(existing) >= s.maxPlants {
			return nil, domain.NewValidationError("plants", fmt.Sprintf("limit of %d plants reached", s.maxPlants))
		}
	}

	now := s.now().UTC()
	firstWatered := now
	if input.FirstWateredAt != nil && !input.FirstWateredAt.IsZero() {
		firstWatered = input.FirstWateredAt.UTC()
	}

	plant := &domain.Plant{
		UserID:            userID,
		Name:              input.Name,
		WaterIntervalDays: input.WaterIntervalDays,
		Notes:             input.Notes,
		LastWateredAt:     &firstWatered,
	}

	var created *domain.Plant
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.plants.Create(txCtx, plant)
		if err != nil {
			return fmt.Errorf("create plant: %w", err)
		}

		if _, err = s.waterings.Create(txCtx, &domain.WateringRecord{
			PlantID: created.ID,
			At:      firstWatered,
		}); err != nil {
			return fmt.Errorf("create first watering: %w", err)
		}

		if _, err = s.activity.Append(txCtx, domain.ActivityRecord{
			UserID:    userID,
			PlantID:   created.ID,
			PlantName: created.Name,
			Action:    domain.ActivityActionCreate,
			Extra:     domain.ActivityPayload{FirstWatered: &firstWatered},
			At:        now,
		}); err != nil {
			return fmt.Errorf("activity create: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return created, nil
}
