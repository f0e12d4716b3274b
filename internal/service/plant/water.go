package plant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// Water appends a confirmed watering event. The record, the plant's
// last-watered mirror, and the water activity land in one transaction;
// history records are never edited afterwards.
func (s *Service) Water(ctx context.Context, plantID uuid.UUID) (*domain.WateringRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	plant, err := s.plants.GetByID(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	var created *domain.WateringRecord
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.waterings.Create(txCtx, &domain.WateringRecord{
			PlantID: plant.ID,
			At:      now,
		})
		if err != nil {
			return fmt.Errorf("create watering record: %w", err)
		}

		if err = s.plants.SetLastWatered(txCtx, plant.ID, now); err != nil {
			return fmt.Errorf("set last watered: %w", err)
		}

		if _, err = s.activity.Append(txCtx, domain.ActivityRecord{
			UserID:    userID,
			PlantID:   plant.ID,
			PlantName: plant.Name,
			Action:    domain.ActivityActionWater,
			At:        now,
		}); err != nil {
			return fmt.Errorf("activity water: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return created, nil
}
