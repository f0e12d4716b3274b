package plant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// Delete soft-deletes a plant. Watering records and activity records are
// kept; they remain available for the ledger and for a later restore.
func (s *Service) Delete(ctx context.Context, plantID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	plant, err := s.plants.GetByID(ctx, userID, plantID)
	if err != nil {
		return err
	}

	now := s.now().UTC()

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.plants.SoftDelete(txCtx, userID, plantID, now); delErr != nil {
			return fmt.Errorf("soft delete: %w", delErr)
		}

		if _, auditErr := s.activity.Append(txCtx, domain.ActivityRecord{
			UserID:    userID,
			PlantID:   plant.ID,
			PlantName: plant.Name,
			Action:    domain.ActivityActionDelete,
			At:        now,
		}); auditErr != nil {
			return fmt.Errorf("activity delete: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return txErr
	}

	if s.schedule != nil {
		s.schedule.Forget(plantID)
	}

	return nil
}
