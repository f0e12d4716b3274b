package plant

import (
	"context"
	"fmt"
	"strconv"

	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// Update edits plant fields and records the field-level diff in the activity
// log. When nothing actually changed no update activity is written.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Plant, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.plants.GetByID(ctx, userID, input.PlantID)
	if err != nil {
		return nil, err
	}

	next := *current
	if input.Name != nil {
		next.Name = *input.Name
	}
	if input.WaterIntervalDays != nil {
		next.WaterIntervalDays = *input.WaterIntervalDays
	}
	if input.Notes != nil {
		next.Notes = input.Notes
	}

	changes := diffPlants(current, &next)
	if len(changes) == 0 {
		return current, nil
	}

	var updated *domain.Plant
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.plants.Update(txCtx, &next)
		if updateErr != nil {
			return fmt.Errorf("update plant: %w", updateErr)
		}

		if _, auditErr := s.activity.Append(txCtx, domain.ActivityRecord{
			UserID:    userID,
			PlantID:   updated.ID,
			PlantName: updated.Name,
			Action:    domain.ActivityActionUpdate,
			Extra:     domain.ActivityPayload{Changes: changes},
			At:        s.now().UTC(),
		}); auditErr != nil {
			return fmt.Errorf("activity update: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}

// diffPlants computes the field-level changes between two plant snapshots,
// in the fixed field order the ledger renders.
func diffPlants(old, new *domain.Plant) []domain.FieldChange {
	var changes []domain.FieldChange

	if old.Name != new.Name {
		changes = append(changes, domain.FieldChange{
			Field: "name",
			From:  strPtr(old.Name),
			To:    strPtr(new.Name),
		})
	}

	if old.WaterIntervalDays != new.WaterIntervalDays {
		changes = append(changes, domain.FieldChange{
			Field: "water_interval_days",
			From:  strPtr(strconv.Itoa(old.WaterIntervalDays)),
			To:    strPtr(strconv.Itoa(new.WaterIntervalDays)),
		})
	}

	if !equalPtr(old.Notes, new.Notes) {
		changes = append(changes, domain.FieldChange{
			Field: "notes",
			From:  old.Notes,
			To:    new.Notes,
		})
	}

	return changes
}

func strPtr(s string) *string { return &s }

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
