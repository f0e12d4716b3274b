// Package activity implements the activity ledger: the read/filter/diff view
// over the append-only action log, plus the compensating restore operation
// for deleted plants.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type activityRepo interface {
	List(ctx context.Context, userID uuid.UUID, filter domain.ActivityFilter) ([]domain.ActivityRecord, error)
	Append(ctx context.Context, rec domain.ActivityRecord) (domain.ActivityRecord, error)
}

type plantRepo interface {
	GetByIDIncludingDeleted(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error)
	Restore(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock func() time.Time

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the activity ledger.
type Service struct {
	activities activityRepo
	plants     plantRepo
	tx         txManager
	now        clock
	log        *slog.Logger
}

// NewService creates the activity ledger service.
func NewService(log *slog.Logger, activities activityRepo, plants plantRepo, tx txManager) *Service {
	return &Service{
		activities: activities,
		plants:     plants,
		tx:         tx,
		now:        time.Now,
		log:        log.With("service", "activity"),
	}
}

// List returns activity records matching the filter, newest first. Plant
// filtering is an exact match; day filtering is calendar-day equality.
func (s *Service) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	records, err := s.activities.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return records, nil
}

// Restore un-deletes a plant and appends a compensating restore record
// referencing it. Restoring a plant that is not deleted is a conflict, a
// signalled no-op, not a failure. The operation is deliberately not
// idempotent at the ledger level: every successful restore appends a record.
func (s *Service) Restore(ctx context.Context, plantID uuid.UUID) (*domain.Plant, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	plant, err := s.plants.GetByIDIncludingDeleted(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}
	if !plant.IsDeleted() {
		return nil, fmt.Errorf("plant %s is not deleted: %w", plantID, domain.ErrConflict)
	}

	var restored *domain.Plant
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var restoreErr error
		restored, restoreErr = s.plants.Restore(txCtx, userID, plantID)
		if restoreErr != nil {
			return fmt.Errorf("restore plant: %w", restoreErr)
		}

		if _, auditErr := s.activities.Append(txCtx, domain.ActivityRecord{
			UserID:    userID,
			PlantID:   restored.ID,
			PlantName: restored.Name,
			Action:    domain.ActivityActionRestore,
			At:        s.now().UTC(),
		}); auditErr != nil {
			return fmt.Errorf("activity restore: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return restored, nil
}
