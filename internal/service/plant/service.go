// Package plant implements the plant CRUD business logic. Every mutating
// operation appends a matching activity record in the same transaction, so
// the activity log stays a complete audit trail of what happened.
package plant

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type plantRepo interface {
	GetByID(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error)
	GetByIDIncludingDeleted(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.PlantFilter) ([]domain.Plant, error)
	Create(ctx context.Context, plant *domain.Plant) (*domain.Plant, error)
	Update(ctx context.Context, plant *domain.Plant) (*domain.Plant, error)
	SetLastWatered(ctx context.Context, plantID uuid.UUID, at time.Time) error
	SetPhoto(ctx context.Context, plantID, photoID uuid.UUID, content []byte, contentType string) error
	GetPhoto(ctx context.Context, photoID uuid.UUID) (*domain.Photo, error)
	SoftDelete(ctx context.Context, userID, plantID uuid.UUID, at time.Time) error
	Restore(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error)
}

type wateringRepo interface {
	Create(ctx context.Context, rec *domain.WateringRecord) (*domain.WateringRecord, error)
	ListByPlant(ctx context.Context, plantID uuid.UUID) ([]domain.WateringRecord, error)
}

type activityAppender interface {
	Append(ctx context.Context, rec domain.ActivityRecord) (domain.ActivityRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// scheduleInvalidator drops optimistic schedule state for a plant; satisfied
// by schedule.Service. Deleting a plant must not leave a local completion
// behind that could resurface after a restore.
type scheduleInvalidator interface {
	Forget(plantID uuid.UUID)
}

// clock makes "now" injectable for tests.
type clock func() time.Time

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the plant business logic.
type Service struct {
	plants    plantRepo
	waterings wateringRepo
	activity  activityAppender
	tx        txManager
	schedule  scheduleInvalidator
	maxPlants int
	now       clock
	log       *slog.Logger
}

// NewService creates a new plant service. schedule may be nil until the
// schedule service is wired (it is optional for CLI tools). maxPlants caps
// how many live plants one user may have; zero or negative means no cap.
func NewService(
	log *slog.Logger,
	plants plantRepo,
	waterings wateringRepo,
	activity activityAppender,
	tx txManager,
	schedule scheduleInvalidator,
	maxPlants int,
) *Service {
	return &Service{
		plants:    plants,
		waterings: waterings,
		activity:  activity,
		tx:        tx,
		schedule:  schedule,
		maxPlants: maxPlants,
		now:       time.Now,
		log:       log.With("service", "plant"),
	}
}

// AttachSchedule wires the schedule invalidator after construction. The
// schedule service itself depends on this service for recording waterings,
// so one side of the pair is bound late.
func (s *Service) AttachSchedule(schedule scheduleInvalidator) {
	s.schedule = schedule
}
