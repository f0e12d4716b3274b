package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/internal/service/schedule/forecast"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type plantRepo interface {
	GetByID(ctx context.Context, userID, plantID uuid.UUID) (*domain.Plant, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.PlantFilter) ([]domain.Plant, error)
}

type wateringRepo interface {
	ListByPlant(ctx context.Context, plantID uuid.UUID) ([]domain.WateringRecord, error)
}

// waterer records a confirmed watering event; satisfied by plant.Service so
// that a marked slot also lands in the history and the activity log.
type waterer interface {
	Water(ctx context.Context, plantID uuid.UUID) (*domain.WateringRecord, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service computes reconciled watering schedules. It is read-mostly: the only
// state it owns is the optimistic completion cache; everything else is a
// snapshot read followed by a pure transform in the forecast package.
type Service struct {
	plants      plantRepo
	waterings   wateringRepo
	waterer     waterer
	completions *completionCache
	loc         *time.Location
	log         *slog.Logger
}

// NewService creates the schedule service. loc is the location used for
// calendar-day comparisons; nil falls back to time.Local.
func NewService(log *slog.Logger, plants plantRepo, waterings wateringRepo, waterer waterer, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		plants:      plants,
		waterings:   waterings,
		waterer:     waterer,
		completions: newCompletionCache(),
		loc:         loc,
		log:         log.With("service", "schedule"),
	}
}

// PlantForecast is one plant's reconciled cohort.
type PlantForecast struct {
	Plant    *domain.Plant
	Anchor   forecast.Anchor
	Statuses []forecast.SlotStatus
	// Advanced is true when the previous cohort was exhausted and this
	// forecast already shows the re-anchored window.
	Advanced bool
}

// Forecast returns the reconciled cohort for one plant.
//
// When the cohort is fully done the window advances synchronously: local
// completions for the exhausted cohort are cleared and the returned forecast
// is the fresh cohort projected from the latest confirmed watering. Calling
// it again without new state returns the same result.
func (s *Service) Forecast(ctx context.Context, plantID uuid.UUID) (*PlantForecast, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	plant, err := s.plants.GetByID(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}

	history, err := s.waterings.ListByPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("list watering history: %w", err)
	}

	return s.forecastPlant(plant, history), nil
}

// ForecastAll returns reconciled cohorts for every plant of the user. A
// plant whose history cannot be fetched degrades to an empty cohort instead
// of failing the whole view.
func (s *Service) ForecastAll(ctx context.Context) ([]PlantForecast, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	plants, err := s.plants.List(ctx, userID, domain.PlantFilter{})
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}

	forecasts := make([]PlantForecast, 0, len(plants))
	for i := range plants {
		plant := &plants[i]

		history, err := s.waterings.ListByPlant(ctx, plant.ID)
		if err != nil {
			s.log.WarnContext(ctx, "watering history unavailable, degrading to empty cohort",
				slog.String("plant_id", plant.ID.String()),
				slog.String("error", err.Error()),
			)
			forecasts = append(forecasts, PlantForecast{
				Plant:  plant,
				Anchor: forecast.Anchor{Source: forecast.AnchorNone},
			})
			continue
		}

		forecasts = append(forecasts, *s.forecastPlant(plant, history))
	}

	return forecasts, nil
}

// MarkDone completes a slot: it records a real watering event (history +
// activity log) and keeps an optimistic local completion until the next
// fetch confirms it. Returns the refreshed forecast.
func (s *Service) MarkDone(ctx context.Context, plantID uuid.UUID, slotIndex int) (*PlantForecast, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if slotIndex < 0 || slotIndex >= forecast.CohortSize {
		return nil, domain.NewValidationError("slot_index", fmt.Sprintf("must be between 0 and %d", forecast.CohortSize-1))
	}

	rec, err := s.waterer.Water(ctx, plantID)
	if err != nil {
		return nil, err
	}

	s.completions.put(plantID, slotIndex, forecast.Completion{CompletedAt: rec.At})

	return s.Forecast(ctx, plantID)
}

// Forget drops all cached completion state for a plant. Called when the
// plant is deleted so stale optimistic state cannot resurface on restore.
func (s *Service) Forget(plantID uuid.UUID) {
	s.completions.forget(plantID)
}

// forecastPlant runs the pure pipeline over a snapshot of server state.
func (s *Service) forecastPlant(plant *domain.Plant, history []domain.WateringRecord) *PlantForecast {
	anchor := forecast.ResolveAnchor(history, plant.LastWateredAt, plant.CreatedAt)
	slots := forecast.Project(anchor.At, plant.WaterIntervalDays, forecast.CohortSize)

	// Server truth wins: drop local completions the history now covers.
	s.completions.discardConfirmed(plant.ID, history, s.loc)

	local := s.completions.snapshot(plant.ID)
	statuses := forecast.Reconcile(slots, history, local, s.loc)

	adv := forecast.Advance(statuses, history)
	if adv.NeedsNewWindow && !adv.NewAnchor.IsZero() {
		s.completions.forget(plant.ID)
		anchor = forecast.Anchor{Source: forecast.AnchorFromHistory, At: adv.NewAnchor}
		slots = forecast.Project(anchor.At, plant.WaterIntervalDays, forecast.CohortSize)
		statuses = forecast.Reconcile(slots, history, nil, s.loc)
		return &PlantForecast{Plant: plant, Anchor: anchor, Statuses: statuses, Advanced: true}
	}

	return &PlantForecast{Plant: plant, Anchor: anchor, Statuses: statuses}
}
