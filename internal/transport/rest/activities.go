package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/internal/service/activity"
)

// activityService defines the minimal interface needed by ActivitiesHandler.
type activityService interface {
	List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error)
	Restore(ctx context.Context, plantID uuid.UUID) (*domain.Plant, error)
}

// ActivitiesHandler serves the activity ledger REST endpoints. The day
// filter is interpreted in loc, the same location the schedule uses for
// calendar-day matching.
type ActivitiesHandler struct {
	svc activityService
	log *slog.Logger
	loc *time.Location
}

// NewActivitiesHandler creates an ActivitiesHandler.
func NewActivitiesHandler(svc activityService, logger *slog.Logger, loc *time.Location) *ActivitiesHandler {
	return &ActivitiesHandler{svc: svc, log: logger.With("handler", "activities"), loc: loc}
}

type activityResponse struct {
	ID           string     `json:"id"`
	PlantID      string     `json:"plant_id"`
	PlantName    string     `json:"plant_name"`
	Action       string     `json:"action"`
	Icon         string     `json:"icon"`
	Label        string     `json:"label"`
	Details      []string   `json:"details,omitempty"`
	FirstWatered *time.Time `json:"first_watered,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// List handles GET /api/activities?plant_id=&day=.
//
// An unparseable day value is treated as absent rather than rejected, so a
// broken client filter degrades to the unfiltered feed.
func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var filter domain.ActivityFilter
	if raw := r.URL.Query().Get("plant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid plant_id")
			return
		}
		filter.PlantID = &id
	}
	if raw := r.URL.Query().Get("day"); raw != "" {
		if day, err := time.ParseInLocation("2006-01-02", raw, h.loc); err == nil {
			filter.Day = &day
		}
	}

	records, err := h.svc.List(r.Context(), filter)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	resp := make([]activityResponse, len(records))
	for i, rec := range records {
		resp[i] = toActivityResponse(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Restore handles POST /api/plants/{id}/restore.
func (h *ActivitiesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	restored, err := h.svc.Restore(r.Context(), plantID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlantResponse(restored))
}

func toActivityResponse(rec domain.ActivityRecord) activityResponse {
	desc := activity.Describe(rec)
	return activityResponse{
		ID:           rec.ID.String(),
		PlantID:      rec.PlantID.String(),
		PlantName:    rec.PlantName,
		Action:       rec.Action.String(),
		Icon:         desc.Icon,
		Label:        desc.Label,
		Details:      activity.Diff(rec),
		FirstWatered: rec.Extra.FirstWatered,
		OccurredAt:   rec.At,
	}
}
