package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/service/schedule"
	"github.com/plantae/plantae-backend/internal/service/schedule/forecast"
)

// scheduleService defines the minimal interface needed by ScheduleHandler.
type scheduleService interface {
	Forecast(ctx context.Context, plantID uuid.UUID) (*schedule.PlantForecast, error)
	ForecastAll(ctx context.Context) ([]schedule.PlantForecast, error)
	MarkDone(ctx context.Context, plantID uuid.UUID, slotIndex int) (*schedule.PlantForecast, error)
}

// ScheduleHandler serves the watering schedule REST endpoints.
type ScheduleHandler struct {
	svc scheduleService
	log *slog.Logger
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(svc scheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, log: logger.With("handler", "schedule")}
}

type slotResponse struct {
	Index      int        `json:"index"`
	DueAt      time.Time  `json:"due_at"`
	Done       bool       `json:"done"`
	DoneAt     *time.Time `json:"done_at,omitempty"`
	OnSchedule bool       `json:"on_schedule"`
}

type forecastResponse struct {
	Plant        plantResponse  `json:"plant"`
	AnchorSource string         `json:"anchor_source"`
	AnchorAt     *time.Time     `json:"anchor_at,omitempty"`
	Slots        []slotResponse `json:"slots"`
	Advanced     bool           `json:"advanced"`
}

// ForecastAll handles GET /api/schedule.
func (h *ScheduleHandler) ForecastAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	forecasts, err := h.svc.ForecastAll(r.Context())
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	resp := make([]forecastResponse, len(forecasts))
	for i := range forecasts {
		resp[i] = toForecastResponse(&forecasts[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Forecast handles GET /api/plants/{id}/schedule.
func (h *ScheduleHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	fc, err := h.svc.Forecast(r.Context(), plantID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toForecastResponse(fc))
}

// MarkDone handles POST /api/plants/{id}/schedule/{index}/done.
func (h *ScheduleHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot index")
		return
	}

	fc, err := h.svc.MarkDone(r.Context(), plantID, index)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toForecastResponse(fc))
}

func toForecastResponse(fc *schedule.PlantForecast) forecastResponse {
	resp := forecastResponse{
		Plant:        toPlantResponse(fc.Plant),
		AnchorSource: string(fc.Anchor.Source),
		Slots:        make([]slotResponse, len(fc.Statuses)),
		Advanced:     fc.Advanced,
	}
	if fc.Anchor.Source != forecast.AnchorNone {
		at := fc.Anchor.At
		resp.AnchorAt = &at
	}
	for i, st := range fc.Statuses {
		slot := slotResponse{
			Index:      st.Slot.Index,
			DueAt:      st.Slot.DueAt,
			Done:       st.Done,
			OnSchedule: st.OnSchedule,
		}
		if st.Done && !st.DoneAt.IsZero() {
			doneAt := st.DoneAt
			slot.DoneAt = &doneAt
		}
		resp.Slots[i] = slot
	}
	return resp
}
