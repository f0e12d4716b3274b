package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/internal/service/plant"
)

// maxUploadBytes caps the multipart photo upload body.
const maxUploadBytes = 6 << 20

// plantService defines the minimal interface needed by PlantsHandler.
type plantService interface {
	Create(ctx context.Context, input plant.CreateInput) (*domain.Plant, error)
	Get(ctx context.Context, plantID uuid.UUID) (*domain.Plant, []domain.WateringRecord, error)
	List(ctx context.Context) ([]domain.Plant, error)
	Update(ctx context.Context, input plant.UpdateInput) (*domain.Plant, error)
	Delete(ctx context.Context, plantID uuid.UUID) error
	Water(ctx context.Context, plantID uuid.UUID) (*domain.WateringRecord, error)
	UploadPhoto(ctx context.Context, plantID uuid.UUID, content []byte, contentType string) (uuid.UUID, error)
	GetPhoto(ctx context.Context, photoID uuid.UUID) (*domain.Photo, error)
}

// PlantsHandler serves plant CRUD, watering, and photo REST endpoints.
type PlantsHandler struct {
	svc plantService
	log *slog.Logger
}

// NewPlantsHandler creates a PlantsHandler.
func NewPlantsHandler(svc plantService, logger *slog.Logger) *PlantsHandler {
	return &PlantsHandler{svc: svc, log: logger.With("handler", "plants")}
}

type createPlantRequest struct {
	Name              string     `json:"name"`
	WaterIntervalDays int        `json:"water_interval_days"`
	Notes             *string    `json:"notes"`
	FirstWateredAt    *time.Time `json:"first_watered_at"`
}

type updatePlantRequest struct {
	Name              *string `json:"name"`
	WaterIntervalDays *int    `json:"water_interval_days"`
	Notes             *string `json:"notes"`
}

type plantResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	WaterIntervalDays int        `json:"water_interval_days"`
	Notes             *string    `json:"notes,omitempty"`
	PhotoID           *string    `json:"photo_id,omitempty"`
	LastWateredAt     *time.Time `json:"last_watered_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

type wateringResponse struct {
	ID        string    `json:"id"`
	PlantID   string    `json:"plant_id"`
	WateredAt time.Time `json:"watered_at"`
}

type plantDetailResponse struct {
	plantResponse
	History []wateringResponse `json:"history"`
}

// Create handles POST /api/plants.
func (h *PlantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var req createPlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), plant.CreateInput{
		Name:              req.Name,
		WaterIntervalDays: req.WaterIntervalDays,
		Notes:             req.Notes,
		FirstWateredAt:    req.FirstWateredAt,
	})
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlantResponse(created))
}

// List handles GET /api/plants.
func (h *PlantsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	plants, err := h.svc.List(r.Context())
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	resp := make([]plantResponse, len(plants))
	for i := range plants {
		resp[i] = toPlantResponse(&plants[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/plants/{id}.
func (h *PlantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	p, history, err := h.svc.Get(r.Context(), plantID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	resp := plantDetailResponse{plantResponse: toPlantResponse(p)}
	resp.History = make([]wateringResponse, len(history))
	for i, rec := range history {
		resp.History[i] = toWateringResponse(rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /api/plants/{id}.
func (h *PlantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updatePlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), plant.UpdateInput{
		PlantID:           plantID,
		Name:              req.Name,
		WaterIntervalDays: req.WaterIntervalDays,
		Notes:             req.Notes,
	})
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlantResponse(updated))
}

// Delete handles DELETE /api/plants/{id}.
func (h *PlantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), plantID); err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Water handles POST /api/plants/{id}/water.
func (h *PlantsHandler) Water(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	rec, err := h.svc.Water(r.Context(), plantID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWateringResponse(*rec))
}

// UploadPhoto handles POST /api/plants/{id}/photo (multipart form, field
// "photo").
func (h *PlantsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	plantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing photo field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable photo")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	photoID, err := h.svc.UploadPhoto(r.Context(), plantID, content, contentType)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"photo_id": photoID.String()})
}

// GetPhoto handles GET /api/plants/photo/{photoID}. The photo is served
// directly with its stored content type, not as JSON.
func (h *PlantsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, ok := pathUUID(w, r, "photoID")
	if !ok {
		return
	}

	photo, err := h.svc.GetPhoto(r.Context(), photoID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Content) //nolint:errcheck
}

func toPlantResponse(p *domain.Plant) plantResponse {
	resp := plantResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		WaterIntervalDays: p.WaterIntervalDays,
		Notes:             p.Notes,
		LastWateredAt:     p.LastWateredAt,
		CreatedAt:         p.CreatedAt,
		DeletedAt:         p.DeletedAt,
	}
	if p.PhotoID != nil {
		id := p.PhotoID.String()
		resp.PhotoID = &id
	}
	return resp
}

func toWateringResponse(rec domain.WateringRecord) wateringResponse {
	return wateringResponse{
		ID:        rec.ID.String(),
		PlantID:   rec.PlantID.String(),
		WateredAt: rec.At,
	}
}
