package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantae/plantae-backend/internal/domain"
	"github.com/plantae/plantae-backend/pkg/ctxutil"
)

type activityServiceMock struct {
	ListFunc    func(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error)
	RestoreFunc func(ctx context.Context, plantID uuid.UUID) (*domain.Plant, error)

	listCalls []domain.ActivityFilter
}

func (m *activityServiceMock) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	m.listCalls = append(m.listCalls, filter)
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, filter)
}

func (m *activityServiceMock) Restore(ctx context.Context, plantID uuid.UUID) (*domain.Plant, error) {
	if m.RestoreFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.RestoreFunc(ctx, plantID)
}

func newActivitiesHandler(svc *activityServiceMock, loc *time.Location) *ActivitiesHandler {
	return NewActivitiesHandler(svc, slog.Default(), loc)
}

func listActivities(handler *ActivitiesHandler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/activities"+query, nil)
	req = req.WithContext(ctxutil.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	return rec
}

func TestActivitiesList_UnparseableDayTreatedAsAbsent(t *testing.T) {
	svc := &activityServiceMock{}
	handler := newActivitiesHandler(svc, time.UTC)

	rec := listActivities(handler, "?day=not-a-date")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.listCalls, 1)
	assert.Nil(t, svc.listCalls[0].Day, "broken day filter must degrade to the unfiltered feed")
}

func TestActivitiesList_UnparseablePlantIDRejected(t *testing.T) {
	svc := &activityServiceMock{}
	handler := newActivitiesHandler(svc, time.UTC)

	rec := listActivities(handler, "?plant_id=not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.listCalls, "service must not be reached with a bad plant_id")
}

func TestActivitiesList_DayParsedInConfiguredLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	svc := &activityServiceMock{}
	handler := newActivitiesHandler(svc, loc)

	rec := listActivities(handler, "?day=2026-03-10")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.listCalls, 1)
	day := svc.listCalls[0].Day
	require.NotNil(t, day)
	assert.Equal(t, loc, day.Location(), "day boundary follows the schedule timezone")
	y, m, d := day.Date()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 10, d)
}

func TestActivitiesList_ValidPlantIDForwarded(t *testing.T) {
	plantID := uuid.New()
	svc := &activityServiceMock{}
	handler := newActivitiesHandler(svc, time.UTC)

	rec := listActivities(handler, "?plant_id="+plantID.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.listCalls, 1)
	require.NotNil(t, svc.listCalls[0].PlantID)
	assert.Equal(t, plantID, *svc.listCalls[0].PlantID)
}

func TestActivitiesList_SurfacesFirstWatered(t *testing.T) {
	firstWatered := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	svc := &activityServiceMock{
		ListFunc: func(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
			return []domain.ActivityRecord{
				{
					ID:        uuid.New(),
					PlantID:   uuid.New(),
					PlantName: "Monstera",
					Action:    domain.ActivityActionCreate,
					Extra:     domain.ActivityPayload{FirstWatered: &firstWatered},
					At:        firstWatered,
				},
				{
					ID:        uuid.New(),
					PlantID:   uuid.New(),
					PlantName: "Ficus",
					Action:    domain.ActivityActionWater,
					At:        firstWatered.Add(24 * time.Hour),
				},
			}, nil
		},
	}
	handler := newActivitiesHandler(svc, time.UTC)

	rec := listActivities(handler, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []activityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	require.NotNil(t, resp[0].FirstWatered, "create records carry the real first watering time")
	assert.True(t, resp[0].FirstWatered.Equal(firstWatered))
	assert.Nil(t, resp[1].FirstWatered, "non-create records omit it")
}

func TestActivitiesList_Anonymous(t *testing.T) {
	svc := &activityServiceMock{}
	handler := newActivitiesHandler(svc, time.UTC)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/activities", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.listCalls)
}
