package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthyDB() pingerFunc {
	return func(ctx context.Context) error { return nil }
}

func downDB() pingerFunc {
	return func(ctx context.Context) error { return errors.New("connection refused") }
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLive_AlwaysOK(t *testing.T) {
	// Liveness must not depend on the database.
	h := NewHealthHandler(downDB(), "1.2.3")

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReady_ReflectsDatabase(t *testing.T) {
	cases := []struct {
		name       string
		db         pingerFunc
		wantCode   int
		wantStatus string
	}{
		{"db reachable", healthyDB(), http.StatusOK, "ok"},
		{"db down", downDB(), http.StatusServiceUnavailable, "down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.db, "1.2.3")

			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantStatus, decodeHealth(t, rec).Status)
		})
	}
}

func TestReady_PingGetsDeadline(t *testing.T) {
	var hadDeadline bool
	db := pingerFunc(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	h := NewHealthHandler(db, "1.2.3")

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.True(t, hadDeadline, "ping must run under a timeout")
}

func TestHealth_ReportsComponentsAndVersion(t *testing.T) {
	h := NewHealthHandler(healthyDB(), "2.0.0")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "2.0.0", resp.Version)

	db, ok := resp.Components["database"]
	require.True(t, ok, "database component missing")
	assert.Equal(t, "ok", db.Status)
	assert.NotEmpty(t, db.Latency)
}

func TestHealth_DegradedDatabase(t *testing.T) {
	h := NewHealthHandler(downDB(), "2.0.0")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, "down", resp.Components["database"].Status)
	assert.Empty(t, resp.Components["database"].Latency)
}
