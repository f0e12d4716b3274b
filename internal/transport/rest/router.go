package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/config"
	"github.com/plantae/plantae-backend/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Auth       *AuthHandler
	Plants     *PlantsHandler
	Activities *ActivitiesHandler
	Schedule   *ScheduleHandler
	Health     *HealthHandler
	Validator  tokenValidator
	CORS       config.CORSConfig
	Logger     *slog.Logger
	// AuthRatePerMinute limits login/register attempts per client IP.
	// Zero disables the limiter.
	AuthRatePerMinute int
	RateLimiter       *middleware.RateLimiter
}

// NewRouter builds the public HTTP handler: all routes plus the shared
// middleware chain. Probes stay outside the chain so a noisy logger or a
// strict limiter never affects orchestration checks.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	api := http.NewServeMux()

	register := http.Handler(http.HandlerFunc(deps.Auth.Register))
	login := http.Handler(http.HandlerFunc(deps.Auth.Login))
	if deps.RateLimiter != nil && deps.AuthRatePerMinute > 0 {
		limit := deps.RateLimiter.Limit(deps.AuthRatePerMinute)
		register = limit(register)
		login = limit(login)
	}
	api.Handle("POST /api/auth/register", register)
	api.Handle("POST /api/auth/login", login)

	api.HandleFunc("GET /api/plants", deps.Plants.List)
	api.HandleFunc("POST /api/plants", deps.Plants.Create)
	api.HandleFunc("GET /api/plants/photo/{photoID}", deps.Plants.GetPhoto)
	api.HandleFunc("GET /api/plants/{id}", deps.Plants.Get)
	api.HandleFunc("PUT /api/plants/{id}", deps.Plants.Update)
	api.HandleFunc("DELETE /api/plants/{id}", deps.Plants.Delete)
	api.HandleFunc("POST /api/plants/{id}/water", deps.Plants.Water)
	api.HandleFunc("POST /api/plants/{id}/photo", deps.Plants.UploadPhoto)
	api.HandleFunc("POST /api/plants/{id}/restore", deps.Activities.Restore)

	api.HandleFunc("GET /api/activities", deps.Activities.List)

	api.HandleFunc("GET /api/schedule", deps.Schedule.ForecastAll)
	api.HandleFunc("GET /api/plants/{id}/schedule", deps.Schedule.Forecast)
	api.HandleFunc("POST /api/plants/{id}/schedule/{index}/done", deps.Schedule.MarkDone)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(deps.Logger),
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
		middleware.Auth(deps.Validator),
	)
	mux.Handle("/api/", chain(api))

	return mux
}
