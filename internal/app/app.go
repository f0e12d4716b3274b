package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/plantae/plantae-backend/internal/auth"
	"github.com/plantae/plantae-backend/internal/config"

	postgres "github.com/plantae/plantae-backend/internal/adapter/postgres"
	activityrepo "github.com/plantae/plantae-backend/internal/adapter/postgres/activity"
	plantrepo "github.com/plantae/plantae-backend/internal/adapter/postgres/plant"
	userrepo "github.com/plantae/plantae-backend/internal/adapter/postgres/user"
	wateringrepo "github.com/plantae/plantae-backend/internal/adapter/postgres/watering"

	activitysvc "github.com/plantae/plantae-backend/internal/service/activity"
	authsvc "github.com/plantae/plantae-backend/internal/service/auth"
	plantsvc "github.com/plantae/plantae-backend/internal/service/plant"
	schedulesvc "github.com/plantae/plantae-backend/internal/service/schedule"

	"github.com/plantae/plantae-backend/internal/transport/middleware"
	"github.com/plantae/plantae-backend/internal/transport/rest"
)

// authRatePerMinute limits login/register attempts per client IP.
const authRatePerMinute = 20

// Run is the application entry point. It loads configuration, wires the
// repositories and services, and serves HTTP until the context is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	tx := postgres.NewTxManager(pool)

	plants := plantrepo.New(pool)
	waterings := wateringrepo.New(pool)
	activities := activityrepo.New(pool)
	users := userrepo.New(pool)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, users, tokens)
	plantService := plantsvc.NewService(logger, plants, waterings, activities, tx, nil, cfg.Plants.MaxPlantsPerUser)
	scheduleService := schedulesvc.NewService(logger, plants, waterings, plantService, cfg.Schedule.Location)
	plantService.AttachSchedule(scheduleService)
	activityService := activitysvc.NewService(logger, activities, plants, tx)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Auth:              rest.NewAuthHandler(authService, logger),
		Plants:            rest.NewPlantsHandler(plantService, logger),
		Activities:        rest.NewActivitiesHandler(activityService, logger, cfg.Schedule.Location),
		Schedule:          rest.NewScheduleHandler(scheduleService, logger),
		Health:            rest.NewHealthHandler(pool, BuildVersion()),
		Validator:         authService,
		CORS:              cfg.CORS,
		Logger:            logger,
		AuthRatePerMinute: authRatePerMinute,
		RateLimiter:       limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
