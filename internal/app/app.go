package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/config"
	"github.com/sandeepkv93/product-inventory-admin/internal/health"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	DB            *gorm.DB
	Redis         redis.UniversalClient
	Readiness     *health.ProbeRunner
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		DB:            db,
		Redis:         redisClient,
		Readiness:     readiness,
	}
}

// Run serves HTTP until ctx is cancelled or the listener fails, then shuts
// everything down within the configured budgets.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr, "database_driver", a.Config.DatabaseDriver)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			a.Logger.Error("http server failed", "error", serveErr)
		}
	}
	return errors.Join(serveErr, a.Shutdown())
}

func (a *App) Shutdown() error {
	total := durationOr(a.Config.ShutdownTimeout, 20*time.Second)
	totalCtx, totalCancel := context.WithTimeout(context.Background(), total)
	defer totalCancel()

	var errs []error
	httpCtx, httpCancel := context.WithTimeout(totalCtx, durationOr(a.Config.ShutdownHTTPDrainTimeout, 10*time.Second))
	if err := a.Server.Shutdown(httpCtx); err != nil {
		a.Logger.Error("failed to shutdown http server", "error", err)
		errs = append(errs, err)
	}
	httpCancel()

	if a.Observability != nil {
		obsCtx, obsCancel := context.WithTimeout(totalCtx, durationOr(a.Config.ShutdownObservabilityTimeout, 8*time.Second))
		if err := a.Observability.Shutdown(obsCtx); err != nil {
			a.Logger.Error("failed to shutdown observability", "error", err)
			errs = append(errs, err)
		}
		obsCancel()
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", "error", err)
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Logger.Error("failed to close database connection", "error", err)
				errs = append(errs, err)
			}
		}
	}
	a.Logger.Info("shutdown complete")
	return errors.Join(errs...)
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
