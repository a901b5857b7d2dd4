package server

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/mediccare/platform/internal/api/http"
	"github.com/mediccare/platform/internal/api/http/handlers"
	"github.com/mediccare/platform/internal/config"
	"github.com/mediccare/platform/internal/observability"
	"github.com/mediccare/platform/internal/persistence"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds a fiber app with the shared middleware chain.
func NewApp(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	return app
}

// OpenPostgres connects and applies the service's migrations. The returned
// handle has a nil pool when no DSN is configured.
func OpenPostgres(ctx context.Context, cfg *config.Config, service string, logger *zap.Logger) (*persistence.Postgres, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Postgres.RunMigrations {
		dir := filepath.Join(cfg.Postgres.MigrationsDir, service)
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), dir, logger); err != nil {
			pg.Close()
			return nil, err
		}
	}
	return pg, nil
}

// Checks collects the configured dependencies for readiness probes.
func Checks(pg *persistence.Postgres, redis *persistence.Redis) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if pg.PoolHandle() != nil {
		checks["postgres"] = pg
	}
	if redis.ClientHandle() != nil {
		checks["redis"] = redis
	}
	return checks
}

// Run serves app until SIGINT or SIGTERM.
func Run(app *fiber.App, addr string, logger *zap.Logger) {
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
