package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/mediccare/platform/internal/api/http"
	"github.com/mediccare/platform/internal/api/http/handlers"
	"github.com/mediccare/platform/internal/config"
	"github.com/mediccare/platform/internal/observability"
	"github.com/mediccare/platform/internal/repository"
	"github.com/mediccare/platform/internal/server"
	"github.com/mediccare/platform/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.ForService("patient", "8083")

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := server.OpenPostgres(ctx, cfg, "patient", logger)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer pg.Close()

	var patients repository.PatientRepository
	if pool := pg.PoolHandle(); pool != nil {
		patients = repository.NewPatientRepository(pool)
	} else {
		logger.Warn("using in-memory patient store")
		patients = repository.NewMemoryPatientRepository()
	}

	metrics := observability.NewMetrics()
	app := server.NewApp(cfg, logger, metrics)
	httptransport.RegisterPatientRoutes(app, httptransport.PatientRoutes{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, server.Checks(pg, nil)),
		Patients: handlers.NewPatientHandler(service.NewPatientService(patients)),
	})

	server.Run(app, cfg.App.Addr(), logger)
}
