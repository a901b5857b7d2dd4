package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/mediccare/platform/internal/api/http"
	"github.com/mediccare/platform/internal/api/http/handlers"
	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/client"
	"github.com/mediccare/platform/internal/config"
	"github.com/mediccare/platform/internal/events"
	"github.com/mediccare/platform/internal/observability"
	"github.com/mediccare/platform/internal/persistence"
	"github.com/mediccare/platform/internal/repository"
	"github.com/mediccare/platform/internal/server"
	"github.com/mediccare/platform/internal/service"
	"github.com/mediccare/platform/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.ForService("identity", "8081")

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := server.OpenPostgres(ctx, cfg, "identity", logger)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var accounts repository.AccountRepository
	if pool := pg.PoolHandle(); pool != nil {
		accounts = repository.NewAccountRepository(pool)
	} else {
		logger.Warn("using in-memory account store")
		accounts = repository.NewMemoryAccountRepository()
	}

	dispatcher := events.NewInMemoryDispatcher()
	var forwarder service.EventForwarder
	if len(cfg.Events.KafkaBrokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
		if err != nil {
			logger.Fatal("failed to init kafka publisher", zap.Error(err))
		}
		defer publisher.Close() //nolint:errcheck
		forwarder = publisher
	}
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, forwarder))

	identityService := service.NewIdentityService(service.IdentityDependencies{
		AccountRepo: accounts,
		Tokens:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		Profiles: client.NewHTTPProfileClient(client.ProfileEndpoints{
			DoctorURL:  cfg.Services.DoctorURL,
			PatientURL: cfg.Services.PatientURL,
		}, cfg.Services.Timeout()),
		Dispatcher: dispatcher,
		Throttle:   service.NewLoginThrottle(redis.ClientHandle(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow(), logger),
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	metrics := observability.NewMetrics()
	app := server.NewApp(cfg, logger, metrics)
	httptransport.RegisterIdentityRoutes(app, httptransport.IdentityRoutes{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, server.Checks(pg, redis)),
		Auth:   handlers.NewAuthHandler(identityService),
		Admin:  handlers.NewAdminHandler(identityService),
	})

	server.Run(app, cfg.App.Addr(), logger)
}
