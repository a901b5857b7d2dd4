package main

import (
	"log"

	httptransport "github.com/mediccare/platform/internal/api/http"
	"github.com/mediccare/platform/internal/api/http/handlers"
	"github.com/mediccare/platform/internal/auth"
	"github.com/mediccare/platform/internal/config"
	"github.com/mediccare/platform/internal/gateway"
	"github.com/mediccare/platform/internal/observability"
	"github.com/mediccare/platform/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.ForService("gateway", "8080")

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	proxy := gateway.NewProxy(gateway.DefaultRoutes(cfg.Services), cfg.Services.Timeout(), logger)

	metrics := observability.NewMetrics()
	app := server.NewApp(cfg, logger, metrics)
	httptransport.RegisterGatewayRoutes(app, httptransport.GatewayRoutes{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, nil),
		Filter: gateway.Filter(tokens, gateway.DefaultPublicRoutes),
		Proxy:  proxy.Handle,
	})

	server.Run(app, cfg.App.Addr(), logger)
}
