// Package api assembles the API and sync modules with all domain systems
// and route registration.
package api

import (
	"net/http"

	"github.com/douanehq/douane/internal/config"
	"github.com/douanehq/douane/internal/infrastructure"
	"github.com/douanehq/douane/internal/ingest"
	"github.com/douanehq/douane/pkg/middleware"
	"github.com/douanehq/douane/pkg/module"
	"github.com/douanehq/douane/pkg/routes"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}

// NewSyncModule creates the sync module guarded by the shared-secret header.
// It builds its own domain systems over the same infrastructure, so both
// surfaces share one store path.
func NewSyncModule(cfg *config.Config, infra *infrastructure.Infrastructure) *module.Module {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	logger := infra.Logger.With("module", "sync")
	handler := ingest.NewHandler(domain.Declarations, domain.Analytics, logger)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())

	m := module.New(cfg.Sync.BasePath, mux)
	m.Use(middleware.SharedSecret(config.SyncSecretHeader, cfg.Sync.Secret))
	m.Use(middleware.Logger(logger))

	return m
}
