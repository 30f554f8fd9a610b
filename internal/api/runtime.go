package api

import (
	"github.com/douanehq/douane/internal/config"
	"github.com/douanehq/douane/internal/infrastructure"
	"github.com/douanehq/douane/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Ticketing: infra.Ticketing,
		},
		Pagination: cfg.API.Pagination,
	}
}
