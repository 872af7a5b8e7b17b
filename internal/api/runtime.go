package api

import (
	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/infrastructure"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Gateway       *config.GatewayConfig
	Pagination    pagination.Config
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			KV:        infra.KV,
			Metrics:   infra.Metrics,
		},
		Gateway:       &cfg.Gateway,
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}
}
