// Package api builds the /api module: it wires the domain systems over the
// shared infrastructure and registers their routes.
package api

import (
	"net/http"

	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/infrastructure"
	"github.com/JaimeStill/jurispanel/pkg/middleware"
	"github.com/JaimeStill/jurispanel/pkg/module"
)

// NewModule mounts every domain handler under cfg.API.BasePath. Requests
// pass through CORS, then request logging, then metrics.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	for _, mw := range []middleware.Func{
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger.With("module", "api")),
		middleware.Metrics(runtime.Metrics),
	} {
		m.Use(mw)
	}
	return m, nil
}
