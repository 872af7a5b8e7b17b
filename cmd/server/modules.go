package main

import (
	"net/http"

	"github.com/JaimeStill/jurispanel/internal/api"
	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/infrastructure"
	"github.com/JaimeStill/jurispanel/pkg/handlers"
	"github.com/JaimeStill/jurispanel/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	metricsHandler := infra.Metrics.Handler()
	router.HandleNative("GET "+cfg.Metrics.Path, metricsHandler.ServeHTTP)

	return router
}
