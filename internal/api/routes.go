package api

import (
	"net/http"

	"github.com/JaimeStill/jurispanel/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	sessionsHandler := domain.Sessions.Handler()
	workspaceHandler := domain.Workspace.Handler(runtime.MaxUploadSize)

	routes.Register(
		mux,
		workspaceHandler.ExtractionRoutes(),
		workspaceHandler.Routes(),
		sessionsHandler.Routes(),
		sessionsHandler.TrashRoutes(),
		domain.Documents.Handler().Routes(),
		domain.Settings.Handler().Routes(),
		domain.Audit.Handler().Routes(),
	)
}
