package api

import (
	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/internal/extraction"
	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/internal/ids"
	"github.com/JaimeStill/jurispanel/internal/review"
	"github.com/JaimeStill/jurispanel/internal/sessions"
	"github.com/JaimeStill/jurispanel/internal/settings"
	"github.com/JaimeStill/jurispanel/internal/workspace"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Audit     audit.System
	Settings  settings.System
	Documents documents.System
	Sessions  sessions.System
	Workspace *workspace.Workspace
}

// NewDomain creates all domain systems from the API runtime. Sessions and
// the audit log live in PostgreSQL when a database is configured and in the
// key-value store otherwise.
func NewDomain(runtime *Runtime) *Domain {
	alloc := ids.New(runtime.KV)

	var (
		auditSystem  audit.System
		sessionStore sessions.Store
	)
	if runtime.Database != nil {
		auditSystem = audit.New(runtime.Database.Connection(), alloc, runtime.Logger)
		sessionStore = sessions.NewRepository(runtime.Database.Connection(), runtime.Pagination, runtime.Logger)
	} else {
		auditSystem = audit.NewStore(runtime.KV, alloc, runtime.Logger)
		sessionStore = sessions.NewKVStore(runtime.KV, runtime.Pagination, runtime.Logger)
	}

	settingsSystem := settings.New(runtime.KV, runtime.Gateway, runtime.Logger)

	gatewaySystem := gateway.New(
		gateway.NewRegistry(),
		settingsSystem,
		runtime.Metrics,
		runtime.Logger,
	)

	docsSystem := documents.New(runtime.Storage, runtime.Logger)

	pipeline := extraction.New(
		gatewaySystem,
		extraction.NewCache(runtime.KV, runtime.Metrics, runtime.Logger),
		alloc,
		runtime.Metrics,
		runtime.Logger,
	)

	sessionsSystem := sessions.New(sessionStore, alloc, auditSystem, runtime.Logger, runtime.Pagination)

	ws := workspace.New(workspace.Deps{
		Pipeline:  pipeline,
		Gateway:   gatewaySystem,
		Documents: docsSystem,
		Review:    review.New(alloc, auditSystem, runtime.Metrics, runtime.Logger),
		Sessions:  sessionsSystem,
		Audit:     auditSystem,
		Logger:    runtime.Logger,
	})

	return &Domain{
		Audit:     auditSystem,
		Settings:  settingsSystem,
		Documents: docsSystem,
		Sessions:  sessionsSystem,
		Workspace: ws,
	}
}
