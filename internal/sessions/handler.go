package sessions

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/jurispanel/pkg/handlers"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

// Handler provides HTTP endpoints for saved sessions and the trash.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, cfg pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "sessions"),
		pagination: cfg,
	}
}

// Routes returns the /sessions group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Trash},
		},
	}
}

// TrashRoutes returns the /trash group.
func (h *Handler) TrashRoutes() routes.Group {
	return routes.Group{
		Prefix: "/trash",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListTrash},
			{Method: "POST", Pattern: "/{id}/restore", Handler: h.Restore},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Purge},
		},
	}
}

// List returns active sessions, most recently saved first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns one active session with its cases.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sess)
}

// Trash moves an active session to the trash.
func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Trash(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTrash returns trashed sessions.
func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListTrash(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Restore moves a trashed session back to the active list.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Restore(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Purge permanently removes a trashed session.
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Purge(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
