package settings

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/jurispanel/pkg/handlers"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

var errInvalidBody = errors.New("invalid request body")

// Handler provides HTTP endpoints for AI settings.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, logger: logger.With("handler", "settings")}
}

// Routes returns the /settings group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/settings",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "PUT", Pattern: "", Handler: h.Update},
			{Method: "GET", Pattern: "/models", Handler: h.Models},
			{Method: "POST", Pattern: "/providers/{name}/activate", Handler: h.Activate},
			{Method: "DELETE", Pattern: "/providers/{name}/key", Handler: h.RemoveKey},
		},
	}
}

// Get returns the current settings without keys.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.Get(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, v)
}

// Update applies a partial settings change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var u Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidBody)
		return
	}

	v, err := h.sys.Update(r.Context(), u)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, v)
}

// Models returns the provider and model catalogue.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Catalogue())
}

// Activate switches the active provider.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.Activate(r.Context(), r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, v)
}

// RemoveKey clears the stored key of a provider.
func (h *Handler) RemoveKey(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.RemoveKey(r.Context(), r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, v)
}
