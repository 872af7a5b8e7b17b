package audit

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/jurispanel/pkg/handlers"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

// ErrInvalidLimit is returned for a non-numeric limit parameter.
var ErrInvalidLimit = errors.New("invalid limit")

// Handler serves the audit log.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, logger: logger.With("handler", "logs")}
}

// Routes returns the route group for the audit log.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/logs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
		},
	}
}

// List returns entries newest first, bounded by the optional limit parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := Retention
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidLimit)
			return
		}
		limit = n
	}

	entries, err := h.sys.List(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}
