package workspace

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/pkg/handlers"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

// Handler provides HTTP endpoints for the workspace.
type Handler struct {
	ws            *Workspace
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler.
func NewHandler(ws *Workspace, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		ws:            ws,
		logger:        logger.With("handler", "workspace"),
		maxUploadSize: maxUploadSize,
	}
}

// ExtractionRoutes returns the /extractions group.
func (h *Handler) ExtractionRoutes() routes.Group {
	return routes.Group{
		Prefix: "/extractions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Extract},
			{Method: "POST", Pattern: "/metadata", Handler: h.Autofill},
		},
	}
}

// Routes returns the /workspace group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/workspace",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "POST", Pattern: "/reset", Handler: h.Reset},
			{Method: "PUT", Pattern: "/metadata", Handler: h.UpdateMetadata},
			{Method: "POST", Pattern: "/cases/{id}/vote", Handler: h.Vote},
			{Method: "PUT", Pattern: "/cases/{id}/note", Handler: h.Annotate},
			{Method: "DELETE", Pattern: "/cases/{id}/note", Handler: h.DeleteNote},
			{Method: "PUT", Pattern: "/selection", Handler: h.Select},
			{Method: "DELETE", Pattern: "/selection", Handler: h.ClearSelection},
			{Method: "POST", Pattern: "/selection/all", Handler: h.ToggleAll},
			{Method: "POST", Pattern: "/selection/{id}", Handler: h.Toggle},
			{Method: "POST", Pattern: "/save", Handler: h.Save},
			{Method: "POST", Pattern: "/load/{id}", Handler: h.Load},
		},
	}
}

func (h *Handler) respond(w http.ResponseWriter, snap Snapshot, err error) {
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, snap)
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func metadataFromForm(r *http.Request) cases.Metadata {
	return cases.Metadata{
		Orgao:          r.FormValue("orgao"),
		Relator:        r.FormValue("relator"),
		Data:           r.FormValue("data"),
		Tipo:           r.FormValue("tipo"),
		Hora:           r.FormValue("hora"),
		TotalProcessos: r.FormValue("total_processos"),
	}
}

// Get returns the current workspace state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.ws.Snapshot())
}

// Extract reads a multipart upload with session metadata form fields and
// replaces the working list with the extracted cases.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	up, err := documents.ReadUpload(r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	snap, err := h.ws.Extract(r.Context(), up, metadataFromForm(r))
	h.respond(w, snap, err)
}

// Autofill returns the provided metadata form fields overlaid with the
// metadata extracted from the upload.
func (h *Handler) Autofill(w http.ResponseWriter, r *http.Request) {
	up, err := documents.ReadUpload(r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	md, err := h.ws.Autofill(r.Context(), up, metadataFromForm(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, md)
}

// Reset discards the working list. Requires ?confirm=true.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ws.Reset(confirmed(r))
	h.respond(w, snap, err)
}

// UpdateMetadata replaces the session metadata.
func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var md cases.Metadata
	if err := json.NewDecoder(r.Body).Decode(&md); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.ws.UpdateMetadata(md))
}

// Vote records a vote for the path case, or for the selection when the
// path case is selected. A null or missing type clears the vote.
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type *string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	snap, err := h.ws.Vote(r.Context(), body.Type, r.PathValue("id"))
	h.respond(w, snap, err)
}

// Annotate creates or replaces the note on the path case.
func (h *Handler) Annotate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	snap, err := h.ws.Annotate(r.Context(), r.PathValue("id"), body.Text)
	h.respond(w, snap, err)
}

// DeleteNote removes the note on the path case. Requires ?confirm=true.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ws.DeleteNote(r.Context(), r.PathValue("id"), confirmed(r))
	h.respond(w, snap, err)
}

// Select replaces the selection.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.ws.Select(body.IDs))
}

// ClearSelection empties the selection.
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.ws.ClearSelection())
}

// ToggleAll selects every case, or clears the selection when every case
// is already selected.
func (h *Handler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.ws.ToggleAll())
}

// Toggle flips the selection of the path case.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ws.Toggle(r.PathValue("id"))
	h.respond(w, snap, err)
}

// Save stores the working list as a session.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ws.Save(r.Context())
	h.respond(w, snap, err)
}

// Load replaces the working list with a stored session.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ws.Load(r.Context(), r.PathValue("id"))
	h.respond(w, snap, err)
}
