package documents

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/jurispanel/pkg/handlers"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

// Handler serves archived documents.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{sys: sys, logger: logger.With("handler", "documents")}
}

// Routes returns the route group for document downloads.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.Download},
		},
	}
}

// Download streams an archived original. The key is relative to the
// documents/ prefix.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := "documents/" + strings.TrimPrefix(r.PathValue("key"), "documents/")

	obj, err := h.sys.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("document stream interrupted", "key", key, "error", err)
	}
}

// ReadUpload reads the multipart "file" part, or the "text" field when no
// file is present.
func ReadUpload(r *http.Request, maxSize int64) (Upload, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Upload{}, ErrFileTooLarge
		}
		return Upload{}, ErrInvalidFile
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return Upload{}, ErrInvalidFile
		}
		return Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}

	text := r.FormValue("text")
	if strings.TrimSpace(text) == "" {
		return Upload{}, ErrEmpty
	}
	return Upload{Filename: "texto.txt", ContentType: TypeText, Data: []byte(text)}, nil
}
