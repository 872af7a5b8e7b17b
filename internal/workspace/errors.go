package workspace

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/jurispanel/internal/documents"
	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/internal/review"
	"github.com/JaimeStill/jurispanel/internal/sessions"
)

var (
	ErrBusy                 = errors.New("an extraction is already in progress")
	ErrNothingToSave        = errors.New("metadata and at least one case are required")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidRequest       = errors.New("invalid request body")
)

// MapHTTPStatus maps workspace errors, and the errors of the systems it
// drives, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrNothingToSave), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfirmationRequired), errors.Is(err, review.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, review.ErrCaseNotFound), errors.Is(err, review.ErrNoteNotFound):
		return review.MapHTTPStatus(err)
	case errors.Is(err, sessions.ErrNotFound), errors.Is(err, sessions.ErrEmpty):
		return sessions.MapHTTPStatus(err)
	case errors.Is(err, documents.ErrFileTooLarge), errors.Is(err, documents.ErrInvalidFile), errors.Is(err, documents.ErrEmpty):
		return documents.MapHTTPStatus(err)
	}
	return gateway.MapHTTPStatus(err)
}
