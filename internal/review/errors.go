package review

import (
	"errors"
	"net/http"
)

var (
	ErrCaseNotFound         = errors.New("case not found")
	ErrNoteNotFound         = errors.New("case has no note")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// MapHTTPStatus maps review errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrCaseNotFound), errors.Is(err, ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	}
	return http.StatusInternalServerError
}
