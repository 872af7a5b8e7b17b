package sessions

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrDuplicate = errors.New("session already exists")
	ErrEmpty     = errors.New("session has no metadata or cases")
)

// MapHTTPStatus maps session errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmpty):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
