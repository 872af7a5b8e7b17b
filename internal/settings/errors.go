package settings

import (
	"errors"
	"net/http"
)

var (
	ErrUnknownProvider    = errors.New("unknown provider")
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	ErrInvalidModel       = errors.New("model must not be empty")
)

// MapHTTPStatus maps settings errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownProvider) || errors.Is(err, ErrInvalidTemperature) || errors.Is(err, ErrInvalidModel) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
