package gateway

import (
	"errors"
	"net/http"
)

var (
	ErrProviderCall     = errors.New("provider call failed")
	ErrInvalidResponse  = errors.New("invalid provider response")
	ErrUnknownProvider  = errors.New("unknown provider")
	ErrMissingKey       = errors.New("provider key not configured")
	ErrUnsupportedInput = errors.New("unsupported document")
)

// MapHTTPStatus maps gateway errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProviderCall), errors.Is(err, ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnknownProvider), errors.Is(err, ErrMissingKey), errors.Is(err, ErrUnsupportedInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
