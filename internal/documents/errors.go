package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/jurispanel/pkg/storage"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrEmpty        = errors.New("no file or text provided")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrEmpty):
		return http.StatusBadRequest
	default:
		return storage.MapHTTPStatus(err)
	}
}
