package principals

import (
	"errors"
	"net/http"
)

// Principal directory errors.
var (
	ErrNotFound  = errors.New("principal not found")
	ErrDuplicate = errors.New("principal already exists")
	ErrEmptyName = errors.New("principal name required")
)

// MapHTTPStatus maps principal directory errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
