package analytics

import (
	"errors"
	"net/http"
)

// Domain errors for analytics operations.
var (
	ErrEmptyBatch       = errors.New("metrics batch must contain at least one item")
	ErrMissingPrincipal = errors.New("principal is required")
	ErrNoPrincipals     = errors.New("at least one principal is required")
)

// MapHTTPStatus maps analytics domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrMissingPrincipal) ||
		errors.Is(err, ErrNoPrincipals) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
