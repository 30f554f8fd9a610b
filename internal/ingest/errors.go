package ingest

import (
	"errors"
	"net/http"

	"github.com/douanehq/douane/internal/analytics"
	"github.com/douanehq/douane/internal/declarations"
)

// Ingest boundary errors.
var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidDate    = errors.New("invalid metric date")
)

// MapHTTPStatus maps ingest errors to HTTP status codes. Validation failures
// are 400; anything else is a storage failure surfaced as 500.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, declarations.ErrEmptyBatch) ||
		errors.Is(err, declarations.ErrMissingID) ||
		errors.Is(err, analytics.ErrEmptyBatch) ||
		errors.Is(err, analytics.ErrMissingPrincipal) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
