package declarations

import (
	"errors"
	"net/http"
)

// Domain errors for declaration operations.
var (
	ErrNotFound       = errors.New("declaration not found")
	ErrDuplicate      = errors.New("declaration already exists")
	ErrEmptyBatch     = errors.New("batch must contain at least one item")
	ErrMissingID      = errors.New("declaration id is required")
	ErrAlreadyCreated = errors.New("ticket already created")
	ErrTicketInFlight = errors.New("ticket creation already in progress")
)

// MapHTTPStatus maps declaration domain errors to appropriate HTTP status codes.
// The already-created guard surfaces as 400: resubmitting a created declaration
// is a client error, not a state conflict a retry could resolve.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAlreadyCreated) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrTicketInFlight) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyBatch) || errors.Is(err, ErrMissingID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
