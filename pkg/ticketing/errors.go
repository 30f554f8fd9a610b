package ticketing

import "errors"

// Error represents a failure reported by or while reaching the CRM.
// Message carries the collaborator's own description and is what gets
// persisted as a declaration's ticket_error.
type Error struct {
	Op           string
	Message      string
	AuthRejected bool
}

func (e *Error) Error() string {
	return e.Message
}

// IsAuthRejected reports whether the CRM rejected the cached session token.
func IsAuthRejected(err error) bool {
	var terr *Error
	return errors.As(err, &terr) && terr.AuthRejected
}
