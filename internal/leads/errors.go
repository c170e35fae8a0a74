package leads

import "errors"

// FieldError is a validation problem tied to one submission field. The
// message is written for the visitor, not the logs.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("lead not found")
)

// User-facing messages for outcomes that are not tied to a single field.
const (
	msgGenericFailure = "Something went wrong. Please try again, or call us directly."
)
