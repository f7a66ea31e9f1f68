package domain

import "fmt"

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeTransition = "invalid_transition"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeBadRequest = "bad_request"
	ErrorTypeConflict   = "conflict"
	ErrorTypeInternal   = "internal_error"
)

// InvalidTransitionError is returned when a status change is not
// permitted by the vehicle lifecycle table. The vehicle is guaranteed
// unchanged when this error is returned.
type InvalidTransitionError struct {
	From VehicleStatus
	To   VehicleStatus
}

// Error implements the error interface
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// ValidationError is returned when a mutation carries malformed input
// (missing payment, missing staff, non-positive amount). Rejected
// synchronously before any state change.
type ValidationError struct {
	Detail string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Detail
}

// NewValidationError builds a ValidationError with a formatted detail message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}
