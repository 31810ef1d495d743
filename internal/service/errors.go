package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// The API layer maps them to HTTP status codes with errors.Is.
var (
	// ErrDeckNotFound indicates the requested deck does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrInvalidAction indicates an action name the session service does not know.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidAction = errors.New("invalid session action")
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return e.Service + " service " + e.Operation + " failed: " + e.Err.Error()
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
