package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeNetwork     = "NETWORK_ERROR"
	ErrCodeServer      = "SERVER_ERROR"
	ErrCodeAuth        = "AUTH_ERROR"
	ErrCodePersistence = "PERSISTENCE_ERROR"
	ErrCodeConflict    = "CONFLICT"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "NETWORK_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewNetworkError creates a NETWORK_ERROR for transport-level failures
// where no response was received from the backend.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: "backend unreachable",
		Status:  502,
		Err:     err,
	}
}

// NewServerError creates a SERVER_ERROR for non-2xx backend responses
// carrying a server-provided message.
func NewServerError(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", status)
	}
	return &AppError{
		Code:    ErrCodeServer,
		Message: message,
		Status:  502,
	}
}

// NewAuthError creates an AUTH_ERROR for unauthenticated callers.
func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAuth,
		Message: message,
		Status:  401,
	}
}

// NewPersistenceError creates a PERSISTENCE_ERROR for local durable-store
// failures. Callers are expected to degrade rather than abort.
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Code:    ErrCodePersistence,
		Message: "local storage failure",
		Status:  500,
		Err:     err,
	}
}

// NewConflictError creates a CONFLICT error, used when a request arrives
// while another flow transition is still in flight.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return HasCode(err, ErrCodeNotFound) }

// IsValidation reports whether err is a VALIDATION_ERROR.
func IsValidation(err error) bool { return HasCode(err, ErrCodeValidation) }

// IsConflict reports whether err is a CONFLICT error.
func IsConflict(err error) bool { return HasCode(err, ErrCodeConflict) }

// IsPersistence reports whether err is a PERSISTENCE_ERROR.
func IsPersistence(err error) bool { return HasCode(err, ErrCodePersistence) }
