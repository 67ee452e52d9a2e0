package response

import "fmt"

// Error codes shared between services and handlers
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeLimitExceeded = "LIMIT_EXCEEDED"
	ErrCodeEmptyResult   = "EMPTY_RESULT"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type services return to handlers. Code selects the
// HTTP status, Message is shown to the caller, Details is kept for logs.
type AppError struct {
	Code    string
	Message string
	Details string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates an AppError with an arbitrary code
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a VALIDATION_ERROR
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a NOT_FOUND error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewForbiddenError creates a FORBIDDEN error
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewLimitExceededError creates a LIMIT_EXCEEDED error
func NewLimitExceededError(message, details string) *AppError {
	return NewAppError(ErrCodeLimitExceeded, message, details)
}
