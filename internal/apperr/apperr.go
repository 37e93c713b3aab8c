// Package apperr defines the service error taxonomy. Every operation-level
// failure becomes an AppError carrying a machine-readable code, the HTTP
// status it maps to, and an optional cause kept for logging.
package apperr

import (
	"fmt"
	"net/http"
)

// AppError is the one error type handlers translate into a response. The
// Cause never reaches the wire; it exists for the server-side log line.
type AppError struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail entry and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New builds an AppError for codes without a dedicated constructor.
// Retryability follows the code.
func New(code Code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// One constructor per condition in the taxonomy.

// Unauthenticated: the request carried no credential at all.
func Unauthenticated() *AppError {
	return &AppError{
		Code: CodeUnauthenticated, Message: "Access denied. Authentication required.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidToken: a credential was presented but failed verification, for
// any reason (signature, structure, expiry).
func InvalidToken() *AppError {
	return &AppError{
		Code: CodeInvalidToken, Message: "Invalid token.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Forbidden: a mutation on a resource the caller does not own.
func Forbidden() *AppError {
	return &AppError{
		Code: CodeForbidden, Message: "You don't have permission to modify this resource.",
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// UserExists: registration against an email that is already stored.
func UserExists() *AppError {
	return &AppError{
		Code: CodeUserExists, Message: "User already exists.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidCredentials: login failed. Unknown email and wrong password
// produce this same value, so the response never reveals which.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: CodeInvalidCredentials, Message: "Invalid credentials.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// NotFound: no stored resource matches the id.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: CodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// Validation: the request body failed binding or a field check.
func Validation(message string) *AppError {
	return &AppError{
		Code: CodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// Internal: an unexpected server-side failure. The caller sees only the
// generic message; the cause goes to the log.
func Internal(cause error) *AppError {
	return &AppError{
		Code: CodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// StoreError: the persistence layer failed. Marked retryable since the
// store may recover.
func StoreError(cause error) *AppError {
	return &AppError{
		Code: CodeStoreError, Message: "A storage error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}
