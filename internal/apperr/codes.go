package apperr

// Code is a machine-readable error code.
type Code string

// Authentication/authorization errors
const (
	// CodeUnauthenticated indicates the request carried no credential.
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	// CodeInvalidToken indicates the credential is malformed, expired, or has a bad signature.
	CodeInvalidToken Code = "INVALID_TOKEN"
	// CodeForbidden indicates the caller does not own the target resource.
	CodeForbidden Code = "FORBIDDEN"
)

// Identity errors
const (
	// CodeUserExists indicates a user with the given email is already registered.
	CodeUserExists Code = "USER_EXISTS"
	// CodeInvalidCredentials indicates the email/password pair did not match.
	// Deliberately shared by unknown-email and wrong-password so the response
	// does not leak which check failed.
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
)

// Resource errors
const (
	// CodeNotFound indicates the requested resource was not found.
	CodeNotFound Code = "NOT_FOUND"
)

// Validation errors
const (
	// CodeInvalidInput indicates the request body failed validation.
	CodeInvalidInput Code = "INVALID_INPUT"
)

// Internal errors
const (
	// CodeInternal indicates an unexpected server-side failure.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeStoreError indicates a persistence-layer failure.
	CodeStoreError Code = "STORE_ERROR"
)

var retryableCodes = map[Code]bool{
	CodeStoreError: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code Code) bool {
	return retryableCodes[code]
}
