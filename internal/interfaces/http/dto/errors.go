package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>

const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
)

const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to the standardized codes
// used on the wire
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"INVALID_TITLE":    ErrCodeValidation,
	"INVALID_NAME":     ErrCodeValidation,
	"INVALID_STATUS":   ErrCodeValidation,
	"INVALID_PRIORITY": ErrCodeValidation,
	"INVALID_EMAIL":    ErrCodeValidation,
	"INVALID_ROLE":     ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// If the code is already in the new format or unknown, returns it as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := domainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
