package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Authorization error codes
const (
	// ErrCodeNotConnected is used when no marketplace authorization is on file
	ErrCodeNotConnected = "ERR_NOT_CONNECTED"
	// ErrCodeCredentialExpired is used when the stored credential has expired
	// and could not be refreshed
	ErrCodeCredentialExpired = "ERR_CREDENTIAL_EXPIRED"
	// ErrCodeStateMismatch is used when the OAuth callback state is unknown
	ErrCodeStateMismatch = "ERR_STATE_MISMATCH"
	// ErrCodeSessionInvalid is used when the dashboard session token is
	// missing or invalid
	ErrCodeSessionInvalid = "ERR_SESSION_INVALID"
	// ErrCodeSessionExpired is used when the dashboard session token expired
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"
)

// Upstream error codes
const (
	// ErrCodeUpstreamRejected is used when the marketplace rejected the request
	ErrCodeUpstreamRejected = "ERR_UPSTREAM_REJECTED"
	// ErrCodeUpstreamUnavailable is used when the marketplace cannot be reached
	ErrCodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
	// ErrCodeRateLimited is used when the marketplace throttled us
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Authorization errors -> 401 Unauthorized
	ErrCodeNotConnected:      http.StatusUnauthorized,
	ErrCodeCredentialExpired: http.StatusUnauthorized,
	ErrCodeSessionInvalid:    http.StatusUnauthorized,
	ErrCodeSessionExpired:    http.StatusUnauthorized,
	ErrCodeStateMismatch:     http.StatusBadRequest,

	// Upstream errors
	ErrCodeUpstreamRejected:    http.StatusBadRequest,
	ErrCodeUpstreamUnavailable: http.StatusBadGateway,
	ErrCodeRateLimited:         http.StatusTooManyRequests,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
