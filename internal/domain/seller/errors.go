package seller

import "errors"

// Errors returned by marketplace adapters and the credential manager
var (
	// Authorization errors
	ErrNotConnected      = errors.New("seller: no marketplace authorization on file")
	ErrCredentialExpired = errors.New("seller: marketplace credential expired")
	ErrRefreshFailed     = errors.New("seller: credential refresh failed")
	ErrStateMismatch     = errors.New("seller: oauth state mismatch")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("seller: marketplace temporarily unavailable")
	ErrUpstreamRejected    = errors.New("seller: marketplace rejected the request")
	ErrInvalidResponse     = errors.New("seller: invalid marketplace response")
	ErrRateLimited         = errors.New("seller: marketplace rate limited")

	// Lookup errors
	ErrListingNotFound  = errors.New("seller: listing not found")
	ErrOrderNotFound    = errors.New("seller: order not found")
	ErrShipmentNotFound = errors.New("seller: shipment not found")
	ErrCategoryNotFound = errors.New("seller: category not found")
	ErrPictureNotFound  = errors.New("seller: picture not found")

	// Batch contract errors
	ErrTooManyIDs = errors.New("seller: id batch exceeds marketplace limit")
)
