// Package tokenstore persists the marketplace OAuth credential and keeps
// it fresh. The service holds a single seller credential at a time; the
// Manager hands out access tokens and refreshes them ahead of expiry.
package tokenstore

import (
	"context"
	"errors"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

// ErrNoCredential is returned by Store.Load when no credential has
// been persisted yet.
var ErrNoCredential = errors.New("tokenstore: no credential stored")

// Store persists the OAuth credential across restarts.
type Store interface {
	// Load returns the stored credential, or ErrNoCredential.
	Load(ctx context.Context) (*seller.Credential, error)
	// Save overwrites the stored credential.
	Save(ctx context.Context, cred *seller.Credential) error
	// Clear removes the stored credential. Clearing an empty store
	// is not an error.
	Clear(ctx context.Context) error
}

// Refresher exchanges a refresh token for a new credential. Implemented
// by the marketplace OAuth client.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*seller.Credential, error)
}
