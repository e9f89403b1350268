package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

// Manager hands out a valid access token, refreshing it ahead of
// expiry. All upstream calls go through Token, so the refresh decision
// is centralized here.
//
// Concurrency: a single mutex serializes refreshes. Concurrent callers
// that arrive while a refresh is in flight block and then reuse the
// refreshed credential instead of issuing duplicate refresh requests.
type Manager struct {
	store     Store
	refresher Refresher
	margin    time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	cached *seller.Credential
}

// NewManager creates a token manager. A non-positive margin falls back
// to the default refresh margin.
func NewManager(store Store, refresher Refresher, margin time.Duration, logger *zap.Logger) *Manager {
	if margin <= 0 {
		margin = seller.DefaultRefreshMargin
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		margin:    margin,
		logger:    logger,
	}
}

// Token returns an access token that is valid for at least the refresh
// margin, refreshing first if needed. Returns seller.ErrNotConnected
// when no credential exists and seller.ErrCredentialExpired when the
// credential is expired and cannot be refreshed.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, err := m.currentLocked(ctx)
	if err != nil {
		return "", err
	}

	if !cred.NeedsRefresh(m.margin) {
		return cred.AccessToken, nil
	}

	refreshed, refreshErr := m.refreshLocked(ctx, cred)
	if refreshErr == nil {
		return refreshed.AccessToken, nil
	}

	// A failed refresh never discards the stored credential. If the
	// current token is inside the margin but not yet expired, serve it
	// and let a later call retry the refresh.
	if !cred.Expired() {
		m.logger.Warn("token refresh failed, serving unexpired token",
			zap.Duration("margin", m.margin),
			zap.Error(refreshErr))
		return cred.AccessToken, nil
	}

	return "", fmt.Errorf("%w: %v", seller.ErrCredentialExpired, refreshErr)
}

// Set stores a freshly obtained credential, replacing whatever was
// held before. Called after the OAuth code exchange.
func (m *Manager) Set(ctx context.Context, cred *seller.Credential) error {
	if !cred.Valid() {
		return seller.ErrInvalidResponse
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, cred); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	m.cached = cred
	m.logger.Info("marketplace credential stored",
		zap.String("seller_id", cred.SellerID),
		zap.Time("expires_at", cred.ExpiresAt))
	return nil
}

// Current returns the held credential without triggering a refresh.
// Used by the connection status endpoint.
func (m *Manager) Current(ctx context.Context) (*seller.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked(ctx)
}

// Disconnect drops the credential from memory and the store.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	m.logger.Info("marketplace credential cleared")
	return nil
}

// currentLocked returns the cached credential, loading from the store
// on first use. Callers must hold m.mu.
func (m *Manager) currentLocked(ctx context.Context) (*seller.Credential, error) {
	if m.cached != nil {
		return m.cached, nil
	}

	cred, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return nil, seller.ErrNotConnected
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}
	m.cached = cred
	return cred, nil
}

// refreshLocked exchanges the refresh token and persists the result.
// Callers must hold m.mu.
func (m *Manager) refreshLocked(ctx context.Context, cred *seller.Credential) (*seller.Credential, error) {
	if cred.RefreshToken == "" {
		return nil, seller.ErrRefreshFailed
	}

	refreshed, err := m.refresher.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !refreshed.Valid() {
		return nil, seller.ErrInvalidResponse
	}

	// The marketplace rotates refresh tokens; losing the rotated token
	// on restart forces the seller through the consent flow again, so
	// a persist failure is logged loudly but the in-memory credential
	// still advances.
	if err := m.store.Save(ctx, refreshed); err != nil {
		m.logger.Error("failed to persist refreshed credential",
			zap.String("seller_id", refreshed.SellerID),
			zap.Error(err))
	}
	m.cached = refreshed

	m.logger.Info("marketplace token refreshed",
		zap.String("seller_id", refreshed.SellerID),
		zap.Time("expires_at", refreshed.ExpiresAt))
	return refreshed, nil
}
