// Package identity implements the marketplace connect flow: consent
// URL generation, the OAuth callback, session issuance, and connection
// status.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// stateTTL bounds how long a consent flow may stay open.
const stateTTL = 10 * time.Minute

// Exchanger trades an authorization code for a credential. Implemented
// by the marketplace OAuth client.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*seller.Credential, error)
}

// CredentialManager is the slice of the token manager the connect flow
// needs.
type CredentialManager interface {
	Set(ctx context.Context, cred *seller.Credential) error
	Current(ctx context.Context) (*seller.Credential, error)
	Disconnect(ctx context.Context) error
}

// SessionIssuer mints dashboard session tokens.
type SessionIssuer interface {
	Issue(sellerID, nickname string) (string, time.Time, error)
}

// Authorizer builds the consent page URL. Implemented by the
// marketplace Config.
type Authorizer interface {
	AuthorizeURL(state string) string
}

// Status describes the marketplace connection for the dashboard.
type Status struct {
	Connected bool       `json:"connected"`
	SellerID  string     `json:"seller_id,omitempty"`
	Nickname  string     `json:"nickname,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Session is the result of a completed connect flow.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *seller.Profile `json:"profile"`
}

// Service drives the connect flow.
type Service struct {
	authorizer Authorizer
	exchanger  Exchanger
	manager    CredentialManager
	market     seller.Marketplace
	sessions   SessionIssuer
	logger     *zap.Logger

	mu     sync.Mutex
	states map[string]time.Time
}

// NewService creates an identity service.
func NewService(authorizer Authorizer, exchanger Exchanger, manager CredentialManager,
	market seller.Marketplace, sessions SessionIssuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		authorizer: authorizer,
		exchanger:  exchanger,
		manager:    manager,
		market:     market,
		sessions:   sessions,
		logger:     logger,
		states:     make(map[string]time.Time),
	}
}

// BeginConnect generates a state nonce and returns the consent URL the
// browser is redirected to.
func (s *Service) BeginConnect(ctx context.Context) (string, error) {
	_, span := telemetry.StartServiceSpan(ctx, "identity", "begin_connect")
	defer span.End()

	state, err := newState()
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}

	s.mu.Lock()
	s.pruneLocked()
	s.states[state] = time.Now().Add(stateTTL)
	s.mu.Unlock()

	return s.authorizer.AuthorizeURL(state), nil
}

// CompleteConnect handles the OAuth callback: it checks the state,
// exchanges the code, persists the credential, and mints a dashboard
// session.
func (s *Service) CompleteConnect(ctx context.Context, code, state string) (*Session, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "complete_connect")
	defer span.End()

	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", seller.ErrUpstreamRejected)
	}
	if !s.consumeState(state) {
		telemetry.RecordError(span, seller.ErrStateMismatch)
		return nil, seller.ErrStateMismatch
	}

	cred, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.manager.Set(ctx, cred); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	profile, err := s.market.Profile(ctx)
	if err != nil {
		// The credential is stored; a profile hiccup should not force
		// the seller through consent again.
		s.logger.Warn("profile fetch after connect failed", zap.Error(err))
		profile = &seller.Profile{ID: cred.SellerID}
	}

	token, expiresAt, err := s.sessions.Issue(profile.ID, profile.Nickname)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("marketplace connected",
		zap.String("seller_id", profile.ID),
		zap.String("nickname", profile.Nickname))

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profile,
	}, nil
}

// ConnectionStatus reports whether a usable credential is on file.
func (s *Service) ConnectionStatus(ctx context.Context) (*Status, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "status")
	defer span.End()

	cred, err := s.manager.Current(ctx)
	if err != nil {
		if err == seller.ErrNotConnected {
			return &Status{Connected: false}, nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	status := &Status{
		Connected: true,
		SellerID:  cred.SellerID,
		ExpiresAt: &cred.ExpiresAt,
	}
	if profile, err := s.market.Profile(ctx); err == nil {
		status.Nickname = profile.Nickname
	}
	return status, nil
}

// Disconnect drops the stored credential.
func (s *Service) Disconnect(ctx context.Context) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "identity", "disconnect")
	defer span.End()

	if err := s.manager.Disconnect(ctx); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	return nil
}

// consumeState checks and removes a state nonce. Each nonce is valid
// for one callback only.
func (s *Service) consumeState(state string) bool {
	if state == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(expiry)
}

// pruneLocked drops expired state nonces. Callers must hold s.mu.
func (s *Service) pruneLocked() {
	now := time.Now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
}

// newState returns a 128-bit random nonce.
func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
