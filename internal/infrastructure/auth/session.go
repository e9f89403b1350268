// Package auth mints and verifies the dashboard session token issued
// after the marketplace OAuth callback completes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a session token fails verification
	ErrInvalidToken = errors.New("auth: invalid session token")
	// ErrExpiredToken is returned when a session token is expired
	ErrExpiredToken = errors.New("auth: session token expired")
)

// SessionClaims are the JWT claims carried by a dashboard session.
type SessionClaims struct {
	SellerID string `json:"seller_id"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies dashboard session tokens. The
// session proves the browser completed the marketplace consent flow;
// the marketplace credential itself never leaves the server.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewSessionService creates a session service with HS256 signing.
func NewSessionService(secret string, ttl time.Duration, issuer string) (*SessionService, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: session secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if issuer == "" {
		issuer = "sellerbridge"
	}
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
	}, nil
}

// Issue mints a session token for the connected seller.
func (s *SessionService) Issue(sellerID, nickname string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := SessionClaims{
		SellerID: sellerID,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sellerID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a session token.
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
