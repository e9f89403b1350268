package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/infrastructure/auth"
	"github.com/sellerbridge/backend/internal/infrastructure/logger"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionClaimsKey   = "session_claims"
	SessionSellerIDKey = "session_seller_id"
	AuthHeaderKey      = "Authorization"
	BearerPrefix       = "Bearer "
)

// SessionMiddlewareConfig holds configuration for the session middleware
type SessionMiddlewareConfig struct {
	// Sessions is required for token verification
	Sessions *auth.SessionService
	// SkipPaths are paths that don't require a session
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require a session
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSessionConfig returns default session middleware configuration.
// The connect flow endpoints are open because the session token only
// exists after the callback completes.
func DefaultSessionConfig(sessions *auth.SessionService) SessionMiddlewareConfig {
	return SessionMiddlewareConfig{
		Sessions: sessions,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/api/v1/health",
			"/api/v1/auth/login",
		},
		SkipPathPrefixes: []string{
			"/api/v1/callback",
		},
	}
}

// SessionAuth creates session authentication middleware
func SessionAuth(sessions *auth.SessionService) gin.HandlerFunc {
	return SessionAuthWithConfig(DefaultSessionConfig(sessions))
}

// SessionAuthWithConfig creates session authentication middleware with
// custom config
func SessionAuthWithConfig(cfg SessionMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortSession(c, cfg, nil, "missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortSession(c, cfg, nil, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortSession(c, cfg, nil, "missing token")
			return
		}

		claims, err := cfg.Sessions.Verify(tokenString)
		if err != nil {
			abortSession(c, cfg, err, "session verification failed")
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionSellerIDKey, claims.SellerID)

		// Enrich the request context so downstream logs carry the seller
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithSellerID(ctx, log, claims.SellerID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortSession(c *gin.Context, cfg SessionMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("session authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := dto.ErrCodeSessionInvalid
	if errors.Is(err, auth.ErrExpiredToken) {
		code = dto.ErrCodeSessionExpired
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetSessionClaims retrieves session claims from gin.Context
func GetSessionClaims(c *gin.Context) *auth.SessionClaims {
	if claims, exists := c.Get(SessionClaimsKey); exists {
		if sc, ok := claims.(*auth.SessionClaims); ok {
			return sc
		}
	}
	return nil
}

// GetSessionSellerID retrieves the seller ID from the session in context
func GetSessionSellerID(c *gin.Context) string {
	if sellerID, exists := c.Get(SessionSellerIDKey); exists {
		if id, ok := sellerID.(string); ok {
			return id
		}
	}
	return ""
}
