package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

func newOAuthTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OAuthClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := validConfig()
	cfg.AuthBaseURL = srv.URL
	return srv, NewOAuthClient(cfg, zap.NewNop())
}

func TestOAuthExchange(t *testing.T) {
	_, client := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-abc", r.PostForm.Get("code"))
		assert.Equal(t, "app-123", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret-456", r.PostForm.Get("client_secret"))
		assert.NotEmpty(t, r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "APP_USR-access",
			"token_type": "Bearer",
			"expires_in": 21600,
			"scope": "offline_access read write",
			"user_id": 123456,
			"refresh_token": "TG-refresh"
		}`))
	})

	cred, err := client.Exchange(context.Background(), "code-abc")
	require.NoError(t, err)
	assert.Equal(t, "APP_USR-access", cred.AccessToken)
	assert.Equal(t, "TG-refresh", cred.RefreshToken)
	assert.Equal(t, "123456", cred.SellerID)
	assert.Equal(t, "offline_access read write", cred.Scope)

	remaining := time.Until(cred.ExpiresAt)
	assert.Greater(t, remaining, 5*time.Hour)
	assert.LessOrEqual(t, remaining, 6*time.Hour)
}

func TestOAuthRefresh(t *testing.T) {
	_, client := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "TG-old", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "APP_USR-new",
			"token_type": "Bearer",
			"expires_in": 21600,
			"user_id": 123456,
			"refresh_token": "TG-rotated"
		}`))
	})

	cred, err := client.Refresh(context.Background(), "TG-old")
	require.NoError(t, err)
	assert.Equal(t, "APP_USR-new", cred.AccessToken)
	assert.Equal(t, "TG-rotated", cred.RefreshToken, "rotated refresh token must be carried forward")
}

func TestOAuthTokenEndpointError(t *testing.T) {
	_, client := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant", "error_description": "refresh token expired"}`))
	})

	_, err := client.Refresh(context.Background(), "TG-dead")
	require.Error(t, err)
	assert.ErrorIs(t, err, seller.ErrRefreshFailed)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestOAuthMalformedResponse(t *testing.T) {
	_, client := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type": "Bearer"}`))
	})

	_, err := client.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, seller.ErrInvalidResponse)
}

func TestOAuthServerUnreachable(t *testing.T) {
	srv, client := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, seller.ErrUpstreamUnavailable)
}
