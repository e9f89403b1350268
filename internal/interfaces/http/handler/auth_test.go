package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/application/identity"
	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

type stubAuthorizer struct{}

func (stubAuthorizer) AuthorizeURL(state string) string {
	return "https://auth.example.com/authorize?state=" + state
}

type stubExchanger struct {
	cred *seller.Credential
	err  error
}

func (s *stubExchanger) Exchange(context.Context, string) (*seller.Credential, error) {
	return s.cred, s.err
}

type stubManager struct {
	cred    *seller.Credential
	cleared bool
}

func (s *stubManager) Set(_ context.Context, cred *seller.Credential) error {
	s.cred = cred
	return nil
}

func (s *stubManager) Current(context.Context) (*seller.Credential, error) {
	if s.cred == nil {
		return nil, seller.ErrNotConnected
	}
	return s.cred, nil
}

func (s *stubManager) Disconnect(context.Context) error {
	s.cred = nil
	s.cleared = true
	return nil
}

type stubSessions struct{}

func (stubSessions) Issue(string, string) (string, time.Time, error) {
	return "session-jwt", time.Now().Add(time.Hour), nil
}

func newAuthRouter(t *testing.T, exchanger *stubExchanger, manager *stubManager) (*gin.Engine, *identity.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	market := &fakeMarketplace{profile: connectedProfile}
	svc := identity.NewService(stubAuthorizer{}, exchanger, manager, market, stubSessions{}, zap.NewNop())
	h := NewAuthHandler(svc)

	router := gin.New()
	router.GET("/api/v1/auth/login", h.Login)
	router.GET("/api/v1/callback", h.Callback)
	router.GET("/api/v1/auth/status", h.Status)
	router.POST("/api/v1/auth/disconnect", h.Disconnect)
	return router, svc
}

func beginState(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/login", nil))
	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestAuthLoginRedirects(t *testing.T) {
	router, _ := newAuthRouter(t, &stubExchanger{}, &stubManager{})

	state := beginState(t, router)
	assert.Len(t, state, 32)
}

func TestAuthCallbackIssuesSession(t *testing.T) {
	now := time.Now()
	exchanger := &stubExchanger{cred: &seller.Credential{
		AccessToken:  "APP_USR-access",
		RefreshToken: "TG-refresh",
		SellerID:     "123456",
		ObtainedAt:   now,
		ExpiresAt:    now.Add(6 * time.Hour),
	}}
	manager := &stubManager{}
	router, _ := newAuthRouter(t, exchanger, manager)

	state := beginState(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/callback?code=AUTH_CODE&state="+state, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "session-jwt")
	assert.NotNil(t, manager.cred)
}

func TestAuthCallbackRejectsForgedState(t *testing.T) {
	router, _ := newAuthRouter(t, &stubExchanger{}, &stubManager{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/callback?code=AUTH_CODE&state=forged", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodeStateMismatch, resp.Error.Code)
}

func TestAuthStatus(t *testing.T) {
	now := time.Now()
	manager := &stubManager{cred: &seller.Credential{
		AccessToken: "APP_USR-access",
		SellerID:    "123456",
		ExpiresAt:   now.Add(time.Hour),
	}}
	router, _ := newAuthRouter(t, &stubExchanger{}, manager)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)
}

func TestAuthStatusNotConnected(t *testing.T) {
	router, _ := newAuthRouter(t, &stubExchanger{}, &stubManager{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":false`)
}

func TestAuthDisconnect(t *testing.T) {
	manager := &stubManager{cred: &seller.Credential{AccessToken: "x"}}
	router, _ := newAuthRouter(t, &stubExchanger{}, manager)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/auth/disconnect", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, manager.cleared)
}
