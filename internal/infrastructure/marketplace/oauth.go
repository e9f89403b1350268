package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

// OAuthClient performs the authorization-code exchange and refresh
// grants against the marketplace token endpoint.
type OAuthClient struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOAuthClient creates an OAuth client for the marketplace.
func NewOAuthClient(cfg *Config, logger *zap.Logger) *OAuthClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
		},
		logger: logger,
	}
}

// tokenResponse is the wire shape of the token endpoint response.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	Scope        string      `json:"scope"`
	UserID       json.Number `json:"user_id"`
	RefreshToken string      `json:"refresh_token"`
}

// oauthError is the wire shape of a token endpoint failure.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades an authorization code for a credential.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*seller.Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.config.RedirectURI)
	return c.requestToken(ctx, form)
}

// Refresh trades a refresh token for a new credential. The marketplace
// rotates refresh tokens, so the returned credential carries the token
// to use next time.
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*seller.Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.requestToken(ctx, form)
}

func (c *OAuthClient) requestToken(ctx context.Context, form url.Values) (*seller.Credential, error) {
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)

	endpoint := strings.TrimSuffix(c.config.AuthBaseURL, "/") + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.userAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token request: %v", seller.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	c.logger.Debug("token endpoint response",
		zap.String("grant_type", form.Get("grant_type")),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		var oe oauthError
		if json.Unmarshal(body, &oe) == nil && oe.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", seller.ErrRefreshFailed, oe.Error, oe.ErrorDescription)
		}
		return nil, fmt.Errorf("%w: token endpoint returned %d", seller.ErrRefreshFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", seller.ErrInvalidResponse, err)
	}
	if tr.AccessToken == "" || tr.ExpiresIn <= 0 {
		return nil, fmt.Errorf("%w: token response missing access_token or expires_in", seller.ErrInvalidResponse)
	}

	now := time.Now().UTC()
	return &seller.Credential{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		Scope:        tr.Scope,
		SellerID:     tr.UserID.String(),
		ObtainedAt:   now,
		ExpiresAt:    now.Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
