// Package marketplace implements the REST and OAuth client for the
// upstream marketplace API. It adapts the wire format to the domain
// types in internal/domain/seller.
package marketplace

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the marketplace application credentials and endpoints.
type Config struct {
	// ClientID is the marketplace application ID
	ClientID string
	// ClientSecret is the marketplace application secret
	ClientSecret string
	// APIBaseURL is the REST API origin, e.g. https://api.marketplace.example
	APIBaseURL string
	// AuthBaseURL is the consent page origin
	AuthBaseURL string
	// SiteID scopes the seller account to a marketplace site
	SiteID string
	// RedirectURI must match the URI registered with the application
	RedirectURI string
	// Scopes requested during authorization
	Scopes []string
	// Timeout for upstream HTTP calls
	Timeout time.Duration
	// UserAgent sent on every request
	UserAgent string
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("marketplace: client ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("marketplace: client secret is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("marketplace: API base URL is required")
	}
	if c.AuthBaseURL == "" {
		return fmt.Errorf("marketplace: auth base URL is required")
	}
	if c.RedirectURI == "" {
		return fmt.Errorf("marketplace: redirect URI is required")
	}
	if _, err := url.Parse(c.RedirectURI); err != nil {
		return fmt.Errorf("marketplace: invalid redirect URI: %w", err)
	}
	return nil
}

// AuthorizeURL builds the consent page URL the seller is sent to. The
// state parameter is echoed back on the callback and must be checked
// there.
func (c *Config) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	if len(c.Scopes) > 0 {
		q.Set("scope", strings.Join(c.Scopes, " "))
	}
	if c.SiteID != "" {
		q.Set("site_id", c.SiteID)
	}
	if state != "" {
		q.Set("state", state)
	}
	return strings.TrimSuffix(c.AuthBaseURL, "/") + "/authorize?" + q.Encode()
}

// timeout returns the configured timeout or a safe default.
func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// userAgent returns the configured user agent or a default.
func (c *Config) userAgent() string {
	if c.UserAgent == "" {
		return "sellerbridge/1.0"
	}
	return c.UserAgent
}
