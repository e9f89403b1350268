package marketplace

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ClientID:     "app-123",
		ClientSecret: "secret-456",
		APIBaseURL:   "https://api.marketplace.example",
		AuthBaseURL:  "https://auth.marketplace.example",
		SiteID:       "SITE1",
		RedirectURI:  "https://dashboard.example.com/api/v1/callback",
		Scopes:       []string{"offline_access", "read", "write"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing client ID",
			mutate:  func(c *Config) { c.ClientID = "" },
			wantErr: "client ID",
		},
		{
			name:    "missing client secret",
			mutate:  func(c *Config) { c.ClientSecret = "" },
			wantErr: "client secret",
		},
		{
			name:    "missing API base URL",
			mutate:  func(c *Config) { c.APIBaseURL = "" },
			wantErr: "API base URL",
		},
		{
			name:    "missing auth base URL",
			mutate:  func(c *Config) { c.AuthBaseURL = "" },
			wantErr: "auth base URL",
		},
		{
			name:    "missing redirect URI",
			mutate:  func(c *Config) { c.RedirectURI = "" },
			wantErr: "redirect URI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAuthorizeURL(t *testing.T) {
	cfg := validConfig()
	raw := cfg.AuthorizeURL("state-xyz")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.marketplace.example", u.Host)
	assert.Equal(t, "/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "app-123", q.Get("client_id"))
	assert.Equal(t, "https://dashboard.example.com/api/v1/callback", q.Get("redirect_uri"))
	assert.Equal(t, "offline_access read write", q.Get("scope"))
	assert.Equal(t, "SITE1", q.Get("site_id"))
	assert.Equal(t, "state-xyz", q.Get("state"))
}

func TestAuthorizeURLWithoutState(t *testing.T) {
	cfg := validConfig()
	u, err := url.Parse(cfg.AuthorizeURL(""))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("state"))
}
