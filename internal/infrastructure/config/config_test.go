package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "sellerbridge", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "CORS origins must not default to open")
	assert.Equal(t, []string{"offline_access", "read", "write"}, cfg.Marketplace.Scopes)
	assert.Equal(t, 30, cfg.Marketplace.TimeoutSeconds)
	assert.Equal(t, "file", cfg.TokenStore.Backend)
	assert.Equal(t, 5*time.Minute, cfg.TokenStore.RefreshMargin)
	assert.Equal(t, "localhost:6379", cfg.TokenStore.Redis.Addr())
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, []string{"/api/v1/auth", "/api/v1/callback"}, cfg.Cache.BlacklistPrefixes)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestApplyDefaultsDoesNotOverride(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Port: "9090"},
		TokenStore: TokenStoreConfig{
			Backend:       "redis",
			RefreshMargin: 10 * time.Minute,
		},
	}
	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "redis", cfg.TokenStore.Backend)
	assert.Equal(t, 10*time.Minute, cfg.TokenStore.RefreshMargin)
}

func TestParseRouteTTLs(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want map[string]time.Duration
	}{
		{
			name: "empty map",
			raw:  nil,
			want: nil,
		},
		{
			name: "valid durations",
			raw: map[string]string{
				"/api/v1/items":  "10m",
				"/api/v1/orders": "30s",
			},
			want: map[string]time.Duration{
				"/api/v1/items":  10 * time.Minute,
				"/api/v1/orders": 30 * time.Second,
			},
		},
		{
			name: "malformed entries dropped",
			raw: map[string]string{
				"/api/v1/items": "10m",
				"/bad":          "not-a-duration",
				"/negative":     "-5s",
			},
			want: map[string]time.Duration{
				"/api/v1/items": 10 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRouteTTLs(tt.raw))
		})
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass in development", func(t *testing.T) {
		cfg := base()
		require.NoError(t, cfg.validate())
	})

	t.Run("invalid token store backend", func(t *testing.T) {
		cfg := base()
		cfg.TokenStore.Backend = "memory"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token_store.backend")
	})

	t.Run("invalid sampling ratio", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("production requires marketplace credentials", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.TokenStore.Backend = "redis"
		cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client_id")
	})

	t.Run("production requires long session secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.TokenStore.Backend = "redis"
		cfg.Marketplace.ClientID = "app-id"
		cfg.Marketplace.ClientSecret = "app-secret"
		cfg.Session.Secret = "short"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.TokenStore.Backend = "redis"
		cfg.Marketplace.ClientID = "app-id"
		cfg.Marketplace.ClientSecret = "app-secret"
		cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("production rejects file token store", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Marketplace.ClientID = "app-id"
		cfg.Marketplace.ClientSecret = "app-secret"
		cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token_store.backend")
	})

	t.Run("production passes with full config", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.TokenStore.Backend = "redis"
		cfg.Marketplace.ClientID = "app-id"
		cfg.Marketplace.ClientSecret = "app-secret"
		cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
		cfg.HTTP.CORSAllowOrigins = []string{"https://dashboard.example.com"}
		require.NoError(t, cfg.validate())
	})
}
