package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Marketplace MarketplaceConfig
	TokenStore  TokenStoreConfig
	Cache       CacheConfig
	Session     SessionConfig
	Storage     StorageConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// MarketplaceConfig holds the upstream marketplace API settings
type MarketplaceConfig struct {
	ClientID       string
	ClientSecret   string
	APIBaseURL     string
	AuthBaseURL    string
	SiteID         string
	RedirectURI    string
	Scopes         []string
	TimeoutSeconds int
	UserAgent      string
}

// TokenStoreConfig selects and configures credential persistence.
// Backend "redis" targets serverless/multi-instance deployments;
// "file" is for local development.
type TokenStoreConfig struct {
	Backend       string // redis, file
	FilePath      string
	RefreshMargin time.Duration
	Redis         RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Enabled    bool
	MaxEntries int
	DefaultTTL time.Duration
	// RouteTTLs maps route prefixes to TTL overrides
	RouteTTLs map[string]time.Duration
	// BlacklistPrefixes are never cached regardless of RouteTTLs
	BlacklistPrefixes []string
}

// SessionConfig holds dashboard session token settings
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// StorageConfig holds S3-compatible object storage settings for
// image staging
type StorageConfig struct {
	Enabled           bool
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SELLERBRIDGE_ prefix
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SELLERBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Marketplace: MarketplaceConfig{
			ClientID:       v.GetString("marketplace.client_id"),
			ClientSecret:   v.GetString("marketplace.client_secret"),
			APIBaseURL:     v.GetString("marketplace.api_base_url"),
			AuthBaseURL:    v.GetString("marketplace.auth_base_url"),
			SiteID:         v.GetString("marketplace.site_id"),
			RedirectURI:    v.GetString("marketplace.redirect_uri"),
			Scopes:         v.GetStringSlice("marketplace.scopes"),
			TimeoutSeconds: v.GetInt("marketplace.timeout_seconds"),
			UserAgent:      v.GetString("marketplace.user_agent"),
		},
		TokenStore: TokenStoreConfig{
			Backend:       v.GetString("token_store.backend"),
			FilePath:      v.GetString("token_store.file_path"),
			RefreshMargin: v.GetDuration("token_store.refresh_margin"),
			Redis: RedisConfig{
				Host:     v.GetString("token_store.redis.host"),
				Port:     v.GetInt("token_store.redis.port"),
				Password: v.GetString("token_store.redis.password"),
				DB:       v.GetInt("token_store.redis.db"),
			},
		},
		Cache: CacheConfig{
			Enabled:           v.GetBool("cache.enabled"),
			MaxEntries:        v.GetInt("cache.max_entries"),
			DefaultTTL:        v.GetDuration("cache.default_ttl"),
			RouteTTLs:         parseRouteTTLs(v.GetStringMapString("cache.route_ttls")),
			BlacklistPrefixes: v.GetStringSlice("cache.blacklist_prefixes"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			TTL:    v.GetDuration("session.ttl"),
			Issuer: v.GetString("session.issuer"),
		},
		Storage: StorageConfig{
			Enabled:           v.GetBool("storage.enabled"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseRouteTTLs converts a string map (prefix -> duration) into a
// typed TTL table; malformed durations are dropped.
func parseRouteTTLs(raw map[string]string) map[string]time.Duration {
	if len(raw) == 0 {
		return nil
	}
	ttls := make(map[string]time.Duration, len(raw))
	for prefix, val := range raw {
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			continue
		}
		ttls[prefix] = d
	}
	return ttls
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sellerbridge"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB, listing images go through here
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// NOTE: CORS origins are intentionally not defaulted to "*".
	// An empty list means no cross-origin requests are allowed until
	// explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Marketplace.APIBaseURL == "" {
		cfg.Marketplace.APIBaseURL = "https://api.marketplace.example"
	}
	if cfg.Marketplace.AuthBaseURL == "" {
		cfg.Marketplace.AuthBaseURL = "https://auth.marketplace.example"
	}
	if len(cfg.Marketplace.Scopes) == 0 {
		cfg.Marketplace.Scopes = []string{"offline_access", "read", "write"}
	}
	if cfg.Marketplace.TimeoutSeconds == 0 {
		cfg.Marketplace.TimeoutSeconds = 30
	}
	if cfg.Marketplace.UserAgent == "" {
		cfg.Marketplace.UserAgent = "sellerbridge/1.0"
	}
	if cfg.TokenStore.Backend == "" {
		cfg.TokenStore.Backend = "file"
	}
	if cfg.TokenStore.FilePath == "" {
		cfg.TokenStore.FilePath = ".sellerbridge-credential.json"
	}
	if cfg.TokenStore.RefreshMargin == 0 {
		cfg.TokenStore.RefreshMargin = 5 * time.Minute
	}
	if cfg.TokenStore.Redis.Host == "" {
		cfg.TokenStore.Redis.Host = "localhost"
	}
	if cfg.TokenStore.Redis.Port == 0 {
		cfg.TokenStore.Redis.Port = 6379
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 1000
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 5 * time.Minute
	}
	if len(cfg.Cache.BlacklistPrefixes) == 0 {
		cfg.Cache.BlacklistPrefixes = []string{"/api/v1/auth", "/api/v1/callback"}
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 12 * time.Hour
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = "sellerbridge"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "sellerbridge"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.TokenStore.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("token_store.backend must be 'file' or 'redis', got %q", c.TokenStore.Backend)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.Marketplace.RedirectURI != "" {
		if _, err := url.Parse(c.Marketplace.RedirectURI); err != nil {
			return fmt.Errorf("marketplace.redirect_uri is not a valid URL: %w", err)
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Marketplace.ClientID == "" || c.Marketplace.ClientSecret == "" {
			return fmt.Errorf("marketplace.client_id and marketplace.client_secret are required in production")
		}
		if c.Session.Secret == "" {
			return fmt.Errorf("session.secret is required in production")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.TokenStore.Backend == "file" {
			return fmt.Errorf("token_store.backend 'file' is for local development; use 'redis' in production")
		}
	}

	return nil
}

// Addr returns the Redis address in host:port form
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
