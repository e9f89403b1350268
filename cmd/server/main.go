package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/application/catalog"
	"github.com/sellerbridge/backend/internal/application/fulfillment"
	"github.com/sellerbridge/backend/internal/application/identity"
	"github.com/sellerbridge/backend/internal/application/listing"
	"github.com/sellerbridge/backend/internal/application/media"
	"github.com/sellerbridge/backend/internal/application/orders"
	"github.com/sellerbridge/backend/internal/infrastructure/auth"
	"github.com/sellerbridge/backend/internal/infrastructure/cache"
	"github.com/sellerbridge/backend/internal/infrastructure/config"
	"github.com/sellerbridge/backend/internal/infrastructure/logger"
	"github.com/sellerbridge/backend/internal/infrastructure/marketplace"
	"github.com/sellerbridge/backend/internal/infrastructure/storage"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
	"github.com/sellerbridge/backend/internal/infrastructure/tokenstore"
	"github.com/sellerbridge/backend/internal/interfaces/http/handler"
	"github.com/sellerbridge/backend/internal/interfaces/http/middleware"
	"github.com/sellerbridge/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SellerBridge Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Telemetry providers are no-ops when disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	proxyMetrics, err := telemetry.NewProxyMetrics(meterProvider.Meter("sellerbridge"))
	if err != nil {
		log.Fatal("Failed to create metrics instruments", zap.Error(err))
	}

	// Credential persistence: redis for deployments, file for local work
	var credentialStore tokenstore.Store
	switch cfg.TokenStore.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.TokenStore.Redis.Addr(),
			Password: cfg.TokenStore.Redis.Password,
			DB:       cfg.TokenStore.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		credentialStore = tokenstore.NewRedisStore(redisClient)
		log.Info("Token store: redis", zap.String("addr", cfg.TokenStore.Redis.Addr()))
	default:
		credentialStore = tokenstore.NewFileStore(cfg.TokenStore.FilePath)
		log.Info("Token store: file", zap.String("path", cfg.TokenStore.FilePath))
	}

	// Marketplace adapter
	marketCfg := &marketplace.Config{
		ClientID:     cfg.Marketplace.ClientID,
		ClientSecret: cfg.Marketplace.ClientSecret,
		APIBaseURL:   cfg.Marketplace.APIBaseURL,
		AuthBaseURL:  cfg.Marketplace.AuthBaseURL,
		SiteID:       cfg.Marketplace.SiteID,
		RedirectURI:  cfg.Marketplace.RedirectURI,
		Scopes:       cfg.Marketplace.Scopes,
		Timeout:      time.Duration(cfg.Marketplace.TimeoutSeconds) * time.Second,
		UserAgent:    cfg.Marketplace.UserAgent,
	}
	if cfg.App.Env == "production" {
		if err := marketCfg.Validate(); err != nil {
			log.Fatal("Invalid marketplace configuration", zap.Error(err))
		}
	}

	oauthClient := marketplace.NewOAuthClient(marketCfg, log)
	tokenManager := tokenstore.NewManager(credentialStore, oauthClient, cfg.TokenStore.RefreshMargin, log)
	market := marketplace.NewClient(marketCfg, tokenManager, log)

	// Session tokens for the dashboard
	sessionSecret := cfg.Session.Secret
	if sessionSecret == "" {
		sessionSecret = "sellerbridge-dev-secret-not-for-production"
		log.Warn("session.secret not set, using development default")
	}
	sessions, err := auth.NewSessionService(sessionSecret, cfg.Session.TTL, cfg.Session.Issuer)
	if err != nil {
		log.Fatal("Failed to initialize session service", zap.Error(err))
	}

	// Image staging storage is optional
	var imageStore storage.ImageStore
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ImageStore(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure storage bucket", zap.Error(err))
		}
		imageStore = s3Store
		log.Info("Image staging enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Response cache
	var responseCache *cache.ResponseCache
	if cfg.Cache.Enabled {
		policy := cache.NewPolicy(cfg.Cache.DefaultTTL, cfg.Cache.RouteTTLs, cfg.Cache.BlacklistPrefixes)
		responseCache = cache.NewResponseCache(cfg.Cache.MaxEntries, policy, nil)
		log.Info("Response cache enabled",
			zap.Int("max_entries", cfg.Cache.MaxEntries),
			zap.Duration("default_ttl", cfg.Cache.DefaultTTL))
	}

	// Application services
	identityService := identity.NewService(marketCfg, oauthClient, tokenManager, market, sessions, log)
	listingService := listing.NewService(market, log)
	orderService := orders.NewService(market, log)
	fulfillmentService := fulfillment.NewService(market, log)
	catalogService := catalog.NewService(market, log)
	mediaService := media.NewService(market, imageStore, log)

	engine := router.New(router.Handlers{
		Auth:       handler.NewAuthHandler(identityService),
		Listings:   handler.NewListingHandler(listingService),
		Orders:     handler.NewOrderHandler(orderService),
		Shipments:  handler.NewShipmentHandler(fulfillmentService),
		Images:     handler.NewImageHandler(mediaService),
		Categories: handler.NewCategoryHandler(catalogService),
		System:     handler.NewSystemHandler(cfg.App.Name, version, responseCache),
	}, router.Options{
		Logger:   log,
		Sessions: sessions,
		Cache:    responseCache,
		Metrics:  proxyMetrics,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		MaxBodySize:     cfg.HTTP.MaxBodySize,
		RateLimit:       rateLimit(cfg),
		RateLimitWindow: cfg.HTTP.RateLimitWindow,
		TracingEnabled:  cfg.Telemetry.Enabled,
		ServiceName:     cfg.Telemetry.ServiceName,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func rateLimit(cfg *config.Config) int {
	if !cfg.HTTP.RateLimitEnabled {
		return 0
	}
	return cfg.HTTP.RateLimitRequests
}
