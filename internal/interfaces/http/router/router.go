// Package router assembles the Gin engine: middleware stack first,
// then the versioned API routes.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/infrastructure/auth"
	"github.com/sellerbridge/backend/internal/infrastructure/cache"
	"github.com/sellerbridge/backend/internal/infrastructure/logger"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
	"github.com/sellerbridge/backend/internal/interfaces/http/handler"
	"github.com/sellerbridge/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the route handlers the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Listings   *handler.ListingHandler
	Orders     *handler.OrderHandler
	Shipments  *handler.ShipmentHandler
	Images     *handler.ImageHandler
	Categories *handler.CategoryHandler
	System     *handler.SystemHandler
}

// Options configures the middleware stack.
type Options struct {
	Logger          *zap.Logger
	Sessions        *auth.SessionService
	Cache           *cache.ResponseCache
	Metrics         *telemetry.ProxyMetrics
	CORS            middleware.CORSConfig
	MaxBodySize     int64
	RateLimit       int
	RateLimitWindow time.Duration
	TracingEnabled  bool
	ServiceName     string
	TrustedProxies  []string
}

// New builds the engine. Middleware order matters: the response cache
// sits after tracing so cache hits still produce spans, and the
// session check runs ahead of it so a cached entry never bypasses
// authentication.
func New(h Handlers, opts Options) *gin.Engine {
	engine := gin.New()
	if len(opts.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(opts.TrustedProxies)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(opts.CORS))
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}
	if opts.RateLimit > 0 {
		window := opts.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(opts.RateLimit, window)))
	}
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: opts.ServiceName,
		Enabled:     opts.TracingEnabled,
	}))
	if opts.Sessions != nil {
		sessionCfg := middleware.DefaultSessionConfig(opts.Sessions)
		sessionCfg.Logger = log
		engine.Use(middleware.SessionAuthWithConfig(sessionCfg))
	}
	engine.Use(middleware.ResponseCache(opts.Cache, opts.Metrics))

	registerRoutes(engine, h)
	return engine
}

func registerRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)
	engine.GET("/healthz", h.System.Health)

	api := engine.Group("/api/v1")

	api.GET("/health", h.System.Health)
	api.GET("/system/ping", h.System.Ping)
	api.GET("/system/info", h.System.Info)

	api.GET("/auth/login", h.Auth.Login)
	api.GET("/callback", h.Auth.Callback)
	api.GET("/auth/status", h.Auth.Status)
	api.POST("/auth/disconnect", h.Auth.Disconnect)

	items := api.Group("/items")
	{
		items.GET("", h.Listings.List)
		items.GET("/:id", h.Listings.Get)
		items.PUT("/:id", h.Listings.Update)
		items.POST("/:id/pause", h.Listings.Pause)
		items.POST("/:id/activate", h.Listings.Activate)
	}

	ordersGroup := api.Group("/orders")
	{
		ordersGroup.GET("", h.Orders.List)
		ordersGroup.GET("/stats/summary", h.Orders.Summary)
		ordersGroup.GET("/:id", h.Orders.Get)
		ordersGroup.GET("/:id/shipments", h.Shipments.ForOrder)
	}

	api.GET("/shipments/:id", h.Shipments.Get)

	api.POST("/images", h.Images.Upload)
	api.GET("/images/:id", h.Images.Get)

	api.GET("/categories/predict", h.Categories.Predict)
	api.GET("/categories/:id", h.Categories.Get)
}
