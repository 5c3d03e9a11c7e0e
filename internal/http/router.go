package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/i18n"
	"github.com/guttosm/sash-quote-service/internal/metrics"
	"github.com/guttosm/sash-quote-service/internal/middleware"
	"github.com/guttosm/sash-quote-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ContextKeyLoggingService is the gin context key holding the audit log sink.
const ContextKeyLoggingService = "logging_service"

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	// LoginRateLimit bounds login attempts per client IP and window.
	LoginRateLimit    int
	RequestTimeout    time.Duration
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string

	LoggingService    service.LoggingService
	QuoteCalculator   service.QuoteCalculator
	PriceTableLoader  service.PriceTableLoader
	AdminAuthService  service.AdminAuthService
	PriceAdminService service.PriceAdminService

	limiters    []*middleware.RateLimiter
	idempotency *middleware.IdempotencyConfig
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		LoginRateLimit: 10,
		RequestTimeout: middleware.DefaultRequestTimeout,
	}
}

// limiter creates a rate limiter that Close stops.
func (cfg *RouterConfig) limiter(rate int) *middleware.RateLimiter {
	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	rl := middleware.NewRateLimiter(rate, window)
	cfg.limiters = append(cfg.limiters, rl)
	return rl
}

// idempotencyHandler returns the shared idempotency middleware, or nil when disabled.
func (cfg *RouterConfig) idempotencyHandler() gin.HandlerFunc {
	if !cfg.EnableIdempotency {
		return nil
	}
	if cfg.idempotency == nil {
		idem := middleware.DefaultIdempotencyConfig()
		cfg.idempotency = &idem
	}
	return middleware.Idempotency(*cfg.idempotency)
}

// Close stops the background work started for the router.
func (cfg *RouterConfig) Close() {
	for _, rl := range cfg.limiters {
		rl.Stop()
	}
	cfg.limiters = nil
	if cfg.idempotency != nil && cfg.idempotency.Cache != nil {
		cfg.idempotency.Cache.Stop()
	}
}

// NewRouter creates and configures the Gin router for the quote service.
func NewRouter(healthHandler *HealthHandler, cfg *RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, cfg)
	registerInfrastructureRoutes(router, healthHandler, cfg)
	router.NoRoute(func(c *gin.Context) {
		NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
	})

	api := router.Group("/api")
	api.Use(middleware.Timeout(middleware.TimeoutConfig{Timeout: cfg.RequestTimeout}))

	public := api.Group("")
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		public.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
	if idem := cfg.idempotencyHandler(); idem != nil {
		public.Use(idem)
	}

	var handler *Handler
	if cfg.QuoteCalculator != nil {
		handler = NewHandler(cfg.QuoteCalculator)
	}
	var priceTable *PriceTableHandler
	if cfg.PriceTableLoader != nil {
		priceTable = NewPriceTableHandler(cfg.PriceTableLoader)
	}
	NewQuoteRoutes(handler, priceTable).RegisterRoutes(public)

	if cfg.AdminAuthService != nil && cfg.PriceAdminService != nil {
		NewAdminRoutes(
			NewAuthHandler(cfg.AdminAuthService),
			NewAdminHandler(cfg.PriceAdminService, cfg.LoggingService),
			cfg,
		).RegisterRoutes(api)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	)

	if cfg.LoggingService != nil {
		router.Use(func(c *gin.Context) {
			c.Set(ContextKeyLoggingService, cfg.LoggingService)
			c.Next()
		})
	}

	if cfg.RateLimit > 0 {
		router.Use(cfg.limiter(cfg.RateLimit).RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
