// Package app provides router configuration.
package app

import (
	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        *http.RouterConfig
}

// InitializeRouter builds the health handler and the router configuration.
// db may be nil.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	routerCfg := http.DefaultRouterConfig()
	routerCfg.RateLimit = cfg.Server.RateLimit
	routerCfg.RateWindow = cfg.Server.RateWindow
	routerCfg.LoginRateLimit = cfg.Server.LoginRateLimit
	if cfg.Server.RequestTimeout > 0 {
		routerCfg.RequestTimeout = cfg.Server.RequestTimeout
	}
	routerCfg.EnableAuth = cfg.Auth.Enabled
	routerCfg.APIKeys = cfg.Auth.APIKeys
	routerCfg.EnableIdempotency = true
	routerCfg.CORSOrigins = cfg.Server.CORSOrigins
	routerCfg.SwaggerUser = cfg.Server.SwaggerUser
	routerCfg.SwaggerPass = cfg.Server.SwaggerPass

	if services != nil {
		routerCfg.QuoteCalculator = services.Quotes
		routerCfg.PriceTableLoader = services.Loader
		routerCfg.AdminAuthService = services.Auth
		routerCfg.PriceAdminService = services.Admin
		healthHandler.RegisterPriceTable(services.Loader)
	}

	// Readiness tracks storage only. A failing sheet still leaves quoting
	// available from snapshots and defaults.
	if db != nil {
		routerCfg.LoggingService = db.LoggingService
		if db.SnapshotsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_price_snapshots", db.SnapshotsCircuitBreaker)
		}
		if db.LogsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_logs", db.LogsCircuitBreaker)
		}
		if db.DB != nil {
			healthHandler.RegisterChecker("mongodb", http.CheckerFunc(db.DB.HealthCheck))
		}
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        &routerCfg,
	}
}
