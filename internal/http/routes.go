package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/middleware"
)

// QuoteRoutes registers the quoting, unit batch and price table routes.
type QuoteRoutes struct {
	handler    *Handler
	priceTable *PriceTableHandler
}

// NewQuoteRoutes creates a QuoteRoutes instance.
func NewQuoteRoutes(handler *Handler, priceTable *PriceTableHandler) *QuoteRoutes {
	return &QuoteRoutes{handler: handler, priceTable: priceTable}
}

// RegisterRoutes registers the public API routes on rg.
func (r *QuoteRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	if r.handler != nil {
		rg.POST("/quote", r.handler.Quote)

		units := rg.Group("/units")
		units.POST("/price", r.handler.PriceUnit)
		units.POST("/validate", r.handler.ValidateUnits)
		units.POST("/batch", r.handler.UnitBatch)
		units.POST("/duplicate", r.handler.DuplicateUnit)
	}

	if r.priceTable != nil {
		rg.GET("/price-table", r.priceTable.Get)
		rg.POST("/price-table/reload", r.priceTable.Reload)
	}
}

// AdminRoutes registers the login route and the token-protected admin routes.
type AdminRoutes struct {
	auth  *AuthHandler
	admin *AdminHandler
	cfg   *RouterConfig
}

// NewAdminRoutes creates an AdminRoutes instance.
func NewAdminRoutes(auth *AuthHandler, admin *AdminHandler, cfg *RouterConfig) *AdminRoutes {
	return &AdminRoutes{auth: auth, admin: admin, cfg: cfg}
}

// RegisterRoutes registers /auth/login and the /admin group on rg.
// Login gets its own tighter limiter to slow down password guessing.
func (r *AdminRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	login := []gin.HandlerFunc{}
	if r.cfg.LoginRateLimit > 0 {
		login = append(login, r.cfg.limiter(r.cfg.LoginRateLimit).RateLimit())
	}
	rg.POST("/auth/login", append(login, r.auth.Login)...)

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(r.cfg.AdminAuthService))
	if r.cfg.RateLimit > 0 {
		admin.Use(r.cfg.limiter(r.cfg.RateLimit).SubjectRateLimit())
	}
	if idem := r.cfg.idempotencyHandler(); idem != nil {
		admin.Use(idem)
	}

	admin.GET("/price-table", r.admin.FetchPriceTable)
	admin.PUT("/price-table", r.admin.SavePriceTable)
	admin.GET("/price-table/history", r.admin.History)
	admin.GET("/audit-logs", r.admin.AuditLogs)
}
