package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/middleware"
	"github.com/guttosm/sash-quote-service/internal/service"
)

// PriceTableHandler serves the resolved price table.
type PriceTableHandler struct {
	loader service.PriceTableLoader
}

// NewPriceTableHandler creates a PriceTableHandler.
func NewPriceTableHandler(loader service.PriceTableLoader) *PriceTableHandler {
	return &PriceTableHandler{loader: loader}
}

// Get handles GET /api/price-table requests.
//
// @Summary      Current price table
// @Description  Returns the price table quotes are computed with, including where it came from (remote, cache or default), its version and when it was loaded.
// @Tags         PriceTable
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.PriceTable} "Resolved price table"
// @Security     ApiKeyAuth
// @Router       /api/price-table [get]
func (h *PriceTableHandler) Get(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.loader.Current())
}

// Reload handles POST /api/price-table/reload requests.
//
// @Summary      Reload the price table
// @Description  Loads the price table from the remote sheet, falling back to a recent snapshot and then to the built-in defaults. Concurrent reloads share one fetch. Never fails because of the sheet; source tells which tier answered.
// @Tags         PriceTable
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.PriceTable} "Resolved price table"
// @Failure      504 {object} dto.ErrorResponse "Request timed out before a table was resolved"
// @Security     ApiKeyAuth
// @Router       /api/price-table/reload [post]
func (h *PriceTableHandler) Reload(c *gin.Context) {
	builder := NewResponseBuilder(c)

	table, err := h.loader.Load(c.Request.Context())
	if err != nil {
		// Load only fails when the request context ends first; the error
		// handler answers 504 for deadlines.
		_ = c.Error(err)
		return
	}

	if ls := loggingService(c); ls != nil {
		middleware.AuditLog(ls, c, middleware.ActionPriceTableReload, "Price table reloaded", map[string]interface{}{
			"source":  string(table.Source),
			"version": table.Version,
		})
	}
	builder.SuccessOK(table)
}

// loggingService returns the audit log sink placed in the context by the router.
func loggingService(c *gin.Context) service.LoggingService {
	if v, exists := c.Get(ContextKeyLoggingService); exists {
		if ls, ok := v.(service.LoggingService); ok {
			return ls
		}
	}
	return nil
}
