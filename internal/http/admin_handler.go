package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/i18n"
	"github.com/guttosm/sash-quote-service/internal/middleware"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/guttosm/sash-quote-service/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AdminHandler serves the price administration routes. Every route requires
// an admin session token.
type AdminHandler struct {
	admin service.PriceAdminService
	logs  service.LoggingService
}

// NewAdminHandler creates an AdminHandler. logs may be nil when the database is disabled.
func NewAdminHandler(admin service.PriceAdminService, logs service.LoggingService) *AdminHandler {
	return &AdminHandler{admin: admin, logs: logs}
}

// FetchPriceTable handles GET /api/admin/price-table requests.
//
// @Summary      Fetch the price table for editing
// @Description  Loads the table straight from the remote sheet. Unlike the public price table it never falls back to a snapshot or the defaults, so an unreachable sheet answers 502.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Success      200 {object} dto.SuccessResponse{data=service.EditablePriceTable} "Fresh price table"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure      502 {object} dto.ErrorResponse "Price sheet unavailable"
// @Security     BearerAuth
// @Router       /api/admin/price-table [get]
func (h *AdminHandler) FetchPriceTable(c *gin.Context) {
	builder := NewResponseBuilder(c)

	editable, err := h.admin.FetchForEdit(c.Request.Context())
	if err != nil {
		h.audit(c, middleware.ActionPriceTableFetch, "Price table fetch failed", err, nil)
		h.fail(builder, err)
		return
	}

	h.audit(c, middleware.ActionPriceTableFetch, "Price table fetched for editing", nil, map[string]interface{}{
		"version": editable.Table.Version,
	})
	builder.SuccessOK(editable)
}

// SavePriceTable handles PUT /api/admin/price-table requests.
//
// @Summary      Save the price table
// @Description  Validates the edited row, writes it to the remote sheet and reloads the table. Multiplier fields may be sent as percent adjustments. Supports idempotency via Idempotency-Key header.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.SavePriceTableRequest true "Edited price row"
// @Success      200 {object} dto.SuccessResponse{data=service.PriceSaveResult} "Saved"
// @Failure      400 {object} dto.ErrorResponse "Invalid price fields"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure      502 {object} dto.ErrorResponse "Price sheet rejected or failed the save"
// @Failure      503 {object} dto.ErrorResponse "Price sheet not configured"
// @Security     BearerAuth
// @Router       /api/admin/price-table [put]
func (h *AdminHandler) SavePriceTable(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.SavePriceTableRequest](c)
	if err != nil {
		builder.Invalid(err)
		return
	}

	result, err := h.admin.Save(c.Request.Context(), service.PriceSaveRequest{
		Row:                  req.Row,
		MultipliersAsPercent: req.MultipliersAsPercent,
		Subject:              middleware.GetSubject(c),
	})
	if err != nil {
		h.audit(c, middleware.ActionPriceTableSave, "Price table save failed", err, map[string]interface{}{
			"fields": len(req.Row),
		})
		h.fail(builder, err)
		return
	}

	h.audit(c, middleware.ActionPriceTableSave, "Price table saved", nil, map[string]interface{}{
		"version":  result.Version,
		"reloaded": result.Reloaded,
		"fields":   len(req.Row),
	})
	builder.SuccessOK(result)
}

// History handles GET /api/admin/price-table/history requests.
//
// @Summary      Price table history
// @Description  Lists the persisted snapshots of remote price rows, newest first.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        limit query int false "Maximum snapshots (default 20, max 100)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.PriceSnapshot} "Snapshots"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure      503 {object} dto.ErrorResponse "Database not configured"
// @Security     BearerAuth
// @Router       /api/admin/price-table/history [get]
func (h *AdminHandler) History(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := queryInt(c, "limit", defaultHistoryLimit, maxHistoryLimit)
	snapshots, err := h.admin.History(c.Request.Context(), limit)
	if err != nil {
		h.fail(builder, err)
		return
	}
	if snapshots == nil {
		snapshots = []model.PriceSnapshot{}
	}
	builder.SuccessOK(snapshots)
}

// AuditLogs handles GET /api/admin/audit-logs requests.
//
// @Summary      Audit log
// @Description  Lists stored request and admin audit entries, newest first, with the total matching count.
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string true "Bearer token"
// @Param        action_type query string false "Filter by action, e.g. price_table_save"
// @Param        subject query string false "Filter by admin subject"
// @Param        since query string false "RFC 3339 lower bound on timestamp"
// @Param        limit query int false "Page size (default 50, max 500)"
// @Param        skip query int false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=model.LogPage} "Audit entries"
// @Failure      400 {object} dto.ErrorResponse "Invalid filter"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid session token"
// @Failure      503 {object} dto.ErrorResponse "Database not configured"
// @Security     BearerAuth
// @Router       /api/admin/audit-logs [get]
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	builder := NewResponseBuilder(c)
	if h.logs == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyDatabaseUnavailable, nil)
		return
	}

	opts := model.LogQueryOptions{
		ActionType: c.Query("action_type"),
		Subject:    c.Query("subject"),
		Limit:      queryInt(c, "limit", service.DefaultAuditPageSize, service.MaxAuditPageSize),
		Skip:       queryInt(c, "skip", 0, -1),
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			builder.Invalid(&dto.ValidationError{Field: "since", Message: "must be an RFC 3339 timestamp"})
			return
		}
		opts.StartTime = &t
	}

	page, err := h.logs.AuditTrail(c.Request.Context(), opts)
	if err != nil {
		h.fail(builder, err)
		return
	}
	builder.SuccessOK(page)
}

func (h *AdminHandler) audit(c *gin.Context, action, message string, err error, fields map[string]interface{}) {
	if h.logs == nil {
		return
	}
	if err != nil {
		middleware.AuditLogError(h.logs, c, action, message, err, fields)
		return
	}
	middleware.AuditLog(h.logs, c, action, message, fields)
}

func (h *AdminHandler) fail(builder *ResponseBuilder, err error) {
	var verrs *pricing.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		builder.Invalid(err)
	case errors.Is(err, pricesheet.ErrNotConfigured):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyPriceSheetNotConfigured, err)
	case errors.Is(err, service.ErrRepositoryNotConfigured):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyDatabaseUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
	case errors.Is(err, service.ErrFreshPriceTableUnavailable):
		builder.Error(http.StatusBadGateway, i18n.ErrKeyPriceTableUnavailable, err)
	case errors.Is(err, pricesheet.ErrUpstream), errors.Is(err, pricesheet.ErrRejected), errors.Is(err, pricesheet.ErrBadEnvelope):
		// An open sheet circuit arrives wrapped in ErrUpstream.
		builder.Error(http.StatusBadGateway, i18n.ErrKeyPriceTableSaveFailed, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyDatabaseUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// queryInt reads a non-negative integer query parameter. Missing or invalid
// values give def; max < 0 means unbounded.
func queryInt(c *gin.Context, name string, def, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	if max >= 0 && n > max {
		return max
	}
	return n
}
