// Package middleware provides audit logging utilities.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/service"
)

// Audited admin actions.
const (
	ActionAdminLogin       = "admin_login"
	ActionAdminLoginFailed = "admin_login_failed"
	ActionPriceTableFetch  = "price_table_fetch"
	ActionPriceTableSave   = "price_table_save"
	ActionPriceTableReload = "price_table_reload"
)

// AuditLog records an admin action. Storage is asynchronous.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType string, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	store(loggingService, auditEntry(c, "info", actionType, message, fields))
}

// AuditLogError records a failed admin action.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType string, message string, err error, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := auditEntry(c, "error", actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	store(loggingService, entry)
}

func auditEntry(c *gin.Context, level, actionType, message string, fields map[string]interface{}) *model.LogEntry {
	return &model.LogEntry{
		Timestamp:  time.Now(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Subject:    GetSubject(c),
		ActionType: actionType,
		Fields:     fields,
	}
}

// store writes outside the request so a slow database never delays the response.
func store(loggingService service.LoggingService, entry *model.LogEntry) {
	dispatch(loggingService, entry)
}
