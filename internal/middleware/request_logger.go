package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/logger"
	"github.com/guttosm/sash-quote-service/internal/service"
	"github.com/rs/zerolog"
)

// unstoredPaths are health and scrape endpoints. They are logged to the
// console but never written to the logs collection.
var unstoredPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger returns a middleware that logs every request to the console
// and, when loggingService is set, stores it through the async logger.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := &model.LogEntry{
			Timestamp:  time.Now(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Duration:   time.Since(start).Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Subject:    GetSubject(c),
		}
		entry.Level = getLogLevel(entry.StatusCode)
		if route := c.FullPath(); route != "" && route != entry.Path {
			entry.WithField("route", route)
		}

		level, err := zerolog.ParseLevel(entry.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		log := logger.Logger()
		log.WithLevel(level).
			Str("request_id", entry.RequestID).
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status_code", entry.StatusCode).
			Int64("duration_ms", entry.Duration).
			Str("ip", entry.IP).
			Str("user_agent", entry.UserAgent).
			Str("subject", entry.Subject).
			Msg(entry.Message)

		if loggingService != nil && !unstoredPaths[entry.Path] {
			dispatch(loggingService, entry)
		}
	}
}

// dispatch hands entry to the running async logger, or writes it in the
// background when none is running.
func dispatch(loggingService service.LoggingService, entry *model.LogEntry) {
	if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
		asyncLogger.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}

// getLogLevel returns the log level based on HTTP status code.
func getLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "error"
	case statusCode >= 400:
		return "warn"
	default:
		return "info"
	}
}
