package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/i18n"
	"github.com/guttosm/sash-quote-service/internal/logger"
	"github.com/guttosm/sash-quote-service/internal/pricing"
)

// ErrorHandler logs errors attached with c.Error and, when the handler wrote
// nothing, turns the last one into an error response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)

		log := logger.Logger()
		log.Error().
			Str("request_id", requestID).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("errors", len(c.Errors)).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}

		status, code, key := classify(err)
		resp := dto.NewError(code, i18n.GetTranslator().Translate(key, i18n.GetLocale(c))).
			WithRequestID(requestID)

		var verrs *pricing.ValidationErrors
		if errors.As(err.Err, &verrs) {
			resp = resp.WithDetails(dto.DetailsFromValidation(verrs))
		}
		c.JSON(status, resp)
	}
}

func classify(err *gin.Error) (status int, code, key string) {
	var verrs *pricing.ValidationErrors
	switch {
	case err.IsType(gin.ErrorTypeBind):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody
	case errors.As(err.Err, &verrs):
		return http.StatusBadRequest, dto.ErrCodeValidation, i18n.ErrKeyValidationFailed
	case errors.Is(err.Err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
	}
}
