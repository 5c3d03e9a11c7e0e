package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/domain/dto"
	"github.com/guttosm/sash-quote-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
	// ContextKeyAPIKeyID holds a short fingerprint of the accepted key.
	ContextKeyAPIKeyID = "api_key_id"
)

// APIKeyAuth returns a middleware that validates API keys for the quote API.
// It checks the X-API-Key header first, then the api_key query parameter.
// With no keys configured every request passes.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	keys := make([][]byte, 0, len(validKeys))
	for k, ok := range validKeys {
		if ok {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}

		reject := func(msgKey string) {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, i18n.GetTranslator().Translate(msgKey, i18n.GetLocale(c))).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
		}

		if key == "" {
			reject(i18n.ErrKeyAPIKeyRequired)
			return
		}
		if !matchKey(keys, []byte(key)) {
			reject(i18n.ErrKeyInvalidAPIKey)
			return
		}

		c.Set(ContextKeyAPIKeyID, keyFingerprint(key))
		c.Next()
	}
}

// matchKey compares against every key so timing does not reveal which one matched.
func matchKey(keys [][]byte, candidate []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, candidate)
	}
	return found == 1
}

func keyFingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:4])
}
