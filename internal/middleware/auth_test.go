package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	keys := map[string]bool{"shop-frontend": true, "partner-x": true, "retired": false}

	tests := []struct {
		name     string
		keys     map[string]bool
		header   string
		query    string
		want     int
		wantBody string
	}{
		{name: "header key", keys: keys, header: "shop-frontend", want: http.StatusOK},
		{name: "query key", keys: keys, query: "partner-x", want: http.StatusOK},
		{name: "header wins over query", keys: keys, header: "nope", query: "partner-x", want: http.StatusUnauthorized, wantBody: "Invalid API key"},
		{name: "missing key", keys: keys, want: http.StatusUnauthorized, wantBody: "API key is required"},
		{name: "unknown key", keys: keys, header: "guess", want: http.StatusUnauthorized, wantBody: "Invalid API key"},
		{name: "disabled key", keys: keys, header: "retired", want: http.StatusUnauthorized, wantBody: "Invalid API key"},
		{name: "prefix of a key", keys: keys, header: "shop", want: http.StatusUnauthorized, wantBody: "Invalid API key"},
		{name: "no keys configured", keys: nil, want: http.StatusOK},
		{name: "only disabled keys configured", keys: map[string]bool{"retired": false}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fingerprint string
			router := gin.New()
			router.Use(APIKeyAuth(tt.keys))
			router.POST("/api/quote", func(c *gin.Context) {
				fingerprint = c.GetString(ContextKeyAPIKeyID)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/quote", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			if tt.query != "" {
				req.URL.RawQuery = APIKeyQuery + "=" + tt.query
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			if tt.want == http.StatusOK && (tt.header != "" || tt.query != "") {
				assert.Len(t, fingerprint, 8)
			}
		})
	}
}

func TestKeyFingerprint(t *testing.T) {
	assert.Equal(t, keyFingerprint("shop-frontend"), keyFingerprint("shop-frontend"))
	assert.NotEqual(t, keyFingerprint("shop-frontend"), keyFingerprint("partner-x"))
}

func TestMatchKey(t *testing.T) {
	keys := [][]byte{[]byte("a1"), []byte("b2")}
	assert.True(t, matchKey(keys, []byte("b2")))
	assert.False(t, matchKey(keys, []byte("b")))
	assert.False(t, matchKey(nil, []byte("a1")))
}
