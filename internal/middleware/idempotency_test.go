package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/service/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotencyRouter(cfg IdempotencyConfig, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Idempotency(cfg))
	handler := func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"call": *calls})
	}
	router.POST("/test", handler)
	router.PUT("/test", handler)
	router.GET("/test", handler)
	router.POST("/fail", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusBadRequest, gin.H{"call": *calls})
	})
	return router
}

func testIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   cache.New[string, *cachedResponse]("idempotency-test", 10, time.Minute, cache.WithCleanupInterval(0)),
		Enabled: true,
	}
}

func doIdempotent(router *gin.Engine, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		firstKey      string
		secondKey     string
		firstBody     string
		secondBody    string
		expectedCalls int
		replayed      bool
	}{
		{
			name:          "replays POST with same key and body",
			method:        http.MethodPost,
			path:          "/test",
			firstKey:      "key-1",
			secondKey:     "key-1",
			firstBody:     `{"units":[]}`,
			secondBody:    `{"units":[]}`,
			expectedCalls: 1,
			replayed:      true,
		},
		{
			name:          "replays PUT with same key",
			method:        http.MethodPut,
			path:          "/test",
			firstKey:      "key-1",
			secondKey:     "key-1",
			firstBody:     `{"row":{}}`,
			secondBody:    `{"row":{}}`,
			expectedCalls: 1,
			replayed:      true,
		},
		{
			name:          "different body is a new request",
			method:        http.MethodPost,
			path:          "/test",
			firstKey:      "key-1",
			secondKey:     "key-1",
			firstBody:     `{"a":1}`,
			secondBody:    `{"a":2}`,
			expectedCalls: 2,
		},
		{
			name:          "different key is a new request",
			method:        http.MethodPost,
			path:          "/test",
			firstKey:      "key-1",
			secondKey:     "key-2",
			expectedCalls: 2,
		},
		{
			name:          "no key never caches",
			method:        http.MethodPost,
			path:          "/test",
			expectedCalls: 2,
		},
		{
			name:          "GET is not cached",
			method:        http.MethodGet,
			path:          "/test",
			firstKey:      "key-1",
			secondKey:     "key-1",
			expectedCalls: 2,
		},
		{
			name:          "error responses are not cached",
			method:        http.MethodPost,
			path:          "/fail",
			firstKey:      "key-1",
			secondKey:     "key-1",
			expectedCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			router := newIdempotencyRouter(testIdempotencyConfig(), &calls)

			first := doIdempotent(router, tt.method, tt.path, tt.firstKey, tt.firstBody)
			second := doIdempotent(router, tt.method, tt.path, tt.secondKey, tt.secondBody)

			assert.Equal(t, tt.expectedCalls, calls)
			assert.Equal(t, first.Code, second.Code)
			if tt.replayed {
				assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
				assert.Equal(t, first.Body.String(), second.Body.String())
				assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
			} else {
				assert.Empty(t, second.Header().Get(IdempotencyReplayedHeader))
			}
		})
	}
}

func TestIdempotency_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  IdempotencyConfig
	}{
		{"disabled", IdempotencyConfig{Cache: testIdempotencyConfig().Cache}},
		{"no cache", IdempotencyConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			router := newIdempotencyRouter(tt.cfg, &calls)

			doIdempotent(router, http.MethodPost, "/test", "key-1", `{}`)
			w := doIdempotent(router, http.MethodPost, "/test", "key-1", `{}`)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 2, calls)
		})
	}
}

func TestGenerateCacheKey(t *testing.T) {
	req := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/api/quote", bytes.NewReader([]byte(body)))
	}

	r := req(`{"a":1}`)
	key := generateCacheKey("k", "", r)
	require.Len(t, key, 64)

	body := new(bytes.Buffer)
	_, err := body.ReadFrom(r.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, body.String(), "body is restored for the handler")

	assert.Equal(t, key, generateCacheKey("k", "", req(`{"a":1}`)))
	assert.NotEqual(t, key, generateCacheKey("k", "admin", req(`{"a":1}`)))
	assert.NotEqual(t, key, generateCacheKey("k", "", req(`{"a":2}`)))
}
