package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, rate int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewShardedRateLimiter(rate, window, 4)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestNewShardedRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		numShards  int
		wantShards int
	}{
		{"default shards when zero", 0, defaultNumShards},
		{"default shards when negative", -1, defaultNumShards},
		{"custom shard count", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, tt.numShards)
			defer rl.Stop()

			assert.Len(t, rl.shards, tt.wantShards)
			assert.Equal(t, 10, rl.rate)
			assert.Equal(t, time.Minute, rl.window)
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name        string
		rate        int
		requests    int
		wantAllowed int
	}{
		{"under limit", 5, 3, 3},
		{"exact limit", 5, 5, 5},
		{"over limit", 5, 8, 5},
		{"single request", 1, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.rate, time.Minute)

			allowed := 0
			for i := 0; i < tt.requests; i++ {
				if ok, _, _ := rl.allow("client"); ok {
					allowed++
				}
			}
			assert.Equal(t, tt.wantAllowed, allowed)
		})
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, _, _ := rl.allow("client")
		require.True(t, ok)
	}
	ok, remaining, _ := rl.allow("client")
	assert.False(t, ok)
	assert.Zero(t, remaining)

	clock.Advance(time.Minute)
	ok, remaining, _ = rl.allow("client")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestRateLimiter_IdentifiersAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	ok, _, _ := rl.allow("a")
	assert.True(t, ok)
	ok, _, _ = rl.allow("b")
	assert.True(t, ok)
	ok, _, _ = rl.allow("a")
	assert.False(t, ok)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, 30*time.Second)

	router := gin.New()
	router.Use(rl.RateLimit())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(last, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, last.Code)
			assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", last.Header().Get("X-RateLimit-Remaining"))
		}
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "30", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate_limit_exceeded")
}

func TestRateLimiter_SubjectRateLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if s := c.GetHeader("X-Test-Subject"); s != "" {
			c.Set(ContextKeySubject, s)
		}
		c.Next()
	})
	router.Use(rl.SubjectRateLimit())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(subject string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if subject != "" {
			req.Header.Set("X-Test-Subject", subject)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("anna"))
	assert.Equal(t, http.StatusOK, do("erik"), "separate budget per subject")
	assert.Equal(t, http.StatusOK, do(""), "anonymous falls back to IP")
	assert.Equal(t, http.StatusTooManyRequests, do("anna"))
	assert.Equal(t, http.StatusTooManyRequests, do(""))
}

func TestRateLimiter_CleanupExpired(t *testing.T) {
	rl, clock := newTestLimiter(t, 5, time.Minute)

	rl.allow("a")
	rl.allow("b")
	total, perShard := rl.Stats()
	assert.Equal(t, 2, total)
	assert.Len(t, perShard, 4)

	clock.Advance(30 * time.Second)
	rl.allow("c")
	clock.Advance(45 * time.Second)
	rl.cleanupExpired()

	total, _ = rl.Stats()
	assert.Equal(t, 1, total)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}
