package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBreaker(t *testing.T) *circuitbreaker.CircuitBreaker {
	t.Helper()
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
		Name:             "snapshots",
	})
	_ = cb.Execute(context.Background(), func() error { return errors.New("boom") })
	require.True(t, cb.IsOpen())
	return cb
}

func TestHealthHandler_Readiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupHandler   func(t *testing.T) *HealthHandler
		expectedStatus int
		expectedChecks []string
	}{
		{
			name: "no checkers reports the service",
			setupHandler: func(t *testing.T) *HealthHandler {
				return NewHealthHandler()
			},
			expectedStatus: http.StatusOK,
			expectedChecks: []string{"service"},
		},
		{
			name: "healthy circuit breaker",
			setupHandler: func(t *testing.T) *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("snapshots", circuitbreaker.New(circuitbreaker.DefaultConfig()))
				return handler
			},
			expectedStatus: http.StatusOK,
			expectedChecks: []string{"snapshots_circuit"},
		},
		{
			name: "open circuit breaker is not ready",
			setupHandler: func(t *testing.T) *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterCircuitBreaker("snapshots", openBreaker(t))
				return handler
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: []string{"snapshots_circuit"},
		},
		{
			name: "failing checker is not ready",
			setupHandler: func(t *testing.T) *HealthHandler {
				handler := NewHealthHandler()
				handler.RegisterChecker("mongodb", CheckerFunc(func(context.Context) error { return errors.New("connection refused") }))
				return handler
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: []string{"mongodb"},
		},
		{
			name: "default price table keeps the service ready",
			setupHandler: func(t *testing.T) *HealthHandler {
				loader := mocks.NewMockPriceTableLoader(t)
				loader.On("Current").Return(model.PriceTable{Source: model.SourceDefault})
				handler := NewHealthHandler()
				handler.RegisterPriceTable(loader)
				return handler
			},
			expectedStatus: http.StatusOK,
			expectedChecks: []string{"price_table"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			tt.setupHandler(t).Register(router)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body struct {
				Status string                     `json:"status"`
				Checks map[string]json.RawMessage `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for _, name := range tt.expectedChecks {
				assert.Contains(t, body.Checks, name)
			}
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "ok", body.Status)
			} else {
				assert.Equal(t, "degraded", body.Status)
			}
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler().Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_ChecksGetADeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var deadline time.Time
	handler := NewHealthHandler()
	handler.RegisterChecker("mongodb", CheckerFunc(func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	}))
	handler.RegisterChecker("sheet", CheckerFunc(func(context.Context) error { return errors.New("timeout") }))

	router := gin.New()
	handler.Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.WithinDuration(t, time.Now().Add(checkTimeout), deadline, time.Second)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "ok", resp.Checks["mongodb"])
	assert.Equal(t, "timeout", resp.Checks["sheet"])
}
