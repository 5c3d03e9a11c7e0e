package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/service"
	"golang.org/x/sync/errgroup"
)

// checkTimeout bounds each dependency check of a readiness check.
const checkTimeout = 2 * time.Second

// HealthChecker is a dependency that can gate readiness.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function such as (*repository.MongoDB).HealthCheck
// to HealthChecker.
type CheckerFunc func(ctx context.Context) error

// Check implements HealthChecker.
func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// PriceTableStatus describes the table quotes are currently priced with.
type PriceTableStatus struct {
	Source   string    `json:"source" example:"remote"`
	Version  int       `json:"version" example:"12"`
	LoadedAt time.Time `json:"loaded_at"`
} // @name PriceTableStatus

// ReadinessResponse is the /readyz payload. Checks maps a dependency name to
// "ok", an error message, a circuit state or a PriceTableStatus.
type ReadinessResponse struct {
	Status string                 `json:"status" example:"ok"`
	Checks map[string]interface{} `json:"checks"`
} // @name ReadinessResponse

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	priceTable      service.PriceTableLoader
}

// NewHealthHandler creates a handler with nothing registered.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// RegisterCircuitBreaker reports cb as name+"_circuit". An open breaker makes
// the service unready.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// RegisterChecker registers a dependency check that gates readiness.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterPriceTable reports the source of the resolved price table in the
// readiness payload. A table served from defaults does not make the service
// unready.
func (h *HealthHandler) RegisterPriceTable(loader service.PriceTableLoader) {
	h.priceTable = loader
}

// Register mounts /healthz and /readyz.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness endpoint.
// @Summary     Liveness check
// @Description Returns OK while the process is serving requests. Prometheus metrics are at /metrics.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness endpoint.
// @Summary     Readiness check
// @Description Runs every registered dependency check and reports circuit breaker states and the current price table. Answers 503 when a check fails or a breaker is open.
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessResponse "Service is ready"
// @Failure     503 {object} ReadinessResponse "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := ReadinessResponse{Status: "ok", Checks: make(map[string]interface{})}
	var mu sync.Mutex
	fail := func(name string, value interface{}) {
		mu.Lock()
		defer mu.Unlock()
		resp.Checks[name] = value
		resp.Status = "degraded"
	}

	var g errgroup.Group
	for name, checker := range h.checkers {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			defer cancel()
			if err := checker.Check(ctx); err != nil {
				fail(name, err.Error())
				return nil
			}
			mu.Lock()
			resp.Checks[name] = "ok"
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		if !stats.IsHealthy {
			fail(name+"_circuit", stats.State)
			continue
		}
		resp.Checks[name+"_circuit"] = stats.State
	}

	if h.priceTable != nil {
		table := h.priceTable.Current()
		resp.Checks["price_table"] = PriceTableStatus{
			Source:   string(table.Source),
			Version:  table.Version,
			LoadedAt: table.LoadedAt,
		}
	}

	if len(resp.Checks) == 0 {
		resp.Checks["service"] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
