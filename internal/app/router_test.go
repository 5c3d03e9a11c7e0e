//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/http"
	"github.com/guttosm/sash-quote-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeRouter(t *testing.T) {
	services := InitializeServices(baseConfig(), nil)
	t.Cleanup(services.Quotes.Close)

	tests := []struct {
		name     string
		services *ServiceComponents
		db       *DatabaseComponents
		mutate   func(*config.Config)
		validate func(*testing.T, *http.RouterConfig)
	}{
		{
			name:     "maps server and auth settings",
			services: services,
			mutate: func(cfg *config.Config) {
				cfg.Auth.Enabled = true
				cfg.Auth.APIKeys = map[string]bool{"k": true}
				cfg.Server.CORSOrigins = []string{"https://sternbecks.se"}
			},
			validate: func(t *testing.T, rc *http.RouterConfig) {
				assert.True(t, rc.EnableAuth)
				assert.True(t, rc.EnableIdempotency)
				assert.Equal(t, map[string]bool{"k": true}, rc.APIKeys)
				assert.Equal(t, []string{"https://sternbecks.se"}, rc.CORSOrigins)
				assert.Equal(t, 100, rc.RateLimit)
				assert.Equal(t, 10, rc.LoginRateLimit)
				assert.Equal(t, 5*time.Second, rc.RequestTimeout)
			},
		},
		{
			name:     "wires services",
			services: services,
			validate: func(t *testing.T, rc *http.RouterConfig) {
				assert.NotNil(t, rc.QuoteCalculator)
				assert.NotNil(t, rc.PriceTableLoader)
				assert.NotNil(t, rc.AdminAuthService)
				assert.NotNil(t, rc.PriceAdminService)
				assert.Nil(t, rc.LoggingService)
			},
		},
		{
			name: "zero request timeout keeps the default",
			mutate: func(cfg *config.Config) {
				cfg.Server.RequestTimeout = 0
			},
			validate: func(t *testing.T, rc *http.RouterConfig) {
				assert.Equal(t, http.DefaultRouterConfig().RequestTimeout, rc.RequestTimeout)
				assert.Nil(t, rc.QuoteCalculator)
			},
		},
		{
			name: "database logging service",
			db: &DatabaseComponents{
				LoggingService:          mocks.NewMockLoggingService(t),
				SnapshotsCircuitBreaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
				LogsCircuitBreaker:      circuitbreaker.New(circuitbreaker.DefaultConfig()),
			},
			validate: func(t *testing.T, rc *http.RouterConfig) {
				assert.NotNil(t, rc.LoggingService)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			components := InitializeRouter(tt.services, tt.db, cfg)

			require.NotNil(t, components)
			require.NotNil(t, components.HealthHandler)
			require.NotNil(t, components.Config)
			t.Cleanup(components.Config.Close)
			tt.validate(t, components.Config)
		})
	}
}
