package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, "", cfg.Pricing.SheetURL)
		assert.Equal(t, 10*time.Minute, cfg.Pricing.SnapshotTTL)
		assert.Equal(t, 8*time.Second, cfg.Pricing.FetchTimeout)
		assert.Equal(t, 1000, cfg.Pricing.QuoteCacheSize)
		assert.Equal(t, 5*time.Minute, cfg.Pricing.QuoteCacheTTL)
		assert.Equal(t, 5*time.Minute, cfg.Pricing.RefreshInterval)
		assert.Equal(t, 50, cfg.Pricing.SnapshotRetention)
		assert.Equal(t, 10, cfg.Server.LoginRateLimit)
		assert.Empty(t, cfg.Offer.Company)
		assert.Zero(t, cfg.Offer.HourlyRate)
		assert.False(t, cfg.Auth.Enabled)
		assert.True(t, cfg.UsesDefaultJWTSecret())
		assert.Equal(t, "sash_quote", cfg.Database.DatabaseName)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("PRICE_SHEET_URL", "https://sheet.example/exec")
		_ = os.Setenv("PRICE_SHEET_TOKEN", "secret")
		_ = os.Setenv("PRICE_SNAPSHOT_TTL", "2m")
		_ = os.Setenv("QUOTE_CACHE_SIZE", "500")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")
		_ = os.Setenv("JWT_SECRET_KEY", "jwt-secret")
		_ = os.Setenv("API_KEYS", "key1,key2")
		_ = os.Setenv("LOG_PRETTY", "true")
		_ = os.Setenv("PRICE_REFRESH_INTERVAL", "0s")
		_ = os.Setenv("LOGIN_RATE_LIMIT", "3")
		_ = os.Setenv("OFFER_COMPANY", "Fönsterverkstan AB")
		_ = os.Setenv("OFFER_HOURLY_RATE", "700.5")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, "https://sheet.example/exec", cfg.Pricing.SheetURL)
		assert.Equal(t, "secret", cfg.Pricing.SheetToken)
		assert.Equal(t, 2*time.Minute, cfg.Pricing.SnapshotTTL)
		assert.Equal(t, 500, cfg.Pricing.QuoteCacheSize)
		assert.True(t, cfg.Auth.Enabled)
		assert.Equal(t, "$2a$10$hash", cfg.Auth.AdminPasswordHash)
		assert.False(t, cfg.UsesDefaultJWTSecret())
		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.True(t, cfg.Log.Pretty)
		assert.Zero(t, cfg.Pricing.RefreshInterval)
		assert.Equal(t, 3, cfg.Server.LoginRateLimit)
		assert.Equal(t, "Fönsterverkstan AB", cfg.Offer.Company)
		assert.Equal(t, 700.5, cfg.Offer.HourlyRate)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		_ = os.Setenv("OFFER_HOURLY_RATE", "many")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Zero(t, cfg.Offer.HourlyRate)
	})

	t.Run("parses API keys with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , key2 , key3 ")
		defer os.Clearenv()

		cfg := Load()

		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.True(t, cfg.Auth.APIKeys["key3"])
	})

	t.Run("returns nil for empty API keys", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Auth.APIKeys)
	})

	t.Run("appends configured CORS origins to defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://offert.example, ")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000", "https://offert.example"}, cfg.Server.CORSOrigins)
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Auth: AuthConfig{Enabled: true}}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAdminPassword)

	cfg.Auth.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
	})

	t.Run("file values do not override environment", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nPRICE_SHEET_URL=https://from-file\n"), 0o600))
		_ = os.Setenv("PORT", "9090")

		require.NoError(t, LoadDotEnv(path))
		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "https://from-file", cfg.Pricing.SheetURL)
	})
}
