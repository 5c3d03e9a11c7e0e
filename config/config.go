// Package config provides configuration management for the sash quote service.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Pricing  PricingConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Offer    OfferConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	LoginRateLimit int
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// PricingConfig holds the remote price sheet and quote cache settings.
type PricingConfig struct {
	// SheetURL is the price-list web app endpoint. Empty disables remote loading.
	SheetURL     string
	SheetToken   string
	FetchTimeout time.Duration
	// SnapshotTTL is the maximum age of a stored snapshot used when the sheet is down.
	SnapshotTTL time.Duration
	// SnapshotRetention is how many snapshots are kept; 0 keeps all.
	SnapshotRetention int
	// RefreshInterval reloads the table in the background; 0 disables it.
	RefreshInterval time.Duration
	// QuoteCacheSize and QuoteCacheTTL bound memoized quote results.
	QuoteCacheSize int
	QuoteCacheTTL  time.Duration
	// CircuitBreaker settings for the sheet client.
	CircuitBreakerFailureThreshold int
	CircuitBreakerTimeout          time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKeys map[string]bool
	// AdminPasswordHash is the bcrypt hash of the price administration password.
	AdminPasswordHash string
	JWTSecretKey      string
	AccessTokenTTL    time.Duration
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// Pool bounds; zero keeps the repository defaults.
	MaxPoolSize int
	MinPoolSize int
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// OfferConfig holds the contractor details printed on offers. Empty fields
// keep the built-in issuer's values.
type OfferConfig struct {
	Company     string
	Signatory   string
	Street      string
	PostalCity  string
	OrgNumber   string
	Phone       string
	DefaultCity string
	HourlyRate  float64
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

const defaultJWTSecret = "change-me-in-production"

// ErrMissingAdminPassword is returned by Validate when auth is on without an admin password hash.
var ErrMissingAdminPassword = errors.New("ADMIN_PASSWORD_HASH is required when AUTH_ENABLED is true")

// LoadDotEnv loads variables from .env style files into the environment.
// Variables already set take precedence. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimit:      getEnvInt("RATE_LIMIT", 100),
			RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
			LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			CORSOrigins:    parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:    getEnv("SWAGGER_USER", ""),
			SwaggerPass:    getEnv("SWAGGER_PASS", ""),
		},
		Pricing: PricingConfig{
			SheetURL:                       getEnv("PRICE_SHEET_URL", ""),
			SheetToken:                     getEnv("PRICE_SHEET_TOKEN", ""),
			FetchTimeout:                   getEnvDuration("PRICE_SHEET_TIMEOUT", 8*time.Second),
			SnapshotTTL:                    getEnvDuration("PRICE_SNAPSHOT_TTL", 10*time.Minute),
			SnapshotRetention:              getEnvInt("PRICE_SNAPSHOT_RETENTION", 50),
			RefreshInterval:                getEnvDuration("PRICE_REFRESH_INTERVAL", 5*time.Minute),
			QuoteCacheSize:                 getEnvInt("QUOTE_CACHE_SIZE", 1000),
			QuoteCacheTTL:                  getEnvDuration("QUOTE_CACHE_TTL", 5*time.Minute),
			CircuitBreakerFailureThreshold: getEnvInt("PRICE_SHEET_CB_FAILURE_THRESHOLD", 3),
			CircuitBreakerTimeout:          getEnvDuration("PRICE_SHEET_CB_TIMEOUT", time.Minute),
		},
		Auth: AuthConfig{
			Enabled:           getEnvBool("AUTH_ENABLED", false),
			APIKeys:           parseAPIKeys(os.Getenv("API_KEYS")),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecretKey:      getEnv("JWT_SECRET_KEY", defaultJWTSecret),
			AccessTokenTTL:    getEnvDuration("JWT_ACCESS_TOKEN_TTL", 30*time.Minute),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "sash_quote"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			MaxPoolSize:                    getEnvInt("MONGODB_MAX_POOL_SIZE", 20),
			MinPoolSize:                    getEnvInt("MONGODB_MIN_POOL_SIZE", 0),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Offer: OfferConfig{
			Company:     getEnv("OFFER_COMPANY", ""),
			Signatory:   getEnv("OFFER_SIGNATORY", ""),
			Street:      getEnv("OFFER_STREET", ""),
			PostalCity:  getEnv("OFFER_POSTAL_CITY", ""),
			OrgNumber:   getEnv("OFFER_ORG_NUMBER", ""),
			Phone:       getEnv("OFFER_PHONE", ""),
			DefaultCity: getEnv("OFFER_DEFAULT_CITY", ""),
			HourlyRate:  getEnvFloat("OFFER_HOURLY_RATE", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// Validate reports configuration that would leave the admin endpoints unusable.
func (c Config) Validate() error {
	if c.Auth.Enabled && c.Auth.AdminPasswordHash == "" {
		return ErrMissingAdminPassword
	}
	return nil
}

// UsesDefaultJWTSecret reports whether JWT_SECRET_KEY was left unset.
func (c Config) UsesDefaultJWTSecret() bool {
	return c.Auth.JWTSecretKey == defaultJWTSecret
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// local development defaults
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
