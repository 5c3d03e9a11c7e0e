// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/middleware"
	"github.com/guttosm/sash-quote-service/internal/repository"
	"github.com/guttosm/sash-quote-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                      *repository.MongoDB
	SnapshotRepo            repository.PriceSnapshotRepositoryInterface
	LoggingService          service.LoggingService
	SnapshotsCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker      *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the snapshot and audit
// repositories. Returns nil if the database is disabled or the connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	mongoCfg := repository.DefaultMongoConfig()
	if cfg.MaxPoolSize > 0 {
		mongoCfg.MaxPoolSize = uint64(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		mongoCfg.MinPoolSize = uint64(cfg.MinPoolSize)
	}

	db, err := repository.NewMongoDBWithConfig(cfg.URI, cfg.DatabaseName, mongoCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")
	return newDatabaseComponents(db, cfg)
}

func newDatabaseComponents(db *repository.MongoDB, cfg config.DatabaseConfig) *DatabaseComponents {
	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if ttlDays > 0 {
		if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
			log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
		}
	}

	snapshotsCB := newMongoCircuitBreaker(cfg, "mongodb-price-snapshots")
	logsCB := newMongoCircuitBreaker(cfg, "mongodb-logs")

	snapshotRepo := repository.NewPriceSnapshotRepositoryWithCircuitBreaker(
		repository.NewPriceSnapshotRepository(db), snapshotsCB)
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(
		repository.NewLogsRepository(db), logsCB)
	loggingService := service.NewLoggingService(logsRepo)

	middleware.InitAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig())

	return &DatabaseComponents{
		DB:                      db,
		SnapshotRepo:            snapshotRepo,
		LoggingService:          loggingService,
		SnapshotsCircuitBreaker: snapshotsCB,
		LogsCircuitBreaker:      logsCB,
	}
}

func newMongoCircuitBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
	})
}

// Close flushes pending audit entries and disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	middleware.StopAsyncLogger()
	if d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}
