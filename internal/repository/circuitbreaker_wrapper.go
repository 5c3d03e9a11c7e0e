package repository

import (
	"context"
	"errors"

	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// PriceSnapshotRepositoryWithCircuitBreaker wraps PriceSnapshotRepository with circuit breaker protection.
type PriceSnapshotRepositoryWithCircuitBreaker struct {
	repo           PriceSnapshotRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPriceSnapshotRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewPriceSnapshotRepositoryWithCircuitBreaker(repo PriceSnapshotRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PriceSnapshotRepositoryWithCircuitBreaker {
	return &PriceSnapshotRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Save stores a snapshot with circuit breaker protection.
// Snapshots are a fallback tier, so an open circuit drops the write.
func (r *PriceSnapshotRepositoryWithCircuitBreaker) Save(ctx context.Context, snapshot *model.PriceSnapshot) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, snapshot)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Latest returns the newest snapshot with circuit breaker protection.
// An open circuit reads as "no snapshot" so callers fall through to defaults.
func (r *PriceSnapshotRepositoryWithCircuitBreaker) Latest(ctx context.Context) (*model.PriceSnapshot, error) {
	var result *model.PriceSnapshot
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Latest(ctx)
		return cbErr
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil, nil
	}
	return result, err
}

// List returns snapshots with circuit breaker protection.
func (r *PriceSnapshotRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	var result []model.PriceSnapshot
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// Prune removes old snapshots with circuit breaker protection.
func (r *PriceSnapshotRepositoryWithCircuitBreaker) Prune(ctx context.Context, keep int) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Prune(ctx, keep)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *PriceSnapshotRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	var result []*LogEntryDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
