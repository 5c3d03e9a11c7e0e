package repository

import (
	"context"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// PriceSnapshotRepositoryInterface defines the interface for price snapshot operations.
type PriceSnapshotRepositoryInterface interface {
	Save(ctx context.Context, snapshot *model.PriceSnapshot) error
	Latest(ctx context.Context) (*model.PriceSnapshot, error)
	List(ctx context.Context, limit int) ([]model.PriceSnapshot, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}

var (
	_ PriceSnapshotRepositoryInterface = (*PriceSnapshotRepository)(nil)
	_ PriceSnapshotRepositoryInterface = (*PriceSnapshotRepositoryWithCircuitBreaker)(nil)
	_ LogsRepositoryInterface          = (*LogsRepository)(nil)
	_ LogsRepositoryInterface          = (*LogsRepositoryWithCircuitBreaker)(nil)
)
