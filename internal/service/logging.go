package service

import (
	"context"
	"time"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAuditPageSize is used when a trail query sets no limit.
	DefaultAuditPageSize = 50
	// MaxAuditPageSize caps a single trail page.
	MaxAuditPageSize = 500
)

// LoggingService stores request and admin audit entries and reads them back
// as an audit trail.
type LoggingService interface {
	// CreateLog stores a single entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// AuditTrail returns one page of entries matching opts, newest first,
	// together with the total number of matches.
	AuditTrail(ctx context.Context, opts model.LogQueryOptions) (*model.LogPage, error)
}

// LoggingServiceImpl implements LoggingService on a logs repository.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{
		repo: repo,
	}
}

// CreateLog implements LoggingService. Entries without a level are stored as
// "info"; audit entries without a message get their action type.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry.Level == "" {
		entry.Level = "info"
	}
	if entry.Message == "" {
		entry.Message = entry.ActionType
	}
	return s.repo.Create(ctx, toDocument(entry))
}

// AuditTrail implements LoggingService. The limit is clamped to
// [1, MaxAuditPageSize]; the page and the count are read concurrently.
func (s *LoggingServiceImpl) AuditTrail(ctx context.Context, opts model.LogQueryOptions) (*model.LogPage, error) {
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultAuditPageSize
	case opts.Limit > MaxAuditPageSize:
		opts.Limit = MaxAuditPageSize
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	query := repository.LogQueryOptions(opts)

	var (
		docs  []*repository.LogEntryDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = s.repo.Query(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := &model.LogPage{
		Entries: make([]model.LogEntry, 0, len(docs)),
		Total:   total,
		Limit:   opts.Limit,
		Skip:    opts.Skip,
	}
	for _, doc := range docs {
		page.Entries = append(page.Entries, fromDocument(doc))
	}
	return page, nil
}

func toDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	return &repository.LogEntryDocument{
		ID:         entry.ID,
		Timestamp:  entry.Timestamp,
		Level:      entry.Level,
		Message:    entry.Message,
		RequestID:  entry.RequestID,
		Method:     entry.Method,
		Path:       entry.Path,
		StatusCode: entry.StatusCode,
		Duration:   entry.Duration,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		Error:      entry.Error,
		Subject:    entry.Subject,
		ActionType: entry.ActionType,
		Fields:     entry.Fields,
	}
}

func fromDocument(doc *repository.LogEntryDocument) model.LogEntry {
	return model.LogEntry{
		ID:         doc.ID,
		Timestamp:  doc.Timestamp,
		Level:      doc.Level,
		Message:    doc.Message,
		RequestID:  doc.RequestID,
		Method:     doc.Method,
		Path:       doc.Path,
		StatusCode: doc.StatusCode,
		Duration:   doc.Duration,
		IP:         doc.IP,
		UserAgent:  doc.UserAgent,
		Error:      doc.Error,
		Subject:    doc.Subject,
		ActionType: doc.ActionType,
		Fields:     doc.Fields,
	}
}
