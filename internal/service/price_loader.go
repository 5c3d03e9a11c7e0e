package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/metrics"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrFreshPriceTableUnavailable is returned by LoadFresh when the remote sheet
// cannot provide a table. The cause is wrapped.
var ErrFreshPriceTableUnavailable = errors.New("fresh price table unavailable")

// DefaultSnapshotTTL is how old a cached snapshot may be and still be served.
const DefaultSnapshotTTL = 10 * time.Minute

// PriceSheet is the remote price list.
type PriceSheet interface {
	Fetch(ctx context.Context) (pricesheet.FetchResult, error)
	Save(ctx context.Context, row model.RawPriceRow) (pricesheet.SaveResult, error)
}

// SnapshotStore persists successfully fetched rows for the cache tier.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *model.PriceSnapshot) error
	Latest(ctx context.Context) (*model.PriceSnapshot, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// PriceTableLoader resolves the price table used for quoting.
type PriceTableLoader interface {
	// Load tries the remote sheet, then a snapshot younger than the TTL, then
	// the built-in defaults. It only fails when ctx is done before a table is
	// available, and even then returns Current().
	Load(ctx context.Context) (model.PriceTable, error)
	// LoadFresh returns a table built from the remote sheet together with a
	// copy of the row it was built from, or an error wrapping
	// ErrFreshPriceTableUnavailable. It never falls back.
	LoadFresh(ctx context.Context) (model.PriceTable, model.RawPriceRow, error)
	// Current returns the last published table.
	Current() model.PriceTable
}

// LoaderOption configures a PriceTableLoaderService.
type LoaderOption func(*PriceTableLoaderService)

// PriceTableLoaderService implements PriceTableLoader.
//
// Concurrent Load calls share one in-flight resolution, as do concurrent
// LoadFresh calls. Every resolution takes a generation number when it starts
// and only publishes if no later-started resolution has published already,
// so the most recently initiated load wins.
type PriceTableLoaderService struct {
	sheet     PriceSheet
	snapshots SnapshotStore
	defaults  model.RawPriceRow
	ttl       time.Duration
	retention int
	now       func() time.Time

	group      singleflight.Group
	generation atomic.Uint64

	mu            sync.RWMutex
	current       model.PriceTable
	published     uint64
	lastGood      *model.PriceSnapshot
	remoteVersion int
}

// WithPriceSheet sets the remote price list. Without one every load falls back.
func WithPriceSheet(sheet PriceSheet) LoaderOption {
	return func(s *PriceTableLoaderService) {
		s.sheet = sheet
	}
}

// WithSnapshotStore persists remote rows and reads them back as the cache tier.
func WithSnapshotStore(store SnapshotStore) LoaderOption {
	return func(s *PriceTableLoaderService) {
		s.snapshots = store
	}
}

// WithSnapshotTTL sets the maximum age of a snapshot served as the cache tier.
func WithSnapshotTTL(ttl time.Duration) LoaderOption {
	return func(s *PriceTableLoaderService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSnapshotRetention keeps at most n persisted snapshots. Zero keeps all.
func WithSnapshotRetention(n int) LoaderOption {
	return func(s *PriceTableLoaderService) {
		if n >= 0 {
			s.retention = n
		}
	}
}

// WithDefaults replaces the built-in default row.
func WithDefaults(row model.RawPriceRow) LoaderOption {
	return func(s *PriceTableLoaderService) {
		if len(row) > 0 {
			s.defaults = row.Clone()
		}
	}
}

// WithLoaderClock overrides the time source.
func WithLoaderClock(now func() time.Time) LoaderOption {
	return func(s *PriceTableLoaderService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPriceTableLoader creates a loader. Current returns the defaults until
// the first load publishes.
func NewPriceTableLoader(opts ...LoaderOption) *PriceTableLoaderService {
	s := &PriceTableLoaderService{
		defaults: pricing.DefaultPriceRow(),
		ttl:      DefaultSnapshotTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = s.build(nil, model.SourceDefault, s.now())
	return s
}

// Load implements PriceTableLoader.
func (s *PriceTableLoaderService) Load(ctx context.Context) (model.PriceTable, error) {
	ch := s.group.DoChan("load", func() (interface{}, error) {
		gen := s.generation.Add(1)
		table := s.resolve(context.WithoutCancel(ctx))
		s.publish(gen, table)
		return table, nil
	})

	select {
	case res := <-ch:
		table, _ := res.Val.(model.PriceTable)
		return table, nil
	case <-ctx.Done():
		return s.Current(), ctx.Err()
	}
}

// freshLoad is the shared result of one LoadFresh fetch.
type freshLoad struct {
	table model.PriceTable
	row   model.RawPriceRow
}

// LoadFresh implements PriceTableLoader.
func (s *PriceTableLoaderService) LoadFresh(ctx context.Context) (model.PriceTable, model.RawPriceRow, error) {
	ch := s.group.DoChan("fresh", func() (interface{}, error) {
		gen := s.generation.Add(1)
		now := s.now()
		res, err := s.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		table := s.remember(context.WithoutCancel(ctx), res, now)
		s.publish(gen, table)
		return freshLoad{table: table, row: res.Row}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return model.PriceTable{}, nil, fmt.Errorf("%w: %w", ErrFreshPriceTableUnavailable, res.Err)
		}
		fresh, _ := res.Val.(freshLoad)
		// Callers sharing the fetch each get their own row.
		return fresh.table, fresh.row.Clone(), nil
	case <-ctx.Done():
		return model.PriceTable{}, nil, fmt.Errorf("%w: %w", ErrFreshPriceTableUnavailable, ctx.Err())
	}
}

// Current implements PriceTableLoader.
func (s *PriceTableLoaderService) Current() model.PriceTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *PriceTableLoaderService) resolve(ctx context.Context) model.PriceTable {
	now := s.now()

	res, err := s.fetch(ctx)
	if err == nil {
		return s.remember(ctx, res, now)
	}
	log.Warn().Err(err).Msg("Price sheet unavailable, falling back")

	if snap := s.cachedSnapshot(ctx, now); snap != nil {
		table := s.build(snap.Row, model.SourceCache, now)
		metrics.RecordPriceTableLoad(string(model.SourceCache), table.Version)
		log.Info().
			Time("fetched_at", snap.FetchedAt).
			Int("version", table.Version).
			Msg("Using cached price table")
		return table
	}

	table := s.build(nil, model.SourceDefault, now)
	metrics.RecordPriceTableLoad(string(model.SourceDefault), table.Version)
	log.Warn().Msg("Using default price table")
	return table
}

func (s *PriceTableLoaderService) fetch(ctx context.Context) (pricesheet.FetchResult, error) {
	if s.sheet == nil {
		return pricesheet.FetchResult{}, pricesheet.ErrNotConfigured
	}
	return s.sheet.Fetch(ctx)
}

// remember records a successful remote fetch as the last good snapshot,
// persists it and returns the resolved table.
func (s *PriceTableLoaderService) remember(ctx context.Context, res pricesheet.FetchResult, now time.Time) model.PriceTable {
	table := s.build(res.Row, model.SourceRemote, now)
	snap := &model.PriceSnapshot{
		FetchedAt: now,
		Version:   table.Version,
		Row:       res.Row.Clone(),
	}

	s.mu.Lock()
	previous := s.remoteVersion
	s.remoteVersion = table.Version
	s.lastGood = snap
	s.mu.Unlock()

	if previous != 0 && previous != table.Version {
		log.Info().
			Int("previous_version", previous).
			Int("version", table.Version).
			Msg("Price table version changed")
	}
	metrics.RecordPriceTableLoad(string(model.SourceRemote), table.Version)

	if s.snapshots != nil {
		stored := *snap
		stored.Row = snap.Row.Clone()
		if err := s.snapshots.Save(ctx, &stored); err != nil {
			log.Warn().Err(err).Msg("Failed to persist price snapshot")
		} else if s.retention > 0 {
			if _, err := s.snapshots.Prune(ctx, s.retention); err != nil {
				log.Warn().Err(err).Msg("Failed to prune price snapshots")
			}
		}
	}
	return table
}

// cachedSnapshot returns a snapshot younger than the TTL, preferring the one
// held in memory. The store may hold a newer row written by another instance.
func (s *PriceTableLoaderService) cachedSnapshot(ctx context.Context, now time.Time) *model.PriceSnapshot {
	s.mu.RLock()
	snap := s.lastGood
	s.mu.RUnlock()

	if s.fresh(snap, now) {
		return snap
	}
	if s.snapshots == nil {
		return nil
	}
	stored, err := s.snapshots.Latest(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read price snapshot")
		return nil
	}
	if s.fresh(stored, now) {
		return stored
	}
	return nil
}

func (s *PriceTableLoaderService) fresh(snap *model.PriceSnapshot, now time.Time) bool {
	return snap != nil && now.Sub(snap.FetchedAt) < s.ttl
}

func (s *PriceTableLoaderService) build(row model.RawPriceRow, source model.PriceSource, now time.Time) model.PriceTable {
	table := pricing.ResolvePriceTable(row, s.defaults)
	table.Source = source
	table.LoadedAt = now
	return table
}

func (s *PriceTableLoaderService) publish(gen uint64, table model.PriceTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.published {
		return
	}
	s.published = gen
	s.current = table
}
