package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/metrics"
	"github.com/guttosm/sash-quote-service/internal/offer"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/guttosm/sash-quote-service/internal/service/cache"
)

// QuoteRequest is the input of a quote computation.
type QuoteRequest struct {
	Units   []model.Unit
	Options model.JobOptions
	// ExpectedUnits is the declared number of units; 0 skips the count check.
	ExpectedUnits int
	// Strict rejects the quote when any unit is incomplete. Otherwise
	// incomplete units are left unpriced and contribute nothing.
	Strict bool
	// Offer renders the offer document when set.
	Offer    bool
	Customer offer.Customer
}

// QuoteResult is a computed quote. It is shared with the quote cache and must
// be treated as read-only.
type QuoteResult struct {
	Units      []model.Unit         `json:"units"`
	Breakdown  model.QuoteBreakdown `json:"breakdown"`
	Display    model.QuoteBreakdown `json:"display"`
	Summary    pricing.Summary      `json:"summary"`
	Incomplete []int                `json:"incomplete_units"`
	PriceTable PriceTableInfo       `json:"price_table"`
	Offer      *offer.Document      `json:"offer,omitempty"`
}

// PriceTableInfo is the provenance of the table a result was computed with.
type PriceTableInfo struct {
	Source   model.PriceSource `json:"source"`
	Version  int               `json:"version"`
	LoadedAt time.Time         `json:"loaded_at"`
}

// InfoOf returns the provenance of t.
func InfoOf(t model.PriceTable) PriceTableInfo {
	return PriceTableInfo{Source: t.Source, Version: t.Version, LoadedAt: t.LoadedAt}
}

// QuoteCalculator prices units and computes quotes against the current price table.
type QuoteCalculator interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error)
	// PriceUnit returns u with its price set. Incomplete units are rejected
	// with *pricing.ValidationErrors.
	PriceUnit(ctx context.Context, u model.Unit) (model.Unit, error)
	ValidateUnits(units []model.Unit, expected int) error
	ResizeBatch(units []model.Unit, n int) ([]model.Unit, error)
	DuplicatePrevious(ctx context.Context, units []model.Unit, id int) ([]model.Unit, error)
	// InvalidateCache drops every cached quote.
	InvalidateCache()
}

// QuoteOption configures a QuoteCalculatorService.
type QuoteOption func(*QuoteCalculatorService)

// QuoteCalculatorService implements QuoteCalculator.
type QuoteCalculatorService struct {
	loader   PriceTableLoader
	cache    cache.Cache[string, *QuoteResult]
	renderer *offer.Renderer
	now      func() time.Time
}

// WithPriceLoader sets the source of the price table. Without one the
// built-in defaults are used.
func WithPriceLoader(loader PriceTableLoader) QuoteOption {
	return func(s *QuoteCalculatorService) {
		s.loader = loader
	}
}

// WithCache enables result caching with the specified capacity and TTL.
func WithCache(capacity int, ttl time.Duration) QuoteOption {
	return func(s *QuoteCalculatorService) {
		if capacity > 0 {
			s.cache = cache.New[string, *QuoteResult]("quote", capacity, ttl)
		}
	}
}

// WithCacheInterface allows injecting a custom cache implementation.
func WithCacheInterface(c cache.Cache[string, *QuoteResult]) QuoteOption {
	return func(s *QuoteCalculatorService) {
		s.cache = c
	}
}

// WithOfferIssuer sets the contractor printed on offers.
func WithOfferIssuer(issuer offer.Issuer) QuoteOption {
	return func(s *QuoteCalculatorService) {
		s.renderer = offer.NewRenderer(issuer)
	}
}

// WithQuoteClock overrides the time source used for offer dates.
func WithQuoteClock(now func() time.Time) QuoteOption {
	return func(s *QuoteCalculatorService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewQuoteCalculator creates a QuoteCalculatorService with the given options.
func NewQuoteCalculator(opts ...QuoteOption) *QuoteCalculatorService {
	s := &QuoteCalculatorService{
		renderer: offer.NewRenderer(offer.DefaultIssuer()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = NewPriceTableLoader()
	}
	return s
}

// Quote implements QuoteCalculator.
func (s *QuoteCalculatorService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	start := time.Now()

	var err error
	if req.Strict {
		err = pricing.ValidateJob(req.Units, req.Options, req.ExpectedUnits)
	} else {
		err = pricing.ValidateJob(nil, req.Options, 0)
	}
	if err != nil {
		metrics.RecordQuoteCalculation(time.Since(start), "invalid")
		return nil, err
	}

	table := s.table()

	var key string
	if s.cache != nil && !req.Offer {
		key = quoteCacheKey(req, table)
		if result, ok := s.cache.Get(key); ok {
			metrics.RecordQuoteCalculation(time.Since(start), "cached")
			return result, nil
		}
	}

	priced := pricing.PriceUnits(req.Units, table)
	breakdown := pricing.ComputeQuote(priced, req.Options, table)

	result := &QuoteResult{
		Units:      priced,
		Breakdown:  breakdown,
		Display:    pricing.RoundForDisplay(breakdown),
		Summary:    pricing.Summarize(priced),
		Incomplete: incompleteIDs(priced),
		PriceTable: InfoOf(table),
	}
	if req.Offer {
		doc := s.renderer.Render(offer.Input{
			Customer: req.Customer,
			Units:    priced,
			Options:  req.Options,
			Quote:    breakdown,
			Date:     s.now(),
		})
		result.Offer = &doc
	}

	if key != "" {
		s.cache.Set(key, result)
	}
	metrics.RecordQuoteCalculation(time.Since(start), "ok")
	return result, nil
}

// PriceUnit implements QuoteCalculator.
func (s *QuoteCalculatorService) PriceUnit(ctx context.Context, u model.Unit) (model.Unit, error) {
	if errs := pricing.ValidateUnit(u); len(errs) > 0 {
		return model.Unit{}, &pricing.ValidationErrors{Errors: errs}
	}
	p := pricing.ComputeUnitPrice(u, s.table())
	u.Price = &p
	return u, nil
}

// ValidateUnits implements QuoteCalculator.
func (s *QuoteCalculatorService) ValidateUnits(units []model.Unit, expected int) error {
	return pricing.ValidateUnits(units, expected)
}

// ResizeBatch implements QuoteCalculator.
func (s *QuoteCalculatorService) ResizeBatch(units []model.Unit, n int) ([]model.Unit, error) {
	return pricing.ResizeUnitBatch(units, n)
}

// DuplicatePrevious implements QuoteCalculator.
func (s *QuoteCalculatorService) DuplicatePrevious(ctx context.Context, units []model.Unit, id int) ([]model.Unit, error) {
	return pricing.DuplicatePrevious(units, id, s.table())
}

// InvalidateCache implements QuoteCalculator.
func (s *QuoteCalculatorService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Close stops the cache's background cleanup.
func (s *QuoteCalculatorService) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

func (s *QuoteCalculatorService) table() model.PriceTable {
	return s.loader.Current()
}

func incompleteIDs(units []model.Unit) []int {
	ids := make([]int, 0)
	for _, u := range units {
		if u.Price == nil {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

type quoteCacheEntry struct {
	Units    []model.Unit      `json:"u"`
	Options  model.JobOptions  `json:"o"`
	Source   model.PriceSource `json:"s"`
	Version  int               `json:"v"`
	LoadedAt int64             `json:"l"`
}

// quoteCacheKey identifies a quote by its inputs and by the price table it is
// computed with, so a reload never serves results from an older table.
func quoteCacheKey(req QuoteRequest, t model.PriceTable) string {
	attrs := make([]model.Unit, len(req.Units))
	for i, u := range req.Units {
		attrs[i] = u.Attributes()
		attrs[i].ID = u.ID
	}
	b, _ := json.Marshal(quoteCacheEntry{
		Units:    attrs,
		Options:  req.Options,
		Source:   t.Source,
		Version:  t.Version,
		LoadedAt: t.LoadedAt.UnixNano(),
	})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
