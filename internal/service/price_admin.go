package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
	"github.com/guttosm/sash-quote-service/internal/pricing"
)

// ErrRepositoryNotConfigured is returned when the repository is not configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// SnapshotHistory lists persisted price snapshots, newest first.
type SnapshotHistory interface {
	List(ctx context.Context, limit int) ([]model.PriceSnapshot, error)
}

// EditablePriceTable is a freshly fetched table prepared for the admin form.
type EditablePriceTable struct {
	Table model.PriceTable  `json:"table"`
	Row   model.RawPriceRow `json:"row"`
	// Percents holds the multiplier fields as percentages.
	Percents map[string]float64 `json:"multiplier_percents"`
}

// PriceSaveRequest is an edited price row.
type PriceSaveRequest struct {
	Row model.RawPriceRow
	// MultipliersAsPercent marks multiplier fields as entered in percent.
	MultipliersAsPercent bool
	Subject              string
}

// PriceSaveResult is the outcome of a save. Reloaded is false when the sheet
// accepted the row but the follow-up fetch failed; Table then holds the
// previously published table.
type PriceSaveResult struct {
	Version   int              `json:"version"`
	UpdatedAt string           `json:"updated_at,omitempty"`
	Reloaded  bool             `json:"reloaded"`
	Table     model.PriceTable `json:"table"`
}

// PriceAdminService edits the remote price list.
type PriceAdminService interface {
	// FetchForEdit loads the table straight from the sheet. It never falls
	// back to a snapshot or the defaults.
	FetchForEdit(ctx context.Context) (*EditablePriceTable, error)
	Save(ctx context.Context, req PriceSaveRequest) (*PriceSaveResult, error)
	History(ctx context.Context, limit int) ([]model.PriceSnapshot, error)
}

// PriceAdminServiceImpl implements PriceAdminService.
type PriceAdminServiceImpl struct {
	loader  PriceTableLoader
	sheet   PriceSheet
	history SnapshotHistory
	quotes  QuoteCalculator
}

// NewPriceAdminService creates a price admin service. history and quotes may be nil.
func NewPriceAdminService(loader PriceTableLoader, sheet PriceSheet, history SnapshotHistory, quotes QuoteCalculator) PriceAdminService {
	return &PriceAdminServiceImpl{
		loader:  loader,
		sheet:   sheet,
		history: history,
		quotes:  quotes,
	}
}

// FetchForEdit implements PriceAdminService.
func (s *PriceAdminServiceImpl) FetchForEdit(ctx context.Context) (*EditablePriceTable, error) {
	table, row, err := s.loader.LoadFresh(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = model.RawPriceRow{}
	}
	return &EditablePriceTable{
		Table:    table,
		Row:      row,
		Percents: pricing.MultiplierPercents(table),
	}, nil
}

// Save implements PriceAdminService. The row is validated, normalized to
// numbers and written to the sheet, after which the table is reloaded and
// cached quotes are dropped.
func (s *PriceAdminServiceImpl) Save(ctx context.Context, req PriceSaveRequest) (*PriceSaveResult, error) {
	if s.sheet == nil {
		return nil, pricesheet.ErrNotConfigured
	}

	row := req.Row
	if req.MultipliersAsPercent {
		converted, err := pricing.PercentsToMultipliers(row)
		if err != nil {
			return nil, err
		}
		row = converted
	}
	if err := pricing.ValidatePriceRow(row); err != nil {
		return nil, err
	}

	clean := make(model.RawPriceRow, len(row))
	for k, v := range row {
		if k == pricing.FieldVersion || k == pricing.FieldUpdatedAt {
			continue
		}
		f, _ := pricing.ParseLoose(v)
		clean[k] = f
	}

	saved, err := s.sheet.Save(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to save price table: %w", err)
	}
	log.Info().
		Str("subject", req.Subject).
		Int("version", saved.Version).
		Int("fields", len(clean)).
		Msg("Price table saved")

	result := &PriceSaveResult{Version: saved.Version, UpdatedAt: saved.UpdatedAt}
	table, _, err := s.loader.LoadFresh(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Price table saved but reload failed")
		result.Table = s.loader.Current()
	} else {
		result.Reloaded = true
		result.Table = table
	}

	if s.quotes != nil {
		s.quotes.InvalidateCache()
	}
	return result, nil
}

// History implements PriceAdminService.
func (s *PriceAdminServiceImpl) History(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	if s.history == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.history.List(ctx, limit)
}
