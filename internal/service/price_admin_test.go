package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/mocks"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
	"github.com/guttosm/sash-quote-service/internal/pricing"
	"github.com/guttosm/sash-quote-service/internal/service"
)

func remoteTable(version int) model.PriceTable {
	t := pricing.DefaultPriceTable()
	t.Source = model.SourceRemote
	t.Version = version
	return t
}

func TestPriceAdminService_FetchForEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("returns table, raw row and percents", func(t *testing.T) {
		loader := mocks.NewMockPriceTableLoader(t)
		row := model.RawPriceRow{pricing.FieldSash1: "4400", pricing.FieldVersion: 3.0}
		loader.On("LoadFresh", mock.Anything).Return(remoteTable(3), row, nil)

		svc := service.NewPriceAdminService(loader, nil, nil, nil)
		editable, err := svc.FetchForEdit(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, editable.Table.Version)
		assert.Equal(t, "4400", editable.Row[pricing.FieldSash1])
		assert.Equal(t, 15.0, editable.Percents[pricing.FieldRenovationTraditional])
	})

	t.Run("empty row is never nil", func(t *testing.T) {
		loader := mocks.NewMockPriceTableLoader(t)
		loader.On("LoadFresh", mock.Anything).Return(remoteTable(1), nil, nil)

		editable, err := service.NewPriceAdminService(loader, nil, nil, nil).FetchForEdit(ctx)
		require.NoError(t, err)
		assert.NotNil(t, editable.Row)
	})

	t.Run("fails loudly when the sheet is down", func(t *testing.T) {
		loader := mocks.NewMockPriceTableLoader(t)
		cause := fmt.Errorf("%w: %w", service.ErrFreshPriceTableUnavailable, pricesheet.ErrUpstream)
		loader.On("LoadFresh", mock.Anything).Return(model.PriceTable{}, nil, cause)

		svc := service.NewPriceAdminService(loader, nil, nil, nil)
		editable, err := svc.FetchForEdit(ctx)

		assert.Nil(t, editable)
		assert.ErrorIs(t, err, service.ErrFreshPriceTableUnavailable)
		assert.ErrorIs(t, err, pricesheet.ErrUpstream)
	})
}

func TestPriceAdminService_Save(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       service.PriceSaveRequest
		setup     func(*mocks.MockPriceTableLoader, *mocks.MockPriceSheet, *mocks.MockQuoteCalculator)
		noSheet   bool
		wantErr   error
		wantField string
		check     func(*testing.T, *service.PriceSaveResult)
	}{
		{
			name: "saves normalized row and reloads",
			req: service.PriceSaveRequest{
				Row: model.RawPriceRow{
					pricing.FieldSash1:          "4400",
					pricing.FieldVAT:            "25",
					pricing.FieldOpeningOutward: "1,1",
					pricing.FieldVersion:        2.0,
				},
				Subject: "johan",
			},
			setup: func(l *mocks.MockPriceTableLoader, s *mocks.MockPriceSheet, q *mocks.MockQuoteCalculator) {
				expected := model.RawPriceRow{
					pricing.FieldSash1:          4400.0,
					pricing.FieldVAT:            25.0,
					pricing.FieldOpeningOutward: 1.1,
				}
				s.On("Save", mock.Anything, expected).Return(pricesheet.SaveResult{Version: 3}, nil)
				l.On("LoadFresh", mock.Anything).Return(remoteTable(3), model.RawPriceRow{}, nil)
				q.On("InvalidateCache").Return()
			},
			check: func(t *testing.T, res *service.PriceSaveResult) {
				assert.Equal(t, 3, res.Version)
				assert.True(t, res.Reloaded)
				assert.Equal(t, model.SourceRemote, res.Table.Source)
			},
		},
		{
			name: "converts percents and strips sheet managed fields",
			req: service.PriceSaveRequest{
				Row: model.RawPriceRow{
					pricing.FieldSash1:                 "4400",
					pricing.FieldRenovationTraditional: "20",
					pricing.FieldUpdatedAt:             "2026-01-01",
				},
				MultipliersAsPercent: true,
			},
			setup: func(l *mocks.MockPriceTableLoader, s *mocks.MockPriceSheet, q *mocks.MockQuoteCalculator) {
				expected := model.RawPriceRow{
					pricing.FieldSash1:                 4400.0,
					pricing.FieldRenovationTraditional: 1.2,
				}
				s.On("Save", mock.Anything, expected).
					Return(pricesheet.SaveResult{Version: 5, UpdatedAt: "2026-03-01T10:00:00Z"}, nil)
				l.On("LoadFresh", mock.Anything).Return(remoteTable(5), model.RawPriceRow{}, nil)
				q.On("InvalidateCache").Return()
			},
			check: func(t *testing.T, res *service.PriceSaveResult) {
				assert.Equal(t, 5, res.Version)
				assert.Equal(t, "2026-03-01T10:00:00Z", res.UpdatedAt)
				assert.True(t, res.Reloaded)
				assert.Equal(t, 5, res.Table.Version)
			},
		},
		{
			name: "reload failure is reported but not fatal",
			req:  service.PriceSaveRequest{Row: model.RawPriceRow{pricing.FieldDoor: 5200.0}},
			setup: func(l *mocks.MockPriceTableLoader, s *mocks.MockPriceSheet, q *mocks.MockQuoteCalculator) {
				s.On("Save", mock.Anything, mock.Anything).Return(pricesheet.SaveResult{Version: 6}, nil)
				l.On("LoadFresh", mock.Anything).Return(model.PriceTable{}, nil, service.ErrFreshPriceTableUnavailable)
				l.On("Current").Return(remoteTable(5))
				q.On("InvalidateCache").Return()
			},
			check: func(t *testing.T, res *service.PriceSaveResult) {
				assert.Equal(t, 6, res.Version)
				assert.False(t, res.Reloaded)
				assert.Equal(t, 5, res.Table.Version)
			},
		},
		{
			name: "sheet rejection",
			req:  service.PriceSaveRequest{Row: model.RawPriceRow{pricing.FieldDoor: 5200.0}},
			setup: func(l *mocks.MockPriceTableLoader, s *mocks.MockPriceSheet, q *mocks.MockQuoteCalculator) {
				s.On("Save", mock.Anything, mock.Anything).
					Return(pricesheet.SaveResult{}, fmt.Errorf("%w: bad token", pricesheet.ErrRejected))
			},
			wantErr: pricesheet.ErrRejected,
		},
		{
			name:      "percent out of range",
			req:       service.PriceSaveRequest{Row: model.RawPriceRow{pricing.FieldOpeningInward: -80.0}, MultipliersAsPercent: true},
			wantErr:   &pricing.ValidationErrors{},
			wantField: pricing.FieldOpeningInward,
		},
		{
			name:      "unknown field",
			req:       service.PriceSaveRequest{Row: model.RawPriceRow{"discount": 10.0}},
			wantErr:   &pricing.ValidationErrors{},
			wantField: "discount",
		},
		{
			name:    "sheet not configured",
			req:     service.PriceSaveRequest{Row: model.RawPriceRow{pricing.FieldDoor: 5200.0}},
			noSheet: true,
			wantErr: pricesheet.ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := mocks.NewMockPriceTableLoader(t)
			sheet := mocks.NewMockPriceSheet(t)
			quotes := mocks.NewMockQuoteCalculator(t)
			if tt.setup != nil {
				tt.setup(loader, sheet, quotes)
			}

			var svc service.PriceAdminService
			if tt.noSheet {
				svc = service.NewPriceAdminService(loader, nil, nil, quotes)
			} else {
				svc = service.NewPriceAdminService(loader, sheet, nil, quotes)
			}

			res, err := svc.Save(ctx, tt.req)
			if tt.wantErr != nil {
				assert.Nil(t, res)
				var verrs *pricing.ValidationErrors
				if errors.As(tt.wantErr, &verrs) {
					require.True(t, errors.As(err, &verrs))
					assert.Equal(t, tt.wantField, verrs.Errors[0].Field)
				} else {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestPriceAdminService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("lists snapshots", func(t *testing.T) {
		repo := mocks.NewMockPriceSnapshotRepositoryInterface(t)
		snaps := []model.PriceSnapshot{
			{FetchedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), Version: 4},
			{FetchedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), Version: 3},
		}
		repo.On("List", mock.Anything, 20).Return(snaps, nil)

		svc := service.NewPriceAdminService(mocks.NewMockPriceTableLoader(t), nil, repo, nil)
		got, err := svc.History(ctx, 20)
		require.NoError(t, err)
		assert.Equal(t, snaps, got)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := mocks.NewMockPriceSnapshotRepositoryInterface(t)
		repo.On("List", mock.Anything, 5).Return(nil, errors.New("database error"))

		svc := service.NewPriceAdminService(mocks.NewMockPriceTableLoader(t), nil, repo, nil)
		_, err := svc.History(ctx, 5)
		assert.EqualError(t, err, "database error")
	})

	t.Run("without database", func(t *testing.T) {
		svc := service.NewPriceAdminService(mocks.NewMockPriceTableLoader(t), nil, nil, nil)
		_, err := svc.History(ctx, 5)
		assert.Equal(t, service.ErrRepositoryNotConfigured, err)
	})
}
