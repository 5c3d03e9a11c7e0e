package pricing

import (
	"testing"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func pricedUnit(id int, price float64) model.Unit {
	return model.Unit{ID: id, Price: &price}
}

func TestComputeQuote_SingleStandardWindow(t *testing.T) {
	table := DefaultPriceTable()
	units := PriceUnits([]model.Unit{window(1)}, table)

	q := ComputeQuote(units, model.JobOptions{RenovationType: model.RenovationModern}, table)

	assert.Equal(t, 4000.0, *units[0].Price)
	assert.Equal(t, 4000.0, q.UnitsSubtotal)
	assert.Equal(t, 0.0, q.ExtrasCost)
	assert.Equal(t, 4000.0, q.RenovationAdjustedTotal)
	assert.Equal(t, 0.0, q.WorkDescriptionMarkup)
	assert.Equal(t, 4000.0, q.SubtotalExclVAT)
	assert.Equal(t, 1000.0, q.VATAmount)
	assert.Equal(t, 5000.0, q.TotalInclVAT)
	assert.Equal(t, 0.0, q.TaxDeduction)
	assert.Equal(t, 5000.0, q.FinalPrice)
}

func TestComputeQuote_WorkScopeAndDescriptionCompound(t *testing.T) {
	table := DefaultPriceTable()
	u := window(1)
	u.WorkScope = model.ScopeInterior
	units := PriceUnits([]model.Unit{u}, table)

	q := ComputeQuote(units, model.JobOptions{
		RenovationType:  model.RenovationModern,
		WorkDescription: model.DescriptionInterior,
	}, table)

	assert.Equal(t, 5000.0, *units[0].Price)
	assert.Equal(t, 5000.0, q.RenovationAdjustedTotal)
	assert.Equal(t, 1250.0, q.WorkDescriptionMarkup)
	assert.Equal(t, 6250.0, q.SubtotalExclVAT)
	assert.Equal(t, 7812.5, q.TotalInclVAT)
}

func TestComputeQuote(t *testing.T) {
	table := DefaultPriceTable()

	tests := []struct {
		name  string
		units []model.Unit
		job   model.JobOptions
		check func(*testing.T, model.QuoteBreakdown)
	}{
		{
			name:  "glazing adds area cost",
			units: []model.Unit{pricedUnit(1, 4000)},
			job:   model.JobOptions{GlazingEnabled: true, GlazingAreaM2: 2},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 5000.0, q.ExtrasCost)
				assert.Equal(t, 9000.0, q.SubtotalExclVAT)
			},
		},
		{
			name:  "glazing ignored when disabled",
			units: []model.Unit{pricedUnit(1, 4000)},
			job:   model.JobOptions{GlazingEnabled: false, GlazingAreaM2: 2},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 0.0, q.ExtrasCost)
			},
		},
		{
			name:  "muntins are not counted as extras",
			units: []model.Unit{pricedUnit(1, 5500)},
			job:   model.JobOptions{},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 5500.0, q.UnitsSubtotal)
				assert.Equal(t, 0.0, q.ExtrasCost)
			},
		},
		{
			name:  "adjustment is excluded from work description markup",
			units: []model.Unit{pricedUnit(1, 4000)},
			job: model.JobOptions{
				RenovationType:  model.RenovationTraditional,
				WorkDescription: model.DescriptionInterior,
				AdjustmentPlus:  1000,
				AdjustmentMinus: 300,
			},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 700.0, q.PriceAdjustment)
				assert.InDelta(t, 4700*1.15, q.RenovationAdjustedTotal, 1e-9)
				assert.InDelta(t, (4700*1.15-700)*0.25, q.WorkDescriptionMarkup, 1e-9)
			},
		},
		{
			name:  "unknown renovation type uses no multiplier",
			units: []model.Unit{pricedUnit(1, 4000)},
			job:   model.JobOptions{RenovationType: "lasyr"},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 4000.0, q.RenovationAdjustedTotal)
			},
		},
		{
			name:  "material share splits deduction basis",
			units: []model.Unit{pricedUnit(1, 4000)},
			job:   model.JobOptions{MaterialPercentage: 40, HasTaxDeduction: true},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 5000.0, q.TotalInclVAT)
				assert.Equal(t, 2000.0, q.MaterialCost)
				assert.Equal(t, 3000.0, q.WorkCost)
				assert.Equal(t, 1500.0, q.TaxDeduction)
				assert.Equal(t, 3500.0, q.FinalPrice)
			},
		},
		{
			name:  "deduction capped for single owner",
			units: []model.Unit{pricedUnit(1, 160000)},
			job:   model.JobOptions{HasTaxDeduction: true},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 200000.0, q.WorkCost)
				assert.Equal(t, 50000.0, q.TaxDeduction)
				assert.Equal(t, 150000.0, q.FinalPrice)
			},
		},
		{
			name:  "deduction capped for shared owners",
			units: []model.Unit{pricedUnit(1, 160000)},
			job:   model.JobOptions{HasTaxDeduction: true, IsSharedDeduction: true},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 100000.0, q.TaxDeduction)
				assert.Equal(t, 100000.0, q.FinalPrice)
			},
		},
		{
			name:  "shared flag alone gives no deduction",
			units: []model.Unit{pricedUnit(1, 4000)},
			job:   model.JobOptions{IsSharedDeduction: true},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 0.0, q.TaxDeduction)
			},
		},
		{
			name:  "negative total is not clamped",
			units: []model.Unit{pricedUnit(1, 4000)},
			job:   model.JobOptions{AdjustmentMinus: 10000},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, -6000.0, q.SubtotalExclVAT)
				assert.Equal(t, -7500.0, q.FinalPrice)
			},
		},
		{
			name:  "unpriced units contribute nothing",
			units: []model.Unit{pricedUnit(1, 4000), {ID: 2}},
			job:   model.JobOptions{},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, 4000.0, q.UnitsSubtotal)
			},
		},
		{
			name:  "empty job",
			units: nil,
			job:   model.JobOptions{},
			check: func(t *testing.T, q model.QuoteBreakdown) {
				assert.Equal(t, model.QuoteBreakdown{}, q)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ComputeQuote(tt.units, tt.job, table))
		})
	}
}

func TestComputeQuote_Idempotent(t *testing.T) {
	table := DefaultPriceTable()
	units := []model.Unit{pricedUnit(1, 4123), pricedUnit(2, 17325)}
	job := model.JobOptions{
		RenovationType:     model.RenovationTraditional,
		WorkDescription:    model.DescriptionExteriorInnerSash,
		AdjustmentPlus:     333.33,
		MaterialPercentage: 17,
		GlazingEnabled:     true,
		GlazingAreaM2:      1.7,
		HasTaxDeduction:    true,
	}

	assert.Equal(t, ComputeQuote(units, job, table), ComputeQuote(units, job, table))
}

func TestRoundForDisplay(t *testing.T) {
	q := model.QuoteBreakdown{SubtotalExclVAT: 6249.5, VATAmount: 1562.4, FinalPrice: -0.4}

	r := RoundForDisplay(q)

	assert.Equal(t, 6250.0, r.SubtotalExclVAT)
	assert.Equal(t, 1562.0, r.VATAmount)
	assert.Equal(t, 0.0, r.FinalPrice)
}
