package pricing

import (
	"math"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// ComputeQuote aggregates unit prices into a customer price. Units are summed
// as priced; units without a price contribute nothing. No intermediate value is
// rounded.
func ComputeQuote(units []model.Unit, job model.JobOptions, t model.PriceTable) model.QuoteBreakdown {
	var q model.QuoteBreakdown

	for _, u := range units {
		if u.Price != nil {
			q.UnitsSubtotal += *u.Price
		}
	}

	if job.GlazingEnabled && job.GlazingAreaM2 > 0 {
		q.ExtrasCost = job.GlazingAreaM2 * t.Extras.GlassPerSqm
	}

	q.PriceAdjustment = job.AdjustmentPlus - job.AdjustmentMinus

	q.RenovationAdjustedTotal = (q.UnitsSubtotal + q.ExtrasCost + q.PriceAdjustment) *
		t.RenovationMultiplier(job.RenovationType)

	if m, ok := t.WorkDescriptionMultiplier(job.WorkDescription); ok {
		const materialPlaceholder = 0.0
		q.WorkDescriptionMarkup = (q.RenovationAdjustedTotal - q.PriceAdjustment - materialPlaceholder) * (m - 1)
	}

	q.SubtotalExclVAT = q.RenovationAdjustedTotal + q.WorkDescriptionMarkup
	q.VATAmount = q.SubtotalExclVAT * t.Extras.VATRate
	q.TotalInclVAT = q.SubtotalExclVAT + q.VATAmount

	q.MaterialCost = q.TotalInclVAT * (job.MaterialPercentage / 100)
	q.WorkCost = q.TotalInclVAT - q.MaterialCost

	if job.HasTaxDeduction {
		limit := DeductionCap
		if job.IsSharedDeduction {
			limit = SharedDeductionCap
		}
		q.TaxDeduction = math.Min(q.WorkCost*t.Extras.DeductionRate, limit)
	}

	q.FinalPrice = q.TotalInclVAT - q.TaxDeduction
	return q
}

// RoundForDisplay returns the breakdown with every amount rounded to whole
// currency units.
func RoundForDisplay(q model.QuoteBreakdown) model.QuoteBreakdown {
	return model.QuoteBreakdown{
		UnitsSubtotal:           roundHalfUp(q.UnitsSubtotal),
		ExtrasCost:              roundHalfUp(q.ExtrasCost),
		PriceAdjustment:         roundHalfUp(q.PriceAdjustment),
		RenovationAdjustedTotal: roundHalfUp(q.RenovationAdjustedTotal),
		WorkDescriptionMarkup:   roundHalfUp(q.WorkDescriptionMarkup),
		SubtotalExclVAT:         roundHalfUp(q.SubtotalExclVAT),
		VATAmount:               roundHalfUp(q.VATAmount),
		TotalInclVAT:            roundHalfUp(q.TotalInclVAT),
		MaterialCost:            roundHalfUp(q.MaterialCost),
		WorkCost:                roundHalfUp(q.WorkCost),
		TaxDeduction:            roundHalfUp(q.TaxDeduction),
		FinalPrice:              roundHalfUp(q.FinalPrice),
	}
}
