package pricing

import "github.com/guttosm/sash-quote-service/internal/domain/model"

// Unit-level markups that never come from the price table. The table's
// opening multipliers and muntin prices are shown in the admin form only.
const (
	OutwardOpeningMultiplier = 1.05
	SprigLowRate             = 250.0
	SprigHighRate            = 400.0
	// SprigHighFrom is the lowest muntin count charged SprigHighRate.
	SprigHighFrom = 4
)

// UnitWorkScopeMultiplier is the per-unit work-scope markup. It is fixed and
// separate from the job-level work-description multiplier in the price table,
// which is applied later to the whole subtotal.
func UnitWorkScopeMultiplier(scope model.WorkScope) float64 {
	switch scope {
	case model.ScopeInterior:
		return 1.25
	case model.ScopeExteriorInnerSash:
		return 1.05
	default:
		return 1
	}
}

// SashEquivalent is the effective sash count used for window-type deltas and
// muntin surcharges. Unknown kinds count as zero.
func SashEquivalent(u model.Unit) int {
	switch u.Kind {
	case model.KindDoor, model.KindBasementHatch:
		return 1
	case model.KindPanel:
		return 1 + u.ExtraSashCount()
	case model.KindBalconyDoubleDoor:
		return 2 + u.ExtraSashCount()
	case model.KindWindow:
		return u.SashCount.N()
	default:
		return 0
	}
}

// ComputeUnitPrice prices one complete unit. Steps run in a fixed order and
// later steps compound on earlier ones:
//
//  1. base price by kind, plus extra sashes for balcony doors and panels
//  2. work-scope markup, rounded
//  3. window-type delta per sash-equivalent
//  4. opening-direction markup, rounded
//  5. muntin surcharge per muntin per sash-equivalent
//  6. final rounding
//
// Callers must check IsComplete first; incomplete units are not rejected here.
func ComputeUnitPrice(u model.Unit, t model.PriceTable) float64 {
	price := t.BasePrice(u.Kind, u.SashCount)
	if u.Kind.TakesExtraSashes() && u.ExtraSashCount() > 0 {
		price += float64(u.ExtraSashCount()) * ExtraSashUnitPrice
	}

	price = roundHalfUp(price * UnitWorkScopeMultiplier(u.WorkScope))

	sashes := SashEquivalent(u)
	price += float64(sashes) * t.WindowTypeDelta(u.WindowType)

	if u.Opening == model.OpeningOutward {
		price = roundHalfUp(price * OutwardOpeningMultiplier)
	}

	if sprigs := u.SprigCount(); sprigs > 0 && sashes > 0 {
		price += SprigRate(sprigs) * float64(sprigs) * float64(sashes)
	}

	return roundHalfUp(price)
}

// SprigRate returns the per-muntin rate for a muntin count.
func SprigRate(sprigs int) float64 {
	if sprigs >= SprigHighFrom {
		return SprigHighRate
	}
	return SprigLowRate
}

// PriceUnits returns a copy of units with Price set on every complete unit and
// cleared on the rest.
func PriceUnits(units []model.Unit, t model.PriceTable) []model.Unit {
	out := make([]model.Unit, len(units))
	for i, u := range units {
		out[i] = u
		out[i].Price = nil
		if IsComplete(u) {
			p := ComputeUnitPrice(u, t)
			out[i].Price = &p
		}
	}
	return out
}
