package pricing

import (
	"fmt"
	"math"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// ResolvePriceTable merges remote over defaults field by field. A remote field
// is used when it parses as a number and passes the field's range check;
// otherwise the default applies. The result never contains NaN.
func ResolvePriceTable(remote, defaults model.RawPriceRow) model.PriceTable {
	r := resolver{remote: remote, defaults: defaults}

	var t model.PriceTable
	t.BasePrices = model.BasePrices{
		Door:              r.amount(FieldDoor),
		BalconyDoubleDoor: r.amount(FieldBalconyDoubleDoor),
		BasementHatch:     r.amount(FieldBasementHatch),
		Panel:             r.amount(FieldPanel),
	}
	for i, f := range sashFields {
		t.BasePrices.Sash[i] = r.amount(f)
	}
	t.RenovationMultipliers = model.RenovationMultipliers{
		Modern:      r.multiplier(FieldRenovationModern),
		Traditional: r.multiplier(FieldRenovationTraditional),
	}
	t.OpeningMultipliers = model.OpeningMultipliers{
		Inward:  r.multiplier(FieldOpeningInward),
		Outward: r.multiplier(FieldOpeningOutward),
	}
	for i, f := range windowTypeDeltaFields {
		t.WindowTypeDeltas[i] = r.amount(f)
	}
	t.WorkDescriptionMultipliers = model.WorkDescriptionMultipliers{
		Exterior:          r.multiplier(FieldWorkExterior),
		Interior:          r.multiplier(FieldWorkInterior),
		ExteriorInnerSash: r.multiplier(FieldWorkExteriorInnerSash),
	}
	t.Extras = model.Extras{
		SprigLowPrice:  r.amount(FieldSprigLowPrice),
		SprigHighPrice: r.amount(FieldSprigHighPrice),
		SprigThreshold: r.amount(FieldSprigThreshold),
		GlassPerSqm:    r.amount(FieldGlassPerSqm),
		VATRate:        r.vat(),
		DeductionRate:  DeductionRate,
	}
	t.Version = int(r.amount(FieldVersion))
	t.UpdatedAt = r.text(FieldUpdatedAt)
	return t
}

type resolver struct {
	remote   model.RawPriceRow
	defaults model.RawPriceRow
}

// pick returns the first candidate from remote, then defaults, accepted by ok.
func (r resolver) pick(key string, ok func(float64) (float64, bool)) (float64, bool) {
	for _, row := range []model.RawPriceRow{r.remote, r.defaults} {
		raw, present := row[key]
		if !present {
			continue
		}
		if v, parsed := ParseLoose(raw); parsed {
			if out, accepted := ok(v); accepted {
				return out, true
			}
		}
	}
	return 0, false
}

func (r resolver) amount(key string) float64 {
	v, _ := r.pick(key, func(v float64) (float64, bool) { return v, true })
	return v
}

func (r resolver) multiplier(key string) float64 {
	v, found := r.pick(key, func(v float64) (float64, bool) {
		m := NormalizeMultiplier(v)
		return m, m > 0 && !math.IsInf(m, 0)
	})
	if !found {
		return 1
	}
	return v
}

func (r resolver) vat() float64 {
	v, _ := r.pick(FieldVAT, func(v float64) (float64, bool) {
		rate := NormalizeVAT(v)
		return rate, rate >= 0 && rate <= 1
	})
	return v
}

func (r resolver) text(key string) string {
	for _, row := range []model.RawPriceRow{r.remote, r.defaults} {
		if v, ok := row[key]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}
