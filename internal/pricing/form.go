package pricing

import "github.com/guttosm/sash-quote-service/internal/domain/model"

// Percent bounds for multiplier fields entered in the admin form. Multipliers
// below 0.5 or at 3 and above would be read back as percentages by
// NormalizeMultiplier, so they cannot be stored.
const (
	MinMultiplierPercent = -50.0
	MaxMultiplierPercent = 200.0
)

// MultiplierPercents returns the multiplier fields of t as percentages,
// keyed by sheet field name.
func MultiplierPercents(t model.PriceTable) map[string]float64 {
	return map[string]float64{
		FieldRenovationModern:      MultiplierToPercent(t.RenovationMultipliers.Modern),
		FieldRenovationTraditional: MultiplierToPercent(t.RenovationMultipliers.Traditional),
		FieldOpeningInward:         MultiplierToPercent(t.OpeningMultipliers.Inward),
		FieldOpeningOutward:        MultiplierToPercent(t.OpeningMultipliers.Outward),
		FieldWorkExterior:          MultiplierToPercent(t.WorkDescriptionMultipliers.Exterior),
		FieldWorkInterior:          MultiplierToPercent(t.WorkDescriptionMultipliers.Interior),
		FieldWorkExteriorInnerSash: MultiplierToPercent(t.WorkDescriptionMultipliers.ExteriorInnerSash),
	}
}

// PercentsToMultipliers returns a copy of row with every multiplier field
// converted from a percentage to a multiplier. Percentages outside
// [MinMultiplierPercent, MaxMultiplierPercent) are rejected.
func PercentsToMultipliers(row model.RawPriceRow) (model.RawPriceRow, error) {
	out := row.Clone()
	var errs []FieldError
	for _, f := range MultiplierFields {
		raw, ok := row[f]
		if !ok {
			continue
		}
		p, ok := ParseLoose(raw)
		if !ok {
			errs = append(errs, FieldError{Field: f, Message: "must be a number"})
			continue
		}
		if p < MinMultiplierPercent || p >= MaxMultiplierPercent {
			errs = append(errs, FieldError{Field: f, Message: "must be at least -50 and below 200 percent"})
			continue
		}
		out[f] = PercentToMultiplier(p)
	}
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}
	return out, nil
}
