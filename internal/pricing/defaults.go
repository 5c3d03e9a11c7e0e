package pricing

import "github.com/guttosm/sash-quote-service/internal/domain/model"

const (
	// ExtraSashUnitPrice is the surcharge per extra sash on balcony double doors and panels.
	ExtraSashUnitPrice = 2750.0
	// DeductionRate is the ROT share of the labor cost.
	DeductionRate = 0.5
	// DeductionCap and SharedDeductionCap bound the ROT deduction for one and two owners.
	DeductionCap       = 50000.0
	SharedDeductionCap = 100000.0
)

// DefaultPriceRow returns the built-in price list used when neither the remote
// sheet nor a recent snapshot is available.
func DefaultPriceRow() model.RawPriceRow {
	return model.RawPriceRow{
		FieldDoor:              5000,
		FieldBalconyDoubleDoor: 9000,
		FieldBasementHatch:     3500,
		FieldPanel:             6000,

		FieldSash1: 4000,
		FieldSash2: 5500,
		FieldSash3: 8250,
		FieldSash4: 11000,
		FieldSash5: 13750,
		FieldSash6: 16500,

		FieldRenovationModern:      1.00,
		FieldRenovationTraditional: 1.15,
		FieldOpeningInward:         1.00,
		FieldOpeningOutward:        1.05,

		FieldDeltaCoupledStandard:  0,
		FieldDeltaCoupledInsulated: 500,
		FieldDeltaInsulatedGlass:   -400,
		FieldDeltaOuterInsert:      -400,
		FieldDeltaInnerInsert:      -1250,
		FieldDeltaCompleteInsert:   1000,

		FieldWorkExterior:          1.00,
		FieldWorkInterior:          1.25,
		FieldWorkExteriorInnerSash: 1.05,

		FieldSprigLowPrice:  250,
		FieldSprigHighPrice: 400,
		FieldSprigThreshold: 3,
		FieldGlassPerSqm:    2500,

		FieldPanelExtra1: 2750,
		FieldPanelExtra2: 5500,
		FieldPanelExtra3: 8250,
		FieldPanelExtra4: 11000,
		FieldPanelExtra5: 13750,

		FieldVAT:     25,
		FieldVersion: 1,
	}
}

// DefaultPriceTable resolves DefaultPriceRow on its own.
func DefaultPriceTable() model.PriceTable {
	defaults := DefaultPriceRow()
	t := ResolvePriceTable(nil, defaults)
	t.Source = model.SourceDefault
	return t
}
