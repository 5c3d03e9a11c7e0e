package model

// RenovationType is the finishing system applied to the whole job.
type RenovationType string

const (
	RenovationModern      RenovationType = "modern_alcro"
	RenovationTraditional RenovationType = "trad_linolja"
)

func (r RenovationType) Valid() bool {
	return r == RenovationModern || r == RenovationTraditional
}

// Label returns the customer-facing name.
func (r RenovationType) Label() string {
	switch r {
	case RenovationModern:
		return "Modern - Alcro bestå"
	case RenovationTraditional:
		return "Traditionell - Linoljebehandling"
	}
	return ""
}

// WorkDescription is the job-level scope. It has the same variants as WorkScope
// but is priced from its own multiplier table at the aggregate stage.
type WorkDescription string

const (
	DescriptionExterior          WorkDescription = "utvandig"
	DescriptionInterior          WorkDescription = "invandig"
	DescriptionExteriorInnerSash WorkDescription = "utv_plus_innermal"
)

func (w WorkDescription) Valid() bool {
	return w == DescriptionExterior || w == DescriptionInterior || w == DescriptionExteriorInnerSash
}

func (w WorkDescription) Label() string {
	switch w {
	case DescriptionExterior:
		return "Utvändig renovering"
	case DescriptionInterior:
		return "Invändig renovering"
	case DescriptionExteriorInnerSash:
		return "Utvändig renovering samt målning av innerbågens insida"
	}
	return ""
}

// JobOptions are the job-wide inputs of a quote.
//
// @Description Global job options applied on top of the unit prices
type JobOptions struct {
	RenovationType  RenovationType  `json:"renovation_type,omitempty" example:"modern_alcro"`
	WorkDescription WorkDescription `json:"work_description,omitempty" example:"utvandig"`
	AdjustmentPlus  float64         `json:"adjustment_plus" example:"0"`
	AdjustmentMinus float64         `json:"adjustment_minus" example:"0"`
	// MaterialPercentage is the share (0-100) of the total treated as material for the deduction.
	MaterialPercentage float64 `json:"material_percentage" example:"0"`
	GlazingEnabled     bool    `json:"glazing_enabled"`
	GlazingAreaM2      float64 `json:"glazing_area_m2" example:"0"`
	HasTaxDeduction    bool    `json:"has_tax_deduction"`
	IsSharedDeduction  bool    `json:"is_shared_deduction"`
} // @name JobOptions

// Job is the complete input to the quote aggregator.
type Job struct {
	Units   []Unit     `json:"units"`
	Options JobOptions `json:"options"`
}

// QuoteBreakdown is the derived output of a quote. No field is rounded.
//
// @Description Full price breakdown of a quote
type QuoteBreakdown struct {
	UnitsSubtotal           float64 `json:"units_subtotal"`
	ExtrasCost              float64 `json:"extras_cost"`
	PriceAdjustment         float64 `json:"price_adjustment"`
	RenovationAdjustedTotal float64 `json:"renovation_adjusted_total"`
	WorkDescriptionMarkup   float64 `json:"work_description_markup"`
	SubtotalExclVAT         float64 `json:"subtotal_excl_vat"`
	VATAmount               float64 `json:"vat_amount"`
	TotalInclVAT            float64 `json:"total_incl_vat"`
	MaterialCost            float64 `json:"material_cost"`
	WorkCost                float64 `json:"work_cost"`
	TaxDeduction            float64 `json:"tax_deduction"`
	FinalPrice              float64 `json:"final_price"`
} // @name QuoteBreakdown
