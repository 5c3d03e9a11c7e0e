// Package pricing implements the quote engine: price-table resolution, unit
// pricing and quote aggregation. Every function here is pure; callers own the
// unit list and the price table and pass them in explicitly.
package pricing

// Field names of the remote price list. They are the wire contract with the
// sheet and must not be renamed.
const (
	FieldDoor              = "dorrparti"
	FieldBalconyDoubleDoor = "pardorr_balong_altan"
	FieldBasementHatch     = "kallare_glugg"
	FieldPanel             = "flak_bas"

	FieldSash1 = "luftare_1_pris"
	FieldSash2 = "luftare_2_pris"
	FieldSash3 = "luftare_3_pris"
	FieldSash4 = "luftare_4_pris"
	FieldSash5 = "luftare_5_pris"
	FieldSash6 = "luftare_6_pris"

	FieldRenovationModern      = "renov_modern_alcro_mult"
	FieldRenovationTraditional = "renov_trad_linolja_mult"
	FieldOpeningInward         = "oppning_inat_mult"
	FieldOpeningOutward        = "oppning_utat_mult"

	FieldDeltaCoupledStandard  = "typ_kopplade_standard_delta"
	FieldDeltaCoupledInsulated = "typ_kopplade_isolerglas_delta"
	FieldDeltaInsulatedGlass   = "typ_isolerglas_delta"
	FieldDeltaOuterInsert      = "typ_insats_yttre_delta"
	FieldDeltaInnerInsert      = "typ_insats_inre_delta"
	FieldDeltaCompleteInsert   = "typ_insats_komplett_delta"

	FieldWorkExterior          = "arb_utvandig_mult"
	FieldWorkInterior          = "arb_invandig_mult"
	FieldWorkExteriorInnerSash = "arb_utv_plus_innermal_mult"

	FieldSprigLowPrice  = "sprojs_low_price"
	FieldSprigHighPrice = "sprojs_high_price"
	FieldSprigThreshold = "sprojs_threshold"
	FieldGlassPerSqm    = "le_glas_per_kvm"

	FieldPanelExtra1 = "flak_extra_1"
	FieldPanelExtra2 = "flak_extra_2"
	FieldPanelExtra3 = "flak_extra_3"
	FieldPanelExtra4 = "flak_extra_4"
	FieldPanelExtra5 = "flak_extra_5"

	FieldVAT       = "vat"
	FieldVersion   = "version"
	FieldUpdatedAt = "updated_at"
)

var sashFields = [6]string{FieldSash1, FieldSash2, FieldSash3, FieldSash4, FieldSash5, FieldSash6}

// windowTypeDeltaFields is ordered like model.WindowTypes.
var windowTypeDeltaFields = [6]string{
	FieldDeltaCoupledStandard,
	FieldDeltaInsulatedGlass,
	FieldDeltaCoupledInsulated,
	FieldDeltaOuterInsert,
	FieldDeltaInnerInsert,
	FieldDeltaCompleteInsert,
}

// AmountFields lists the currency fields that may not be negative.
var AmountFields = []string{
	FieldDoor, FieldBalconyDoubleDoor, FieldBasementHatch, FieldPanel,
	FieldSash1, FieldSash2, FieldSash3, FieldSash4, FieldSash5, FieldSash6,
	FieldSprigLowPrice, FieldSprigHighPrice, FieldSprigThreshold, FieldGlassPerSqm,
	FieldPanelExtra1, FieldPanelExtra2, FieldPanelExtra3, FieldPanelExtra4, FieldPanelExtra5,
}

// DeltaFields lists the signed per-sash window type deltas.
var DeltaFields = windowTypeDeltaFields[:]

// MultiplierFields lists the percentage-or-multiplier fields.
var MultiplierFields = []string{
	FieldRenovationModern,
	FieldRenovationTraditional,
	FieldOpeningInward,
	FieldOpeningOutward,
	FieldWorkExterior,
	FieldWorkInterior,
	FieldWorkExteriorInnerSash,
}

// IsMultiplierField reports whether key is normalized with NormalizeMultiplier.
func IsMultiplierField(key string) bool {
	for _, f := range MultiplierFields {
		if f == key {
			return true
		}
	}
	return false
}
