package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawPriceRow is a flat price-list row keyed by the remote sheet's field names.
// Values arrive loosely typed (numbers, numeric strings, blanks).
type RawPriceRow map[string]any

// Clone returns a shallow copy of the row.
func (r RawPriceRow) Clone() RawPriceRow {
	out := make(RawPriceRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// PriceSource tags where a resolved table came from.
type PriceSource string

const (
	SourceRemote  PriceSource = "remote"
	SourceCache   PriceSource = "cache"
	SourceDefault PriceSource = "default"
)

// BasePrices are the flat unit prices.
type BasePrices struct {
	Door              float64    `json:"door"`
	BalconyDoubleDoor float64    `json:"balcony_double_door"`
	BasementHatch     float64    `json:"basement_hatch"`
	Panel             float64    `json:"panel"`
	Sash              [6]float64 `json:"sash"`
}

type RenovationMultipliers struct {
	Modern      float64 `json:"modern"`
	Traditional float64 `json:"traditional"`
}

type OpeningMultipliers struct {
	Inward  float64 `json:"inward"`
	Outward float64 `json:"outward"`
}

type WorkDescriptionMultipliers struct {
	Exterior          float64 `json:"exterior"`
	Interior          float64 `json:"interior"`
	ExteriorInnerSash float64 `json:"exterior_inner_sash"`
}

// Extras holds muntin, glazing and tax parameters.
type Extras struct {
	SprigLowPrice  float64 `json:"sprig_low_price"`
	SprigHighPrice float64 `json:"sprig_high_price"`
	// SprigThreshold is the highest muntin count still charged the low price.
	SprigThreshold float64 `json:"sprig_threshold"`
	GlassPerSqm    float64 `json:"glass_per_sqm"`
	VATRate        float64 `json:"vat_rate"`
	DeductionRate  float64 `json:"deduction_rate"`
}

// PriceTable is the resolved pricing configuration. It holds only value types,
// so copies never share state and pricing functions cannot mutate the caller's table.
type PriceTable struct {
	BasePrices                 BasePrices                 `json:"base_prices"`
	RenovationMultipliers      RenovationMultipliers      `json:"renovation_multipliers"`
	OpeningMultipliers         OpeningMultipliers         `json:"opening_multipliers"`
	WindowTypeDeltas           [6]float64                 `json:"window_type_deltas"`
	WorkDescriptionMultipliers WorkDescriptionMultipliers `json:"work_description_multipliers"`
	Extras                     Extras                     `json:"extras"`

	Version   int         `json:"version"`
	UpdatedAt string      `json:"updated_at,omitempty"`
	Source    PriceSource `json:"source"`
	LoadedAt  time.Time   `json:"loaded_at"`
}

// BasePrice returns the flat base price for a unit kind, using the sash tier for windows.
func (t PriceTable) BasePrice(kind UnitKind, sashes SashCount) float64 {
	switch kind {
	case KindWindow:
		if n := sashes.N(); n > 0 {
			return t.BasePrices.Sash[n-1]
		}
	case KindDoor:
		return t.BasePrices.Door
	case KindBasementHatch:
		return t.BasePrices.BasementHatch
	case KindBalconyDoubleDoor:
		return t.BasePrices.BalconyDoubleDoor
	case KindPanel:
		return t.BasePrices.Panel
	}
	return 0
}

// RenovationMultiplier returns 1 for an unset or unknown renovation type.
func (t PriceTable) RenovationMultiplier(r RenovationType) float64 {
	switch r {
	case RenovationModern:
		return t.RenovationMultipliers.Modern
	case RenovationTraditional:
		return t.RenovationMultipliers.Traditional
	}
	return 1
}

// WindowTypeDelta returns the signed per-sash delta, 0 for unknown types.
func (t PriceTable) WindowTypeDelta(w WindowType) float64 {
	for i, known := range WindowTypes {
		if w == known {
			return t.WindowTypeDeltas[i]
		}
	}
	return 0
}

// WorkDescriptionMultiplier returns the job-level multiplier and false when
// the description is unset or unknown.
func (t PriceTable) WorkDescriptionMultiplier(w WorkDescription) (float64, bool) {
	switch w {
	case DescriptionExterior:
		return t.WorkDescriptionMultipliers.Exterior, true
	case DescriptionInterior:
		return t.WorkDescriptionMultipliers.Interior, true
	case DescriptionExteriorInnerSash:
		return t.WorkDescriptionMultipliers.ExteriorInnerSash, true
	}
	return 0, false
}

// PriceSnapshot is a persisted copy of a successfully fetched remote row.
type PriceSnapshot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FetchedAt time.Time          `bson:"fetched_at" json:"fetched_at"`
	Version   int                `bson:"version" json:"version"`
	Row       RawPriceRow        `bson:"row" json:"row"`
}
