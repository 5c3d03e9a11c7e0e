// Package model defines the core domain entities for the sash quote service.
package model

import "strconv"

// UnitKind identifies what kind of opening a unit is. Values are the identifiers
// used by the quoting form and the remote price list.
type UnitKind string

const (
	KindWindow            UnitKind = "fonster"
	KindDoor              UnitKind = "dorr"
	KindBasementHatch     UnitKind = "kallare_glugg"
	KindBalconyDoubleDoor UnitKind = "pardorr_balkong"
	KindPanel             UnitKind = "flak"
)

// Valid reports whether k is a known unit kind.
func (k UnitKind) Valid() bool {
	switch k {
	case KindWindow, KindDoor, KindBasementHatch, KindBalconyDoubleDoor, KindPanel:
		return true
	}
	return false
}

// TakesExtraSashes reports whether the kind is priced with an extra-sash count.
func (k UnitKind) TakesExtraSashes() bool {
	return k == KindBalconyDoubleDoor || k == KindPanel
}

// SashCount is the sash tier selector of a window, "1_luftare" through "6_luftare".
type SashCount string

const (
	MinSashes = 1
	MaxSashes = 6
)

// SashCountOf returns the selector for n sashes.
func SashCountOf(n int) SashCount {
	return SashCount(strconv.Itoa(n) + "_luftare")
}

// N returns the parsed number of sashes, or 0 when the selector is invalid.
func (s SashCount) N() int {
	str := string(s)
	if len(str) != len("1_luftare") || str[1:] != "_luftare" {
		return 0
	}
	n := int(str[0] - '0')
	if n < MinSashes || n > MaxSashes {
		return 0
	}
	return n
}

// Valid reports whether s selects one of the six sash tiers.
func (s SashCount) Valid() bool { return s.N() > 0 }

// WorkScope is the per-unit work scope.
type WorkScope string

const (
	ScopeExterior          WorkScope = "utvandig"
	ScopeInterior          WorkScope = "invandig"
	ScopeExteriorInnerSash WorkScope = "utv_plus_innermal"
)

func (s WorkScope) Valid() bool {
	return s == ScopeExterior || s == ScopeInterior || s == ScopeExteriorInnerSash
}

// OpeningDirection is the direction a unit's sashes open.
type OpeningDirection string

const (
	OpeningInward  OpeningDirection = "inatgaende"
	OpeningOutward OpeningDirection = "utatgaende"
)

func (d OpeningDirection) Valid() bool {
	return d == OpeningInward || d == OpeningOutward
}

// WindowType is the glazing construction of a unit.
type WindowType string

const (
	WindowCoupledStandard  WindowType = "kopplade_standard"
	WindowInsulatedGlass   WindowType = "isolerglas"
	WindowCoupledInsulated WindowType = "kopplade_isolerglas"
	WindowOuterInsert      WindowType = "insats_yttre"
	WindowInnerInsert      WindowType = "insats_inre"
	WindowCompleteInsert   WindowType = "insats_komplett"
)

// WindowTypes lists every window type in display order.
var WindowTypes = []WindowType{
	WindowCoupledStandard,
	WindowInsulatedGlass,
	WindowCoupledInsulated,
	WindowOuterInsert,
	WindowInnerInsert,
	WindowCompleteInsert,
}

func (w WindowType) Valid() bool {
	for _, known := range WindowTypes {
		if w == known {
			return true
		}
	}
	return false
}

// Unit is one configured window or door opening ("parti") of a job.
//
// @Description One window/door unit with its pricing attributes
type Unit struct {
	// ID is the sequential unit number, starting at 1.
	ID   int      `json:"id" example:"1"`
	Kind UnitKind `json:"kind,omitempty" example:"fonster"`
	// SashCount is required when Kind is a window.
	SashCount SashCount `json:"sash_count,omitempty" example:"2_luftare"`
	// ExtraSashes is required for balcony double doors and panels, 0-5.
	ExtraSashes *int             `json:"extra_sashes,omitempty"`
	WorkScope   WorkScope        `json:"work_scope,omitempty" example:"utvandig"`
	Opening     OpeningDirection `json:"opening,omitempty" example:"inatgaende"`
	WindowType  WindowType       `json:"window_type,omitempty" example:"kopplade_standard"`
	// Sprigs is the muntin count per sash; nil means no muntins.
	Sprigs *int `json:"sprigs,omitempty"`
	// Price is computed from the other fields and is nil until the unit is complete.
	Price *float64 `json:"price"`
} // @name Unit

// ExtraSashCount returns the extra-sash count, treating unset as zero.
func (u Unit) ExtraSashCount() int {
	if u.ExtraSashes == nil {
		return 0
	}
	return *u.ExtraSashes
}

// SprigCount returns the muntin count, treating unset as zero.
func (u Unit) SprigCount() int {
	if u.Sprigs == nil {
		return 0
	}
	return *u.Sprigs
}

// Attributes returns a copy of u with its identity and price cleared.
func (u Unit) Attributes() Unit {
	c := u
	c.ID = 0
	c.Price = nil
	if u.ExtraSashes != nil {
		v := *u.ExtraSashes
		c.ExtraSashes = &v
	}
	if u.Sprigs != nil {
		v := *u.Sprigs
		c.Sprigs = &v
	}
	return c
}
