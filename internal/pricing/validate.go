package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// MaxExtraSashes is the largest extra-sash count a unit may carry.
const MaxExtraSashes = 5

// Job option ceilings. They keep every aggregate finite so a quote can
// always be encoded.
const (
	MaxAdjustment    = 10_000_000.0
	MaxGlazingAreaM2 = 10_000.0
)

// FieldError describes one missing or invalid unit attribute. UnitID is 0 for
// errors that concern the whole job.
type FieldError struct {
	UnitID  int    `json:"unit_id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.UnitID == 0 {
		return e.Field + ": " + e.Message
	}
	return fmt.Sprintf("unit %d: %s: %s", e.UnitID, e.Field, e.Message)
}

// ValidationErrors collects every FieldError found in a job.
type ValidationErrors struct {
	Errors []FieldError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ValidateUnit returns the problems that keep u from being priced.
func ValidateUnit(u model.Unit) []FieldError {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{UnitID: u.ID, Field: field, Message: msg})
	}

	switch {
	case u.Kind == "":
		add("kind", "is required")
	case !u.Kind.Valid():
		add("kind", "is not a known unit kind")
	case u.Kind == model.KindWindow && u.SashCount == "":
		add("sash_count", "is required for windows")
	case u.Kind == model.KindWindow && !u.SashCount.Valid():
		add("sash_count", "must be 1_luftare to 6_luftare")
	case u.Kind.TakesExtraSashes() && u.ExtraSashes == nil:
		add("extra_sashes", "is required for balcony doors and panels")
	case u.Kind.TakesExtraSashes() && (*u.ExtraSashes < 0 || *u.ExtraSashes > MaxExtraSashes):
		add("extra_sashes", fmt.Sprintf("must be between 0 and %d", MaxExtraSashes))
	}

	if u.WorkScope == "" {
		add("work_scope", "is required")
	} else if !u.WorkScope.Valid() {
		add("work_scope", "is not a known work scope")
	}
	if u.Opening == "" {
		add("opening", "is required")
	} else if !u.Opening.Valid() {
		add("opening", "is not a known opening direction")
	}
	if u.WindowType == "" {
		add("window_type", "is required")
	} else if !u.WindowType.Valid() {
		add("window_type", "is not a known window type")
	}
	if u.Sprigs != nil && *u.Sprigs < 0 {
		add("sprigs", "must not be negative")
	}
	return errs
}

// IsComplete reports whether u has every attribute its kind requires.
func IsComplete(u model.Unit) bool {
	return len(ValidateUnit(u)) == 0
}

// ValidateUnits checks every unit and, when expectedUnits is positive, that
// the batch has that many units.
func ValidateUnits(units []model.Unit, expectedUnits int) error {
	errs := unitErrors(units, expectedUnits)
	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func unitErrors(units []model.Unit, expectedUnits int) []FieldError {
	var errs []FieldError
	if expectedUnits > 0 && len(units) != expectedUnits {
		errs = append(errs, FieldError{
			Field:   "units",
			Message: fmt.Sprintf("expected %d units, got %d", expectedUnits, len(units)),
		})
	}
	for _, u := range units {
		errs = append(errs, ValidateUnit(u)...)
	}
	return errs
}

// ValidateJob checks every unit and the job options. expectedUnits is the
// declared number of window sections; pass 0 to skip the count check.
func ValidateJob(units []model.Unit, job model.JobOptions, expectedUnits int) error {
	errs := unitErrors(units, expectedUnits)

	if job.RenovationType != "" && !job.RenovationType.Valid() {
		errs = append(errs, FieldError{Field: "renovation_type", Message: "is not a known renovation type"})
	}
	if job.WorkDescription != "" && !job.WorkDescription.Valid() {
		errs = append(errs, FieldError{Field: "work_description", Message: "is not a known work description"})
	}
	if !within(job.MaterialPercentage, 0, 100) {
		errs = append(errs, FieldError{Field: "material_percentage", Message: "must be between 0 and 100"})
	}
	if !within(job.GlazingAreaM2, 0, MaxGlazingAreaM2) {
		errs = append(errs, FieldError{Field: "glazing_area_m2", Message: fmt.Sprintf("must be between 0 and %.0f", MaxGlazingAreaM2)})
	}
	for _, adj := range []struct {
		field string
		value float64
	}{
		{"adjustment_plus", job.AdjustmentPlus},
		{"adjustment_minus", job.AdjustmentMinus},
	} {
		if !within(adj.value, -MaxAdjustment, MaxAdjustment) {
			errs = append(errs, FieldError{Field: adj.field, Message: fmt.Sprintf("must be between -%.0f and %.0f", MaxAdjustment, MaxAdjustment)})
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// within reports whether v is a finite number in [lo, hi].
func within(v, lo, hi float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= lo && v <= hi
}

// ValidatePriceRow checks an edited price row before it is sent to the sheet.
// Unknown fields are rejected. Version and updated_at are assigned by the sheet
// and ignored here.
func ValidatePriceRow(row model.RawPriceRow) error {
	known := make(map[string]func(float64) string, len(AmountFields)+len(DeltaFields)+len(MultiplierFields)+1)
	for _, f := range AmountFields {
		known[f] = func(v float64) string {
			if v < 0 {
				return "must not be negative"
			}
			return ""
		}
	}
	for _, f := range DeltaFields {
		known[f] = func(float64) string { return "" }
	}
	for _, f := range MultiplierFields {
		known[f] = func(v float64) string {
			if NormalizeMultiplier(v) <= 0 {
				return "must resolve to a positive multiplier"
			}
			return ""
		}
	}
	known[FieldVAT] = func(v float64) string {
		if rate := NormalizeVAT(v); rate < 0 || rate > 1 {
			return "must be between 0 and 100 percent"
		}
		return ""
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []FieldError
	for _, k := range keys {
		if k == FieldVersion || k == FieldUpdatedAt {
			continue
		}
		check, ok := known[k]
		if !ok {
			errs = append(errs, FieldError{Field: k, Message: "is not a known price field"})
			continue
		}
		v, ok := ParseLoose(row[k])
		if !ok {
			errs = append(errs, FieldError{Field: k, Message: "must be a number"})
			continue
		}
		if msg := check(v); msg != "" {
			errs = append(errs, FieldError{Field: k, Message: msg})
		}
	}
	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
