package pricing

import (
	"errors"
	"fmt"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// MaxUnits bounds the size of a unit batch.
const MaxUnits = 100

var (
	ErrBatchSize      = fmt.Errorf("unit count must be between 1 and %d", MaxUnits)
	ErrUnitNotFound   = errors.New("unit not found")
	ErrNoPreviousUnit = errors.New("unit has no previous unit to copy")
)

// NewUnitBatch creates n empty units numbered 1..n.
func NewUnitBatch(n int) ([]model.Unit, error) {
	if n < 1 || n > MaxUnits {
		return nil, ErrBatchSize
	}
	units := make([]model.Unit, n)
	for i := range units {
		units[i] = model.Unit{ID: i + 1}
	}
	return units, nil
}

// ResizeUnitBatch keeps units when the count is unchanged and otherwise
// recreates the whole batch. Units are never removed one at a time. The
// count is bounded even when it is unchanged.
func ResizeUnitBatch(units []model.Unit, n int) ([]model.Unit, error) {
	if n < 1 || n > MaxUnits {
		return nil, ErrBatchSize
	}
	if len(units) == n {
		out := make([]model.Unit, n)
		copy(out, units)
		return out, nil
	}
	return NewUnitBatch(n)
}

// DuplicatePrevious copies the attributes of the unit before id into id and
// reprices it. The input slice is not modified.
func DuplicatePrevious(units []model.Unit, id int, t model.PriceTable) ([]model.Unit, error) {
	idx := -1
	for i, u := range units {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	if idx == 0 {
		return nil, ErrNoPreviousUnit
	}

	out := make([]model.Unit, len(units))
	copy(out, units)
	dup := units[idx-1].Attributes()
	dup.ID = id
	if IsComplete(dup) {
		p := ComputeUnitPrice(dup, t)
		dup.Price = &p
	}
	out[idx] = dup
	return out, nil
}

// Summary aggregates a batch for the offer text.
type Summary struct {
	Total          int                    `json:"total"`
	ByKind         map[model.UnitKind]int `json:"by_kind"`
	WindowsBySash  map[int]int            `json:"windows_by_sash"`
	WithSprigs     int                    `json:"with_sprigs"`
	SashEquivalent int                    `json:"sash_equivalent"`
	// AvgSprigsPerSash is the muntin count averaged over the sash-equivalents of units with muntins.
	AvgSprigsPerSash float64 `json:"avg_sprigs_per_sash"`
}

// Summarize counts units per kind and sash tier and averages their muntins.
func Summarize(units []model.Unit) Summary {
	s := Summary{
		Total:         len(units),
		ByKind:        make(map[model.UnitKind]int),
		WindowsBySash: make(map[int]int),
	}
	var sprigTotal, sprigSashes int
	for _, u := range units {
		if u.Kind.Valid() {
			s.ByKind[u.Kind]++
		}
		if u.Kind == model.KindWindow {
			if n := u.SashCount.N(); n > 0 {
				s.WindowsBySash[n]++
			}
		}
		sashes := SashEquivalent(u)
		s.SashEquivalent += sashes
		if u.SprigCount() > 0 && sashes > 0 {
			s.WithSprigs++
			sprigTotal += u.SprigCount() * sashes
			sprigSashes += sashes
		}
	}
	if sprigSashes > 0 {
		s.AvgSprigsPerSash = float64(sprigTotal) / float64(sprigSashes)
	}
	return s
}
