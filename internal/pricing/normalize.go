package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseLoose reads a sheet cell as a number. Strings are trimmed and may use a
// decimal comma. Blank, non-numeric and non-finite values report false.
func ParseLoose(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		return ParseLoose(x.String())
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeMultiplier resolves a percentage-or-multiplier cell:
//
//	0             -> 1.0
//	|v| >= 3      -> 1 + v/100   ("15" means +15%)
//	0 < v < 0.5   -> 1 + v       ("0.05" means +5%)
//	otherwise     -> v           (already a multiplier)
func NormalizeMultiplier(v float64) float64 {
	switch {
	case v == 0:
		return 1
	case math.Abs(v) >= 3:
		return 1 + v/100
	case v > 0 && v < 0.5:
		return 1 + v
	default:
		return v
	}
}

// MultiplierToPercent converts a multiplier to a percentage rounded to two decimals.
func MultiplierToPercent(m float64) float64 {
	return math.Round((m-1)*100*100) / 100
}

// PercentToMultiplier is the inverse of MultiplierToPercent.
func PercentToMultiplier(p float64) float64 {
	return 1 + p/100
}

// NormalizeVAT turns a sheet VAT of "25" into 0.25; fractions pass through.
func NormalizeVAT(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
