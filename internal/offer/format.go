package offer

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var spaceReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u202f", " ",
	"\u2212", "-",
)

// AmountFormatter renders currency amounts the Swedish way: whole kronor,
// space as thousands separator and a trailing "kr".
type AmountFormatter struct {
	printer *message.Printer
}

// NewAmountFormatter returns a formatter for the sv-SE locale.
func NewAmountFormatter() AmountFormatter {
	return AmountFormatter{printer: message.NewPrinter(language.Swedish)}
}

// Number formats v rounded half up to whole kronor, without the unit.
func (f AmountFormatter) Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	rounded := int64(math.Floor(v + 0.5))
	if rounded < 0 {
		return "-" + spaceReplacer.Replace(f.printer.Sprintf("%d", -rounded))
	}
	return spaceReplacer.Replace(f.printer.Sprintf("%d", rounded))
}

// Amount formats v as "12 345 kr".
func (f AmountFormatter) Amount(v float64) string {
	return f.Number(v) + " kr"
}

// PriceLine is the headline price of an offer.
func (f AmountFormatter) PriceLine(finalPrice float64) string {
	return "PRIS: " + f.Number(finalPrice) + " KR INKLUSIVE MOMS"
}
