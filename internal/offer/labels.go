package offer

import (
	"fmt"
	"strings"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

var kindLabels = map[model.UnitKind]string{
	model.KindWindow:            "Fönster",
	model.KindDoor:              "Dörr",
	model.KindBasementHatch:     "Källare/glugg",
	model.KindBalconyDoubleDoor: "Pardörr balkong/altan",
	model.KindPanel:             "Flak",
}

var windowTypeLabels = map[model.WindowType]string{
	model.WindowCoupledStandard:  "kopplade standard",
	model.WindowInsulatedGlass:   "isolerglas",
	model.WindowCoupledInsulated: "kopplade isolerglas",
	model.WindowOuterInsert:      "insatsbåge yttre",
	model.WindowInnerInsert:      "insatsbåge inre",
	model.WindowCompleteInsert:   "insatsbåge komplett",
}

var scopeLabels = map[model.WorkScope]string{
	model.ScopeExterior:          "utvändigt",
	model.ScopeInterior:          "invändigt",
	model.ScopeExteriorInnerSash: "utvändigt + innerbåge",
}

var openingLabels = map[model.OpeningDirection]string{
	model.OpeningInward:  "inåtgående",
	model.OpeningOutward: "utåtgående",
}

// describeUnit renders a one-line description such as
// "Fönster, 2 luftare, kopplade standard, inåtgående, utvändigt, 4 spröjs".
func describeUnit(u model.Unit) string {
	parts := []string{kindLabels[u.Kind]}
	if u.Kind == model.KindWindow {
		parts = append(parts, fmt.Sprintf("%d luftare", u.SashCount.N()))
	}
	if u.Kind.TakesExtraSashes() && u.ExtraSashCount() > 0 {
		parts = append(parts, fmt.Sprintf("%d extra luftare", u.ExtraSashCount()))
	}
	parts = append(parts, windowTypeLabels[u.WindowType], openingLabels[u.Opening], scopeLabels[u.WorkScope])
	if n := u.SprigCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d spröjs", n))
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
