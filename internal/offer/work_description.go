package offer

import (
	"slices"
	"strings"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

const noAction = "Ingen åtgärd"

// WorkDescriptionSection is one headed block of a work description. Groups
// keep the sub-headings of the sash and middle-side blocks.
type WorkDescriptionSection struct {
	Heading string      `json:"heading"`
	Steps   []string    `json:"steps,omitempty"`
	Groups  []StepGroup `json:"groups,omitempty"`
} // @name WorkDescriptionSection

// StepGroup is a sub-heading with its work steps.
type StepGroup struct {
	Heading string   `json:"heading"`
	Steps   []string `json:"steps"`
} // @name WorkDescriptionStepGroup

// WorkDescriptionDocument is the scope document ("Arbetsbeskrivning") sent
// with an offer. Text joins every section.
//
// @Description Work description for the renovation type and scope of a job
type WorkDescriptionDocument struct {
	Title    string                   `json:"title"`
	Sections []WorkDescriptionSection `json:"sections"`
	Text     string                   `json:"text"`
} // @name WorkDescriptionDocument

// paintSystem holds the products that differ between renovation types.
type paintSystem struct {
	name          string
	framePrimer   string
	topCoat       string
	putty         string
	sashPrimer    string
	edgePrimer    string
	edgeCoat      string
	interiorFrame []string
	interiorSash  []string
}

var paintSystems = map[model.RenovationType]paintSystem{
	model.RenovationModern: {
		name:        "Alcro Bestå",
		framePrimer: "1 ggr grundning av trären yta - Färgtyp - Alcro.",
		topCoat:     "2 ggr strykning - Färgtyp - Alcro Bestå Utsikt",
		putty:       "Kittning - LASeal",
		sashPrimer:  "1 ggr grundning - Färgtyp - Alcro.",
		edgePrimer:  "1 ggr grundning - Färgtyp - Alcro Bestå utsikt",
		edgeCoat:    "2 ggr strykning - Färgtyp - Alcro Bestå utsikt",
		interiorFrame: []string{
			"Skrapning och slipning till fast sittande underlag",
			"Pågrundning av trären yta",
			"I- och påspackling",
			"1 ggr grundning - Färgtyp Alcro Vslip",
			"1-2 ggr strykning - Färgtyp Alcro V mill",
		},
		interiorSash: []string{
			"Skrapning och slipning till fast sittande underlag",
			"Pågrundning av trären yta",
			"I- och påspackling",
			"1 ggr grundning - Färgtyp Alcro Vslip",
			"2 ggr strykning - Färgtyp Alcro V mill",
		},
	},
	model.RenovationTraditional: {
		name:        "Engwall & Claesson",
		framePrimer: "1 ggr grundning av trären yta - Färgtyp – Engwall & Claesson Linoljefärg.",
		topCoat:     "2 ggr strykning - Färgtyp – Engwall & Claesson Linoljefärg",
		putty:       "Kittning - Linoljekitt",
		sashPrimer:  "1 ggr grundning - Färgtyp – Engwall & Claesson Linoljefärg",
		edgePrimer:  "1 ggr grundning - Färgtyp – Engwall & Claesson Linoljefärg",
		edgeCoat:    "2 ggr strykning - Färgtyp – Engwall & Claesson Linoljefärg",
		interiorFrame: []string{
			"Slipning till fast sittande underlag",
			"I- och påspackling",
			"1 ggr grundning - Färgtyp - Alcro - vslip",
			"2 ggr strykning – Färgtyp - Alcro Vmill",
		},
		interiorSash: []string{
			"Slipning till fast sittande underlag",
			"I- och påspackling",
			"1 ggr grundning - Färgtyp - Alcro - vslip",
			"2 ggr strykning – Färgtyp - Alcro Vmill",
		},
	},
}

var scopeTitles = map[model.WorkDescription]string{
	model.DescriptionExterior:          "utvändig renovering",
	model.DescriptionInterior:          "utvändig och invändig renovering",
	model.DescriptionExteriorInnerSash: "utvändig renovering + innerbågens insida",
}

// RenderWorkDescription builds the work description for a renovation type and
// job scope. It reports false when either is unset or unknown.
func RenderWorkDescription(renovation model.RenovationType, scope model.WorkDescription) (WorkDescriptionDocument, bool) {
	paint, ok := paintSystems[renovation]
	if !ok || !scope.Valid() {
		return WorkDescriptionDocument{}, false
	}

	// The middle sides are painted with Alcro whatever the renovation type.
	exterior := []WorkDescriptionSection{
		{Heading: "Arbetsbeskrivning utvändigt"},
		{Heading: "Fönsterkarm:", Steps: []string{
			"Tvättning",
			"Skrapning och slipning till fast sittande underlag",
			"Färgkanter slipas ner",
			"Demontering gamla beslag, spikar etc",
			"Demontering gammal tätningslist",
			"Montering ny tätningslist",
			"Uppskrapning fönsterbleck, slipning till fast sittande underlag",
			paint.framePrimer,
			"Kant mellan fönsterbleck och karm fogas tätt, samt hål och sprickor",
			paint.topCoat,
		}},
		{Heading: "Fönsterbågar:", Groups: []StepGroup{
			{Heading: "Ytterbåge", Steps: []string{
				"Hel rengöring till trären yta av yttersida samt 4 kanter",
				"Hel kittborttagning",
				paint.putty,
				paint.sashPrimer,
				paint.topCoat,
			}},
			{Heading: "Innerbågens fyra kanter", Steps: []string{
				"Skrapning och slipning till fast sittande underlag",
				paint.edgePrimer,
				paint.edgeCoat,
			}},
		}},
		{Heading: "Mellansidor:", Groups: []StepGroup{
			{Heading: "Ytterbågens mellansida", Steps: []string{
				"Skrapning och slipning till fast sittande underlag",
				"Toppförsegling",
				"1 ggr grundning - Färgtyp - Alcro Bestå utsikt",
				"2 ggr strykning - Färgtyp - Alcro Bestå utsikt",
			}},
			{Heading: "Innerbågens mellansida", Steps: []string{
				"Skrapning och slipning till fast sittande underlag",
				"1 ggr grundning - Färgtyp - Alcro",
				"2 ggr strykning – Färgtyp - Alcro Bestå utsikt",
			}},
		}},
	}

	interiorFrame := []string{noAction}
	interiorSash := []string{noAction}
	switch scope {
	case model.DescriptionInterior:
		interiorFrame = slices.Clone(paint.interiorFrame)
		interiorSash = slices.Clone(paint.interiorSash)
	case model.DescriptionExteriorInnerSash:
		interiorSash = slices.Clone(paint.interiorSash)
	}

	doc := WorkDescriptionDocument{
		Title: "Arbetsbeskrivning fönster, " + scopeTitles[scope] + " – " + paint.name,
		Sections: append(exterior,
			WorkDescriptionSection{Heading: "Invändigt karm:", Steps: interiorFrame},
			WorkDescriptionSection{Heading: "Invändigt fönsterbågar", Steps: interiorSash},
			WorkDescriptionSection{Heading: "Fönsterfoder", Steps: []string{noAction}},
			WorkDescriptionSection{Heading: "Övrigt"},
		),
	}
	doc.Text = doc.render()
	return doc, true
}

func (d WorkDescriptionDocument) render() string {
	blocks := []string{d.Title}
	for _, s := range d.Sections {
		lines := append([]string{s.Heading}, s.Steps...)
		for _, g := range s.Groups {
			lines = append(lines, g.Heading)
			lines = append(lines, g.Steps...)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
