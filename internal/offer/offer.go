// Package offer renders the customer-facing offer text of a quote.
package offer

import (
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

// Customer is the recipient block of an offer. Empty fields are left out.
//
// @Description Offer recipient details
type Customer struct {
	Company    string `json:"company,omitempty"`
	Contact    string `json:"contact,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	PropertyID string `json:"property_id,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
} // @name OfferCustomer

// Issuer is the contractor signing the offer.
type Issuer struct {
	Company     string
	Signatory   string
	Street      string
	PostalCity  string
	OrgNumber   string
	Phone       string
	DefaultCity string
	HourlyRate  float64
}

// DefaultIssuer returns the contractor details printed when none are configured.
func DefaultIssuer() Issuer {
	return Issuer{
		Company:     "Sternbecks Fönsterhantverk i Dalarna AB",
		Signatory:   "Johan Sternbeck",
		Street:      "Lavendelstigen 7",
		PostalCity:  "77143 Ludvika",
		OrgNumber:   "559389-0717",
		Phone:       "076-846 52 79",
		DefaultCity: "Ludvika",
		HourlyRate:  625,
	}
}

// Input is everything an offer is rendered from.
type Input struct {
	Customer Customer
	Units    []model.Unit
	Options  model.JobOptions
	Quote    model.QuoteBreakdown
	Date     time.Time
}

// Document is a rendered offer. Text joins every section of the offer
// itself. WorkDescription is set when the job names both a renovation type
// and a work description.
//
// @Description Rendered offer text
type Document struct {
	Title     string   `json:"title"`
	Recipient []string `json:"recipient,omitempty"`
	Intro     string   `json:"intro"`
	Items     []string `json:"items"`
	PriceLine string   `json:"price_line"`
	Totals    []string `json:"totals"`
	Terms     []string `json:"terms"`
	Signature []string `json:"signature"`
	Text      string   `json:"text"`

	WorkDescription *WorkDescriptionDocument `json:"work_description,omitempty"`
} // @name OfferDocument

// Renderer builds offer documents for one issuer.
type Renderer struct {
	issuer Issuer
	amount AmountFormatter
}

// NewRenderer creates a renderer. A zero issuer uses DefaultIssuer.
func NewRenderer(issuer Issuer) *Renderer {
	if issuer.Company == "" {
		issuer = DefaultIssuer()
	}
	return &Renderer{issuer: issuer, amount: NewAmountFormatter()}
}

// Render builds the offer for in.
func (r *Renderer) Render(in Input) Document {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	doc := Document{
		Title:     "ANBUD",
		Recipient: recipientLines(in.Customer),
		Intro:     r.intro(in),
		Items:     r.items(in.Units),
		PriceLine: r.amount.PriceLine(in.Quote.FinalPrice),
		Totals:    r.totals(in),
		Terms:     r.terms(),
		Signature: r.signature(in),
	}
	doc.Text = doc.render(r.issuer.Company)
	if wd, ok := RenderWorkDescription(in.Options.RenovationType, in.Options.WorkDescription); ok {
		doc.WorkDescription = &wd
	}
	return doc
}

func recipientLines(c Customer) []string {
	var lines []string
	add := func(prefix, v string) {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, prefix+v)
		}
	}
	add("", c.Company)
	add("", c.Contact)
	add("", c.Address)
	add("", strings.TrimSpace(c.PostalCode+" "+c.City))
	add("Fastighetsbeteckning: ", c.PropertyID)
	add("Telefon: ", c.Phone)
	add("E-post: ", c.Email)
	return lines
}

func (r *Renderer) intro(in Input) string {
	scope := "renovering och målning"
	if label := in.Options.WorkDescription.Label(); label != "" {
		scope = strings.ToLower(label)
	}

	var where string
	parts := make([]string, 0, 2)
	for _, p := range []string{in.Customer.Address, in.Customer.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		where = " på " + strings.Join(parts, ", ")
	}

	text := fmt.Sprintf("Vi ber att få tacka för förfrågan och skickar härmed offert på %s av fönsterpartier%s.", scope, where)

	windows, doors := countOpenings(in.Units)
	if windows > 0 {
		text += fmt.Sprintf("\nAntal fönsterpartier: %d st", windows)
	}
	if doors > 0 {
		text += fmt.Sprintf("\nAntal dörrpartier: %d st", doors)
	}
	return text
}

func countOpenings(units []model.Unit) (windows, doors int) {
	for _, u := range units {
		switch u.Kind {
		case model.KindWindow:
			windows++
		case model.KindDoor, model.KindBalconyDoubleDoor:
			doors++
		}
	}
	return windows, doors
}

func (r *Renderer) items(units []model.Unit) []string {
	items := make([]string, 0, len(units))
	for _, u := range units {
		if u.Price == nil {
			continue
		}
		items = append(items, fmt.Sprintf("Parti %d: %s: %s", u.ID, describeUnit(u), r.amount.Amount(*u.Price)))
	}
	return items
}

func (r *Renderer) totals(in Input) []string {
	q := in.Quote
	lines := []string{
		"Summa exkl. moms: " + r.amount.Amount(q.SubtotalExclVAT),
		"Moms: " + r.amount.Amount(q.VATAmount),
		"Totalt inkl. moms: " + r.amount.Amount(q.TotalInclVAT),
	}
	if in.Options.HasTaxDeduction && q.TaxDeduction > 0 {
		lines = append(lines, "ROT-avdrag (50% på arbetskostnad): -"+r.amount.Amount(q.TaxDeduction))
	} else {
		lines = append(lines, "ROT-avdrag: Ej tillämpligt")
	}
	return lines
}

func (r *Renderer) terms() []string {
	return []string{
		"Anbudet omfattar pris enligt bifogad arbetsbeskrivning.",
		"Byten av rötskadat trä, trasigt glas, trasiga beslag ingår ej i anbudssumman. Regleras med timtid och materialkostnad.",
		"I anbudet ingår material och transporter.",
		"Vi ansvarar för rengöring av fönsterglas efter renovering. Ej fönsterputs.",
		"Miljö- och kvalitetsansvarig: " + r.issuer.Signatory,
		"Entreprenörens ombud: " + r.issuer.Signatory,
		"Timtid vid tillkommande arbeten debiteras med " + r.amount.Amount(r.issuer.HourlyRate) + " inkl moms.",
		"Vi förutsätter fritt tillträde till fönsterpartierna så att arbetet kan utföras rationellt.",
	}
}

func (r *Renderer) signature(in Input) []string {
	city := strings.TrimSpace(in.Customer.City)
	if city == "" {
		city = r.issuer.DefaultCity
	}
	return []string{
		city + " " + in.Date.Format("2006-01-02"),
		r.issuer.Signatory,
		r.issuer.Company,
		r.issuer.Street,
		r.issuer.PostalCity,
		"Org.nr " + r.issuer.OrgNumber,
		"Tel.nr " + r.issuer.Signatory + " " + r.issuer.Phone + " - Företaget innehar F-skatt",
	}
}

func (d Document) render(company string) string {
	var b strings.Builder
	section := func(lines ...string) {
		if len(lines) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	section(company)
	section(d.Recipient...)
	section(d.Title)
	section(d.Intro)
	section(d.Items...)
	section(d.PriceLine)
	section(d.Totals...)
	section(d.Terms...)
	section(d.Signature...)
	return b.String()
}
