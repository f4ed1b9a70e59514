// Package quote models a banquet quotation and derives its financial totals.
package quote

import (
	"time"
)

// DefaultTitle is printed in the document header when QuoteDocument.Title is empty.
const DefaultTitle = "PROFORMA INVOICE"

// ServiceLine is one priced row of the services table. Quantity is the PAX count.
type ServiceLine struct {
	Description    string  `json:"description" yaml:"description"`
	Remarks        string  `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	Quantity       int     `json:"quantity" yaml:"quantity"`
	UnitPrice      float64 `json:"unit_price" yaml:"unit_price"`
	TaxRatePercent float64 `json:"tax_rate_percent,omitempty" yaml:"tax_rate_percent,omitempty"`
	TaxExcluded    bool    `json:"tax_excluded,omitempty" yaml:"tax_excluded,omitempty"`
}

// LineBase is quantity x unit price.
func (s ServiceLine) LineBase() float64 {
	return float64(s.Quantity) * s.UnitPrice
}

// LineTax is zero for tax-excluded lines regardless of the configured rate.
func (s ServiceLine) LineTax() float64 {
	if s.TaxExcluded {
		return 0
	}
	return s.LineBase() * s.TaxRatePercent / 100
}

// Taxed reports whether the line contributes tax.
func (s ServiceLine) Taxed() bool {
	return !s.TaxExcluded && s.TaxRatePercent != 0
}

// QuoteDocument is everything the quotation renderer needs for one pass.
type QuoteDocument struct {
	ClientName        string        `json:"client_name" yaml:"client_name"`
	VenueName         string        `json:"venue_name" yaml:"venue_name"`
	Location          string        `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate         time.Time     `json:"start_date" yaml:"start_date"`
	EndDate           time.Time     `json:"end_date" yaml:"end_date"`
	Brand             BrandType     `json:"brand" yaml:"brand"`
	Services          []ServiceLine `json:"services" yaml:"services"`
	Notes             string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	NonInclusiveTerms string        `json:"non_inclusive_terms,omitempty" yaml:"non_inclusive_terms,omitempty"`
	DiscountAmount    float64       `json:"discount_amount,omitempty" yaml:"discount_amount,omitempty"`

	InvoiceNumber string    `json:"invoice_number,omitempty" yaml:"invoice_number,omitempty"`
	IssueDate     time.Time `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	Title         string    `json:"title,omitempty" yaml:"title,omitempty"`
}

// Totals computes the aggregates for the document's services and discount.
func (d QuoteDocument) Totals() Totals {
	return ComputeTotals(d.Services, d.DiscountAmount)
}

// DisplayTitle returns Title or DefaultTitle.
func (d QuoteDocument) DisplayTitle() string {
	if d.Title == "" {
		return DefaultTitle
	}
	return d.Title
}

// Clone returns a copy whose service slice can be edited without touching the original.
func (d QuoteDocument) Clone() QuoteDocument {
	d.Services = append([]ServiceLine(nil), d.Services...)
	return d
}
