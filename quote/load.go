package quote

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006", "2/1/2006"}

// documentFile mirrors QuoteDocument with dates kept as strings so that several layouts are
// accepted in hand-written input files.
type documentFile struct {
	ClientName        string        `yaml:"client_name"`
	VenueName         string        `yaml:"venue_name"`
	Location          string        `yaml:"location"`
	StartDate         string        `yaml:"start_date"`
	EndDate           string        `yaml:"end_date"`
	Brand             string        `yaml:"brand"`
	Services          []ServiceLine `yaml:"services"`
	Notes             string        `yaml:"notes"`
	NonInclusiveTerms string        `yaml:"non_inclusive_terms"`
	DiscountAmount    float64       `yaml:"discount_amount"`
	InvoiceNumber     string        `yaml:"invoice_number"`
	IssueDate         string        `yaml:"issue_date"`
	Title             string        `yaml:"title"`
	Images            []string      `yaml:"images"`
}

// LoadDocument reads a quotation from a YAML (or JSON) file. Image URLs listed under
// `images:` are returned alongside the document.
func LoadDocument(path string) (QuoteDocument, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QuoteDocument{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, images, err := ParseDocument(data)
	if err != nil {
		return QuoteDocument{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, images, nil
}

// ParseDocument decodes the YAML representation written by LoadDocument's callers.
func ParseDocument(data []byte) (QuoteDocument, []string, error) {
	var in documentFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return QuoteDocument{}, nil, fmt.Errorf("failed to parse quotation: %w", err)
	}

	brand, err := ParseBrandType(in.Brand)
	if err != nil {
		return QuoteDocument{}, nil, err
	}

	doc := QuoteDocument{
		ClientName:        in.ClientName,
		VenueName:         in.VenueName,
		Location:          in.Location,
		Brand:             brand,
		Services:          in.Services,
		Notes:             in.Notes,
		NonInclusiveTerms: in.NonInclusiveTerms,
		DiscountAmount:    in.DiscountAmount,
		InvoiceNumber:     in.InvoiceNumber,
		Title:             in.Title,
	}
	for _, field := range []struct {
		name  string
		value string
		dest  *time.Time
	}{
		{"start_date", in.StartDate, &doc.StartDate},
		{"end_date", in.EndDate, &doc.EndDate},
		{"issue_date", in.IssueDate, &doc.IssueDate},
	} {
		if *field.dest, err = ParseDate(field.value); err != nil {
			return QuoteDocument{}, nil, fmt.Errorf("%s: %w", field.name, err)
		}
	}

	return doc, in.Images, nil
}

// ParseDate accepts ISO dates, RFC3339 timestamps and d/m/yyyy. Empty input is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
