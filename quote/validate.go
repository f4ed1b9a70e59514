package quote

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuote is wrapped by every Validate failure.
var ErrInvalidQuote = errors.New("invalid quotation")

// Validate checks the invariants the form normally enforces: a client, a venue, a known brand,
// an ordered date range and at least one well formed service line.
func Validate(doc QuoteDocument) error {
	var problems []string

	if strings.TrimSpace(doc.ClientName) == "" {
		problems = append(problems, "client name is required")
	}
	if strings.TrimSpace(doc.VenueName) == "" {
		problems = append(problems, "venue name is required")
	}
	if doc.Brand != "" {
		if _, err := ParseBrandType(string(doc.Brand)); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if !doc.StartDate.IsZero() && !doc.EndDate.IsZero() && doc.EndDate.Before(doc.StartDate) {
		problems = append(problems, "end date is before start date")
	}
	if doc.DiscountAmount < 0 {
		problems = append(problems, "discount cannot be negative")
	}
	if len(doc.Services) == 0 {
		problems = append(problems, "at least one service is required")
	}
	for i, s := range doc.Services {
		row := i + 1
		if strings.TrimSpace(s.Description) == "" {
			problems = append(problems, fmt.Sprintf("service %d: description is required", row))
		}
		if s.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("service %d: quantity must be positive", row))
		}
		if s.UnitPrice < 0 {
			problems = append(problems, fmt.Sprintf("service %d: unit price cannot be negative", row))
		}
		if s.TaxRatePercent < 0 || s.TaxRatePercent > 100 {
			problems = append(problems, fmt.Sprintf("service %d: tax rate must be between 0 and 100", row))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidQuote, strings.Join(problems, "; "))
	}
	return nil
}
