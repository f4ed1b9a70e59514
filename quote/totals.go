package quote

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

// Totals are the derived aggregates of a quotation. Values keep full float precision; rounding
// happens only in the display formatter.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TotalTax   float64 `json:"total_tax"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeTotals sums line bases and line taxes, then subtracts the flat discount once.
// The grand total is not clamped and may be negative.
func ComputeTotals(services []ServiceLine, discountAmount float64) Totals {
	subtotal := lo.SumBy(services, func(s ServiceLine) float64 { return s.LineBase() })
	tax := lo.SumBy(services, func(s ServiceLine) float64 { return s.LineTax() })
	return Totals{
		Subtotal:   subtotal,
		TotalTax:   tax,
		Discount:   discountAmount,
		GrandTotal: subtotal + tax - discountAmount,
	}
}

// HasTax reports whether any line carries tax; the totals block prints a tax row only then.
func HasTax(services []ServiceLine) bool {
	return lo.SomeBy(services, func(s ServiceLine) bool { return s.Taxed() })
}

// TaxLabel names the tax row, including the rate when every taxed line shares it.
func TaxLabel(services []ServiceLine) string {
	rates := lo.Uniq(lo.FilterMap(services, func(s ServiceLine, _ int) (float64, bool) {
		return s.TaxRatePercent, s.Taxed()
	}))
	if len(rates) == 1 {
		return fmt.Sprintf("GST (%s%%)", strconv.FormatFloat(rates[0], 'f', -1, 64))
	}
	return "GST"
}
