// Package format holds the display helpers shared by the quotation and gallery layouts:
// Indian-grouped currency, word/character bounded wrapping, short dates and file names.
package format

import (
	"strconv"
	"strings"
)

// CurrencyPrefix is prepended by FormatAmount.
const CurrencyPrefix = "Rs "

// FormatCurrency renders an amount with Indian digit grouping (the last three digits, then
// groups of two): 1234567 -> "12,34,567". Fractions are rounded to two places and trailing
// zeros dropped. No currency symbol is added.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := groupIndian(whole)
	if frac != "" {
		out += "." + frac
	}
	if negative && out != "0" {
		out = "-" + out
	}
	return out
}

// FormatAmount is FormatCurrency with the rupee prefix used on documents.
func FormatAmount(amount float64) string {
	return CurrencyPrefix + FormatCurrency(amount)
}

// FormatCount renders an integer quantity with the same grouping as FormatCurrency.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + groupIndian(strconv.Itoa(-n))
	}
	return groupIndian(strconv.Itoa(n))
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	groups := make([]string, 0, len(head)/2+2)
	for len(head) > 2 {
		groups = append(groups, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append(groups, head)
	}

	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
		b.WriteByte(',')
	}
	b.WriteString(tail)
	return b.String()
}
