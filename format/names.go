package format

import (
	"fmt"
	"strings"
	"time"
)

// SanitizeFileName replaces every rune outside [A-Za-z0-9] with '_' and lowercases the result.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.ToLower(b.String())
}

// FileName builds "{sanitized}_{kind}_{unix-ms}.pdf".
func FileName(base, kind string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d.pdf", SanitizeFileName(base), kind, at.UnixMilli())
}

// FormatDate renders the en-IN short date (d/m/yyyy) used on printed documents.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2/1/2006")
}

// DateRange renders "start - end", or the single known date when one side is missing.
func DateRange(start, end time.Time) string {
	switch {
	case start.IsZero() && end.IsZero():
		return ""
	case end.IsZero(), start.IsZero():
		return FormatDate(start) + FormatDate(end)
	}
	return FormatDate(start) + " - " + FormatDate(end)
}
