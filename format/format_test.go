package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{99999, "99,999"},
		{100000, "1,00,000"},
		{1234567, "12,34,567"},
		{141600, "1,41,600"},
		{123456789, "12,34,56,789"},
		{1234.5, "1,234.5"},
		{1234.567, "1,234.57"},
		{-2500, "-2,500"},
		{-0.001, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.amount))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Rs 1,20,000", FormatAmount(120000))
	assert.Equal(t, "1,00,000", FormatCount(100000))
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		words    int
		chars    int
		expected []string
	}{
		{"empty", "", 4, 30, []string{""}},
		{"whitespace only", "   \t ", 4, 30, []string{""}},
		{"single line", "Banquet per plate", 4, 30, []string{"Banquet per plate"}},
		{"word cap", "one two three four five six", 4, 30, []string{"one two three four", "five six"}},
		{"char cap", "aaaa bbbb cccc", 10, 9, []string{"aaaa bbbb", "cccc"}},
		{"char cap is inclusive", "aaaa bbbb", 10, 9, []string{"aaaa bbbb"}},
		{"long word alone", "tiny supercalifragilistic end", 4, 10, []string{"tiny", "supercalifragilistic", "end"}},
		{"collapses spacing", "a   b\n c", 4, 30, []string{"a b c"}},
		{"no caps", "a b c d e f", 0, 0, []string{"a b c d e f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WrapText(tt.text, tt.words, tt.chars))
		})
	}
}

func TestWrapTextProperties(t *testing.T) {
	text := "Live counter with chaat papdi, dahi bhalla and seasonal mocktails served at the lawn entrance for all guests"
	for _, caps := range [][2]int{{4, 30}, {8, 45}, {2, 12}, {1, 5}, {20, 200}} {
		w, c := caps[0], caps[1]
		first := WrapText(text, w, c)
		assert.Equal(t, first, WrapText(text, w, c), "wrap must be deterministic")

		var rebuilt []string
		for _, line := range first {
			words := strings.Fields(line)
			assert.LessOrEqual(t, len(words), w)
			if len(words) > 1 {
				assert.LessOrEqual(t, len(line), c, "line %q exceeds %d chars", line, c)
			}
			rebuilt = append(rebuilt, words...)
		}
		assert.Equal(t, strings.Fields(text), rebuilt)
	}
}

func TestWrapParagraphs(t *testing.T) {
	lines := WrapParagraphs("Advance 50%\r\n\nBalance on event day", 4, 30)
	assert.Equal(t, []string{"Advance 50%", "", "Balance on event day"}, lines)
	assert.Nil(t, WrapParagraphs("  \n ", 4, 30))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "grand_hall___co_", SanitizeFileName("Grand Hall & Co."))
	assert.Equal(t, "the_leela", SanitizeFileName("The Leela"))
	assert.Equal(t, "caf__", SanitizeFileName("Café!"))
}

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1735689600123)
	assert.Equal(t, "grand_hall___co__quotation_1735689600123.pdf", FileName("Grand Hall & Co.", "quotation", at))
}

func TestDates(t *testing.T) {
	start := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "5/3/2025", FormatDate(start))
	assert.Equal(t, "5/3/2025 - 7/3/2025", DateRange(start, end))
	assert.Equal(t, "5/3/2025", DateRange(start, time.Time{}))
	assert.Equal(t, "", DateRange(time.Time{}, time.Time{}))
}
