package format

import "strings"

// WrapText greedily packs words onto lines. A word moves to the next line when adding it would
// exceed maxWordsPerLine words or maxCharsPerLine characters (single separating spaces included).
// Words are never split: a word longer than maxCharsPerLine stands alone on its line.
// Empty input yields a single empty line. A cap <= 0 disables that cap.
func WrapText(text string, maxWordsPerLine, maxCharsPerLine int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current []string
	width := 0

	for _, word := range words {
		wordLen := len([]rune(word))
		if len(current) > 0 {
			tooManyWords := maxWordsPerLine > 0 && len(current)+1 > maxWordsPerLine
			tooWide := maxCharsPerLine > 0 && width+1+wordLen > maxCharsPerLine
			if tooManyWords || tooWide {
				lines = append(lines, strings.Join(current, " "))
				current = current[:0]
				width = 0
			}
		}
		if len(current) > 0 {
			width++
		}
		current = append(current, word)
		width += wordLen
	}

	return append(lines, strings.Join(current, " "))
}

// WrapParagraphs wraps each newline separated paragraph independently. Blank paragraphs are
// kept as empty lines so that spacing typed into notes survives.
func WrapParagraphs(text string, maxWordsPerLine, maxCharsPerLine int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n ")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, WrapText(paragraph, maxWordsPerLine, maxCharsPerLine)...)
	}
	return lines
}
