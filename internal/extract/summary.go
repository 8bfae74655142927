package extract

import "strings"

const (
	SummaryRunes = 500
	ContentRunes = 4000
	ellipsisMark = "..."
)

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Summarize returns the first SummaryRunes runes of text, marked with "..." when cut.
func Summarize(text string) string {
	cut := Truncate(text, SummaryRunes)
	if len(cut) < len(text) {
		return cut + ellipsisMark
	}
	return text
}

// HasContent reports whether a summary carries anything besides whitespace.
func HasContent(summary string) bool {
	return strings.TrimSpace(summary) != ""
}
