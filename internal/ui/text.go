package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ExpandTabs replaces tab characters with spaces, aligning to tab stops.
// Width-aware so stops stay aligned after wide runes.
func ExpandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(s, '\t') {
		return s
	}

	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			sb.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// TruncateString truncates plain text to maxWidth display cells, appending an
// ellipsis when content is cut. Not ANSI-aware; truncate before styling.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// PadRight pads plain text with spaces to exactly width display cells,
// truncating first if the text is too long.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = TruncateString(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
