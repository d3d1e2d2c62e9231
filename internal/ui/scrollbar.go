package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// ScrollbarParams describes a scrollable region.
type ScrollbarParams struct {
	TotalItems   int // Total number of items/lines in the content
	ScrollOffset int // Index of the first visible item
	VisibleItems int // Number of items visible at once
	TrackHeight  int // Height of the scrollbar track in rows
}

// RenderScrollbar renders a single-column vertical scrollbar.
// Returns an empty string when the content fits the viewport.
func RenderScrollbar(p ScrollbarParams) string {
	if p.TrackHeight < 1 || p.TotalItems <= p.VisibleItems {
		return ""
	}

	// Thumb size: proportional to visible fraction, minimum 1
	thumbSize := (p.TrackHeight * p.VisibleItems) / p.TotalItems
	if thumbSize < 1 {
		thumbSize = 1
	}
	if thumbSize > p.TrackHeight {
		thumbSize = p.TrackHeight
	}

	// Thumb position
	maxOffset := p.TotalItems - p.VisibleItems
	if maxOffset < 1 {
		maxOffset = 1
	}
	thumbPos := (p.ScrollOffset * (p.TrackHeight - thumbSize)) / maxOffset
	if thumbPos < 0 {
		thumbPos = 0
	}
	if thumbPos > p.TrackHeight-thumbSize {
		thumbPos = p.TrackHeight - thumbSize
	}

	trackStyle := lipgloss.NewStyle().Foreground(styles.TextSubtle)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	trackChar := trackStyle.Render("│")
	thumbChar := thumbStyle.Render("┃")

	lines := make([]string, p.TrackHeight)
	for i := 0; i < p.TrackHeight; i++ {
		if i >= thumbPos && i < thumbPos+thumbSize {
			lines[i] = thumbChar
		} else {
			lines[i] = trackChar
		}
	}

	return strings.Join(lines, "\n")
}

// RenderDivider renders a vertical divider between panes.
func RenderDivider(height int) string {
	if height < 1 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(styles.BorderNormal)
	line := style.Render("│")
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
