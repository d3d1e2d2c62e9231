// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle renders background content behind overlays in gray. The
// background is stripped of its own colors first, SGR faint alone does
// not combine reliably with colored text in common terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// dimLine strips ANSI codes and applies dim gray styling.
func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow splices overlayLine into bgLine at startX. Background
// on either side is dimmed, the overlay itself keeps its colors.
func compositeRow(bgLine, overlayLine string, startX, overlayWidth, totalWidth int) string {
	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	var sb strings.Builder
	if startX > 0 {
		left := ansi.Truncate(stripped, startX, "")
		sb.WriteString(DimStyle.Render(left))
		// Background may end before the overlay starts.
		if w := ansi.StringWidth(left); w < startX {
			sb.WriteString(strings.Repeat(" ", startX-w))
		}
	}

	sb.WriteString(overlayLine)

	if right := startX + overlayWidth; right < totalWidth && bgWidth > right {
		sb.WriteString(DimStyle.Render(ansi.Cut(stripped, right, bgWidth)))
	}
	return sb.String()
}

// compositeAt overlays content onto a dimmed background at the given
// position. Rows outside the overlay render as pure dimmed background.
func compositeAt(background, overlay string, startX, startY, width, height int) string {
	bgLines := strings.Split(background, "\n")
	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := maxLineWidth(overlayLines)

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	rows := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var bgLine string
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}

		idx := y - startY
		if idx >= 0 && idx < len(overlayLines) {
			rows = append(rows, compositeRow(bgLine, overlayLines[idx], startX, overlayWidth, width))
		} else {
			rows = append(rows, dimLine(bgLine))
		}
	}
	return strings.Join(rows, "\n")
}

// OverlayModal composites a modal on top of a dimmed background.
// The modal is centered, with dimmed background visible on all sides.
func OverlayModal(background, modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")
	startX := (width - maxLineWidth(modalLines)) / 2
	startY := (height - len(modalLines)) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}
	return compositeAt(background, modal, startX, startY, width, height)
}

// OverlayAnchored composites an overlay at an explicit position,
// clamped so the overlay stays fully on screen. Context menus anchor
// at the row of the item that opened them.
func OverlayAnchored(background, overlay string, x, y, width, height int) string {
	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := maxLineWidth(overlayLines)
	overlayHeight := len(overlayLines)

	if x+overlayWidth > width {
		x = width - overlayWidth
	}
	if y+overlayHeight > height {
		y = height - overlayHeight
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return compositeAt(background, overlay, x, y, width, height)
}
