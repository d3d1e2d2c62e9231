package styles

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Rounded frame runes, matching lipgloss.RoundedBorder so framed panes
// line up with lipgloss-styled regions elsewhere on screen.
const (
	frameTL = "╭"
	frameTR = "╮"
	frameBL = "╰"
	frameBR = "╯"
	frameH  = "─"
	frameV  = "│"
)

// panelPadding is the gap between the frame and the content on each
// side. Mouse hit testing assumes content starts at (2, 1) inside a
// panel, which is the border cell plus this padding.
const panelPadding = 1

// RenderPanel frames content in a rounded box of the given outer
// dimensions. The border runs the theme's active or normal gradient so
// the focused pane reads at a glance.
func RenderPanel(content string, width, height int, active bool) string {
	g := normalGradient()
	if active {
		g = activeGradient()
	}
	return renderFrame(content, width, height, g)
}

func activeGradient() Gradient {
	t := GetCurrentTheme()
	return borderGradient(t.Colors.GradientBorderActive, t.Colors.BorderActive, t.Colors.GradientBorderAngle)
}

func normalGradient() Gradient {
	t := GetCurrentTheme()
	return borderGradient(t.Colors.GradientBorderNormal, t.Colors.BorderNormal, t.Colors.GradientBorderAngle)
}

// borderGradient builds the frame gradient from theme stops, degrading
// to the flat border color when the theme defines fewer than two.
func borderGradient(stops []string, flat string, angle float64) Gradient {
	if angle == 0 {
		angle = DefaultGradientAngle
	}
	if len(stops) < 2 {
		return NewGradient([]string{flat, flat}, angle)
	}
	return NewGradient(stops, angle)
}

// renderFrame draws content inside a gradient frame. width and height
// are outer dimensions including the border cells. Content lines are
// clipped and padded to the inner width; missing lines render blank.
func renderFrame(content string, width, height int, g Gradient) string {
	if width < 3 || height < 3 {
		return content
	}

	contentWidth := width - 2 - 2*panelPadding
	if contentWidth < 0 {
		contentWidth = 0
	}
	pad := strings.Repeat(" ", panelPadding)
	lines := strings.Split(content, "\n")

	var sb strings.Builder
	frameEdge(&sb, frameTL, frameTR, 0, width, height, g)
	sb.WriteByte('\n')

	for y := 1; y < height-1; y++ {
		var line string
		if y-1 < len(lines) {
			line = lines[y-1]
		}
		line = ansi.Truncate(line, contentWidth, "")
		if fill := contentWidth - ansi.StringWidth(line); fill > 0 {
			line += strings.Repeat(" ", fill)
		}
		sb.WriteString(paint(frameV, g.ColorAt(g.PositionAt(0, y, width, height))))
		sb.WriteString(pad)
		sb.WriteString(line)
		sb.WriteString(pad)
		sb.WriteString(paint(frameV, g.ColorAt(g.PositionAt(width-1, y, width, height))))
		sb.WriteByte('\n')
	}

	frameEdge(&sb, frameBL, frameBR, height-1, width, height, g)
	return sb.String()
}

// frameEdge writes one horizontal border row at y, coloring every cell
// by its position along the gradient axis.
func frameEdge(sb *strings.Builder, left, right string, y, width, height int, g Gradient) {
	sb.WriteString(paint(left, g.ColorAt(g.PositionAt(0, y, width, height))))
	for x := 1; x < width-1; x++ {
		sb.WriteString(paint(frameH, g.ColorAt(g.PositionAt(x, y, width, height))))
	}
	sb.WriteString(paint(right, g.ColorAt(g.PositionAt(width-1, y, width, height))))
}

// paint wraps a border rune in the 24-bit color escape for its cell.
func paint(s string, c RGB) string {
	return c.ToANSI() + s + ANSIReset
}
