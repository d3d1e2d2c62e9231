package thumbs

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ClampAspect returns the width:height ratio of bounds clamped into the
// 16:9 band, so panoramas and tall captures keep rows usable. Degenerate
// bounds fall back to 16:9.
func ClampAspect(b image.Rectangle) float64 {
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return 16.0 / 9.0
	}
	ratio := float64(w) / float64(h)
	return min(max(ratio, 9.0/16.0), 16.0/9.0)
}

// CellSize fits the clamped image into cols terminal columns, translating
// the roughly 2:1 cell shape into a row count of at least 1.
func CellSize(b image.Rectangle, cols int) (int, int) {
	if cols < 1 {
		cols = 1
	}
	rows := int(math.Round(float64(cols) / ClampAspect(b) / 2))
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// Blocks renders a decoded thumbnail as half-block cells, two vertical
// pixels per cell via nearest-neighbor sampling. Sized by CellSize the
// output stays a handful of cells, cheap enough to memoize per row.
func Blocks(img image.Image, cols, rows int) string {
	if img == nil || cols < 1 || rows < 1 {
		return ""
	}
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := sampleHex(img, x, 2*y, cols, rows*2)
			bot := sampleHex(img, x, 2*y+1, cols, rows*2)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bot)).
				Render("▀")
			b.WriteString(cell)
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sampleHex(img image.Image, x, y, w, h int) string {
	bo := img.Bounds()
	sx := bo.Min.X + x*bo.Dx()/w
	sy := bo.Min.Y + y*bo.Dy()/h
	r, g, bl, _ := img.At(sx, sy).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(bl>>8))
}
