package styles

import "math"

// DefaultGradientAngle is the border gradient angle in degrees when a
// theme does not set one.
const DefaultGradientAngle = 30.0

// Gradient interpolates between color stops along an angled axis.
type Gradient struct {
	stops []RGB
	angle float64 // degrees, 0 is left-to-right
}

// NewGradient builds a gradient from hex color stops. Fewer than two
// valid stops degrade to a solid gray gradient.
func NewGradient(hexColors []string, angle float64) Gradient {
	stops := make([]RGB, 0, len(hexColors))
	for _, hex := range hexColors {
		stops = append(stops, HexToRGB(hex))
	}
	if len(stops) == 0 {
		stops = []RGB{{128, 128, 128}, {128, 128, 128}}
	}
	if len(stops) == 1 {
		stops = append(stops, stops[0])
	}
	return Gradient{stops: stops, angle: angle}
}

// PositionAt maps a cell position to a 0-1 position along the gradient
// axis. Terminal cells are roughly twice as tall as wide, so y is
// doubled to keep the visual angle correct.
func (g Gradient) PositionAt(x, y, width, height int) float64 {
	if width <= 1 && height <= 1 {
		return 0
	}

	rad := g.angle * math.Pi / 180
	dx := math.Cos(rad)
	dy := math.Sin(rad)

	fx := float64(x)
	fy := float64(y) * 2
	fw := float64(width - 1)
	fh := float64(height-1) * 2
	if fw <= 0 {
		fw = 1
	}
	if fh <= 0 {
		fh = 1
	}

	proj := fx*dx + fy*dy
	maxProj := fw*math.Abs(dx) + fh*math.Abs(dy)
	if maxProj == 0 {
		return 0
	}

	pos := proj / maxProj
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}

// ColorAt interpolates the gradient color at position 0-1.
func (g Gradient) ColorAt(pos float64) RGB {
	if pos <= 0 {
		return g.stops[0]
	}
	if pos >= 1 {
		return g.stops[len(g.stops)-1]
	}

	scaled := pos * float64(len(g.stops)-1)
	idx := int(scaled)
	if idx >= len(g.stops)-1 {
		idx = len(g.stops) - 2
	}
	frac := scaled - float64(idx)

	c1, c2 := g.stops[idx], g.stops[idx+1]
	return RGB{
		R: c1.R + frac*(c2.R-c1.R),
		G: c1.G + frac*(c2.G-c1.G),
		B: c1.B + frac*(c2.B-c1.B),
	}
}
