package styles

import (
	"fmt"
	"math"
)

// ANSIReset clears all active terminal attributes.
const ANSIReset = "\x1b[0m"

// RGB is a color in 0-255 float components. Floats keep gradient
// interpolation exact until the final byte conversion.
type RGB struct {
	R, G, B float64
}

// ToANSI returns the 24-bit foreground escape sequence for the color.
func (c RGB) ToANSI() string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", int(c.R), int(c.G), int(c.B))
}

// ToANSIBackground returns the 24-bit background escape sequence.
func (c RGB) ToANSIBackground() string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", int(c.R), int(c.G), int(c.B))
}

// Hex returns the #rrggbb form of the color.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", int(c.R), int(c.G), int(c.B))
}

// HexToRGB parses #RRGGBB (alpha suffix tolerated and ignored).
// Invalid input returns mid gray so a bad theme value stays visible
// rather than invisible.
func HexToRGB(hex string) RGB {
	if len(hex) != 7 && len(hex) != 9 {
		return RGB{128, 128, 128}
	}
	if hex[0] != '#' {
		return RGB{128, 128, 128}
	}
	r := hexByte(hex[1], hex[2])
	g := hexByte(hex[3], hex[4])
	b := hexByte(hex[5], hex[6])
	if r < 0 || g < 0 || b < 0 {
		return RGB{128, 128, 128}
	}
	return RGB{float64(r), float64(g), float64(b)}
}

func hexByte(hi, lo byte) int {
	h := hexVal(hi)
	l := hexVal(lo)
	if h < 0 || l < 0 {
		return -1
	}
	return h<<4 | l
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

// Item accent colors users can assign to folders, tags, and files.
// Keys are the stable names persisted in vault metadata.
var ItemAccents = map[string]string{
	"red":    "#E5484D",
	"orange": "#F76B15",
	"yellow": "#FFC53D",
	"green":  "#46A758",
	"cyan":   "#00A2C7",
	"blue":   "#0090FF",
	"purple": "#8E4EC6",
	"pink":   "#D6409F",
	"gray":   "#8D8D8D",
}

// ItemAccentNames lists accent names in picker order.
var ItemAccentNames = []string{
	"red", "orange", "yellow", "green", "cyan", "blue", "purple", "pink", "gray",
}

// ItemAccent resolves an accent name or raw hex color to a hex color.
// Unknown names return the empty string so callers fall back to the
// default foreground.
func ItemAccent(name string) string {
	if hex, ok := ItemAccents[name]; ok {
		return hex
	}
	if IsValidHexColor(name) {
		return name
	}
	return ""
}

// ReadableTextOn picks black or white text for the given background,
// whichever clears the higher WCAG contrast ratio.
func ReadableTextOn(bg RGB) RGB {
	white := RGB{249, 250, 251}
	black := RGB{17, 24, 39}
	if contrastRatio(white, bg) >= contrastRatio(black, bg) {
		return white
	}
	return black
}

// contrastRatio is the WCAG contrast between two colors, from 1
// (identical) up to 21 (black on white).
func contrastRatio(a, b RGB) float64 {
	la := luminance(a) + 0.05
	lb := luminance(b) + 0.05
	if la < lb {
		la, lb = lb, la
	}
	return la / lb
}

func luminance(c RGB) float64 {
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

// channel linearizes one sRGB component given in 0-255.
func channel(v float64) float64 {
	v /= 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Dim scales a color toward black by factor (0 keeps, 1 blacks out).
func Dim(c RGB, factor float64) RGB {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	k := 1 - factor
	return RGB{c.R * k, c.G * k, c.B * k}
}
