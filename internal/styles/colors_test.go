package styles

import (
	"strings"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		r, g, b float64
	}{
		{"black", "#000000", 0, 0, 0},
		{"white", "#FFFFFF", 255, 255, 255},
		{"red", "#FF0000", 255, 0, 0},
		{"lowercase", "#aabbcc", 170, 187, 204},
		{"with alpha", "#11223380", 17, 34, 51},
		{"invalid length", "#FFF", 128, 128, 128},
		{"missing hash", "FFFFFF", 128, 128, 128},
		{"bad digit", "#GGGGGG", 128, 128, 128},
		{"empty", "", 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HexToRGB(tt.input)
			if got.R != tt.r || got.G != tt.g || got.B != tt.b {
				t.Errorf("HexToRGB(%q) = %+v, want {%v %v %v}", tt.input, got, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRGBHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#7c3aed", "#2dd4bf"} {
		if got := HexToRGB(hex).Hex(); got != hex {
			t.Errorf("round trip %q = %q", hex, got)
		}
	}
}

func TestReadableTextOn(t *testing.T) {
	// Dark backgrounds get light text, light backgrounds get dark text.
	onBlack := ReadableTextOn(RGB{0, 0, 0})
	if onBlack.R < 200 {
		t.Errorf("expected light text on black, got %+v", onBlack)
	}

	onWhite := ReadableTextOn(RGB{255, 255, 255})
	if onWhite.R > 100 {
		t.Errorf("expected dark text on white, got %+v", onWhite)
	}

	onYellow := ReadableTextOn(HexToRGB("#FFC53D"))
	if onYellow.R > 100 {
		t.Errorf("expected dark text on yellow, got %+v", onYellow)
	}
}

func TestItemAccent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"named accent", "red", "#E5484D"},
		{"another named", "blue", "#0090FF"},
		{"raw hex passes through", "#123456", "#123456"},
		{"unknown name", "chartreuse", ""},
		{"empty", "", ""},
		{"invalid hex", "#12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemAccent(tt.input); got != tt.want {
				t.Errorf("ItemAccent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestItemAccentNamesAllResolvable(t *testing.T) {
	for _, name := range ItemAccentNames {
		if ItemAccent(name) == "" {
			t.Errorf("accent name %q has no color", name)
		}
	}
}

func TestRenderPillContainsLabel(t *testing.T) {
	out := RenderPill("status", "#E5484D")
	if !strings.Contains(out, "status") {
		t.Errorf("pill output missing label: %q", out)
	}

	plain := RenderPill("draft", "")
	if !strings.Contains(plain, "draft") {
		t.Errorf("accentless pill output missing label: %q", plain)
	}
}

func TestGradientColorAt(t *testing.T) {
	g := NewGradient([]string{"#000000", "#FFFFFF"}, 0)

	start := g.ColorAt(0)
	if start.R != 0 || start.G != 0 || start.B != 0 {
		t.Errorf("expected black at 0, got %+v", start)
	}

	end := g.ColorAt(1)
	if end.R != 255 || end.G != 255 || end.B != 255 {
		t.Errorf("expected white at 1, got %+v", end)
	}

	mid := g.ColorAt(0.5)
	if mid.R < 120 || mid.R > 135 {
		t.Errorf("expected mid gray at 0.5, got %+v", mid)
	}

	// Out-of-range positions clamp to the endpoints.
	if c := g.ColorAt(-1); c.R != 0 {
		t.Errorf("expected clamp to start, got %+v", c)
	}
	if c := g.ColorAt(2); c.R != 255 {
		t.Errorf("expected clamp to end, got %+v", c)
	}
}

func TestGradientPositionAtCorners(t *testing.T) {
	g := NewGradient([]string{"#000000", "#FFFFFF"}, 0)

	// Horizontal gradient: left edge is 0, right edge is 1.
	if pos := g.PositionAt(0, 0, 80, 24); pos != 0 {
		t.Errorf("expected 0 at left edge, got %v", pos)
	}
	if pos := g.PositionAt(79, 0, 80, 24); pos < 0.99 {
		t.Errorf("expected ~1 at right edge, got %v", pos)
	}
}
