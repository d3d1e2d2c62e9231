package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#FF5500", true},
		{"#aabbcc", true},
		{"#AbCdEf", true},
		{"#00000080", true}, // alpha suffix tolerated
		{"#FFF", false},     // short form not accepted
		{"#FF55001", false},
		{"FF5500", false}, // missing hash
		{"#GGGGGG", false},
		{"#FF 550", false},
		{"", false},
		{"#", false},
	}

	for _, tt := range tests {
		if got := IsValidHexColor(tt.input); got != tt.valid {
			t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestThemeByNameFallsBack(t *testing.T) {
	if got := themeByName("dracula").Name; got != "dracula" {
		t.Errorf("themeByName(dracula) = %q", got)
	}
	if got := themeByName("no-such-theme").Name; got != "default" {
		t.Errorf("unknown theme resolved to %q, want default", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	p := DefaultTheme.Colors

	// "tag" carries an invalid hex and "unknownKey" has no palette
	// field, so both are ignored. syntaxTheme is a theme name and
	// skips hex validation.
	applyOverrides(&p, map[string]string{
		"primary":     "#123456",
		"tag":         "nonsense",
		"syntaxTheme": "github-dark",
		"unknownKey":  "#FFFFFF",
	})

	if p.Primary != "#123456" {
		t.Errorf("Primary = %q, want override", p.Primary)
	}
	if p.Tag != DefaultTheme.Colors.Tag {
		t.Errorf("invalid override changed Tag to %q", p.Tag)
	}
	if p.SyntaxTheme != "github-dark" {
		t.Errorf("SyntaxTheme = %q, want github-dark", p.SyntaxTheme)
	}
}

func TestApplyThemeRebuildsStyles(t *testing.T) {
	defer ApplyTheme("default", nil)

	ApplyTheme("dracula", map[string]string{"primary": "#010203"})

	if Primary != lipgloss.Color("#010203") {
		t.Errorf("Primary = %v, want overridden color", Primary)
	}
	if GetCurrentTheme().Name != "dracula" {
		t.Errorf("current theme = %q", GetCurrentTheme().Name)
	}
	if GetSyntaxTheme() != "dracula" {
		t.Errorf("syntax theme = %q", GetSyntaxTheme())
	}
	if TagColor != lipgloss.Color("#50FA7B") {
		t.Errorf("TagColor = %v, want dracula green", TagColor)
	}
	// Styles derived from Primary pick up the override.
	if ListItemFocused.GetBackground() != lipgloss.Color("#010203") {
		t.Errorf("ListItemFocused background = %v", ListItemFocused.GetBackground())
	}
}
