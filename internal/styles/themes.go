package styles

import (
	"regexp"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects currentTheme. Theme application itself happens
// before the program loop starts, so style variables are read without
// locking afterwards.
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`
	BorderMuted  string `json:"borderMuted"`

	// Gradient border colors (for angled gradient borders on panes)
	GradientBorderActive []string `json:"gradientBorderActive"` // Colors for active pane gradient
	GradientBorderNormal []string `json:"gradientBorderNormal"` // Colors for inactive pane gradient
	GradientBorderAngle  float64  `json:"gradientBorderAngle"`  // Angle in degrees (default: 30)

	// Item accents
	Tag string `json:"tag"` // Tag text and pill accent
	Pin string `json:"pin"` // Pin indicator

	// Toast foregrounds
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	// Third-party theme names
	SyntaxTheme   string `json:"syntaxTheme"`   // Chroma theme name
	MarkdownTheme string `json:"markdownTheme"` // Glamour theme name
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	// DefaultTheme is the current dark theme
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			// Brand colors
			Primary:   "#7C3AED", // Purple
			Secondary: "#3B82F6", // Blue
			Accent:    "#F59E0B", // Amber

			// Status colors
			Success: "#10B981", // Green
			Warning: "#F59E0B", // Amber
			Error:   "#EF4444", // Red
			Info:    "#3B82F6", // Blue

			// Text colors
			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextSubtle:    "#4B5563",

			// Background colors
			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			// Border colors
			BorderNormal: "#374151",
			BorderActive: "#7C3AED",
			BorderMuted:  "#1F2937",

			// Gradient border colors (purple → blue, 30° angle)
			GradientBorderActive: []string{"#7C3AED", "#3B82F6"},
			GradientBorderNormal: []string{"#374151", "#2D3748"},
			GradientBorderAngle:  30.0,

			// Item accents
			Tag: "#2DD4BF", // Teal
			Pin: "#F59E0B", // Amber

			// Toast foregrounds
			ToastSuccessText: "#000000", // Black on green
			ToastErrorText:   "#FFFFFF", // White on red

			// Third-party themes
			SyntaxTheme:   "monokai",
			MarkdownTheme: "dark",
		},
	}

	// DraculaTheme is a Dracula-inspired dark theme with vibrant colors
	DraculaTheme = Theme{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			// Brand colors - Dracula palette
			Primary:   "#BD93F9", // Purple
			Secondary: "#8BE9FD", // Cyan
			Accent:    "#FFB86C", // Orange

			// Status colors
			Success: "#50FA7B", // Green
			Warning: "#FFB86C", // Orange
			Error:   "#FF5555", // Red
			Info:    "#8BE9FD", // Cyan

			// Text colors
			TextPrimary:   "#F8F8F2", // Foreground
			TextSecondary: "#BFBFBF",
			TextMuted:     "#6272A4", // Comment
			TextSubtle:    "#44475A", // Current Line

			// Background colors
			BgPrimary:   "#282A36", // Background
			BgSecondary: "#343746",
			BgTertiary:  "#44475A", // Current Line

			// Border colors
			BorderNormal: "#44475A",
			BorderActive: "#BD93F9",
			BorderMuted:  "#343746",

			// Gradient border colors (purple → cyan, 30° angle)
			GradientBorderActive: []string{"#BD93F9", "#8BE9FD"},
			GradientBorderNormal: []string{"#44475A", "#383A4A"},
			GradientBorderAngle:  30.0,

			// Item accents
			Tag: "#50FA7B", // Green
			Pin: "#FFB86C", // Orange

			// Toast foregrounds
			ToastSuccessText: "#282A36", // Dark bg on green
			ToastErrorText:   "#F8F8F2", // Light on red

			// Third-party themes
			SyntaxTheme:   "dracula",
			MarkdownTheme: "dark",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"dracula": DraculaTheme,
}

// currentTheme tracks the active theme name
var currentTheme = "default"

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// themeByName returns a registered theme. Unknown names yield the
// default theme so a typo in settings still produces a usable palette.
func themeByName(name string) Theme {
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentTheme returns the currently active theme
func GetCurrentTheme() Theme {
	themeMu.RLock()
	name := currentTheme
	themeMu.RUnlock()
	return themeByName(name)
}

// GetSyntaxTheme returns the current syntax highlighting theme name
func GetSyntaxTheme() string {
	return CurrentSyntaxTheme
}

// GetMarkdownTheme returns the current markdown rendering theme name
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}

// ApplyTheme activates a theme by name, applies per-color overrides
// from settings, and rebuilds every style in the package.
//
// Not safe against concurrent style reads. Call it during startup,
// before the program loop renders anything.
func ApplyTheme(name string, overrides map[string]string) {
	theme := themeByName(name)
	applyOverrides(&theme.Colors, overrides)
	applyThemeColors(theme.Colors)
	themeMu.Lock()
	currentTheme = name
	themeMu.Unlock()
}

// paletteFields maps settings override keys to palette fields. Keys
// mirror the palette's JSON tags.
var paletteFields = map[string]func(*ColorPalette) *string{
	"primary":          func(p *ColorPalette) *string { return &p.Primary },
	"secondary":        func(p *ColorPalette) *string { return &p.Secondary },
	"accent":           func(p *ColorPalette) *string { return &p.Accent },
	"success":          func(p *ColorPalette) *string { return &p.Success },
	"warning":          func(p *ColorPalette) *string { return &p.Warning },
	"error":            func(p *ColorPalette) *string { return &p.Error },
	"info":             func(p *ColorPalette) *string { return &p.Info },
	"textPrimary":      func(p *ColorPalette) *string { return &p.TextPrimary },
	"textSecondary":    func(p *ColorPalette) *string { return &p.TextSecondary },
	"textMuted":        func(p *ColorPalette) *string { return &p.TextMuted },
	"textSubtle":       func(p *ColorPalette) *string { return &p.TextSubtle },
	"bgPrimary":        func(p *ColorPalette) *string { return &p.BgPrimary },
	"bgSecondary":      func(p *ColorPalette) *string { return &p.BgSecondary },
	"bgTertiary":       func(p *ColorPalette) *string { return &p.BgTertiary },
	"borderNormal":     func(p *ColorPalette) *string { return &p.BorderNormal },
	"borderActive":     func(p *ColorPalette) *string { return &p.BorderActive },
	"borderMuted":      func(p *ColorPalette) *string { return &p.BorderMuted },
	"tag":              func(p *ColorPalette) *string { return &p.Tag },
	"pin":              func(p *ColorPalette) *string { return &p.Pin },
	"toastSuccessText": func(p *ColorPalette) *string { return &p.ToastSuccessText },
	"toastErrorText":   func(p *ColorPalette) *string { return &p.ToastErrorText },
	"syntaxTheme":      func(p *ColorPalette) *string { return &p.SyntaxTheme },
	"markdownTheme":    func(p *ColorPalette) *string { return &p.MarkdownTheme },
}

// applyOverrides writes validated overrides into the palette. Unknown
// keys and invalid hex values are silently ignored. syntaxTheme and
// markdownTheme carry theme names, not colors, and skip validation.
func applyOverrides(p *ColorPalette, overrides map[string]string) {
	for key, value := range overrides {
		field, ok := paletteFields[key]
		if !ok {
			continue
		}
		if key != "syntaxTheme" && key != "markdownTheme" && !IsValidHexColor(value) {
			continue
		}
		*field(p) = value
	}
}

// applyThemeColors writes palette colors into the package color
// variables and rebuilds the derived styles.
func applyThemeColors(c ColorPalette) {
	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	Info = lipgloss.Color(c.Info)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)
	BorderMuted = lipgloss.Color(c.BorderMuted)

	TagColor = lipgloss.Color(c.Tag)
	PinColor = lipgloss.Color(c.Pin)
	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	CurrentSyntaxTheme = c.SyntaxTheme
	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles()
}

// rebuildStyles recreates the derived lipgloss styles from the current
// color variables, in the same order styles.go declares them.
func rebuildStyles() {
	// Navigation tree styles
	TreeFolder = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	TreeTag = lipgloss.NewStyle().
		Foreground(TagColor)

	TreeProperty = lipgloss.NewStyle().
		Foreground(TextSecondary)

	TreeVirtual = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	TreeChevron = lipgloss.NewStyle().
		Foreground(TextMuted)

	TreeGuide = lipgloss.NewStyle().
		Foreground(TextSubtle)

	TreeCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	TreeSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary)

	TreeSelectedInactive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	TreeHover = lipgloss.NewStyle().
		Background(BgSecondary)

	TreeDropTarget = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary).
		Bold(true).
		Underline(true)

	// File list styles
	ListTitle = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListPreview = lipgloss.NewStyle().
		Foreground(TextMuted)

	ListDate = lipgloss.NewStyle().
		Foreground(TextSecondary)

	ListCrumb = lipgloss.NewStyle().
		Foreground(TextSubtle)

	ListGroupHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	ListPinnedHeader = lipgloss.NewStyle().
		Foreground(PinColor).
		Bold(true)

	ListSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary)

	ListSelectedInactive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	ListExtBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	ListTaskPill = lipgloss.NewStyle().
		Foreground(Warning)

	ListWordCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Search styles
	SearchMatch = lipgloss.NewStyle().
		Background(Warning).
		Foreground(BgSecondary)

	SearchPrompt = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Toast styles
	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Bold(true).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Bold(true).
		Padding(0, 1)

	// Footer and header
	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)

	// Menu, prompt, and picker styles
	ListItemNormal = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgTertiary)

	ListItemFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary)

	ListCursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)

	// Shared text styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)
}
