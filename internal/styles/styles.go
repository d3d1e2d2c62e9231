package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	// Primary colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Error   = lipgloss.Color("#EF4444") // Red
	Info    = lipgloss.Color("#3B82F6") // Blue

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	// Background colors
	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	// Border colors
	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")
	BorderMuted  = lipgloss.Color("#1F2937")

	// Item accents
	TagColor = lipgloss.Color("#2DD4BF") // Tag text and pill accent
	PinColor = lipgloss.Color("#F59E0B") // Pin indicator

	// Toast foregrounds
	ToastSuccessTextColor = lipgloss.Color("#000000")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")

	// Third-party theme names (updated by ApplyTheme)
	CurrentSyntaxTheme   = "monokai"
	CurrentMarkdownTheme = "dark"
)

// Navigation tree styles
var (
	// Folder names
	TreeFolder = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Tag names
	TreeTag = lipgloss.NewStyle().
		Foreground(TagColor)

	// Property keys and values
	TreeProperty = lipgloss.NewStyle().
			Foreground(TextSecondary)

	// Virtual folders (untagged, no value)
	TreeVirtual = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	// Expand/collapse chevrons and item icons
	TreeChevron = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Ancestor guide lines in indentation
	TreeGuide = lipgloss.NewStyle().
			Foreground(TextSubtle)

	// Note counts after item names
	TreeCount = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Selected row in the focused pane
	TreeSelected = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary)

	// Selected row when the other pane has focus
	TreeSelectedInactive = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(BgTertiary)

	// Hovered row
	TreeHover = lipgloss.NewStyle().
			Background(BgSecondary)

	// Row targeted by an active drag
	TreeDropTarget = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(BgTertiary).
			Bold(true).
			Underline(true)
)

// File list styles
var (
	// Note titles
	ListTitle = lipgloss.NewStyle().
			Foreground(TextPrimary)

	// Preview text under the title
	ListPreview = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Modification dates
	ListDate = lipgloss.NewStyle().
			Foreground(TextSecondary)

	// Parent folder crumb shown in descendant mode
	ListCrumb = lipgloss.NewStyle().
			Foreground(TextSubtle)

	// Date group headers (Today, Yesterday, ...)
	ListGroupHeader = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Bold(true)

	// Pinned section header
	ListPinnedHeader = lipgloss.NewStyle().
				Foreground(PinColor).
				Bold(true)

	// Selected row in the focused pane
	ListSelected = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(Primary)

	// Selected row when the other pane has focus
	ListSelectedInactive = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(BgTertiary)

	// Non-markdown extension badge
	ListExtBadge = lipgloss.NewStyle().
			Foreground(TextMuted).
			Background(BgTertiary).
			Padding(0, 1)

	// Task progress pill (unfinished tasks)
	ListTaskPill = lipgloss.NewStyle().
			Foreground(Warning)

	// Word count pill
	ListWordCount = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// Search styles
var (
	// Match highlighting inside names
	SearchMatch = lipgloss.NewStyle().
			Background(Warning).
			Foreground(lipgloss.Color("#1F2937"))

	// Search input decoration
	SearchPrompt = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Toast styles for transient status messages
var (
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
)

// Footer and header
var (
	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)
)

// Menu, prompt, and picker styles
var (
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

	// Danger button styles (for destructive actions like delete)
	ButtonDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FCA5A5")). // Light red text
			Background(lipgloss.Color("#7F1D1D")). // Dark red background
			Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")). // White text
				Background(lipgloss.Color("#DC2626")). // Red background
				Padding(0, 2).
				Bold(true)
)

// Shared text styles
var (
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
)

// RenderPill renders a rounded-feel metadata pill with the given
// background accent. Text color is chosen for contrast against the
// accent so user-picked colors stay readable.
func RenderPill(label, accentHex string) string {
	if accentHex == "" {
		return lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(BgTertiary).
			Render(" " + label + " ")
	}

	bg := HexToRGB(accentHex)
	fg := ReadableTextOn(bg)
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(accentHex))
	return style.Render(" " + label + " ")
}

// RenderTagPill renders a tag pill using the tag accent unless the
// user assigned a color to this tag.
func RenderTagPill(label, accentHex string) string {
	if accentHex == "" {
		return lipgloss.NewStyle().
			Foreground(TagColor).
			Background(BgTertiary).
			Render(" " + label + " ")
	}
	return RenderPill(label, accentHex)
}

// AccentForeground returns a foreground style for a user accent color,
// falling back to the given default style when the accent is unset.
func AccentForeground(accentHex string, fallback lipgloss.Style) lipgloss.Style {
	if accentHex == "" {
		return fallback
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex))
}
