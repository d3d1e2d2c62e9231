package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// buttonGap separates buttons in a row.
const buttonGap = 2

// Button is a clickable action in a Buttons section.
type Button struct {
	label   string
	id      string
	primary bool
	danger  bool
}

// BtnOption configures a Button.
type BtnOption func(*Button)

// Btn creates a button with the given label and action ID.
func Btn(label, id string, opts ...BtnOption) Button {
	b := Button{label: label, id: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BtnPrimary highlights the button as the default action.
func BtnPrimary() BtnOption {
	return func(b *Button) { b.primary = true }
}

// BtnDanger styles the button for destructive actions.
func BtnDanger() BtnOption {
	return func(b *Button) { b.danger = true }
}

// buttonsSection renders a horizontal row of buttons.
type buttonsSection struct {
	buttons []Button
}

// Buttons creates a button row section. Each button becomes a focusable
// element; Enter triggers the focused button's action ID.
func Buttons(btns ...Button) Section {
	return &buttonsSection{buttons: btns}
}

func (s *buttonsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.buttons) == 0 {
		return RenderedSection{}
	}

	parts := make([]string, 0, len(s.buttons))
	focusables := make([]FocusableInfo, 0, len(s.buttons))
	offsetX := 0

	for i, b := range s.buttons {
		active := b.id == focusID || b.id == hoverID
		rendered := buttonStyle(b, active).Render(b.label)
		w := ansi.StringWidth(rendered)

		if i > 0 {
			offsetX += buttonGap
		}
		focusables = append(focusables, FocusableInfo{
			ID:      b.id,
			OffsetX: offsetX,
			OffsetY: 0,
			Width:   w,
			Height:  1,
		})
		offsetX += w
		parts = append(parts, rendered)
	}

	return RenderedSection{
		Content:    strings.Join(parts, strings.Repeat(" ", buttonGap)),
		Focusables: focusables,
	}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || keyMsg.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.id == focusID {
			return b.id, nil
		}
	}
	return "", nil
}

// buttonStyle picks the lipgloss style for a button given its flags and
// whether it is focused or hovered.
func buttonStyle(b Button, active bool) lipgloss.Style {
	switch {
	case b.danger && active:
		return styles.ButtonDangerFocused
	case b.danger:
		return styles.ButtonDanger
	case active:
		return styles.ButtonFocused
	case b.primary:
		return styles.Button.Foreground(styles.TextPrimary).Bold(true)
	default:
		return styles.Button
	}
}
