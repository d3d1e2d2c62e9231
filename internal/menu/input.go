package menu

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// InputOption configures an input section.
type InputOption func(*inputSection)

// WithSubmitOnEnter controls whether Enter on the focused input returns its
// ID as an action (true, the default) or is swallowed so the input keeps
// focus while another element handles submission.
func WithSubmitOnEnter(submit bool) InputOption {
	return func(s *inputSection) { s.submitOnEnter = submit }
}

// inputSection embeds a bubbles textinput as a focusable section.
type inputSection struct {
	id            string
	label         string
	ti            *textinput.Model
	submitOnEnter bool
}

// Input creates a text input section bound to the given textinput model.
// The caller owns the model and reads its Value() after submission.
func Input(id string, ti *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{
		id:            id,
		ti:            ti,
		submitOnEnter: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InputWithLabel creates a text input section with a label line above it.
func InputWithLabel(id, label string, ti *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{
		id:            id,
		label:         label,
		ti:            ti,
		submitOnEnter: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *inputSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	// Sync textinput focus state with modal focus
	if focusID == s.id {
		s.ti.Focus()
	} else {
		s.ti.Blur()
	}
	if contentWidth > 4 {
		s.ti.Width = contentWidth - 4
	}

	content := s.ti.View()
	inputY := 0
	if s.label != "" {
		content = s.label + "\n" + content
		inputY = 1
	}

	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetX: 0,
			OffsetY: inputY,
			Width:   contentWidth,
			Height:  1,
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if s.submitOnEnter {
			return s.id, nil
		}
		return "", nil
	}

	var cmd tea.Cmd
	*s.ti, cmd = s.ti.Update(msg)
	return "", cmd
}

// checkboxSection renders a toggleable checkbox row.
type checkboxSection struct {
	id      string
	label   string
	checked *bool
}

// Checkbox creates a checkbox section bound to the given bool.
func Checkbox(id, label string, checked *bool) Section {
	return &checkboxSection{id: id, label: label, checked: checked}
}

func (s *checkboxSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	box := "[ ]"
	if s.checked != nil && *s.checked {
		box = "[x]"
	}

	style := styles.ListItemNormal
	if s.id == focusID {
		style = styles.ListItemFocused
	} else if s.id == hoverID {
		style = styles.ListItemSelected
	}

	content := style.Render(box + " " + s.label)
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetX: 0,
			OffsetY: 0,
			Width:   ansi.StringWidth(content),
			Height:  1,
		}},
	}
}

func (s *checkboxSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.checked == nil {
		return "", nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	switch keyMsg.String() {
	case "enter", " ":
		*s.checked = !*s.checked
	}
	return "", nil
}
