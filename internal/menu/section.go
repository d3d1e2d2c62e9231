package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
)

// Section is a composable piece of modal content. Sections render themselves
// at a given width and may expose focusable elements for Tab navigation and
// mouse hit testing.
type Section interface {
	// Render produces the section content. focusID and hoverID identify the
	// currently focused/hovered element so sections can restyle themselves.
	Render(contentWidth int, focusID, hoverID string) RenderedSection

	// Update routes input to the section. Returns an action ID when the
	// section triggers one (button press, input submit) and any tea.Cmd
	// from embedded bubbles models.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// RenderedSection is the output of a section render pass.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// FocusableInfo describes a focusable element's position within its section.
type FocusableInfo struct {
	ID      string
	OffsetX int // Column offset from section left edge
	OffsetY int // Line offset from section top
	Width   int
	Height  int
}

// measureHeight returns the rendered height of content in lines.
// Trailing newlines do not count as extra lines.
func measureHeight(content string) int {
	if content == "" {
		return 0
	}
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// textSection renders static text, wrapped to the content width.
type textSection struct {
	text string
}

// Text creates a static text section.
func Text(s string) Section {
	return &textSection{text: s}
}

func (s *textSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	content := s.text
	if contentWidth > 0 {
		content = cellbuf.Wrap(content, contentWidth, "")
	}
	return RenderedSection{Content: content}
}

func (s *textSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	return "", nil
}

// spacerSection renders a single blank line.
type spacerSection struct{}

// Spacer creates a one-line vertical gap.
func Spacer() Section {
	return spacerSection{}
}

func (spacerSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	return "", nil
}

// customSection wraps render/update funcs into a Section.
type customSection struct {
	render func(contentWidth int, focusID, hoverID string) RenderedSection
	update func(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Custom creates a section from render and update functions.
// update may be nil for display-only sections.
func Custom(render func(contentWidth int, focusID, hoverID string) RenderedSection, update func(msg tea.Msg, focusID string) (string, tea.Cmd)) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if s.render == nil {
		return RenderedSection{}
	}
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// whenSection shows its inner section only while the condition holds.
type whenSection struct {
	cond    func() bool
	section Section
}

// When wraps a section so it renders only while cond returns true.
// Hidden sections contribute no content, no height, and no focusables.
func When(cond func() bool, section Section) Section {
	return &whenSection{cond: cond, section: section}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.section.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.section.Update(msg, focusID)
}
