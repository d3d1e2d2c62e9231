package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// ListItem represents an item in a list section.
type ListItem struct {
	ID    string // Unique identifier for this item
	Label string // Display text
	Data  any    // Optional associated data
}

// ListOption is a functional option for List sections.
type ListOption func(*listSection)

// listSection renders a scrollable list of items.
type listSection struct {
	id           string
	items        []ListItem
	selectedIdx  *int // Pointer to allow external control
	maxVisible   int  // Maximum number of visible items
	scrollOffset int  // Current scroll position
	singleFocus  bool // If true, the list is one focusable and j/k move the selection
}

// List creates a list section with selectable items.
// selectedIdx is a pointer to the currently selected index (can be nil for no selection).
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) Section {
	s := &listSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
		maxVisible:  5,
		singleFocus: true, // Default: Tab skips between sections, j/k changes selection
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxVisible sets the maximum number of visible items.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		if n > 0 {
			s.maxVisible = n
		}
	}
}

// WithPerItemFocus makes every item its own focusable so Tab cycles through
// them individually instead of treating the list as one unit.
func WithPerItemFocus() ListOption {
	return func(s *listSection) {
		s.singleFocus = false
	}
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: styles.Muted.Render("(no items)")}
	}

	visibleCount := min(s.maxVisible, len(s.items))
	selectedIdx := 0
	if s.selectedIdx != nil {
		selectedIdx = *s.selectedIdx
	}

	// Keep the selection inside the visible window
	if selectedIdx < s.scrollOffset {
		s.scrollOffset = selectedIdx
	} else if selectedIdx >= s.scrollOffset+visibleCount {
		s.scrollOffset = selectedIdx - visibleCount + 1
	}
	maxScroll := max(0, len(s.items)-visibleCount)
	s.scrollOffset = clamp(s.scrollOffset, 0, maxScroll)

	listHasFocus := s.singleFocus && focusID == s.id

	var sb strings.Builder
	focusables := make([]FocusableInfo, 0, visibleCount)

	for i := 0; i < visibleCount; i++ {
		itemIdx := s.scrollOffset + i
		if itemIdx >= len(s.items) {
			break
		}

		item := s.items[itemIdx]
		isSelected := s.selectedIdx != nil && *s.selectedIdx == itemIdx

		var style lipgloss.Style
		switch {
		case isSelected:
			style = styles.ListItemFocused
		case item.ID == hoverID:
			style = styles.ListItemSelected
		default:
			style = styles.ListItemNormal
		}

		cursor := "  "
		if isSelected {
			if listHasFocus {
				cursor = styles.ListCursor.Render("▸ ")
			} else {
				cursor = styles.ListCursor.Render("> ")
			}
		}

		line := cursor + style.Render(item.Label)
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)

		if !s.singleFocus {
			focusables = append(focusables, FocusableInfo{
				ID:      item.ID,
				OffsetX: 0,
				OffsetY: i,
				Width:   ansi.StringWidth(line),
				Height:  1,
			})
		}
	}

	// In singleFocus mode the whole list registers once
	if s.singleFocus && len(focusables) == 0 {
		focusables = append(focusables, FocusableInfo{
			ID:      s.id,
			OffsetX: 0,
			OffsetY: 0,
			Width:   contentWidth,
			Height:  visibleCount,
		})
	}

	content := sb.String()
	if s.scrollOffset > 0 {
		content = styles.Muted.Render("↑ more above") + "\n" + content
		// Focusable offsets shift down one line for the indicator
		for i := range focusables {
			focusables[i].OffsetY++
		}
	}
	if s.scrollOffset+visibleCount < len(s.items) {
		content = content + "\n" + styles.Muted.Render("↓ more below")
	}

	return RenderedSection{
		Content:    content,
		Focusables: focusables,
	}
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	isFocused := false
	if s.singleFocus {
		isFocused = focusID == s.id
	} else {
		for _, item := range s.items {
			if item.ID == focusID {
				isFocused = true
				break
			}
		}
	}
	if !isFocused || s.selectedIdx == nil {
		return "", nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}

	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}

	case "home":
		*s.selectedIdx = 0

	case "end":
		*s.selectedIdx = len(s.items) - 1

	case "enter":
		if *s.selectedIdx >= 0 && *s.selectedIdx < len(s.items) {
			return s.items[*s.selectedIdx].ID, nil
		}
	}

	return "", nil
}
