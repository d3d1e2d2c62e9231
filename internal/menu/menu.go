package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vroablec/notebook-navigator-sub013/internal/mouse"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// Item is one row in a context menu.
type Item struct {
	ID        string
	Label     string
	Shortcut  string // right-aligned key hint
	Danger    bool
	Disabled  bool
	Checked   bool
	Separator bool
	Submenu   []Item
}

// Divider returns a separator row.
func Divider() Item {
	return Item{Separator: true}
}

// itemRef identifies a menu row for hit regions.
type itemRef struct {
	level int // 0 = main menu, 1 = open submenu
	idx   int
}

// minMenuWidth keeps very short menus from collapsing to their labels.
const minMenuWidth = 16

// Menu is a context menu anchored at a screen position. It renders as a
// bordered box at the anchor, clamped to stay on screen, with one level
// of submenus opening to the right of the active row.
type Menu struct {
	items   []Item
	anchorX int
	anchorY int

	cursor    int
	subOpen   bool
	subCursor int

	// Computed during Render; Pos and Size report them for compositing.
	x, y int
	w, h int
}

// NewMenu creates a menu anchored at (x, y) in screen coordinates.
// The cursor starts on the first selectable item.
func NewMenu(items []Item, x, y int) *Menu {
	m := &Menu{
		items:   items,
		anchorX: x,
		anchorY: y,
	}
	m.cursor = firstSelectable(items)
	return m
}

// Pos returns the clamped screen position computed by the last Render.
func (m *Menu) Pos() (x, y int) {
	return m.x, m.y
}

// Size returns the composed box dimensions from the last Render.
func (m *Menu) Size() (w, h int) {
	return m.w, m.h
}

// Render renders the menu (and any open submenu) and registers hit
// regions. The caller composites the returned box at Pos.
func (m *Menu) Render(screenW, screenH int, handler *mouse.Handler) string {
	mainBox, mainContentW := m.renderLevel(m.items, m.cursor, m.subOpen)
	mainW := lipgloss.Width(mainBox)

	composed := mainBox
	subRowOffset := 0
	var subContentW int
	if m.subOpen {
		sub := m.items[m.cursor].Submenu
		subBox, scw := m.renderLevel(sub, m.subCursor, false)
		subContentW = scw

		// Submenu top aligns with the active row
		subRowOffset = 1 + m.cursor
		if subRowOffset > 0 {
			subBox = strings.Repeat("\n", subRowOffset) + subBox
		}
		composed = lipgloss.JoinHorizontal(lipgloss.Top, mainBox, subBox)
	}

	m.w = lipgloss.Width(composed)
	m.h = lipgloss.Height(composed)

	// Clamp to keep the whole box on screen
	m.x = m.anchorX
	m.y = m.anchorY
	if m.x+m.w > screenW {
		m.x = screenW - m.w
	}
	if m.y+m.h > screenH {
		m.y = screenH - m.h
	}
	if m.x < 0 {
		m.x = 0
	}
	if m.y < 0 {
		m.y = 0
	}

	if handler != nil {
		handler.HitMap.Clear()

		// Backdrop dismisses; the box itself absorbs
		handler.HitMap.AddRect("menu-backdrop", 0, 0, screenW, screenH, nil)
		handler.HitMap.AddRect("menu-body", m.x, m.y, m.w, m.h, nil)

		m.registerRows(handler, m.items, 0, m.x, m.y, mainContentW)
		if m.subOpen {
			m.registerRows(handler, m.items[m.cursor].Submenu, 1, m.x+mainW, m.y+subRowOffset, subContentW)
		}
	}

	return composed
}

// registerRows adds a hit region per selectable row of one menu level.
// boxX, boxY address the level's top-left border cell.
func (m *Menu) registerRows(handler *mouse.Handler, items []Item, level, boxX, boxY, contentW int) {
	for i, it := range items {
		if it.Separator {
			continue
		}
		handler.HitMap.AddRect(it.ID, boxX+1, boxY+1+i, contentW+2, 1, itemRef{level: level, idx: i})
	}
}

// HandleKey processes keyboard input. Returns the chosen item's ID,
// "cancel" when the menu should close, or "" when the key was absorbed.
func (m *Menu) HandleKey(msg tea.KeyMsg) string {
	key := msg.String()

	if m.subOpen {
		sub := m.items[m.cursor].Submenu
		switch key {
		case "esc", "h", "left":
			m.subOpen = false
			return ""
		case "up", "k":
			m.subCursor = step(sub, m.subCursor, -1)
			return ""
		case "down", "j":
			m.subCursor = step(sub, m.subCursor, 1)
			return ""
		case "home":
			m.subCursor = firstSelectable(sub)
			return ""
		case "end":
			m.subCursor = lastSelectable(sub)
			return ""
		case "enter":
			if m.subCursor >= 0 && m.subCursor < len(sub) && !sub[m.subCursor].Disabled {
				return sub[m.subCursor].ID
			}
			return ""
		}
		return ""
	}

	switch key {
	case "esc":
		return "cancel"
	case "up", "k":
		m.cursor = step(m.items, m.cursor, -1)
		return ""
	case "down", "j":
		m.cursor = step(m.items, m.cursor, 1)
		return ""
	case "home":
		m.cursor = firstSelectable(m.items)
		return ""
	case "end":
		m.cursor = lastSelectable(m.items)
		return ""
	case "right", "l":
		m.openSubmenu()
		return ""
	case "enter":
		if m.cursor < 0 || m.cursor >= len(m.items) {
			return ""
		}
		it := m.items[m.cursor]
		if it.Disabled {
			return ""
		}
		if len(it.Submenu) > 0 {
			m.openSubmenu()
			return ""
		}
		return it.ID
	}
	return ""
}

// HandleMouse processes mouse input. Returns the chosen item's ID,
// "cancel" when the menu should close, or "".
func (m *Menu) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) string {
	action := handler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionRightClick:
		if action.Region == nil {
			return ""
		}
		switch action.Region.ID {
		case "menu-backdrop":
			return "cancel"
		case "menu-body":
			return ""
		}
		ref, ok := action.Region.Data.(itemRef)
		if !ok {
			return ""
		}
		if ref.level == 1 {
			sub := m.items[m.cursor].Submenu
			if ref.idx < len(sub) && !sub[ref.idx].Disabled {
				m.subCursor = ref.idx
				return sub[ref.idx].ID
			}
			return ""
		}
		if ref.idx >= len(m.items) {
			return ""
		}
		it := m.items[ref.idx]
		if it.Disabled {
			return ""
		}
		m.cursor = ref.idx
		if len(it.Submenu) > 0 {
			m.openSubmenu()
			return ""
		}
		return it.ID

	case mouse.ActionHover:
		if action.Region == nil {
			return ""
		}
		ref, ok := action.Region.Data.(itemRef)
		if !ok {
			return ""
		}
		if ref.level == 1 {
			sub := m.items[m.cursor].Submenu
			if ref.idx < len(sub) && !sub[ref.idx].Disabled {
				m.subCursor = ref.idx
			}
			return ""
		}
		if ref.idx < len(m.items) && !m.items[ref.idx].Disabled {
			// Moving to a different top-level row abandons the submenu
			if m.subOpen && ref.idx != m.cursor {
				m.subOpen = false
			}
			m.cursor = ref.idx
		}
		return ""
	}

	return ""
}

// openSubmenu opens the submenu of the current item, if it has one.
func (m *Menu) openSubmenu() {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	it := m.items[m.cursor]
	if it.Disabled || len(it.Submenu) == 0 {
		return
	}
	m.subOpen = true
	m.subCursor = firstSelectable(it.Submenu)
}

// renderLevel renders one menu level as a bordered box and returns the
// box plus its inner content width.
func (m *Menu) renderLevel(items []Item, cursor int, subOpen bool) (string, int) {
	contentW := minMenuWidth
	for _, it := range items {
		if it.Separator {
			continue
		}
		w := 2 + ansi.StringWidth(it.Label) // check column + label
		if it.Shortcut != "" {
			w += 2 + ansi.StringWidth(it.Shortcut)
		}
		if len(it.Submenu) > 0 {
			w += 2
		}
		if w > contentW {
			contentW = w
		}
	}

	var rows []string
	for i, it := range items {
		if it.Separator {
			sep := lipgloss.NewStyle().Foreground(styles.BorderMuted).Render(strings.Repeat("─", contentW))
			rows = append(rows, sep)
			continue
		}
		active := i == cursor
		rows = append(rows, renderMenuRow(it, active, active && subOpen, contentW))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderActive).
		Background(styles.BgSecondary).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))

	return box, contentW
}

// renderMenuRow renders a single selectable row at the given width.
func renderMenuRow(it Item, active, subOpen bool, contentW int) string {
	prefix := "  "
	if it.Checked {
		prefix = "✓ "
	}

	var right string
	if it.Shortcut != "" {
		right = it.Shortcut
	}
	if len(it.Submenu) > 0 {
		if right != "" {
			right += " "
		}
		right += "▸"
	}

	left := prefix + it.Label
	gap := contentW - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 && right != "" {
		gap = 1
	}
	if gap < 0 {
		gap = 0
	}
	line := left + strings.Repeat(" ", gap) + right

	style := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	switch {
	case it.Disabled:
		style = style.Foreground(styles.TextSubtle)
	case it.Danger && active:
		style = style.Foreground(styles.Error).Background(styles.BgTertiary).Bold(true)
	case it.Danger:
		style = style.Foreground(styles.Error)
	case active && !subOpen:
		style = style.Background(styles.BgTertiary).Bold(true)
	case active && subOpen:
		style = style.Background(styles.BgTertiary)
	}

	return style.Render(line)
}

// firstSelectable returns the index of the first enabled non-separator
// item, or 0 if none exists.
func firstSelectable(items []Item) int {
	for i, it := range items {
		if !it.Separator && !it.Disabled {
			return i
		}
	}
	return 0
}

// lastSelectable returns the index of the last enabled non-separator
// item, or 0 if none exists.
func lastSelectable(items []Item) int {
	for i := len(items) - 1; i >= 0; i-- {
		if !items[i].Separator && !items[i].Disabled {
			return i
		}
	}
	return 0
}

// step moves from idx by direction until the next selectable item,
// staying put at the ends.
func step(items []Item, idx, dir int) int {
	i := idx + dir
	for i >= 0 && i < len(items) {
		if !items[i].Separator && !items[i].Disabled {
			return i
		}
		i += dir
	}
	return idx
}
