package navigator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vroablec/notebook-navigator-sub013/internal/keymap"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
	"github.com/vroablec/notebook-navigator-sub013/internal/ui"
)

const (
	headerHeight = 2 // title line + spacing
	footerHeight = 1
	minWidth     = 80
	minHeight    = 24

	// Pane width floor. The percent split is clamped so neither pane
	// collapses below a usable size.
	minTreeCols = 20
	minListCols = 40
)

// recalcTreeWidth derives the tree pane's column width from the percent
// split. The list pane gets the rest minus one divider column.
func (m *Model) recalcTreeWidth() {
	w := m.width * m.treeWidthPct / 100
	if max := m.width - minListCols - 1; w > max {
		w = max
	}
	if w < minTreeCols {
		w = minTreeCols
	}
	m.treeWidth = w
}

// paneHeight is the outer height of the two panes.
func (m *Model) paneHeight() int {
	h := m.height - headerHeight
	if m.showFooter {
		h -= footerHeight
	}
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the full screen: header, tree and list panes, optional
// footer, then whichever overlay is up. An open menu or modal registers
// its own hit regions inside Render; only when nothing covers the panes
// does the main surface register its regions.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(msg))
	}

	bodyH := m.paneHeight()
	listW := m.width - m.treeWidth - 1
	overlayUp := m.menus.Active() || m.preview != nil

	treePane := styles.RenderPanel(m.renderTreePane(m.treeWidth, bodyH),
		m.treeWidth, bodyH, !overlayUp && m.activePane == PaneTree)
	listPane := styles.RenderPanel(m.renderListPane(listW, bodyH),
		listW, bodyH, !overlayUp && m.activePane == PaneList)
	body := lipgloss.JoinHorizontal(lipgloss.Top, treePane, ui.RenderDivider(bodyH), listPane)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString(body)
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	bg := b.String()

	switch {
	case m.menus.ActiveMenu() != nil:
		mn := m.menus.ActiveMenu()
		box := mn.Render(m.width, m.height, m.mouse)
		x, y := mn.Pos()
		return ui.OverlayAnchored(bg, box, x, y, m.width, m.height)
	case m.menus.ActiveModal() != nil:
		box := m.menus.ActiveModal().Render(m.width, m.height, m.mouse)
		return ui.OverlayModal(bg, box, m.width, m.height)
	case m.preview != nil:
		m.mouse.HitMap.Clear()
		return ui.OverlayModal(bg, m.renderPreview(), m.width, m.height)
	}

	m.registerRegions(bodyH, listW)
	return bg
}

// registerRegions rebuilds the hit map for the main surface. Hit tests
// walk regions in reverse, so rows are added after their panes and win.
//
// The pane boxes start at y=headerHeight. RenderPanel puts content at
// (x+2, y+1): one border row above, border plus padding on the left.
func (m *Model) registerRegions(bodyH, listW int) {
	hm := m.mouse.HitMap
	hm.Clear()

	hm.AddRect(regionTreePane, 0, headerHeight, m.treeWidth, bodyH, nil)
	hm.AddRect(regionDivider, m.treeWidth, headerHeight, 1, bodyH, nil)
	hm.AddRect(regionListPane, m.treeWidth+1, headerHeight, listW, bodyH, nil)

	treeContentW := m.treeWidth - 4
	end := m.treeScroll + m.treeVisibleRows()
	if end > len(m.treeRows) {
		end = len(m.treeRows)
	}
	for i := m.treeScroll; i < end; i++ {
		hm.AddRect(regionTreeRow, 2, headerHeight+1+(i-m.treeScroll), treeContentW, 1, i)
	}

	// List content: label line, search line, then the rows.
	listX := m.treeWidth + 3
	listContentW := listW - 4
	hm.AddRect(regionSearch, listX, headerHeight+2, listContentW, 1, nil)
	for _, ve := range m.visibleListEntries() {
		hm.AddRect(regionListEntry, listX, headerHeight+3+ve.y, listContentW, ve.height, ve.index)
	}
}

// menuAnchor picks a screen position for a keyboard-opened context
// menu: just under the cursor row, indented into the pane.
func (m *Model) menuAnchor() (x, y int) {
	if m.activePane == PaneTree {
		return 6, headerHeight + 2 + (m.treeCursor - m.treeScroll)
	}
	y = headerHeight + 4
	for _, ve := range m.visibleListEntries() {
		if ve.index == m.listCursor {
			y = headerHeight + 4 + ve.y
			break
		}
	}
	return m.treeWidth + 6, y
}

// renderHeader renders the top bar: vault name left, index status right.
func (m *Model) renderHeader() string {
	title := styles.Title.Render(" ◆ " + filepath.Base(m.vault.Dir()))

	var right string
	if m.scanning {
		right = styles.Muted.Render("indexing...")
	} else {
		right = styles.Muted.Render(fmt.Sprintf("%d files", m.vault.FileCount()))
	}
	right += " "

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	header := title + strings.Repeat(" ", spacing) + right
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(header)
}

// renderFooter renders the bottom bar: key hints left, toast or hover
// hint center, sort state right.
func (m *Model) renderFooter() string {
	var status string
	switch {
	case m.statusMsg != "" && m.statusIsError:
		status = styles.ToastError.Render(m.statusMsg)
	case m.statusMsg != "":
		status = styles.ToastSuccess.Render(m.statusMsg)
	case m.hoverHint != "":
		status = styles.Muted.Render(m.hoverHint)
	}

	info := m.footerInfo()

	statusWidth := lipgloss.Width(status)
	infoWidth := lipgloss.Width(info)
	hintsStr := renderHintLineTruncated(m.footerHints(), m.width-statusWidth-infoWidth-4)

	spacing := m.width - lipgloss.Width(hintsStr) - statusWidth - infoWidth
	if spacing < 0 {
		spacing = 0
	}

	footer := hintsStr + strings.Repeat(" ", spacing/2) + status + strings.Repeat(" ", spacing-(spacing/2)) + info
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

// footerInfo summarizes the list state: active sort plus mode markers.
func (m *Model) footerInfo() string {
	parts := []string{sortLabel(m.sortOrder())}
	if m.includeDesc {
		parts = append(parts, "sub")
	}
	if m.showHidden {
		parts = append(parts, "hidden")
	}
	return styles.Muted.Render(strings.Join(parts, " · ") + " ")
}

// sortLabel turns a sort order value into a short footer label.
func sortLabel(order string) string {
	field, dir, ok := strings.Cut(order, "-")
	if !ok {
		return order
	}
	arrow := "↓"
	if dir == "asc" {
		arrow = "↑"
	}
	return field + " " + arrow
}

type footerHint struct {
	keys  string
	label string
}

// footerHints picks the hints for the active key context. Keys come
// from the registry so user overrides show up in the footer too.
func (m *Model) footerHints() []footerHint {
	ctx := m.keyContext()
	var hints []footerHint
	add := func(command, label string) {
		keys := m.keymap.KeysForCommand(command, ctx)
		if len(keys) == 0 {
			return
		}
		hints = append(hints, footerHint{keys: keys[0], label: label})
	}

	switch ctx {
	case keymap.ContextTree:
		add("select", "open")
		add("toggle-expand", "fold")
		add("create-note", "new")
		add("rename", "rename")
		add("delete", "delete")
		add("context-menu", "menu")
		add("search", "search")
		add("switch-pane", "pane")
	case keymap.ContextList:
		add("preview", "preview")
		add("open-editor", "edit")
		add("create-note", "new")
		add("toggle-pin", "pin")
		add("add-tag", "tag")
		add("context-menu", "menu")
		add("search", "search")
		add("switch-pane", "pane")
	case keymap.ContextSearch:
		add("confirm", "apply")
		add("cancel", "close")
	case keymap.ContextPreview:
		add("scroll-down", "scroll")
		add("open-editor", "edit")
		add("close", "close")
	case keymap.ContextMenu:
		add("select", "select")
		add("close", "close")
	case keymap.ContextPrompt:
		add("confirm", "confirm")
		add("cancel", "close")
	}
	add("quit", "quit")
	return hints
}

// renderHintLineTruncated renders hints until they stop fitting.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for i, hint := range hints {
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if i > 0 {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}
