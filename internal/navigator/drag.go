package navigator

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/mouse"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/rowmodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/state"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Hit-region IDs registered during View. Row regions carry their index
// as Data.
const (
	regionTreePane  = "tree-pane"
	regionListPane  = "list-pane"
	regionDivider   = "pane-divider"
	regionTreeRow   = "tree-row"
	regionListEntry = "list-entry"
	regionSearch    = "search-line"
)

// handleMouse routes raw mouse input: overlays first, then the panes.
func (m *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	if !m.cfg.UI.MouseEnabled {
		return nil
	}
	if mod := m.menus.ActiveModal(); mod != nil {
		action := mod.HandleMouse(message, m.mouse)
		if action == "" {
			return nil
		}
		return m.applyModalAction(action)
	}
	if mn := m.menus.ActiveMenu(); mn != nil {
		return m.applyMenuChoice(mn.HandleMouse(message, m.mouse))
	}

	action := m.mouse.HandleMouse(message)
	if m.preview != nil {
		switch action.Type {
		case mouse.ActionScrollUp, mouse.ActionScrollDown:
			m.previewScroll(action.Delta)
		case mouse.ActionClick:
			m.closePreview()
		}
		return nil
	}
	return m.dispatchMouse(action)
}

func (m *Model) dispatchMouse(action mouse.MouseAction) tea.Cmd {
	switch action.Type {
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		m.scrollAt(action)
		return m.refreshThumbs()
	case mouse.ActionClick:
		return m.mouseClick(action, false)
	case mouse.ActionDoubleClick:
		return m.mouseClick(action, true)
	case mouse.ActionRightClick:
		return m.mouseRightClick(action)
	case mouse.ActionDrag:
		m.mouseDragMove(action)
		return nil
	case mouse.ActionDragEnd:
		return m.mouseDrop(action)
	case mouse.ActionHover:
		m.mouseHover(action)
		return nil
	}
	return nil
}

// mouseHover updates the footer hint for the row under the pointer.
func (m *Model) mouseHover(action mouse.MouseAction) {
	m.hoverHint = ""
	if !m.cfg.UI.ShowHints || action.Region == nil || action.Region.ID != regionTreeRow {
		return
	}
	idx, ok := action.Region.Data.(int)
	if !ok || idx < 0 || idx >= len(m.treeRows) {
		return
	}
	ref := m.treeRows[idx].Ref
	if ref.Kind != noderef.KindFolder {
		return
	}
	f := m.vault.FolderByPath(ref.Path)
	if f == nil {
		return
	}
	m.hoverHint = fmt.Sprintf("%s: %d notes, %d folders", f.Name, len(f.Notes), len(f.Subfolders))
	if f.IsRoot() {
		m.hoverHint = fmt.Sprintf("%d notes, %d folders", len(f.Notes), len(f.Subfolders))
	}
}

// scrollAt wheels the pane under the pointer.
func (m *Model) scrollAt(action mouse.MouseAction) {
	if action.X < m.treeWidth {
		m.ensureTree()
		m.treeScroll += action.Delta
		m.clampTreeScroll(m.treeVisibleRows())
		return
	}
	m.ensureList()
	m.scrollList(action.Delta)
}

func (m *Model) mouseClick(action mouse.MouseAction, double bool) tea.Cmd {
	region := action.Region
	if region == nil {
		return nil
	}
	switch region.ID {
	case regionDivider:
		m.dragDivider = true
		m.mouse.StartDrag(action.X, action.Y, regionDivider, m.treeWidthPct)
		return nil

	case regionSearch:
		return m.openSearch()

	case regionTreeRow:
		idx, ok := region.Data.(int)
		if !ok {
			return nil
		}
		m.activePane = PaneTree
		m.setTreeCursor(idx)
		row := m.cursorRow()
		if row == nil {
			return m.refreshThumbs()
		}
		switch {
		case double:
			if row.Chevron != rowmodel.ChevronNone {
				m.toggleCursorRow()
			}
			m.selectCursorRow(true)
		case action.Alt:
			m.toggleSiblingRows()
		case m.chevronHit(row, action.X):
			m.toggleCursorRow()
		default:
			if row.Drag != nil {
				m.dragSpec = row.Drag
				m.mouse.StartDrag(action.X, action.Y, regionTreeRow, idx)
			}
		}
		return m.refreshThumbs()

	case regionListEntry:
		idx, ok := region.Data.(int)
		if !ok {
			return nil
		}
		m.activePane = PaneList
		m.ensureList()
		if idx < 0 || idx >= len(m.entries) || m.entries[idx].kind != entryFile {
			return nil
		}
		m.listCursor = idx
		m.ensureListCursorVisible()
		path := m.entries[idx].path
		if double {
			return tea.Batch(m.openPreview(path), m.refreshThumbs())
		}
		m.dragSpec = m.fileDragSpec(path)
		m.mouse.StartDrag(action.X, action.Y, regionListEntry, idx)
		return m.refreshThumbs()

	case regionTreePane:
		m.activePane = PaneTree
	case regionListPane:
		m.activePane = PaneList
	}
	return nil
}

// chevronHit reports whether a tree-row click landed on the expansion
// chevron rather than the label.
func (m *Model) chevronHit(row *rowmodel.TreeRow, x int) bool {
	if row.Chevron == rowmodel.ChevronNone {
		return false
	}
	chevronX := 2 + row.Level*2
	return x >= chevronX && x < chevronX+2
}

func (m *Model) fileDragSpec(path string) *rowmodel.DragSpec {
	f := m.vault.FileByPath(path)
	if f == nil {
		return nil
	}
	c := m.controller(path)
	return &rowmodel.DragSpec{
		Ref:    noderef.File(path),
		Title:  c.DisplayName(f.Base),
		Accent: m.palette.Accent(noderef.File(path)),
	}
}

func (m *Model) mouseRightClick(action mouse.MouseAction) tea.Cmd {
	region := action.Region
	if region == nil {
		return nil
	}
	switch region.ID {
	case regionTreeRow:
		if idx, ok := region.Data.(int); ok {
			m.activePane = PaneTree
			m.setTreeCursor(idx)
			if row := m.cursorRow(); row != nil && !isSectionRef(row.Ref) {
				ref := row.Ref
				if ref.Kind == noderef.KindShortcut {
					return nil
				}
				m.openContextMenu(ref, action.X, action.Y)
				return nil
			}
		}
	case regionListEntry:
		if idx, ok := region.Data.(int); ok {
			m.ensureList()
			if idx >= 0 && idx < len(m.entries) && m.entries[idx].kind == entryFile {
				m.activePane = PaneList
				m.listCursor = idx
				m.ensureListCursorVisible()
				m.openContextMenu(noderef.File(m.entries[idx].path), action.X, action.Y)
				return nil
			}
		}
		m.openContextMenu(noderef.Ref{}, action.X, action.Y)
	case regionTreePane, regionListPane:
		m.openContextMenu(noderef.Ref{}, action.X, action.Y)
	}
	return nil
}

// mouseDragMove applies live drag feedback: divider resizing or drop
// target tracking.
func (m *Model) mouseDragMove(action mouse.MouseAction) {
	if m.dragDivider {
		startPx := m.width * m.mouse.DragStartValue() / 100
		px := startPx + action.DragDX
		pct := 0
		if m.width > 0 {
			pct = px * 100 / m.width
		}
		if pct < 15 {
			pct = 15
		}
		if pct > 70 {
			pct = 70
		}
		m.treeWidthPct = pct
		m.recalcTreeWidth()
		return
	}
	if m.dragSpec == nil {
		return
	}
	m.dropRef = noderef.Ref{}
	if action.Region != nil && action.Region.ID == regionTreeRow {
		if idx, ok := action.Region.Data.(int); ok && idx >= 0 && idx < len(m.treeRows) {
			if ref, ok := m.dropTargetFor(m.treeRows[idx].Ref); ok {
				m.dropRef = ref
			}
		}
	}
}

// dropTargetFor validates a drop: files land on folders or tags,
// folders land on other folders.
func (m *Model) dropTargetFor(ref noderef.Ref) (noderef.Ref, bool) {
	spec := m.dragSpec
	if spec == nil {
		return noderef.Ref{}, false
	}
	switch spec.Ref.Kind {
	case noderef.KindFile:
		if ref.Kind == noderef.KindFolder || ref.Kind == noderef.KindTag {
			return ref, true
		}
	case noderef.KindFolder:
		if ref.Kind == noderef.KindFolder && ref.Path != spec.Ref.Path {
			return ref, true
		}
	}
	return noderef.Ref{}, false
}

// mouseDrop commits the gesture: persist a divider resize, or apply the
// pending drop. A release with no movement was a plain click.
func (m *Model) mouseDrop(action mouse.MouseAction) tea.Cmd {
	spec := m.dragSpec
	target := m.dropRef
	divider := m.dragDivider
	m.dragSpec = nil
	m.dropRef = noderef.Ref{}
	m.dragDivider = false
	m.treeDirty = true

	if divider {
		_ = state.SetTreeWidthPercent(m.treeWidthPct)
		return nil
	}
	if spec == nil || (action.DragDX == 0 && action.DragDY == 0) {
		return nil
	}
	if target.Kind == "" {
		return nil
	}

	switch {
	case target.Kind == noderef.KindFolder:
		newPath, err := m.ops.Move(spec.Ref.Path, target.Path)
		if err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpRename, Path: newPath, OldPath: spec.Ref.Path})
		m.showToast("Moved "+spec.Title+" to "+target.Path, false)
		return m.refreshThumbs()

	case target.Kind == noderef.KindTag:
		if err := m.ops.AddTag(spec.Ref.Path, target.Path); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpWrite, Path: spec.Ref.Path})
		m.showToast("Tagged "+spec.Title+" with #"+target.Path, false)
		return m.refreshThumbs()
	}
	return nil
}
