package navigator

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/keymap"
	"github.com/vroablec/notebook-navigator-sub013/internal/msg"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/state"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Update is the single mutation point. Everything else reads.
func (m *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.recalcTreeWidth()
		m.searchInput.Width = m.width - m.treeWidth - 12
		m.treeDirty = true
		m.listDirty = true
		m.images.Invalidate()
		return m, m.refreshThumbs()

	case tea.KeyMsg:
		return m, m.handleKey(message)

	case tea.MouseMsg:
		return m, m.handleMouse(message)

	case tickMsg:
		m.clearExpiredToast(time.Time(message))
		return m, tickCmd()

	case vaultEventMsg:
		if !message.ok {
			return m, nil // watcher shut down, stop pumping
		}
		cmd := m.handleVaultEvent(message.ev)
		return m, tea.Batch(m.listenWatcher(), cmd, m.refreshThumbs())

	case cacheDiffMsg:
		m.handleCacheDiff(message.diff)
		return m, tea.Batch(m.listenIndexer(), m.refreshThumbs())

	case scanDoneMsg:
		m.scanning = false
		if message.err != nil {
			m.showToast("Index scan failed: "+message.err.Error(), true)
		}
		return m, nil

	case searchResultMsg:
		if message.seq != m.searchSeq {
			return m, nil // a newer query superseded this lookup
		}
		if message.err != nil {
			m.showToast("Search failed: "+message.err.Error(), true)
			return m, nil
		}
		m.freePaths = message.paths
		m.listDirty = true
		return m, m.refreshThumbs()

	case previewReadyMsg:
		if message.epoch == m.previewEpoch && m.preview != nil && m.preview.path == message.p.path {
			p := message.p
			m.preview = &p
		}
		return m, nil

	case thumbAcquiredMsg:
		return m, m.handleThumbAcquired(message)

	case thumbGeneratedMsg:
		return m, m.handleThumbGenerated(message)

	case msg.ToastMsg:
		m.showToast(message.Message, false)
		if message.Duration > 0 {
			m.statusExpiry = time.Now().Add(message.Duration)
		}
		return m, nil

	case msg.ErrorMsg:
		m.logger.Error("operation failed", "context", message.Context, "error", message.Err)
		m.showToast(message.Context+": "+message.Err.Error(), true)
		return m, nil
	}
	return m, nil
}

// refreshThumbs rebuilds pending projections and queues thumbnails for
// whatever is now visible.
func (m *Model) refreshThumbs() tea.Cmd {
	if !m.ready {
		return nil
	}
	m.ensureTree()
	m.ensureList()
	return m.queueThumbs()
}

// handleKey routes a key press by the active context. Overlay surfaces
// consume their keys first; pane contexts fall back to global bindings.
func (m *Model) handleKey(k tea.KeyMsg) tea.Cmd {
	ctx := m.keyContext()

	switch ctx {
	case keymap.ContextMenu:
		id := m.menus.ActiveMenu().HandleKey(k)
		return m.applyMenuChoice(id)

	case keymap.ContextPrompt:
		action, cmd := m.menus.ActiveModal().HandleKey(k)
		if action == "" {
			return cmd
		}
		return tea.Batch(cmd, m.applyModalAction(action))

	case keymap.ContextSearch:
		// Only the search bindings resolve here; every other key edits
		// the query text.
		if command, ok := m.keymap.Resolve(k.String(), ctx); ok {
			return m.runCommand(command, ctx)
		}
		return m.updateSearchInput(k)
	}

	if command, ok := m.keymap.Resolve(k.String(), ctx); ok {
		return m.runCommand(command, ctx)
	}
	if command, ok := m.keymap.Resolve(k.String(), keymap.ContextGlobal); ok {
		return m.runCommand(command, ctx)
	}
	return nil
}

// applyMenuChoice closes the menu and dispatches a chosen item.
func (m *Model) applyMenuChoice(id string) tea.Cmd {
	switch id {
	case "":
		return nil
	case "cancel":
		m.menus.HideActive()
		return nil
	default:
		target := m.menus.MenuTarget()
		m.menus.HideActive()
		return tea.Batch(m.dispatchMenuItem(id, target), m.refreshThumbs())
	}
}

// runCommand executes a named binding command in its context.
func (m *Model) runCommand(command, ctx string) tea.Cmd {
	if ctx == keymap.ContextPreview {
		return m.runPreviewCommand(command)
	}

	switch command {
	case "quit":
		m.saveState()
		return tea.Quit

	case "switch-pane":
		if m.activePane == PaneTree {
			m.activePane = PaneList
		} else {
			m.activePane = PaneTree
		}
		return nil

	case "cursor-down":
		return m.moveCursor(1)
	case "cursor-up":
		return m.moveCursor(-1)
	case "cursor-top":
		if m.activePane == PaneTree {
			m.setTreeCursor(0)
		} else {
			m.listTop()
		}
		return m.refreshThumbs()
	case "cursor-bottom":
		if m.activePane == PaneTree {
			m.ensureTree()
			m.setTreeCursor(len(m.treeRows) - 1)
		} else {
			m.listBottom()
		}
		return m.refreshThumbs()
	case "page-down":
		return m.movePage(1)
	case "page-up":
		return m.movePage(-1)

	case "search":
		return m.openSearch()

	case "toggle-footer":
		m.showFooter = !m.showFooter
		_ = state.SetFooterHidden(!m.showFooter)
		m.treeDirty = true
		m.listDirty = true
		return nil

	case "rebuild-index":
		return m.rebuildIndex()

	case "back":
		m.handleBack()
		return nil

	// Tree pane.
	case "expand":
		m.expandCursorRow()
		return m.refreshThumbs()
	case "collapse":
		m.collapseCursorRow()
		return m.refreshThumbs()
	case "toggle-expand":
		m.toggleCursorRow()
		return m.refreshThumbs()
	case "select":
		m.selectCursorRow(true)
		return m.refreshThumbs()
	case "expand-all":
		m.expandAllRows()
		return nil
	case "collapse-all":
		m.collapseAllRows()
		return nil
	case "toggle-siblings":
		m.toggleSiblingRows()
		return m.refreshThumbs()
	case "add-shortcut":
		return m.toggleShortcut()
	case "cycle-sort":
		order := m.cycleSort()
		m.showToast("Sorted by "+order, false)
		return m.refreshThumbs()
	case "toggle-descendants":
		m.includeDesc = !m.includeDesc
		m.listDirty = true
		return m.refreshThumbs()
	case "reveal-selected":
		if p := m.selectedFilePath(); p != "" {
			m.revealFile(p)
		}
		return m.refreshThumbs()

	// Creation and file operations act on the pane's target.
	case "create-note":
		return m.openNewNotePrompt(m.contextFolder())
	case "create-folder":
		return m.openNewFolderPrompt(m.contextFolder())
	case "rename":
		if target, ok := m.actionTarget(); ok && fileOrFolder(target) {
			return m.openRenamePrompt(target)
		}
		return nil
	case "delete":
		if target, ok := m.actionTarget(); ok && fileOrFolder(target) {
			m.openDeletePrompt(target)
		}
		return nil
	case "duplicate":
		if target, ok := m.actionTarget(); ok && target.Kind == noderef.KindFile {
			return m.dispatchMenuItem("duplicate", target)
		}
		return nil
	case "copy-path":
		if target, ok := m.actionTarget(); ok && fileOrFolder(target) {
			return m.copyPath(target)
		}
		return nil
	case "copy-link":
		if target, ok := m.actionTarget(); ok && target.Kind == noderef.KindFile {
			return m.copyWikilink(target)
		}
		return nil
	case "context-menu":
		target, _ := m.actionTarget()
		x, y := m.menuAnchor()
		m.openContextMenu(target, x, y)
		return nil
	case "toggle-pin":
		if target, ok := m.actionTarget(); ok && target.Kind == noderef.KindFile {
			if err := m.meta.TogglePin(m.pinContext(), target); err != nil {
				m.showToast(err.Error(), true)
				return nil
			}
			m.listDirty = true
		}
		return m.refreshThumbs()
	case "add-tag":
		if target, ok := m.actionTarget(); ok && target.Kind == noderef.KindFile {
			if f := m.vault.FileByPath(target.Path); f != nil && f.IsNote() {
				return m.openAddTagPrompt(target)
			}
		}
		return nil

	// File list pane.
	case "preview":
		if p := m.selectedFilePath(); p != "" {
			return m.openPreview(p)
		}
		return nil
	case "open-editor":
		if p := m.selectedFilePath(); p != "" {
			return m.openEditorCmd(p)
		}
		return nil
	case "focus-tree":
		m.activePane = PaneTree
		return nil

	// Search mode.
	case "confirm":
		m.commitSearch()
		return m.refreshThumbs()
	case "cancel":
		m.clearSearch()
		return m.refreshThumbs()
	}
	return nil
}

// runPreviewCommand handles keys while the preview overlay is up.
func (m *Model) runPreviewCommand(command string) tea.Cmd {
	switch command {
	case "close", "back":
		m.closePreview()
	case "quit":
		m.saveState()
		return tea.Quit
	case "scroll-down", "cursor-down":
		m.previewScroll(1)
	case "scroll-up", "cursor-up":
		m.previewScroll(-1)
	case "scroll-top", "cursor-top":
		m.previewTop()
	case "scroll-bottom", "cursor-bottom":
		m.previewBottom()
	case "page-down":
		m.previewScroll(m.previewVisibleLines())
	case "page-up":
		m.previewScroll(-m.previewVisibleLines())
	case "open-editor":
		if m.preview != nil {
			return m.openEditorCmd(m.preview.path)
		}
	}
	return nil
}

// moveCursor advances the active pane's cursor. In search mode the list
// cursor moves so matches can be walked while typing.
func (m *Model) moveCursor(delta int) tea.Cmd {
	if m.searchOpen && !m.searchCommitted {
		m.ensureList()
		m.moveListCursor(delta)
		return m.refreshThumbs()
	}
	if m.activePane == PaneTree {
		m.ensureTree()
		m.moveTreeCursor(delta)
	} else {
		m.ensureList()
		m.moveListCursor(delta)
	}
	return m.refreshThumbs()
}

func (m *Model) movePage(dir int) tea.Cmd {
	if m.activePane == PaneTree {
		m.ensureTree()
		m.moveTreeCursor(dir * m.treeVisibleRows())
	} else {
		m.ensureList()
		m.pageList(dir)
	}
	return m.refreshThumbs()
}

// handleBack unwinds one layer of UI state per press.
func (m *Model) handleBack() {
	switch {
	case m.searchOpen || m.searchCommitted || !m.query.Empty():
		m.clearSearch()
	case m.statusMsg != "":
		m.statusMsg = ""
	case m.activePane == PaneList:
		m.activePane = PaneTree
	}
}

// rebuildIndex rescans the vault tree and re-checksums every note.
func (m *Model) rebuildIndex() tea.Cmd {
	if m.scanning {
		return nil
	}
	if err := m.vault.Scan(); err != nil {
		m.showToast("Rescan failed: "+err.Error(), true)
		return nil
	}
	m.scanning = true
	m.treeDirty = true
	m.listDirty = true
	m.showToast("Rebuilding index", false)
	return m.initialScanCmd()
}

// actionTarget is the entity pane commands operate on: the tree cursor
// row's ref, or the file under the list cursor.
func (m *Model) actionTarget() (noderef.Ref, bool) {
	if m.activePane == PaneTree {
		row := m.cursorRow()
		if row == nil {
			return noderef.Ref{}, false
		}
		switch row.Ref.Kind {
		case noderef.KindFolder, noderef.KindFile, noderef.KindTag,
			noderef.KindPropertyKey, noderef.KindPropertyValue:
			return row.Ref, true
		}
		return noderef.Ref{}, false
	}
	if p := m.selectedFilePath(); p != "" {
		return noderef.File(p), true
	}
	return noderef.Ref{}, false
}

func fileOrFolder(ref noderef.Ref) bool {
	return ref.Kind == noderef.KindFile || ref.Kind == noderef.KindFolder
}

// toggleShortcut adds or removes the tree cursor target from the
// shortcuts section.
func (m *Model) toggleShortcut() tea.Cmd {
	target, ok := m.actionTarget()
	if !ok {
		return nil
	}
	var err error
	if m.meta.HasShortcut(target) {
		err = m.meta.RemoveShortcut(target)
	} else {
		err = m.meta.AddShortcut(target)
		if err == nil {
			m.showToast("Added to shortcuts", false)
		}
	}
	if err != nil {
		m.showToast(err.Error(), true)
		return nil
	}
	m.treeDirty = true
	return nil
}

// handleVaultEvent folds a filesystem change into the vault tree and
// fans the consequences out to the index, metadata, and UI state.
func (m *Model) handleVaultEvent(ev vault.Event) tea.Cmd {
	ch := m.vault.Apply(ev)
	if ch.Empty() {
		return nil
	}
	if ch.Structural {
		m.treeDirty = true
		m.listDirty = true
	}

	if len(ch.Created) > 0 {
		m.indexer.Update(ch.Created...)
	}
	if len(ch.Written) > 0 {
		m.indexer.Update(ch.Written...)
	}
	if len(ch.Removed) > 0 {
		m.indexer.Remove(ch.Removed...)
		for _, p := range ch.Removed {
			_ = m.meta.RemovePath(p)
			m.limiter.Forget(p)
			m.dropController(p)
			if m.copiedPath == p {
				m.copiedPath = ""
			}
		}
	}
	for old, now := range ch.Renamed {
		m.indexer.Rename(old, now)
		_ = m.meta.RenamePath(old, now)
		m.limiter.Forget(old)
		if c, ok := m.controllers[old]; ok {
			delete(m.controllers, old)
			c.Attach(now)
			m.controllers[now] = c
		}
		if m.copiedPath == old {
			m.copiedPath = now
		}
	}

	// Folder-level bookkeeping keys off the event itself; Change only
	// carries file paths.
	switch ev.Op {
	case vault.OpRemove:
		_ = m.meta.RemovePath(ev.Path)
		m.expansion.RemovePath(ev.Path)
	case vault.OpRename:
		_ = m.meta.RenamePath(ev.OldPath, ev.Path)
		m.expansion.RenamePath(ev.OldPath, ev.Path)
		if ref, ok := noderef.Repath(m.selected, ev.OldPath, ev.Path); ok {
			m.selected = ref
			m.listDirty = true
		}
	}

	// A write to the previewed file re-renders the overlay in place.
	if m.preview != nil {
		for _, p := range ch.Written {
			if p == m.preview.path {
				m.previewEpoch++
				return m.buildPreviewCmd(m.previewEpoch, p, m.previewContentWidth())
			}
		}
	}
	return nil
}

// handleCacheDiff fans an index diff out to row subscribers and marks
// the projections stale.
func (m *Model) handleCacheDiff(d cache.Diff) {
	m.ram.Dispatch(d)
	if d.Empty() {
		return
	}
	if d.Has(cache.FieldFeatureImage) {
		// The stored key changed; drop the old thumb so the queue
		// fetches under the new one.
		if c, ok := m.controllers[d.Path]; ok {
			c.SetImage(nil)
		}
	}
	m.treeDirty = true
	m.listDirty = true
}

// handleThumbAcquired installs a fetched thumbnail, or escalates to
// generation when the store had nothing.
func (m *Model) handleThumbAcquired(t thumbAcquiredMsg) tea.Cmd {
	m.clearThumbPending(t.path, t.key)
	if t.epoch != m.imgEpoch {
		if t.handle != nil {
			t.handle.Release()
		}
		return nil
	}
	c, ok := m.controllers[t.path]
	if !ok {
		if t.handle != nil {
			t.handle.Release()
		}
		return nil
	}
	if t.err != nil || t.handle == nil {
		if !m.limiter.Allow(t.path, t.key) {
			return nil
		}
		src := m.resolveImageSource(t.path, t.key)
		if m.markThumbPending(t.path, t.key) {
			return m.generateThumbCmd(m.imgEpoch, t.path, t.key, src)
		}
		return nil
	}
	if t.key == selfImageKey || c.ImageKey() == t.key {
		c.SetImage(t.handle)
	} else {
		t.handle.Release() // key changed while the fetch was in flight
	}
	return nil
}

// handleThumbGenerated records the outcome and fetches the finished
// thumbnail. Self keys have no cache record to update.
func (m *Model) handleThumbGenerated(t thumbGeneratedMsg) tea.Cmd {
	v := t.verdict
	m.clearThumbPending(v.Path, v.Key)
	if v.Key != selfImageKey {
		m.indexer.SetImageStatus(v.Path, v.Key, v.Status)
	}
	if t.epoch != m.imgEpoch {
		return nil
	}
	if v.Status == cache.ImageHas && m.markThumbPending(v.Path, v.Key) {
		return m.acquireThumbCmd(m.imgEpoch, v.Path, v.Key)
	}
	return nil
}
