package navigator

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/notecount"
	"github.com/vroablec/notebook-navigator-sub013/internal/rowmodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
	"github.com/vroablec/notebook-navigator-sub013/internal/treemodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/ui"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Section header refs. Headers expand and collapse like rows but are
// never selectable and their state is not persisted.
var (
	refShortcuts  = noderef.Virtual("shortcuts")
	refTags       = noderef.Virtual("tags")
	refProperties = noderef.Virtual("properties")
	refUntagged   = noderef.Virtual("untagged")
)

const noValuePrefix = "no-value:"

func isSectionRef(ref noderef.Ref) bool {
	if ref.Kind != noderef.KindVirtual {
		return false
	}
	return ref.Path == refShortcuts.Path || ref.Path == refTags.Path || ref.Path == refProperties.Path
}

// selectable reports whether landing the cursor on this row switches the
// file list to it.
func selectable(ref noderef.Ref) bool {
	switch ref.Kind {
	case noderef.KindFolder, noderef.KindTag, noderef.KindPropertyKey, noderef.KindPropertyValue:
		return true
	case noderef.KindVirtual:
		return !isSectionRef(ref)
	default:
		return false
	}
}

// ensureTree rebuilds the row slice when the vault tree, the cache
// projections, or any UI input feeding the rows has changed.
func (m *Model) ensureTree() {
	if m.treeDirty || m.treeVaultVer != m.vault.Version() || !m.projInit || m.projGen != m.ram.Generation() {
		m.rebuildTree()
	}
}

func (m *Model) rebuildTree() {
	prev := noderef.Ref{}
	if r := m.cursorRow(); r != nil {
		prev = r.Ref
	}

	tagTree, propTree := m.projections()
	rows := make([]rowmodel.TreeRow, 0, len(m.treeRows)+16)

	if m.cfg.Navigation.ShowShortcuts {
		rows = m.appendShortcutRows(rows)
	}
	rows = m.appendFolderRows(rows)
	if m.cfg.Navigation.ShowTags {
		rows = m.appendTagRows(rows, tagTree)
	}
	if m.cfg.Navigation.ShowProperties {
		rows = m.appendPropertyRows(rows, propTree)
	}

	m.treeRows = rows
	m.treeDirty = false
	m.treeVaultVer = m.vault.Version()

	m.validateSelection(tagTree, propTree)

	// Keep the cursor on the row it was on; rows above it may have come
	// or gone.
	if idx := m.findTreeRow(prev); idx >= 0 {
		m.treeCursor = idx
	}
	m.clampTreeCursor()
}

// validateSelection drops a selection whose target no longer exists,
// falling back to the vault root.
func (m *Model) validateSelection(tagTree, propTree *treemodel.Node) {
	ok := true
	switch m.selected.Kind {
	case noderef.KindFolder:
		ok = m.vault.FolderByPath(m.selected.Path) != nil
	case noderef.KindTag:
		ok = tagTree.Find(m.selected) != nil
	case noderef.KindPropertyKey, noderef.KindPropertyValue:
		ok = propTree.Find(m.selected) != nil
	}
	if !ok {
		m.setSelected(noderef.Folder(vault.RootPath))
	}
}

func (m *Model) sectionRow(ref noderef.Ref, label string, open bool) rowmodel.TreeRow {
	return rowmodel.VirtualRow(ref, label, 0, true, open, rowmodel.Style{}, notecount.Result{}, cache.MatchNone)
}

func (m *Model) refStyle(ref noderef.Ref) rowmodel.Style {
	return rowmodel.Style{
		Icon:       m.meta.Icon(ref),
		Accent:     m.palette.Accent(ref),
		Background: m.palette.Background(ref),
	}
}

// countBadge renders the note count for one row per the counts config.
func (m *Model) countBadge(info notecount.Info) notecount.Result {
	if !m.cfg.Counts.ShowCounts {
		return notecount.Result{}
	}
	return notecount.Display(info, m.cfg.Counts.IncludeDescendants, m.cfg.Counts.SeparateCounts, m.cfg.Counts.Separator)
}

func sortIndicator(order string) string {
	switch {
	case order == "":
		return ""
	case strings.HasSuffix(order, "-desc"):
		return "↓"
	default:
		return "↑"
	}
}

func (m *Model) appendShortcutRows(rows []rowmodel.TreeRow) []rowmodel.TreeRow {
	shortcuts := m.meta.Shortcuts()
	if len(shortcuts) == 0 {
		return rows
	}
	open := m.expansion.IsOpen(refShortcuts)
	rows = append(rows, m.sectionRow(refShortcuts, "Shortcuts", open))
	if !open {
		return rows
	}
	for _, target := range shortcuts {
		row, ok := m.shortcutRow(target)
		if ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// shortcutRow builds the row for one pinned navigation target. Targets
// whose backing item disappeared render nothing; the shortcut itself is
// kept so it comes back when the item does.
func (m *Model) shortcutRow(target noderef.Ref) (rowmodel.TreeRow, bool) {
	var label, crumb string
	switch target.Kind {
	case noderef.KindFolder:
		f := m.vault.FolderByPath(target.Path)
		if f == nil {
			return rowmodel.TreeRow{}, false
		}
		if f.IsRoot() {
			label = filepath.Base(m.vault.Dir())
		} else {
			label = f.Name
			crumb = parentCrumb(target.Path)
		}
	case noderef.KindFile:
		f := m.vault.FileByPath(target.Path)
		if f == nil {
			return rowmodel.TreeRow{}, false
		}
		label = f.Base
		crumb = parentCrumb(target.Path)
	case noderef.KindTag:
		label = "#" + target.Path
	default:
		return rowmodel.TreeRow{}, false
	}
	return rowmodel.ShortcutRow(target, label, crumb, 1, m.refStyle(target), cache.MatchNone), true
}

func parentCrumb(p string) string {
	dir := filepath.ToSlash(filepath.Dir(p))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

func (m *Model) appendFolderRows(rows []rowmodel.TreeRow) []rowmodel.TreeRow {
	root := m.vault.Root()
	if root == nil {
		return rows
	}
	ref := noderef.Folder(vault.RootPath)
	expanded := m.expansion.IsOpen(ref)
	count := m.countBadge(treemodel.FolderCounts(root))
	count = notecount.SortableDisplay(count, sortIndicator(m.meta.SortOverride(ref)))
	rows = append(rows, rowmodel.FolderRow(root, filepath.Base(m.vault.Dir()), 0, expanded, m.refStyle(ref), count, cache.MatchNone))
	if expanded {
		rows = m.appendSubfolders(rows, root, 1, nil)
	}
	return rows
}

func (m *Model) appendSubfolders(rows []rowmodel.TreeRow, parent *vault.Folder, level int, guides []int) []rowmodel.TreeRow {
	subs := make([]*vault.Folder, 0, len(parent.Subfolders))
	for _, sub := range parent.Subfolders {
		if !m.showHidden && m.meta.IsHidden(noderef.Folder(sub.Path)) {
			continue
		}
		subs = append(subs, sub)
	}
	for i, sub := range subs {
		ref := noderef.Folder(sub.Path)
		expanded := m.expansion.IsOpen(ref)
		count := m.countBadge(treemodel.FolderCounts(sub))
		count = notecount.SortableDisplay(count, sortIndicator(m.meta.SortOverride(ref)))
		row := rowmodel.FolderRow(sub, sub.Name, level, expanded, m.refStyle(ref), count, cache.MatchNone)
		row.Guides = append([]int(nil), guides...)
		rows = append(rows, row)
		if expanded && len(sub.Subfolders) > 0 {
			childGuides := guides
			if i < len(subs)-1 {
				childGuides = append(append([]int(nil), guides...), level)
			}
			rows = m.appendSubfolders(rows, sub, level+1, childGuides)
		}
	}
	return rows
}

func (m *Model) appendTagRows(rows []rowmodel.TreeRow, tagTree *treemodel.Node) []rowmodel.TreeRow {
	open := m.expansion.IsOpen(refTags)
	rows = append(rows, m.sectionRow(refTags, "Tags", open))
	if !open {
		return rows
	}
	rows = m.appendTagChildren(rows, tagTree, 1, nil)
	if m.cfg.Navigation.ShowUntagged {
		count := m.countBadge(notecount.Info{Current: len(treemodel.Untagged(m.ram))})
		rows = append(rows, rowmodel.VirtualRow(refUntagged, "Untagged", 1, false, false, rowmodel.Style{}, count, cache.MatchNone))
	}
	return rows
}

func (m *Model) appendTagChildren(rows []rowmodel.TreeRow, parent *treemodel.Node, level int, guides []int) []rowmodel.TreeRow {
	children := make([]*treemodel.Node, 0, len(parent.Children))
	for _, node := range parent.SortedChildren() {
		if !m.showHidden && m.meta.IsHidden(node.Ref) {
			continue
		}
		children = append(children, node)
	}
	for i, node := range children {
		expanded := m.expansion.IsOpen(node.Ref)
		row := rowmodel.TagRow(node, level, expanded, m.refStyle(node.Ref), m.countBadge(node.Info), m.query.TagState(node.Ref.Path))
		row.Guides = append([]int(nil), guides...)
		rows = append(rows, row)
		if expanded && node.HasChildren() {
			childGuides := guides
			if i < len(children)-1 {
				childGuides = append(append([]int(nil), guides...), level)
			}
			rows = m.appendTagChildren(rows, node, level+1, childGuides)
		}
	}
	return rows
}

func (m *Model) appendPropertyRows(rows []rowmodel.TreeRow, propTree *treemodel.Node) []rowmodel.TreeRow {
	open := m.expansion.IsOpen(refProperties)
	rows = append(rows, m.sectionRow(refProperties, "Properties", open))
	if !open {
		return rows
	}
	allowed := make(map[string]struct{}, len(m.cfg.Navigation.PropertyFields))
	for _, k := range m.cfg.Navigation.PropertyFields {
		allowed[k] = struct{}{}
	}
	for _, key := range propTree.SortedChildren() {
		if len(allowed) > 0 {
			if _, ok := allowed[key.Ref.Key]; !ok {
				continue
			}
		}
		if !m.showHidden && m.meta.IsHidden(key.Ref) {
			continue
		}
		expanded := m.expansion.IsOpen(key.Ref)
		rows = append(rows, rowmodel.PropertyRow(key, 1, expanded, m.refStyle(key.Ref), m.countBadge(key.Info), m.query.PropertyKeyState(key.Ref.Key)))
		if !expanded {
			continue
		}
		for _, val := range key.SortedChildren() {
			rows = append(rows, rowmodel.PropertyRow(val, 2, false, m.refStyle(val.Ref), m.countBadge(val.Info), m.query.PropertyValueState(val.Ref.Key, val.Ref.Value)))
		}
		if m.cfg.Navigation.ShowNoValue {
			if paths := m.noValuePaths(key.Ref.Key); len(paths) > 0 {
				ref := noderef.Virtual(noValuePrefix + key.Ref.Key)
				count := m.countBadge(notecount.Info{Current: len(paths)})
				rows = append(rows, rowmodel.VirtualRow(ref, "No value", 2, false, false, rowmodel.Style{}, count, cache.MatchNone))
			}
		}
	}
	return rows
}

// noValuePaths lists notes that carry the property key without a usable
// value: an explicit null in frontmatter or an empty scalar.
func (m *Model) noValuePaths(key string) []string {
	var out []string
	m.ram.Range(func(path string, rec *cache.FileRecord) bool {
		if rec.RawNulls[key] {
			out = append(out, path)
			return true
		}
		for _, item := range rec.Properties {
			if item.FieldKey == key && strings.TrimSpace(item.Value) == "" {
				out = append(out, path)
				break
			}
		}
		return true
	})
	sort.Strings(out)
	return out
}

func (m *Model) findTreeRow(ref noderef.Ref) int {
	if ref.Zero() {
		return -1
	}
	for i := range m.treeRows {
		if m.treeRows[i].Ref == ref {
			return i
		}
	}
	return -1
}

func (m *Model) clampTreeCursor() {
	if m.treeCursor >= len(m.treeRows) {
		m.treeCursor = len(m.treeRows) - 1
	}
	if m.treeCursor < 0 {
		m.treeCursor = 0
	}
}

// moveTreeCursor moves the cursor and selects the row under it when it
// maps to a list source. Section headers move the cursor only.
func (m *Model) moveTreeCursor(delta int) {
	m.ensureTree()
	if len(m.treeRows) == 0 {
		return
	}
	m.treeCursor += delta
	m.clampTreeCursor()
	m.selectCursorRow(false)
	m.ensureTreeCursorVisible()
}

func (m *Model) setTreeCursor(idx int) {
	m.ensureTree()
	m.treeCursor = idx
	m.clampTreeCursor()
	m.selectCursorRow(false)
	m.ensureTreeCursorVisible()
}

// selectCursorRow applies the cursor row as the list selection. With
// activate, section headers toggle and shortcuts resolve to their target.
func (m *Model) selectCursorRow(activate bool) {
	row := m.cursorRow()
	if row == nil {
		return
	}
	switch {
	case isSectionRef(row.Ref):
		if activate {
			m.expansion.Toggle(row.Ref)
			m.treeDirty = true
		}
	case row.Ref.Kind == noderef.KindShortcut:
		if activate {
			m.openShortcut(row.Ref)
		}
	case selectable(row.Ref):
		m.setSelected(row.Ref)
		if activate {
			m.activePane = PaneList
		}
	}
}

// openShortcut jumps to a shortcut's target.
func (m *Model) openShortcut(ref noderef.Ref) {
	target, err := noderef.Parse(ref.Path)
	if err != nil {
		return
	}
	switch target.Kind {
	case noderef.KindFolder, noderef.KindTag:
		m.setSelected(target)
		m.revealRef(target)
	case noderef.KindFile:
		m.revealFile(target.Path)
	}
}

// revealRef expands every ancestor of ref and parks the cursor on it.
func (m *Model) revealRef(ref noderef.Ref) {
	switch ref.Kind {
	case noderef.KindFolder:
		m.expansion.SetOpen(noderef.Folder(vault.RootPath), true)
		for _, anc := range ancestorPaths(ref.Path) {
			m.expansion.SetOpen(noderef.Folder(anc), true)
		}
	case noderef.KindTag:
		m.expansion.SetOpen(refTags, true)
		for _, anc := range ancestorPaths(ref.Path) {
			m.expansion.SetOpen(noderef.Tag(anc), true)
		}
	case noderef.KindPropertyKey, noderef.KindPropertyValue:
		m.expansion.SetOpen(refProperties, true)
		if ref.Kind == noderef.KindPropertyValue {
			m.expansion.SetOpen(noderef.PropertyKey(ref.Key), true)
		}
	}
	m.treeDirty = true
	m.rebuildTree()
	if idx := m.findTreeRow(ref); idx >= 0 {
		m.treeCursor = idx
	}
}

// ancestorPaths lists the proper ancestors of a slash path, nearest
// root first: "a/b/c" -> ["a", "a/b"].
func ancestorPaths(p string) []string {
	var out []string
	for i, r := range p {
		if r == '/' {
			out = append(out, p[:i])
		}
	}
	return out
}

// revealFile selects the file's parent folder in the tree and parks the
// list cursor on the file.
func (m *Model) revealFile(path string) {
	f := m.vault.FileByPath(path)
	if f == nil {
		return
	}
	parent := vault.RootPath
	if f.Parent != nil {
		parent = f.Parent.Path
	}
	ref := noderef.Folder(parent)
	m.setSelected(ref)
	m.revealRef(ref)
	m.rebuildList()
	for i, e := range m.entries {
		if e.kind == entryFile && e.path == path {
			m.listCursor = i
			break
		}
	}
	m.activePane = PaneList
}

func (m *Model) expandCursorRow() {
	row := m.cursorRow()
	if row == nil || row.Chevron == rowmodel.ChevronNone {
		return
	}
	if row.Chevron == rowmodel.ChevronClosed {
		m.expansion.SetOpen(row.Ref, true)
		m.treeDirty = true
		return
	}
	// Already open: step into the first child.
	m.moveTreeCursor(1)
}

func (m *Model) collapseCursorRow() {
	row := m.cursorRow()
	if row == nil {
		return
	}
	if row.Chevron == rowmodel.ChevronOpen {
		m.expansion.SetOpen(row.Ref, false)
		m.treeDirty = true
		return
	}
	// Leaf or collapsed: jump to the parent row.
	if idx := m.parentRowIndex(m.treeCursor); idx >= 0 {
		m.setTreeCursor(idx)
	}
}

func (m *Model) toggleCursorRow() {
	row := m.cursorRow()
	if row == nil || row.Chevron == rowmodel.ChevronNone {
		return
	}
	m.expansion.Toggle(row.Ref)
	m.treeDirty = true
}

// toggleSiblingRows flips the cursor row and every same-kind sibling at
// its level to one shared state, so a mixed set does not scramble.
func (m *Model) toggleSiblingRows() {
	m.ensureTree()
	row := m.cursorRow()
	if row == nil || row.Chevron == rowmodel.ChevronNone {
		return
	}
	open := !m.expansion.IsOpen(row.Ref)
	parent := m.parentRowIndex(m.treeCursor)
	for i := range m.treeRows {
		r := &m.treeRows[i]
		if r.Level != row.Level || r.Ref.Kind != row.Ref.Kind || r.Chevron == rowmodel.ChevronNone {
			continue
		}
		if m.parentRowIndex(i) != parent {
			continue
		}
		m.expansion.SetOpen(r.Ref, open)
	}
	m.treeDirty = true
}

func (m *Model) parentRowIndex(idx int) int {
	if idx <= 0 || idx >= len(m.treeRows) {
		return -1
	}
	level := m.treeRows[idx].Level
	for i := idx - 1; i >= 0; i-- {
		if m.treeRows[i].Level < level {
			return i
		}
	}
	return -1
}

// expandAllRows opens every expandable row: sections, the full folder
// tree, and every tag and property branch.
func (m *Model) expandAllRows() {
	m.expansion.SetOpen(refShortcuts, true)
	m.expansion.SetOpen(refTags, true)
	m.expansion.SetOpen(refProperties, true)

	var walkFolder func(f *vault.Folder)
	walkFolder = func(f *vault.Folder) {
		if len(f.Subfolders) > 0 {
			m.expansion.SetOpen(noderef.Folder(f.Path), true)
		}
		for _, sub := range f.Subfolders {
			walkFolder(sub)
		}
	}
	if root := m.vault.Root(); root != nil {
		m.expansion.SetOpen(noderef.Folder(vault.RootPath), true)
		walkFolder(root)
	}

	tagTree, propTree := m.projections()
	var walkNode func(n *treemodel.Node)
	walkNode = func(n *treemodel.Node) {
		for _, c := range n.Children {
			if c.HasChildren() {
				m.expansion.SetOpen(c.Ref, true)
			}
			walkNode(c)
		}
	}
	walkNode(tagTree)
	walkNode(propTree)
	m.treeDirty = true
}

// collapseAllRows closes everything except the root folder row.
func (m *Model) collapseAllRows() {
	for _, kind := range []noderef.Kind{noderef.KindFolder, noderef.KindTag, noderef.KindPropertyKey} {
		for _, id := range m.expansion.SnapshotKind(kind) {
			if ref, err := noderef.Parse(id); err == nil {
				m.expansion.SetOpen(ref, false)
			}
		}
	}
	m.expansion.SetOpen(noderef.Folder(vault.RootPath), true)
	m.treeDirty = true
}

// cycleSort advances the per-vault sort order and reports the new one.
func (m *Model) cycleSort() string {
	current := m.sortOrder()
	next := settings.ValidSortOrders[0]
	for i, order := range settings.ValidSortOrders {
		if order == current {
			next = settings.ValidSortOrders[(i+1)%len(settings.ValidSortOrders)]
			break
		}
	}
	m.sortChoice = next
	m.listDirty = true
	return next
}

// treeVisibleRows is the row capacity of the tree pane's content box.
func (m *Model) treeVisibleRows() int {
	h := m.paneHeight() - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) ensureTreeCursorVisible() {
	visible := m.treeVisibleRows()
	if m.treeCursor < m.treeScroll {
		m.treeScroll = m.treeCursor
	}
	if m.treeCursor >= m.treeScroll+visible {
		m.treeScroll = m.treeCursor - visible + 1
	}
	m.clampTreeScroll(visible)
}

func (m *Model) clampTreeScroll(visible int) {
	maxScroll := len(m.treeRows) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.treeScroll > maxScroll {
		m.treeScroll = maxScroll
	}
	if m.treeScroll < 0 {
		m.treeScroll = 0
	}
}

// renderTreePane renders the tree rows into the pane content box.
func (m *Model) renderTreePane(width, height int) string {
	m.ensureTree()
	contentW := width - 4
	contentH := height - 2
	if contentW < 1 || contentH < 1 {
		return ""
	}
	// Scroll stays wherever keys or the wheel put it; cursor moves snap
	// it back through ensureTreeCursorVisible.
	m.clampTreeCursor()
	m.clampTreeScroll(contentH)

	bar := ui.RenderScrollbar(ui.ScrollbarParams{
		TotalItems:   len(m.treeRows),
		ScrollOffset: m.treeScroll,
		VisibleItems: contentH,
		TrackHeight:  contentH,
	})
	rowW := contentW
	if bar != "" {
		rowW--
	}

	var b strings.Builder
	end := m.treeScroll + contentH
	if end > len(m.treeRows) {
		end = len(m.treeRows)
	}
	for i := m.treeScroll; i < end; i++ {
		b.WriteString(m.renderTreeRow(&m.treeRows[i], i, rowW))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	content := b.String()
	if bar != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(rowW).Render(content), bar)
	}
	return content
}

// renderTreeRow turns one row into a styled line of exactly width cells.
// Highlighted rows (cursor, selection, drop target) are built plain and
// styled whole so the row background is unbroken.
func (m *Model) renderTreeRow(row *rowmodel.TreeRow, idx, width int) string {
	var rowStyle *lipgloss.Style
	switch {
	case m.dragSpec != nil && !m.dropRef.Zero() && row.Ref == m.dropRef:
		rowStyle = &styles.TreeDropTarget
	case idx == m.treeCursor && m.activePane == PaneTree:
		rowStyle = &styles.TreeSelected
	case idx == m.treeCursor || row.Ref == m.selected:
		rowStyle = &styles.TreeSelectedInactive
	}

	guides := make(map[int]struct{}, len(row.Guides))
	for _, lv := range row.Guides {
		guides[lv] = struct{}{}
	}

	var plain strings.Builder
	for lv := 0; lv < row.Level; lv++ {
		if _, ok := guides[lv]; ok {
			plain.WriteString("│ ")
		} else {
			plain.WriteString("  ")
		}
	}
	switch row.Chevron {
	case rowmodel.ChevronOpen:
		plain.WriteString("▾ ")
	case rowmodel.ChevronClosed:
		plain.WriteString("▸ ")
	default:
		plain.WriteString("  ")
	}
	if row.Icon != "" {
		plain.WriteString(row.Icon)
		plain.WriteString(" ")
	}

	label := row.Label
	if isSectionRef(row.Ref) {
		label = strings.ToUpper(label)
	}
	labelEnd := plain.Len()
	plain.WriteString(label)

	var tail strings.Builder
	if row.Decoration != "" {
		tail.WriteString("  ")
		tail.WriteString(row.Decoration)
	}
	if row.Count.Show {
		tail.WriteString(" ")
		tail.WriteString(row.Count.Label)
	}

	line := plain.String() + tail.String()
	if rowStyle != nil {
		line = ui.TruncateString(line, width)
		line = ui.PadRight(line, width)
		return rowStyle.Render(line)
	}

	// Unhighlighted rows style their parts individually.
	prefix := plain.String()[:labelEnd]
	styled := styleTreePrefix(prefix)
	styled += m.styleTreeLabel(row, label)
	if row.Decoration != "" {
		styled += styles.Subtle.Render("  " + row.Decoration)
	}
	if row.Count.Show {
		styled += styles.TreeCount.Render(" " + row.Count.Label)
	}
	styled = ui.TruncateString(styled, width)
	if row.Background != "" {
		pad := width - lipgloss.Width(styled)
		if pad > 0 {
			styled += strings.Repeat(" ", pad)
		}
	}
	return styled
}

// styleTreePrefix colors the guide and chevron glyphs, leaving plain
// indentation untouched.
func styleTreePrefix(prefix string) string {
	out := prefix
	out = strings.ReplaceAll(out, "│", styles.TreeGuide.Render("│"))
	out = strings.ReplaceAll(out, "▾", styles.TreeChevron.Render("▾"))
	out = strings.ReplaceAll(out, "▸", styles.TreeChevron.Render("▸"))
	return out
}

func (m *Model) styleTreeLabel(row *rowmodel.TreeRow, label string) string {
	var base lipgloss.Style
	switch row.Ref.Kind {
	case noderef.KindFolder:
		base = styles.TreeFolder
	case noderef.KindTag:
		base = styles.TreeTag
	case noderef.KindPropertyKey, noderef.KindPropertyValue:
		base = styles.TreeProperty
	case noderef.KindShortcut:
		base = styles.ListTitle
	default:
		base = styles.TreeVirtual
	}
	st := styles.AccentForeground(row.Accent, base)
	switch row.Match {
	case cache.MatchInclude:
		st = st.Underline(true)
	case cache.MatchExclude:
		st = st.Faint(true).Strikethrough(true)
	}
	if m.showHidden && m.meta.IsHidden(row.Ref) {
		st = st.Faint(true)
	}
	if row.FolderNote != "" {
		st = st.Underline(true)
	}
	return st.Render(label)
}
