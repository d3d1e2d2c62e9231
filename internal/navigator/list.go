package navigator

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/vroablec/notebook-navigator-sub013/internal/highlight"
	"github.com/vroablec/notebook-navigator-sub013/internal/meta"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/rowmodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
	"github.com/vroablec/notebook-navigator-sub013/internal/thumbs"
	"github.com/vroablec/notebook-navigator-sub013/internal/treemodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/ui"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// listHeaderRows is the fixed header area inside the list pane: the
// selection title line and the search line.
const listHeaderRows = 2

// selfImageKey marks thumbnails generated from an image file's own
// content rather than a note's embed reference.
const selfImageKey = "self"

type entryKind int

const (
	entryFile entryKind = iota
	entryHeader
)

// listEntry is one row of the file list: a file or a section header
// (Pinned, date groups).
type listEntry struct {
	kind   entryKind
	label  string
	path   string
	pinned bool
}

// ensureList rebuilds the entries when anything feeding them moved: an
// explicit dirty mark, the vault tree, or the cache generation.
func (m *Model) ensureList() {
	if m.listDirty || m.listVaultVer != m.vault.Version() || m.listRAMGen != m.ram.Generation() {
		m.rebuildList()
	}
}

func (m *Model) rebuildList() {
	prevPath := m.selectedFilePath()

	paths := m.notesForSelection()
	hasClauses := m.query.HasClauses()
	keep := make([]string, 0, len(paths))
	for _, p := range paths {
		if !m.showHidden && m.meta.IsHidden(noderef.File(p)) {
			continue
		}
		if m.freePaths != nil {
			if _, ok := m.freePaths[p]; !ok {
				continue
			}
		}
		if hasClauses {
			rec := m.ram.Get(p)
			if rec == nil || !m.query.MatchRecord(rec) {
				continue
			}
		}
		keep = append(keep, p)
	}

	files := make([]*vault.File, 0, len(keep))
	for _, p := range keep {
		if f := m.vault.FileByPath(p); f != nil {
			files = append(files, f)
		}
	}

	m.syncControllers(files)
	order := m.sortOrder()
	m.sortFiles(files, order)

	pinCtx := meta.PinFolder
	if m.selected.Kind != noderef.KindFolder {
		pinCtx = meta.PinTag
	}
	var pinned, regular []*vault.File
	for _, f := range files {
		if m.meta.IsPinned(pinCtx, noderef.File(f.Path)) {
			pinned = append(pinned, f)
		} else {
			regular = append(regular, f)
		}
	}

	entries := make([]listEntry, 0, len(files)+8)
	if len(pinned) > 0 {
		entries = append(entries, listEntry{kind: entryHeader, label: "Pinned"})
		for _, f := range pinned {
			entries = append(entries, listEntry{kind: entryFile, path: f.Path, pinned: true})
		}
	}
	if m.cfg.List.GroupByDate && dateSorted(order) {
		now := time.Now()
		last := ""
		for _, f := range regular {
			g := dateGroup(f.ModTime, now)
			if g != last {
				entries = append(entries, listEntry{kind: entryHeader, label: g})
				last = g
			}
			entries = append(entries, listEntry{kind: entryFile, path: f.Path})
		}
	} else {
		for _, f := range regular {
			entries = append(entries, listEntry{kind: entryFile, path: f.Path})
		}
	}

	m.entries = entries
	m.listDirty = false
	m.listVaultVer = m.vault.Version()
	m.listRAMGen = m.ram.Generation()
	// In-flight thumbnail loads belong to the old entry set.
	m.imgEpoch++
	clear(m.thumbPending)

	m.listCursor = m.findListEntry(prevPath)
}

// notesForSelection resolves the selected navigation item to its note
// paths, before filtering and sorting.
func (m *Model) notesForSelection() []string {
	switch m.selected.Kind {
	case noderef.KindFolder:
		f := m.vault.FolderByPath(m.selected.Path)
		if f == nil {
			return nil
		}
		if !m.includeDesc {
			out := make([]string, 0, len(f.Notes))
			for _, n := range f.Notes {
				out = append(out, n.Path)
			}
			return out
		}
		var out []string
		var walk func(d *vault.Folder)
		walk = func(d *vault.Folder) {
			for _, n := range d.Notes {
				out = append(out, n.Path)
			}
			for _, sub := range d.Subfolders {
				walk(sub)
			}
		}
		walk(f)
		return out
	case noderef.KindTag:
		tagTree, _ := m.projections()
		node := tagTree.Find(m.selected)
		if node == nil {
			return nil
		}
		return node.NotesUnder(m.includeDesc)
	case noderef.KindPropertyKey:
		_, propTree := m.projections()
		node := propTree.Find(m.selected)
		if node == nil {
			return nil
		}
		return node.NotesUnder(true)
	case noderef.KindPropertyValue:
		_, propTree := m.projections()
		node := propTree.Find(m.selected)
		if node == nil {
			return nil
		}
		return node.NotesUnder(false)
	case noderef.KindVirtual:
		switch {
		case m.selected.Path == refUntagged.Path:
			return treemodel.Untagged(m.ram)
		case strings.HasPrefix(m.selected.Path, noValuePrefix):
			return m.noValuePaths(strings.TrimPrefix(m.selected.Path, noValuePrefix))
		}
	}
	return nil
}

// syncControllers attaches controllers for new paths and drops the ones
// whose files left the list.
func (m *Model) syncControllers(files []*vault.File) {
	current := make(map[string]struct{}, len(files))
	for _, f := range files {
		current[f.Path] = struct{}{}
		m.controller(f.Path)
	}
	for path := range m.controllers {
		if _, ok := current[path]; !ok {
			m.dropController(path)
		}
	}
}

// sortFiles orders files in place. Titles use the frontmatter display
// name; the created orders fall back to mtime since the vault records no
// birth time.
func (m *Model) sortFiles(files []*vault.File, order string) {
	name := func(f *vault.File) string {
		if c, ok := m.controllers[f.Path]; ok {
			return strings.ToLower(c.DisplayName(f.Base))
		}
		return strings.ToLower(f.Base)
	}
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		switch order {
		case "modified-asc", "created-asc":
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
		case "modified-desc", "created-desc":
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.After(b.ModTime)
			}
		case "title-desc":
			an, bn := name(a), name(b)
			if an != bn {
				return an > bn
			}
		default: // title-asc
			an, bn := name(a), name(b)
			if an != bn {
				return an < bn
			}
		}
		return a.Path < b.Path
	})
}

func dateSorted(order string) bool {
	return strings.HasPrefix(order, "modified-") || strings.HasPrefix(order, "created-")
}

// dateGroup buckets a time for the grouped list: Today, Yesterday, the
// recent windows, then month names for this year and years before that.
func dateGroup(t, now time.Time) string {
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())
	switch {
	case !t.Before(today):
		return "Today"
	case !t.Before(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case !t.Before(today.AddDate(0, 0, -7)):
		return "Previous 7 days"
	case !t.Before(today.AddDate(0, 0, -30)):
		return "Previous 30 days"
	case t.Year() == now.Year():
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}

// findListEntry locates the row for path, falling back to the first
// file row.
func (m *Model) findListEntry(path string) int {
	first := -1
	for i := range m.entries {
		if m.entries[i].kind != entryFile {
			continue
		}
		if first < 0 {
			first = i
		}
		if path != "" && m.entries[i].path == path {
			return i
		}
	}
	if first >= 0 {
		return first
	}
	return 0
}

// moveListCursor steps the cursor over file rows, skipping headers.
func (m *Model) moveListCursor(delta int) {
	m.ensureList()
	if len(m.entries) == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	idx := m.listCursor
	for n := 0; n < delta; n++ {
		j := idx + step
		for j >= 0 && j < len(m.entries) && m.entries[j].kind == entryHeader {
			j += step
		}
		if j < 0 || j >= len(m.entries) {
			break
		}
		idx = j
	}
	m.listCursor = idx
	m.ensureListCursorVisible()
}

func (m *Model) listTop() {
	m.ensureList()
	m.listCursor = m.findListEntry("")
	m.listScroll = 0
}

func (m *Model) listBottom() {
	m.ensureList()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].kind == entryFile {
			m.listCursor = i
			m.ensureListCursorVisible()
			return
		}
	}
}

// pageList moves by one viewport worth of rows in the given direction.
func (m *Model) pageList(dir int) {
	count := len(m.visibleListEntries()) - 1
	if count < 1 {
		count = 1
	}
	m.moveListCursor(dir * count)
}

// entryHeight is the fixed render height of one row. It depends only on
// the controller layout and the preview-line setting, so scroll math and
// the renderer always agree.
func (m *Model) entryHeight(e *listEntry) int {
	if e.kind == entryHeader {
		return 1
	}
	c, ok := m.controllers[e.path]
	if !ok {
		return 1
	}
	switch c.Layout(m.cfg.List) {
	case rowmodel.LayoutCompact:
		return 1
	case rowmodel.LayoutFull:
		return 2 + m.cfg.List.PreviewLines
	default:
		return 2
	}
}

// listRowsHeight is the row area inside the list pane content box.
func (m *Model) listRowsHeight() int {
	h := m.paneHeight() - 2 - listHeaderRows
	if h < 1 {
		h = 1
	}
	return h
}

// visibleEntry places one visible row inside the row area.
type visibleEntry struct {
	index  int
	y      int
	height int
}

// visibleListEntries lists the rows that fit the viewport, with their
// offsets. Rows render whole; a row that would straddle the bottom edge
// is left for the next scroll position.
func (m *Model) visibleListEntries() []visibleEntry {
	rowsH := m.listRowsHeight()
	var out []visibleEntry
	used := 0
	for i := m.listScroll; i < len(m.entries); i++ {
		h := m.entryHeight(&m.entries[i])
		if used+h > rowsH {
			break
		}
		out = append(out, visibleEntry{index: i, y: used, height: h})
		used += h
	}
	return out
}

func (m *Model) ensureListCursorVisible() {
	if len(m.entries) == 0 {
		m.listScroll = 0
		return
	}
	if m.listCursor >= len(m.entries) {
		m.listCursor = len(m.entries) - 1
	}
	if m.listCursor < m.listScroll {
		m.listScroll = m.listCursor
	}
	rowsH := m.listRowsHeight()
	for m.listScroll < m.listCursor {
		used := 0
		fits := false
		for i := m.listScroll; i <= m.listCursor; i++ {
			used += m.entryHeight(&m.entries[i])
			if i == m.listCursor {
				fits = used <= rowsH
			}
		}
		if fits {
			break
		}
		m.listScroll++
	}
	if m.listScroll < 0 {
		m.listScroll = 0
	}
}

func (m *Model) scrollList(delta int) {
	m.listScroll += delta
	max := len(m.entries) - 1
	if max < 0 {
		max = 0
	}
	if m.listScroll > max {
		m.listScroll = max
	}
	if m.listScroll < 0 {
		m.listScroll = 0
	}
}

// clampListViewport keeps cursor and scroll inside the entry slice
// without pulling the viewport back to the cursor, so wheel scrolling
// can drift away from it. Cursor movement re-snaps via
// ensureListCursorVisible.
func (m *Model) clampListViewport() {
	if len(m.entries) == 0 {
		m.listCursor = 0
		m.listScroll = 0
		return
	}
	if m.listCursor >= len(m.entries) {
		m.listCursor = len(m.entries) - 1
	}
	if m.listCursor < 0 {
		m.listCursor = 0
	}
	if max := len(m.entries) - 1; m.listScroll > max {
		m.listScroll = max
	}
	if m.listScroll < 0 {
		m.listScroll = 0
	}
}

// selectionLabel names the current list source for the pane header.
func (m *Model) selectionLabel() string {
	switch m.selected.Kind {
	case noderef.KindFolder:
		if m.selected.Path == vault.RootPath {
			return filepath.Base(m.vault.Dir())
		}
		if f := m.vault.FolderByPath(m.selected.Path); f != nil {
			return f.Name
		}
		return m.selected.Path
	case noderef.KindTag:
		return "#" + m.selected.Path
	case noderef.KindPropertyKey:
		return m.selected.Key
	case noderef.KindPropertyValue:
		return m.selected.Key + ": " + m.selected.Value
	case noderef.KindVirtual:
		if strings.HasPrefix(m.selected.Path, noValuePrefix) {
			return strings.TrimPrefix(m.selected.Path, noValuePrefix) + ": no value"
		}
		return "Untagged"
	default:
		return ""
	}
}

func (m *Model) fileEntryCount() int {
	n := 0
	for i := range m.entries {
		if m.entries[i].kind == entryFile {
			n++
		}
	}
	return n
}

// renderListPane renders the header lines and the visible rows into the
// pane content box.
func (m *Model) renderListPane(width, height int) string {
	m.ensureList()
	contentW := width - 4
	contentH := height - 2
	if contentW < 1 || contentH < 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderListHeader(contentW))
	b.WriteByte('\n')
	b.WriteString(m.renderSearchLine(contentW))
	if contentH <= listHeaderRows {
		return b.String()
	}

	m.clampListViewport()
	visible := m.visibleListEntries()
	rowsH := m.listRowsHeight()

	bar := ui.RenderScrollbar(ui.ScrollbarParams{
		TotalItems:   len(m.entries),
		ScrollOffset: m.listScroll,
		VisibleItems: len(visible),
		TrackHeight:  rowsH,
	})
	rowW := contentW
	if bar != "" {
		rowW--
	}

	var rows strings.Builder
	for i, ve := range visible {
		rows.WriteString(m.renderListEntry(ve.index, rowW))
		if i < len(visible)-1 {
			rows.WriteByte('\n')
		}
	}
	block := rows.String()
	if bar != "" {
		block = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(rowW).Render(block), bar)
	}
	b.WriteByte('\n')
	b.WriteString(block)
	return b.String()
}

func (m *Model) renderListHeader(width int) string {
	label := m.selectionLabel()
	count := m.fileEntryCount()
	title := styles.Title.Render(label)
	badge := styles.Muted.Render(pluralNotes(count))
	line := title + "  " + badge
	return ui.TruncateString(line, width)
}

func pluralNotes(n int) string {
	if n == 1 {
		return "1 note"
	}
	return strconv.Itoa(n) + " notes"
}

func (m *Model) renderSearchLine(width int) string {
	switch {
	case m.searchOpen:
		return ui.TruncateString(m.searchInput.View(), width)
	case m.searchCommitted && strings.TrimSpace(m.searchInput.Value()) != "":
		line := styles.SearchPrompt.Render("/") + " " + styles.Muted.Render(m.searchInput.Value())
		return ui.TruncateString(line, width)
	default:
		return ""
	}
}

// renderListEntry renders one row, exactly entryHeight lines tall.
func (m *Model) renderListEntry(idx, width int) string {
	e := &m.entries[idx]
	if e.kind == entryHeader {
		st := styles.ListGroupHeader
		if e.label == "Pinned" {
			st = styles.ListPinnedHeader
		}
		return st.Render(ui.TruncateString(e.label, width))
	}
	return m.renderFileEntry(idx, width)
}

func (m *Model) renderFileEntry(idx, width int) string {
	e := &m.entries[idx]
	f := m.vault.FileByPath(e.path)
	c, ok := m.controllers[e.path]
	if f == nil || !ok {
		return ""
	}

	selected := idx == m.listCursor
	layout := c.Layout(m.cfg.List)
	height := m.entryHeight(e)

	imgBlock := ""
	textW := width
	if m.cfg.List.ShowFeatureImage && layout == rowmodel.LayoutFull && !selected {
		if h := c.Image(); h != nil {
			cols := thumbCols(c.Aspect(), height, width)
			if cols > 0 {
				imgBlock = thumbs.Blocks(h.Image(), cols, height)
				textW = width - cols - 1
			}
		}
	}

	lines := m.fileRowLines(f, c, layout, textW, height, selected)
	if selected {
		st := styles.ListSelected
		if m.activePane != PaneList {
			st = styles.ListSelectedInactive
		}
		for i := range lines {
			lines[i] = st.Render(ui.PadRight(ui.TruncateString(lines[i], textW), textW))
		}
	} else {
		for i := range lines {
			lines[i] = ui.TruncateString(lines[i], textW)
		}
	}
	text := strings.Join(lines, "\n")
	if imgBlock != "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, imgBlock, " ", lipgloss.NewStyle().Width(textW).Render(text))
	}
	return text
}

// thumbCols sizes the thumbnail column from the row height and image
// aspect, capped to a third of the row width.
func thumbCols(aspect float64, rows, width int) int {
	if aspect <= 0 {
		return 0
	}
	cols := int(float64(rows)*2*aspect + 0.5)
	if cols > width/3 {
		cols = width / 3
	}
	if cols < 4 {
		cols = 4
	}
	if cols >= width {
		return 0
	}
	return cols
}

// fileRowLines builds the text column. Selected rows come back plain so
// the caller can style whole lines without fighting inner sequences.
func (m *Model) fileRowLines(f *vault.File, c *rowmodel.FileController, layout rowmodel.Layout, width, height int, plain bool) []string {
	name := c.DisplayName(f.Base)
	icon := c.EffectiveIcon(f.Name, f.Ext, m.meta.Icon(noderef.File(f.Path)), m.cfg.Icons)
	qtext, qmeta := m.activeHighlight()

	title := ""
	if icon != "" {
		title = icon + " "
	}
	if plain {
		title += name
	} else if qtext != "" {
		title += c.HighlightedName(name, qtext, qmeta, styles.SearchMatch)
	} else {
		title += styles.ListTitle.Render(name)
	}
	if !f.IsNote() {
		if ext := strings.TrimPrefix(f.Ext, "."); ext != "" {
			if plain {
				title += " " + strings.ToUpper(ext)
			} else {
				title += " " + styles.ListExtBadge.Render(strings.ToUpper(ext))
			}
		}
	}

	lines := []string{title}
	if layout == rowmodel.LayoutCompact {
		return lines
	}

	if layout == rowmodel.LayoutFull {
		previewLines := height - 2
		preview := c.Preview()
		var wrapped []string
		if preview != "" {
			wrapped = strings.Split(cellbuf.Wrap(preview, width, ""), "\n")
		}
		for i := 0; i < previewLines; i++ {
			line := ""
			if i < len(wrapped) {
				line = wrapped[i]
				switch {
				case plain:
				case qtext != "":
					line = highlight.Render(line, qtext, qmeta, styles.SearchMatch)
				default:
					line = styles.ListPreview.Render(line)
				}
			}
			lines = append(lines, line)
		}
	}

	lines = append(lines, m.fileMetaLine(f, c, plain))
	return lines
}

// fileMetaLine is the date, crumb, and pill strip under a title.
func (m *Model) fileMetaLine(f *vault.File, c *rowmodel.FileController, plain bool) string {
	var parts []string
	add := func(text string, st lipgloss.Style) {
		if text == "" {
			return
		}
		if plain {
			parts = append(parts, text)
		} else {
			parts = append(parts, st.Render(text))
		}
	}

	if m.cfg.List.ShowDate {
		add(f.ModTime.Format(m.cfg.List.DateFormat), styles.ListDate)
	}
	if m.cfg.List.ShowParentCrumb && m.includeDesc {
		add(parentCrumb(f.Path), styles.ListCrumb)
	}
	if m.cfg.List.ShowTagPills {
		for _, p := range c.TagPills(m.palette) {
			if plain {
				parts = append(parts, p.Label)
			} else {
				parts = append(parts, styles.RenderTagPill(p.Label, p.Accent))
			}
		}
	}
	if m.cfg.List.ShowPropertyPills {
		for _, p := range c.PropertyPills(m.cfg.List.PropertyPillFields, m.cfg.List.ColoredPillsFirst, m.palette) {
			if plain {
				parts = append(parts, p.Label)
			} else {
				parts = append(parts, styles.RenderPill(p.Label, p.Accent))
			}
		}
	}
	if p, ok := c.TaskPill(m.cfg.List.ShowTaskCounts); ok {
		add(p.Label, styles.ListTaskPill)
	}
	if p, ok := c.WordCountPill(m.cfg.List.ShowWordCount); ok {
		add(p.Label, styles.ListWordCount)
	}
	return strings.Join(parts, " ")
}

// activeHighlight returns the query text and meta for match styling,
// empty when no query is live.
func (m *Model) activeHighlight() (string, *highlight.SearchMeta) {
	if m.query.Empty() {
		return "", nil
	}
	return strings.TrimSpace(m.searchInput.Value()), m.query.Meta()
}

// queueThumbs requests thumbnails for visible rows that want one.
// Acquire failures and unprocessed records escalate to generation,
// throttled per (path, key).
func (m *Model) queueThumbs() tea.Cmd {
	if !m.cfg.List.ShowFeatureImage {
		return nil
	}
	var cmds []tea.Cmd
	for _, ve := range m.visibleListEntries() {
		e := &m.entries[ve.index]
		if e.kind != entryFile {
			continue
		}
		c, ok := m.controllers[e.path]
		if !ok || c.Image() != nil {
			continue
		}
		plan := c.ImagePlan()
		switch plan.Action {
		case rowmodel.ImageSelf:
			if m.markThumbPending(e.path, selfImageKey) {
				cmds = append(cmds, m.acquireThumbCmd(m.imgEpoch, e.path, selfImageKey))
			}
		case rowmodel.ImageFetch:
			if m.markThumbPending(e.path, plan.Key) {
				cmds = append(cmds, m.acquireThumbCmd(m.imgEpoch, e.path, plan.Key))
			}
		case rowmodel.ImageRegen:
			if m.limiter.Allow(e.path, plan.Key) && m.markThumbPending(e.path, plan.Key) {
				cmds = append(cmds, m.generateThumbCmd(m.imgEpoch, e.path, plan.Key, m.resolveImageSource(e.path, plan.Key)))
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// markThumbPending records an in-flight request, reporting false when
// one is already running for the same (path, key).
func (m *Model) markThumbPending(path, key string) bool {
	k := path + "\x00" + key
	if _, ok := m.thumbPending[k]; ok {
		return false
	}
	m.thumbPending[k] = struct{}{}
	return true
}

func (m *Model) clearThumbPending(path, key string) {
	delete(m.thumbPending, path+"\x00"+key)
}

// resolveImageSource maps a note's embed key to the attachment's
// absolute path, empty when nothing matches. Self keys point at the
// file itself.
func (m *Model) resolveImageSource(path, key string) string {
	if key == selfImageKey {
		return m.vault.Abs(path)
	}
	f := thumbs.ResolveAttachment(m.vault, path, key)
	if f == nil {
		return ""
	}
	return m.vault.Abs(f.Path)
}
