package navigator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/meta"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
)

// agedModel returns a model whose vault holds a note from today and one
// from three days ago.
func agedModel(t *testing.T) *Model {
	t.Helper()
	m := testModel(t, map[string]string{
		"new.md": "fresh",
		"old.md": "stale",
	})
	past := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(m.vault.Abs("old.md"), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if err := m.vault.Scan(); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	m.listDirty = true
	m.ensureList()
	return m
}

func TestListGroupedByDate(t *testing.T) {
	m := agedModel(t)

	if len(m.entries) != 4 {
		t.Fatalf("got %d entries, want 4: %+v", len(m.entries), m.entries)
	}
	if e := m.entries[0]; e.kind != entryHeader || e.label != "Today" {
		t.Fatalf("entry 0 = %+v, want Today header", e)
	}
	if e := m.entries[1]; e.kind != entryFile || e.path != "new.md" {
		t.Fatalf("entry 1 = %+v, want new.md", e)
	}
	if e := m.entries[2]; e.kind != entryHeader || e.label != "Previous 7 days" {
		t.Fatalf("entry 2 = %+v, want Previous 7 days header", e)
	}
	if e := m.entries[3]; e.path != "old.md" {
		t.Fatalf("entry 3 = %+v, want old.md", e)
	}
	if m.listCursor != 1 {
		t.Fatalf("cursor = %d after rebuild, want first note row", m.listCursor)
	}
}

func TestMoveListCursorSkipsHeaders(t *testing.T) {
	m := agedModel(t)

	m.moveListCursor(1)
	if m.listCursor != 3 {
		t.Fatalf("cursor = %d, want 3 past the group header", m.listCursor)
	}
	m.moveListCursor(-1)
	if m.listCursor != 1 {
		t.Fatalf("cursor = %d, want back on the first note", m.listCursor)
	}
	// There is no note above the first; the cursor holds.
	m.moveListCursor(-1)
	if m.listCursor != 1 {
		t.Fatalf("cursor = %d, want 1 at the top", m.listCursor)
	}
}

func TestListIncludeDescendants(t *testing.T) {
	m := testModel(t, map[string]string{
		"alpha/a.md":       "x",
		"alpha/inner/b.md": "y",
	})
	m.setSelected(noderef.Folder("alpha"))
	m.ensureList()
	if got := m.fileEntryCount(); got != 2 {
		t.Fatalf("descendant count = %d, want 2", got)
	}

	m.includeDesc = false
	m.listDirty = true
	m.ensureList()
	if got := m.fileEntryCount(); got != 1 {
		t.Fatalf("direct count = %d, want 1", got)
	}
	if got := m.selectedFilePath(); got != "alpha/a.md" {
		t.Fatalf("selected = %q, want the folder's own note", got)
	}
}

func TestListPinnedFirst(t *testing.T) {
	m := testModel(t, map[string]string{
		"a.md": "x",
		"b.md": "y",
		"c.md": "z",
	})
	if err := m.meta.TogglePin(meta.PinFolder, noderef.File("b.md")); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}
	m.listDirty = true
	m.ensureList()

	if e := m.entries[0]; e.kind != entryHeader || e.label != "Pinned" {
		t.Fatalf("entry 0 = %+v, want Pinned header", e)
	}
	if e := m.entries[1]; e.path != "b.md" || !e.pinned {
		t.Fatalf("entry 1 = %+v, want pinned b.md", e)
	}
	if e := m.entries[2]; e.kind != entryHeader || e.label != "Today" {
		t.Fatalf("entry 2 = %+v, want date header for the rest", e)
	}
	if got := m.fileEntryCount(); got != 3 {
		t.Fatalf("file count = %d, want 3", got)
	}
}

func TestListTitleSortHasNoGroups(t *testing.T) {
	m := testModel(t, map[string]string{
		"Banana.md": "x",
		"apple.md":  "y",
		"cherry.md": "z",
	})
	m.sortChoice = settings.SortTitleAsc
	m.listDirty = true
	m.ensureList()

	if len(m.entries) != 3 {
		t.Fatalf("got %d entries, want 3 without headers: %+v", len(m.entries), m.entries)
	}
	want := []string{"apple.md", "Banana.md", "cherry.md"}
	for i, p := range want {
		if m.entries[i].path != p {
			t.Fatalf("entry %d = %q, want %q", i, m.entries[i].path, p)
		}
	}
}

func TestListQueryFilter(t *testing.T) {
	m := testModel(t, map[string]string{
		"a.md": "x",
		"b.md": "y",
		"c.md": "z",
	})
	m.ram.Load(map[string]*cache.FileRecord{
		"a.md": {Path: "a.md", Tags: []string{"work"}},
		"b.md": {Path: "b.md", Tags: []string{"play"}},
	})
	m.query = cache.ParseQuery("tag:work")
	m.listDirty = true
	m.ensureList()

	// b.md fails the clause and c.md has no index record yet.
	if got := m.fileEntryCount(); got != 1 {
		t.Fatalf("filtered count = %d, want 1", got)
	}
	if got := m.selectedFilePath(); got != "a.md" {
		t.Fatalf("selected = %q, want a.md", got)
	}
}

func TestListFreeTextPathsFilter(t *testing.T) {
	m := testModel(t, map[string]string{
		"a.md": "x",
		"b.md": "y",
	})
	m.freePaths = map[string]struct{}{"b.md": {}}
	m.listDirty = true
	m.ensureList()

	if got := m.fileEntryCount(); got != 1 {
		t.Fatalf("match count = %d, want 1", got)
	}
	if got := m.selectedFilePath(); got != "b.md" {
		t.Fatalf("selected = %q, want b.md", got)
	}
}

func TestListHiddenFiles(t *testing.T) {
	m := testModel(t, map[string]string{
		"a.md": "x",
		"b.md": "y",
	})
	if err := m.meta.SetHidden(noderef.File("b.md"), true); err != nil {
		t.Fatalf("SetHidden: %v", err)
	}
	m.listDirty = true
	m.ensureList()
	if got := m.fileEntryCount(); got != 1 {
		t.Fatalf("visible count = %d, want 1", got)
	}

	m.showHidden = true
	m.listDirty = true
	m.ensureList()
	if got := m.fileEntryCount(); got != 2 {
		t.Fatalf("count with hidden shown = %d, want 2", got)
	}
}

func TestNotesForTagSelection(t *testing.T) {
	m := testModel(t, map[string]string{
		"a.md": "x",
		"b.md": "y",
		"c.md": "z",
	})
	m.ram.Load(map[string]*cache.FileRecord{
		"a.md": {Path: "a.md", Tags: []string{"work"}},
		"b.md": {Path: "b.md", Tags: []string{"work/todo"}},
		"c.md": {Path: "c.md"},
	})

	m.setSelected(noderef.Tag("work"))
	m.ensureList()
	if got := m.fileEntryCount(); got != 2 {
		t.Fatalf("tag with descendants = %d notes, want 2", got)
	}

	m.includeDesc = false
	m.listDirty = true
	m.ensureList()
	if got := m.fileEntryCount(); got != 1 {
		t.Fatalf("tag without descendants = %d notes, want 1", got)
	}

	m.setSelected(refUntagged)
	m.ensureList()
	if got := m.fileEntryCount(); got != 1 {
		t.Fatalf("untagged = %d notes, want 1", got)
	}
	if got := m.selectedFilePath(); got != "c.md" {
		t.Fatalf("untagged selection = %q, want c.md", got)
	}
}

func TestSelectionLabel(t *testing.T) {
	m := testModel(t, map[string]string{"alpha/a.md": "x"})

	if got := m.selectionLabel(); got != filepath.Base(m.vault.Dir()) {
		t.Fatalf("root label = %q, want the vault name", got)
	}
	m.setSelected(noderef.Folder("alpha"))
	if got := m.selectionLabel(); got != "alpha" {
		t.Fatalf("folder label = %q", got)
	}
	m.setSelected(noderef.Tag("work"))
	if got := m.selectionLabel(); got != "#work" {
		t.Fatalf("tag label = %q", got)
	}
	m.setSelected(noderef.PropertyValue("status", "done"))
	if got := m.selectionLabel(); got != "status: done" {
		t.Fatalf("property label = %q", got)
	}
	m.setSelected(refUntagged)
	if got := m.selectionLabel(); got != "Untagged" {
		t.Fatalf("untagged label = %q", got)
	}
}

func TestVisibleListEntriesClipping(t *testing.T) {
	m := testModel(t, map[string]string{
		"a.md": "1",
		"b.md": "2",
		"c.md": "3",
		"d.md": "4",
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 12})

	// Five content rows fit one header and two collapsed note rows.
	vis := m.visibleListEntries()
	if len(vis) >= len(m.entries) {
		t.Fatalf("no clipping: %d visible of %d", len(vis), len(m.entries))
	}
}
