package navigator

import (
	"testing"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/rowmodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

func treeFiles() map[string]string {
	return map[string]string{
		"alpha/a.md":       "# a",
		"alpha/inner/b.md": "# b",
		"beta/c.md":        "# c",
		"root.md":          "# r",
	}
}

func TestTreeRowsDefault(t *testing.T) {
	m := testModel(t, treeFiles())
	m.ensureTree()

	if len(m.treeRows) != 4 {
		t.Fatalf("got %d rows, want 4: %+v", len(m.treeRows), m.treeRows)
	}
	root := m.treeRows[0]
	if root.Ref != noderef.Folder(vault.RootPath) || root.Level != 0 {
		t.Fatalf("row 0 = %v level %d, want open root", root.Ref, root.Level)
	}
	if root.Chevron != rowmodel.ChevronOpen {
		t.Fatalf("root chevron = %v, want open", root.Chevron)
	}
	if r := m.treeRows[1]; r.Label != "alpha" || r.Level != 1 || r.Chevron != rowmodel.ChevronClosed {
		t.Fatalf("row 1 = %q level %d chevron %v", r.Label, r.Level, r.Chevron)
	}
	if r := m.treeRows[2]; r.Label != "beta" || r.Chevron != rowmodel.ChevronNone {
		t.Fatalf("row 2 = %q chevron %v, want childless beta", r.Label, r.Chevron)
	}
	if r := m.treeRows[3]; r.Ref != refTags || r.Label != "Tags" {
		t.Fatalf("row 3 = %v %q, want tags section", r.Ref, r.Label)
	}
}

func TestExpandAndCollapseCursorRow(t *testing.T) {
	m := testModel(t, treeFiles())
	m.ensureTree()

	m.setTreeCursor(1) // alpha
	if m.selected != noderef.Folder("alpha") {
		t.Fatalf("cursor selection = %v, want alpha", m.selected)
	}

	m.expandCursorRow()
	m.ensureTree()
	if len(m.treeRows) != 5 {
		t.Fatalf("got %d rows after expand, want 5", len(m.treeRows))
	}
	if r := m.treeRows[2]; r.Ref != noderef.Folder("alpha/inner") || r.Level != 2 {
		t.Fatalf("row 2 = %v level %d, want alpha/inner at level 2", r.Ref, r.Level)
	}

	// Collapsing on a leaf jumps to its parent instead.
	m.setTreeCursor(2)
	m.collapseCursorRow()
	if m.treeCursor != 1 {
		t.Fatalf("cursor = %d after leaf collapse, want parent row 1", m.treeCursor)
	}

	m.collapseCursorRow()
	m.ensureTree()
	if idx := m.findTreeRow(noderef.Folder("alpha/inner")); idx >= 0 {
		t.Fatalf("alpha/inner still visible after collapse")
	}
}

func TestExpandAllAndCollapseAll(t *testing.T) {
	m := testModel(t, treeFiles())
	m.ensureTree()

	m.expandAllRows()
	m.ensureTree()
	if m.findTreeRow(noderef.Folder("alpha/inner")) < 0 {
		t.Fatalf("alpha/inner not visible after expand all")
	}

	m.collapseAllRows()
	m.ensureTree()
	if m.findTreeRow(noderef.Folder("alpha/inner")) >= 0 {
		t.Fatalf("alpha/inner still visible after collapse all")
	}
	// The root stays open so the top-level folders remain reachable.
	if m.findTreeRow(noderef.Folder("alpha")) < 0 {
		t.Fatalf("top-level folders hidden after collapse all")
	}
}

func TestToggleSiblingRows(t *testing.T) {
	m := testModel(t, map[string]string{
		"alpha/a.md":       "1",
		"alpha/inner/b.md": "2",
		"beta/c.md":        "3",
		"gamma/g.md":       "4",
		"gamma/sub/h.md":   "5",
	})
	// gamma starts open so the bulk toggle has a mixed set to settle.
	m.expansion.SetOpen(noderef.Folder("gamma"), true)
	m.ensureTree()

	m.setTreeCursor(1) // alpha
	m.toggleSiblingRows()
	m.ensureTree()
	if !m.expansion.IsOpen(noderef.Folder("alpha")) || !m.expansion.IsOpen(noderef.Folder("gamma")) {
		t.Fatalf("siblings did not land open together")
	}
	if m.findTreeRow(noderef.Folder("alpha/inner")) < 0 || m.findTreeRow(noderef.Folder("gamma/sub")) < 0 {
		t.Fatalf("expanded sibling children not visible")
	}

	m.toggleSiblingRows()
	m.ensureTree()
	if m.expansion.IsOpen(noderef.Folder("alpha")) || m.expansion.IsOpen(noderef.Folder("gamma")) {
		t.Fatalf("siblings did not close together")
	}
	// The childless middle sibling is untouched rather than toggled open.
	if m.expansion.IsOpen(noderef.Folder("beta")) {
		t.Fatalf("childless sibling was opened")
	}
}

func TestTreeTagRows(t *testing.T) {
	m := testModel(t, treeFiles())
	m.ram.Load(map[string]*cache.FileRecord{
		"alpha/a.md": {Path: "alpha/a.md", Tags: []string{"work/todo"}},
		"beta/c.md":  {Path: "beta/c.md", Tags: []string{"work"}},
		"root.md":    {Path: "root.md"},
	})
	m.expansion.SetOpen(refTags, true)
	m.treeDirty = true
	m.ensureTree()

	idx := m.findTreeRow(noderef.Tag("work"))
	if idx < 0 {
		t.Fatalf("no row for tag work")
	}
	if r := m.treeRows[idx]; r.Level != 1 || r.Chevron != rowmodel.ChevronClosed {
		t.Fatalf("work row level %d chevron %v, want closed level 1", r.Level, r.Chevron)
	}
	if m.findTreeRow(noderef.Tag("work/todo")) >= 0 {
		t.Fatalf("nested tag visible while its parent is closed")
	}
	if m.findTreeRow(refUntagged) < 0 {
		t.Fatalf("no untagged row")
	}

	m.expansion.SetOpen(noderef.Tag("work"), true)
	m.treeDirty = true
	m.ensureTree()
	idx = m.findTreeRow(noderef.Tag("work/todo"))
	if idx < 0 {
		t.Fatalf("nested tag missing after expanding work")
	}
	if r := m.treeRows[idx]; r.Label != "todo" || r.Level != 2 {
		t.Fatalf("nested tag row = %q level %d, want todo at level 2", r.Label, r.Level)
	}
}

func TestRevealFile(t *testing.T) {
	m := sized(t, testModel(t, treeFiles()))

	m.revealFile("alpha/inner/b.md")
	if m.selected != noderef.Folder("alpha/inner") {
		t.Fatalf("selection = %v, want alpha/inner", m.selected)
	}
	if r := m.cursorRow(); r == nil || r.Ref != noderef.Folder("alpha/inner") {
		t.Fatalf("cursor not on revealed folder: %+v", r)
	}
	if m.activePane != PaneList {
		t.Fatalf("active pane = %v, want list", m.activePane)
	}
	if got := m.selectedFilePath(); got != "alpha/inner/b.md" {
		t.Fatalf("selected file = %q, want alpha/inner/b.md", got)
	}
}

func TestShortcutRows(t *testing.T) {
	m := testModel(t, treeFiles())
	if err := m.meta.AddShortcut(noderef.Folder("alpha")); err != nil {
		t.Fatalf("AddShortcut: %v", err)
	}
	if err := m.meta.AddShortcut(noderef.File("beta/c.md")); err != nil {
		t.Fatalf("AddShortcut: %v", err)
	}
	m.expansion.SetOpen(refShortcuts, true)
	m.treeDirty = true
	m.ensureTree()

	if r := m.treeRows[0]; r.Ref != refShortcuts {
		t.Fatalf("row 0 = %v, want shortcuts section", r.Ref)
	}
	if r := m.treeRows[1]; r.Ref.Kind != noderef.KindShortcut || r.Label != "alpha" {
		t.Fatalf("row 1 = %v %q, want alpha shortcut", r.Ref, r.Label)
	}
	if r := m.treeRows[2]; r.Label != "c" || r.Decoration != "beta" {
		t.Fatalf("row 2 = %q (%q), want note shortcut with its folder crumb", r.Label, r.Decoration)
	}

	// Activating a note shortcut lands on the note inside its folder.
	m.setTreeCursor(2)
	m.selectCursorRow(true)
	if m.selected != noderef.Folder("beta") {
		t.Fatalf("selection = %v after shortcut jump, want beta", m.selected)
	}
	if got := m.selectedFilePath(); got != "beta/c.md" {
		t.Fatalf("selected file = %q, want beta/c.md", got)
	}
	if m.activePane != PaneList {
		t.Fatalf("active pane = %v, want list", m.activePane)
	}
}

func TestSectionHeaderToggle(t *testing.T) {
	m := testModel(t, treeFiles())
	m.ensureTree()

	m.setTreeCursor(3) // tags section
	before := m.selected
	m.selectCursorRow(true)
	m.ensureTree()
	if m.selected != before {
		t.Fatalf("section header changed the selection to %v", m.selected)
	}
	if !m.expansion.IsOpen(refTags) {
		t.Fatalf("tags section still closed after activation")
	}
	if m.findTreeRow(refUntagged) < 0 {
		t.Fatalf("untagged row missing from the open tags section")
	}
}
