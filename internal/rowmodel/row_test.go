package rowmodel

import (
	"testing"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/notecount"
	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
	"github.com/vroablec/notebook-navigator-sub013/internal/treemodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

func testVault() (root, projects *vault.Folder) {
	root = &vault.Folder{Path: vault.RootPath, Name: "Vault"}
	projects = &vault.Folder{Path: "projects", Name: "Projects", Parent: root}
	root.Subfolders = []*vault.Folder{projects}
	root.Notes = []*vault.File{
		{Path: "readme.md", Name: "readme.md", Base: "readme", Ext: ".md", Parent: root},
	}
	return root, projects
}

func TestFolderRowRoot(t *testing.T) {
	root, _ := testVault()

	row := FolderRow(root, "Vault", 0, false, Style{}, notecount.Result{}, cache.MatchNone)
	if row.Icon != VaultClosedIcon {
		t.Errorf("collapsed root icon = %q", row.Icon)
	}
	if row.Drag != nil {
		t.Error("the root must not be draggable")
	}
	if row.Ref != noderef.Folder(vault.RootPath) {
		t.Errorf("Ref = %v", row.Ref)
	}

	row = FolderRow(root, "Vault", 0, true, Style{}, notecount.Result{}, cache.MatchNone)
	if row.Icon != VaultOpenIcon {
		t.Errorf("expanded root icon = %q", row.Icon)
	}

	row = FolderRow(root, "Vault", 0, true, Style{Icon: "◈"}, notecount.Result{}, cache.MatchNone)
	if row.Icon != "◈" {
		t.Errorf("custom icon should win over the vault glyph, got %q", row.Icon)
	}
}

func TestFolderRow(t *testing.T) {
	_, projects := testVault()
	projects.Subfolders = []*vault.Folder{{Path: "projects/archive", Name: "archive", Parent: projects}}
	count := notecount.Result{Show: true, Label: "4"}

	row := FolderRow(projects, "Projects", 1, false, Style{Accent: "#AA5500"}, count, cache.MatchInclude)

	if row.Chevron != ChevronClosed {
		t.Errorf("Chevron = %v", row.Chevron)
	}
	if row.Count != count || row.Match != cache.MatchInclude {
		t.Errorf("row = %+v", row)
	}
	if row.Drag == nil || row.Drag.Ref != noderef.Folder("projects") || row.Drag.Title != "Projects" {
		t.Errorf("Drag = %+v", row.Drag)
	}
	if row.Drag.Accent != "#AA5500" {
		t.Errorf("Drag.Accent = %q", row.Drag.Accent)
	}

	if got := FolderRow(projects, "Projects", 1, true, Style{}, count, cache.MatchNone).Chevron; got != ChevronOpen {
		t.Errorf("expanded Chevron = %v", got)
	}
	_, leaf := testVault()
	if got := FolderRow(leaf, "Projects", 1, false, Style{}, count, cache.MatchNone).Chevron; got != ChevronNone {
		t.Errorf("leaf Chevron = %v", got)
	}
}

func TestFolderNote(t *testing.T) {
	_, projects := testVault()

	if got := FolderNote(projects); got != "" {
		t.Errorf("empty folder note = %q", got)
	}

	projects.Notes = []*vault.File{
		{Path: "projects/index.md", Name: "index.md", Base: "index", Ext: ".md"},
		{Path: "projects/projects.md", Name: "projects.md", Base: "projects", Ext: ".md"},
	}
	if got := FolderNote(projects); got != "projects/projects.md" {
		t.Errorf("same-name note should win over index, got %q", got)
	}

	projects.Notes = projects.Notes[:1]
	if got := FolderNote(projects); got != "projects/index.md" {
		t.Errorf("index fallback = %q", got)
	}

	projects.Notes = []*vault.File{
		{Path: "projects/projects.png", Name: "projects.png", Base: "projects", Ext: ".png"},
	}
	if got := FolderNote(projects); got != "" {
		t.Errorf("non-note files must not count, got %q", got)
	}
}

func TestChildCounts(t *testing.T) {
	root, projects := testVault()
	projects.Subfolders = []*vault.Folder{{Path: "projects/archive", Name: "archive"}}

	files, folders := ChildCounts(root)
	if files != 1 || folders != 1 {
		t.Errorf("root counts = %d files, %d folders", files, folders)
	}
	files, folders = ChildCounts(projects)
	if files != 0 || folders != 1 {
		t.Errorf("projects counts = %d files, %d folders", files, folders)
	}
}

func TestTagRow(t *testing.T) {
	ram := loadedRAM(&cache.FileRecord{Path: "a.md", Tags: []string{"Work/Reports"}})
	tree := treemodel.BuildTagTree(ram)

	work := tree.Find(noderef.Tag("work"))
	if work == nil {
		t.Fatal("tag node missing")
	}

	row := TagRow(work, 1, false, Style{Accent: "#00AAAA"}, notecount.Result{Show: true, Label: "1"}, cache.MatchNone)
	if row.Label != "Work" {
		t.Errorf("Label = %q, want first-seen casing", row.Label)
	}
	if row.Chevron != ChevronClosed {
		t.Errorf("Chevron = %v", row.Chevron)
	}
	if row.Drag == nil || row.Drag.Title != "#work" {
		t.Errorf("Drag = %+v", row.Drag)
	}

	leaf := tree.Find(noderef.Tag("work/reports"))
	if got := TagRow(leaf, 2, false, Style{}, notecount.Result{}, cache.MatchNone).Chevron; got != ChevronNone {
		t.Errorf("leaf Chevron = %v", got)
	}
}

func TestPropertyRow(t *testing.T) {
	ram := loadedRAM(&cache.FileRecord{
		Path: "a.md",
		Properties: []notemeta.PropertyItem{
			{FieldKey: "Status", Value: "Active", Kind: notemeta.KindText},
		},
	})
	tree := treemodel.BuildPropertyTree(ram)

	key := tree.Find(noderef.PropertyKey("status"))
	if key == nil {
		t.Fatal("key node missing")
	}
	row := PropertyRow(key, 1, true, Style{}, notecount.Result{Show: true, Label: "1"}, cache.MatchNone)
	if row.Label != "Status" || row.Chevron != ChevronOpen {
		t.Errorf("key row = %+v", row)
	}
	if row.Drag == nil || row.Drag.Title != "Status" {
		t.Errorf("Drag = %+v", row.Drag)
	}

	value := tree.Find(noderef.PropertyValue("status", "active"))
	vrow := PropertyRow(value, 2, false, Style{}, notecount.Result{}, cache.MatchNone)
	if vrow.Label != "Active" || vrow.Chevron != ChevronNone {
		t.Errorf("value row = %+v", vrow)
	}
}

func TestVirtualRow(t *testing.T) {
	ref := noderef.Virtual("untagged")
	row := VirtualRow(ref, "Untagged", 1, false, false, Style{}, notecount.Result{Show: true, Label: "3"}, cache.MatchNone)

	if row.Ref != ref || row.Label != "Untagged" {
		t.Errorf("row = %+v", row)
	}
	if row.Drag != nil {
		t.Error("virtual rows must not be draggable")
	}
	if VirtualRow(ref, "Tags", 0, true, true, Style{}, notecount.Result{}, cache.MatchNone).Chevron != ChevronOpen {
		t.Error("section chevron should follow expansion")
	}
}

func TestShortcutRow(t *testing.T) {
	target := noderef.File("projects/plan.md")
	row := ShortcutRow(target, "plan", "projects", 1, Style{Icon: "◈"}, cache.MatchNone)

	if row.Ref == target {
		t.Error("shortcut ref must not collide with the target's row")
	}
	if row.Ref.Kind != noderef.KindShortcut {
		t.Errorf("Ref.Kind = %v", row.Ref.Kind)
	}
	if got, err := noderef.Parse(row.Ref.Path); err != nil || got != target {
		t.Errorf("wrapped ref = %v (err %v), want %v", got, err, target)
	}
	if row.Decoration != "projects" {
		t.Errorf("Decoration = %q", row.Decoration)
	}
	if row.Drag == nil || row.Drag.Ref != row.Ref || row.Drag.Title != "plan" {
		t.Errorf("Drag = %+v", row.Drag)
	}
}
