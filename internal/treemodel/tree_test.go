package treemodel

import (
	"slices"
	"testing"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/notecount"
	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

func ramWith(t *testing.T, records ...*cache.FileRecord) *cache.RAM {
	t.Helper()
	m := make(map[string]*cache.FileRecord, len(records))
	for _, rec := range records {
		m[rec.Path] = rec
	}
	ram := cache.NewRAM()
	ram.Load(m)
	return ram
}

func TestBuildTagTree(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "a.md", Tags: []string{"Work", "work/reports"}},
		&cache.FileRecord{Path: "b.md", Tags: []string{"work/reports/q3"}},
		&cache.FileRecord{Path: "c.md", Tags: []string{"personal"}},
	)
	root := BuildTagTree(ram)

	work := root.Children["work"]
	if work == nil {
		t.Fatal("work node missing")
	}
	// First-seen casing wins for display; the ref path is folded.
	if work.Name != "Work" {
		t.Errorf("work display name = %q, want first-seen %q", work.Name, "Work")
	}
	if work.Ref != noderef.Tag("work") {
		t.Errorf("work ref = %v", work.Ref)
	}
	reports := work.Children["reports"]
	if reports == nil {
		t.Fatal("work/reports node missing")
	}
	if reports.Ref.Path != "work/reports" {
		t.Errorf("reports ref path = %q", reports.Ref.Path)
	}
	if !reports.HasChildren() {
		t.Error("reports should have the q3 child")
	}

	// a.md carries both work and work/reports: it counts once in the total.
	if want := (notecount.Info{Current: 1, Descendants: 1, Total: 2}); work.Info != want {
		t.Errorf("work counts = %+v, want %+v", work.Info, want)
	}
	if want := (notecount.Info{Current: 1, Descendants: 1, Total: 2}); reports.Info != want {
		t.Errorf("reports counts = %+v, want %+v", reports.Info, want)
	}

	// Root aggregates every tagged note.
	if root.Info.Total != 3 {
		t.Errorf("root total = %d, want 3", root.Info.Total)
	}
	if root.Info.Current != 0 {
		t.Errorf("root current = %d, want 0", root.Info.Current)
	}
}

func TestBuildTagTreeFoldsCase(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "a.md", Tags: []string{"Status/Done"}},
		&cache.FileRecord{Path: "b.md", Tags: []string{"status/done"}},
	)
	root := BuildTagTree(ram)
	status := root.Children["status"]
	if status == nil {
		t.Fatal("status node missing")
	}
	if len(status.Children) != 1 {
		t.Fatalf("case variants should share one node, got %d children", len(status.Children))
	}
	done := status.Children["done"]
	if done.Info.Current != 2 {
		t.Errorf("done current = %d, want 2", done.Info.Current)
	}
}

func TestBuildPropertyTree(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "a.md", Properties: []notemeta.PropertyItem{
			{FieldKey: "Status", Value: "Active", Kind: notemeta.KindText},
			{FieldKey: "owner", Value: "ops", Kind: notemeta.KindText},
		}},
		&cache.FileRecord{Path: "b.md", Properties: []notemeta.PropertyItem{
			{FieldKey: "status", Value: "done", Kind: notemeta.KindText},
		}},
	)
	root := BuildPropertyTree(ram)

	status := root.Children["status"]
	if status == nil {
		t.Fatal("status key node missing")
	}
	if status.Name != "Status" {
		t.Errorf("key display name = %q, want first-seen %q", status.Name, "Status")
	}
	if status.Ref != noderef.PropertyKey("status") {
		t.Errorf("key ref = %v", status.Ref)
	}
	if len(status.Children) != 2 {
		t.Fatalf("status should have two value children, got %d", len(status.Children))
	}
	active := status.Children["active"]
	if active == nil {
		t.Fatal("active value node missing")
	}
	if active.Ref != noderef.PropertyValue("status", "active") {
		t.Errorf("value ref = %v", active.Ref)
	}
	if active.Name != "Active" {
		t.Errorf("value display name = %q", active.Name)
	}

	// Value notes are a subset of the key's notes: no descendant surplus.
	if want := (notecount.Info{Current: 2, Descendants: 0, Total: 2}); status.Info != want {
		t.Errorf("status counts = %+v, want %+v", status.Info, want)
	}
	if want := (notecount.Info{Current: 1, Descendants: 0, Total: 1}); active.Info != want {
		t.Errorf("active counts = %+v, want %+v", active.Info, want)
	}
	if root.Info.Total != 2 {
		t.Errorf("root total = %d, want 2", root.Info.Total)
	}
}

func TestFind(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "a.md", Tags: []string{"work/reports/q3"}},
	)
	root := BuildTagTree(ram)

	if n := root.Find(noderef.Tag("work/reports")); n == nil || n.Ref.Path != "work/reports" {
		t.Errorf("Find(work/reports) = %v", n)
	}
	if n := root.Find(noderef.Tag("Work/Reports")); n == nil {
		t.Error("Find should fold case")
	}
	if n := root.Find(noderef.Tag("missing")); n != nil {
		t.Errorf("Find(missing) = %v, want nil", n)
	}

	props := ramWith(t, &cache.FileRecord{Path: "a.md", Properties: []notemeta.PropertyItem{
		{FieldKey: "status", Value: "active", Kind: notemeta.KindText},
	}})
	proot := BuildPropertyTree(props)
	if n := proot.Find(noderef.PropertyKey("status")); n == nil {
		t.Error("Find(propkey) failed")
	}
	if n := proot.Find(noderef.PropertyValue("status", "active")); n == nil {
		t.Error("Find(propval) failed")
	}
	if n := proot.Find(noderef.PropertyValue("status", "gone")); n != nil {
		t.Errorf("Find(missing value) = %v, want nil", n)
	}
}

func TestNotesUnder(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "b.md", Tags: []string{"work"}},
		&cache.FileRecord{Path: "a.md", Tags: []string{"work/reports"}},
		&cache.FileRecord{Path: "c.md", Tags: []string{"work", "work/reports"}},
	)
	work := BuildTagTree(ram).Children["work"]

	direct := work.NotesUnder(false)
	if want := []string{"b.md", "c.md"}; !slices.Equal(direct, want) {
		t.Errorf("NotesUnder(false) = %v, want %v", direct, want)
	}
	all := work.NotesUnder(true)
	if want := []string{"a.md", "b.md", "c.md"}; !slices.Equal(all, want) {
		t.Errorf("NotesUnder(true) = %v, want %v", all, want)
	}
}

func TestSortedChildren(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "a.md", Tags: []string{"zebra", "Apple", "mango"}},
	)
	root := BuildTagTree(ram)
	var names []string
	for _, c := range root.SortedChildren() {
		names = append(names, c.Name)
	}
	if want := []string{"Apple", "mango", "zebra"}; !slices.Equal(names, want) {
		t.Errorf("SortedChildren order = %v, want %v", names, want)
	}
}

func TestUntagged(t *testing.T) {
	ram := ramWith(t,
		&cache.FileRecord{Path: "tagged.md", Tags: []string{"work"}},
		&cache.FileRecord{Path: "plain.md"},
		&cache.FileRecord{Path: "also.md"},
	)
	if got, want := Untagged(ram), []string{"also.md", "plain.md"}; !slices.Equal(got, want) {
		t.Errorf("Untagged() = %v, want %v", got, want)
	}
}

func TestFolderCounts(t *testing.T) {
	leaf := &vault.Folder{Path: "projects/deep", Notes: []*vault.File{{}, {}}}
	mid := &vault.Folder{Path: "projects", Notes: []*vault.File{{}}, Subfolders: []*vault.Folder{leaf}}
	root := &vault.Folder{Path: vault.RootPath, Notes: []*vault.File{{}, {}, {}}, Subfolders: []*vault.Folder{mid}}

	tests := []struct {
		name   string
		folder *vault.Folder
		want   notecount.Info
	}{
		{"leaf", leaf, notecount.Info{Current: 2, Descendants: 0, Total: 2}},
		{"mid", mid, notecount.Info{Current: 1, Descendants: 2, Total: 3}},
		{"root", root, notecount.Info{Current: 3, Descendants: 3, Total: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FolderCounts(tt.folder); got != tt.want {
				t.Errorf("FolderCounts() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
