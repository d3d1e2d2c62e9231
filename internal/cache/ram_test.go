package cache

import (
	"testing"
)

func TestRAMApplyAndGet(t *testing.T) {
	ram := NewRAM()
	rec := sampleRecord()

	d := ram.Apply(rec)
	if d.Changed != allFields {
		t.Errorf("first apply diff = %b, want all fields", d.Changed)
	}
	if got := ram.Get(rec.Path); got != rec {
		t.Error("Get should return the applied record")
	}
	if ram.Get("missing.md") != nil {
		t.Error("Get on unknown path should be nil")
	}
	if !ram.Has(rec.Path) || ram.Has("missing.md") {
		t.Error("Has mismatch")
	}
	if ram.Len() != 1 {
		t.Errorf("Len = %d, want 1", ram.Len())
	}
	if got := ram.Preview(rec.Path); got != rec.Preview {
		t.Errorf("Preview = %q", got)
	}
	if ram.Preview("missing.md") != "" {
		t.Error("Preview on unknown path should be empty")
	}
}

func TestRAMApplyDiffIsSparse(t *testing.T) {
	ram := NewRAM()
	ram.Apply(sampleRecord())

	next := sampleRecord()
	next.Tags = []string{"personal"}
	d := ram.Apply(next)

	if d.Changed != FieldTags {
		t.Errorf("Changed = %b, want only tags", d.Changed)
	}
	if got := ram.Get(next.Path); got != next {
		t.Error("record not replaced")
	}
}

func TestRAMGenerationBumps(t *testing.T) {
	ram := NewRAM()
	gen := ram.Generation()

	// New record counts as shape change.
	ram.Apply(sampleRecord())
	if ram.Generation() == gen {
		t.Error("new record should bump generation")
	}
	gen = ram.Generation()

	// Preview-only edits leave tag/property projections alone.
	next := sampleRecord()
	next.Preview = "edited"
	ram.Apply(next)
	if ram.Generation() != gen {
		t.Error("preview change should not bump generation")
	}

	next = sampleRecord()
	next.Preview = "edited"
	next.Tags = []string{"personal"}
	ram.Apply(next)
	if ram.Generation() == gen {
		t.Error("tag change should bump generation")
	}
	gen = ram.Generation()

	ram.Remove(next.Path)
	if ram.Generation() == gen {
		t.Error("remove should bump generation")
	}
	gen = ram.Generation()

	ram.Remove(next.Path)
	if ram.Generation() != gen {
		t.Error("removing a missing path should not bump generation")
	}
}

func TestRAMSubscribeDispatchOrder(t *testing.T) {
	ram := NewRAM()
	var calls []string
	ram.Subscribe("a.md", func(Diff) { calls = append(calls, "first") })
	ram.Subscribe("a.md", func(Diff) { calls = append(calls, "second") })
	ram.Subscribe("b.md", func(Diff) { calls = append(calls, "other") })

	ram.Dispatch(Diff{Path: "a.md", Changed: FieldPreview})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestRAMUnsubscribe(t *testing.T) {
	ram := NewRAM()
	count := 0
	cancel := ram.Subscribe("a.md", func(Diff) { count++ })

	ram.Dispatch(Diff{Path: "a.md", Changed: FieldPreview})
	cancel()
	ram.Dispatch(Diff{Path: "a.md", Changed: FieldPreview})

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestRAMHandlerMayUnsubscribeItself(t *testing.T) {
	ram := NewRAM()
	count := 0
	var cancel func()
	cancel = ram.Subscribe("a.md", func(Diff) {
		count++
		cancel()
	})

	ram.Dispatch(Diff{Path: "a.md", Changed: FieldPreview})
	ram.Dispatch(Diff{Path: "a.md", Changed: FieldPreview})

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestRAMRenameRekeys(t *testing.T) {
	ram := NewRAM()
	rec := sampleRecord()
	ram.Apply(rec)
	gen := ram.Generation()

	d := ram.Rename(rec.Path, "archive/plan.md")

	if ram.Get(rec.Path) != nil {
		t.Error("old path should be gone")
	}
	moved := ram.Get("archive/plan.md")
	if moved == nil || moved.Path != "archive/plan.md" {
		t.Fatalf("moved record = %+v", moved)
	}
	if moved.Preview != rec.Preview {
		t.Error("rename should keep content fields")
	}
	if d.Path != "archive/plan.md" || d.Changed != FieldMetadata {
		t.Errorf("diff = %+v, want metadata on new path", d)
	}
	if ram.Generation() == gen {
		t.Error("rename should bump generation")
	}
}

func TestRAMRenameUnknownPath(t *testing.T) {
	ram := NewRAM()
	d := ram.Rename("ghost.md", "real.md")
	if !d.Empty() {
		t.Errorf("renaming unknown path produced diff %b", d.Changed)
	}
}

func TestRAMLoadReplaces(t *testing.T) {
	ram := NewRAM()
	ram.Apply(sampleRecord())

	other := sampleRecord()
	other.Path = "notes/other.md"
	ram.Load(map[string]*FileRecord{other.Path: other})

	if ram.Has("projects/plan.md") {
		t.Error("Load should replace previous contents")
	}
	if !ram.Has(other.Path) || ram.Len() != 1 {
		t.Error("Load should install given records")
	}
}

func TestRAMRange(t *testing.T) {
	ram := NewRAM()
	a := sampleRecord()
	b := sampleRecord()
	b.Path = "notes/other.md"
	ram.Apply(a)
	ram.Apply(b)

	seen := map[string]bool{}
	ram.Range(func(path string, rec *FileRecord) bool {
		seen[path] = true
		return true
	})
	if len(seen) != 2 {
		t.Errorf("Range visited %d records, want 2", len(seen))
	}

	visits := 0
	ram.Range(func(string, *FileRecord) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Errorf("Range with early stop visited %d, want 1", visits)
	}
}
