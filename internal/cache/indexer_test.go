package cache

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeNote(t *testing.T, dir, rel, content string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testIndexer(t *testing.T) (*Indexer, *RAM, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ram := NewRAM()
	return NewIndexer(dir, store, ram, testLogger()), ram, dir
}

func waitDiff(t *testing.T, ch <-chan Diff) Diff {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for diff")
		return Diff{}
	}
}

func expectNoDiff(t *testing.T, ch <-chan Diff, wait time.Duration) {
	t.Helper()
	select {
	case d := <-ch:
		t.Fatalf("unexpected diff for %s (%b)", d.Path, d.Changed)
	case <-time.After(wait):
	}
}

func TestInitialScanIndexesNotes(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	writeNote(t, dir, "daily/today.md", "---\ntags: [journal]\n---\nWoke up early. #morning\n\n- [ ] stretch\n")
	writeNote(t, dir, "inbox.md", "Plain note body here")
	writeNote(t, dir, "assets/data.txt", "not a note")

	err := ix.InitialScan(context.Background(), []string{"daily/today.md", "inbox.md", "assets/data.txt"})
	if err != nil {
		t.Fatalf("InitialScan: %v", err)
	}

	if ram.Len() != 2 {
		t.Fatalf("ram has %d records, want 2", ram.Len())
	}
	rec := ram.Get("daily/today.md")
	if rec == nil {
		t.Fatal("daily note not indexed")
	}
	if len(rec.Tags) != 2 {
		t.Errorf("Tags = %v, want journal+morning", rec.Tags)
	}
	if rec.Preview == "" || rec.Checksum == "" {
		t.Errorf("record not filled: %+v", rec)
	}
	if rec.TaskUnfinished == nil || *rec.TaskUnfinished != 1 {
		t.Errorf("TaskUnfinished = %v, want 1", rec.TaskUnfinished)
	}

	// Both new records surface as full diffs.
	first := waitDiff(t, ix.Events())
	second := waitDiff(t, ix.Events())
	if first.Changed != allFields || second.Changed != allFields {
		t.Error("new records should emit full diffs")
	}
}

func TestInitialScanChecksumSkip(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	content := "unchanged body\n"
	writeNote(t, dir, "keep.md", content)

	// Persisted state already matches the file on disk.
	rec := &FileRecord{
		Path:               "keep.md",
		Preview:            "unchanged body",
		FeatureImageStatus: ImageUnprocessed,
		Checksum:           checksum([]byte(content)),
	}
	if err := ix.store.Upsert(rec, "unchanged body"); err != nil {
		t.Fatal(err)
	}
	ram.Load(map[string]*FileRecord{"keep.md": rec})

	if err := ix.InitialScan(context.Background(), []string{"keep.md"}); err != nil {
		t.Fatalf("InitialScan: %v", err)
	}

	if ram.Get("keep.md") != rec {
		t.Error("unchanged note should keep its hydrated record")
	}
	expectNoDiff(t, ix.Events(), 200*time.Millisecond)
}

func TestInitialScanSweepsStale(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	writeNote(t, dir, "present.md", "still here")

	gone := &FileRecord{Path: "gone.md", FeatureImageStatus: ImageUnprocessed, Checksum: "dead"}
	if err := ix.store.Upsert(gone, ""); err != nil {
		t.Fatal(err)
	}
	ram.Load(map[string]*FileRecord{"gone.md": gone})

	if err := ix.InitialScan(context.Background(), []string{"present.md"}); err != nil {
		t.Fatalf("InitialScan: %v", err)
	}

	if ram.Has("gone.md") {
		t.Error("stale record survived in ram")
	}
	sums, err := ix.store.Checksums()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sums["gone.md"]; ok {
		t.Error("stale record survived in store")
	}
	if _, ok := sums["present.md"]; !ok {
		t.Error("present note missing from store")
	}
}

func TestIndexerUpdateEmitsDiff(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ix.Start(ctx)

	writeNote(t, dir, "note.md", "first version")
	ix.Update("note.md")

	d := waitDiff(t, ix.Events())
	if d.Path != "note.md" || d.Changed != allFields {
		t.Fatalf("first diff = %+v", d)
	}
	if got := ram.Preview("note.md"); got != "first version" {
		t.Errorf("Preview = %q", got)
	}

	writeNote(t, dir, "note.md", "second version")
	// Filesystems with coarse timestamps could leave mtime unchanged and
	// trip the fast path; force it forward.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(filepath.Join(dir, "note.md"), future, future); err != nil {
		t.Fatal(err)
	}
	ix.Update("note.md")

	d = waitDiff(t, ix.Events())
	if !d.Has(FieldPreview) {
		t.Errorf("edit diff = %b, want preview bit", d.Changed)
	}
	if d.Preview != "second version" {
		t.Errorf("Preview payload = %q", d.Preview)
	}
}

func TestIndexerCoalescesBursts(t *testing.T) {
	ix, _, dir := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ix.Start(ctx)

	writeNote(t, dir, "burst.md", "saved repeatedly")
	ix.Update("burst.md")
	ix.Update("burst.md")
	ix.Update("burst.md")

	d := waitDiff(t, ix.Events())
	if d.Path != "burst.md" {
		t.Fatalf("diff path = %q", d.Path)
	}
	expectNoDiff(t, ix.Events(), 400*time.Millisecond)
}

func TestIndexerRemove(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ix.Start(ctx)

	writeNote(t, dir, "doomed.md", "short lived")
	ix.Reindex("doomed.md")
	waitDiff(t, ix.Events())

	ix.Remove("doomed.md")
	deadline := time.Now().Add(3 * time.Second)
	for ram.Has("doomed.md") {
		if time.Now().After(deadline) {
			t.Fatal("record not removed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIndexerRename(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ix.Start(ctx)

	writeNote(t, dir, "old.md", "movable note")
	ix.Reindex("old.md")
	waitDiff(t, ix.Events())

	ix.Rename("old.md", "new.md")
	d := waitDiff(t, ix.Events())
	if d.Path != "new.md" || d.Changed != FieldMetadata {
		t.Fatalf("rename diff = %+v", d)
	}
	if ram.Has("old.md") || !ram.Has("new.md") {
		t.Error("rename did not re-key the record")
	}
}

func TestIndexerSetImageStatus(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ix.Start(ctx)

	writeNote(t, dir, "pic.md", "Look: ![[shot.png]]\n")
	ix.Reindex("pic.md")
	d := waitDiff(t, ix.Events())
	if d.FeatureImageKey != "shot.png" || d.FeatureImageStatus != ImageUnprocessed {
		t.Fatalf("indexed image fields = %q, %q", d.FeatureImageKey, d.FeatureImageStatus)
	}

	ix.SetImageStatus("pic.md", "shot.png", ImageHas)
	d = waitDiff(t, ix.Events())
	if d.Changed != FieldFeatureImage || d.FeatureImageStatus != ImageHas {
		t.Fatalf("status diff = %+v", d)
	}
	if ram.Get("pic.md").FeatureImageStatus != ImageHas {
		t.Error("status not applied to ram")
	}

	// A verdict for a superseded key is dropped.
	ix.SetImageStatus("pic.md", "other.png", ImageFailed)
	expectNoDiff(t, ix.Events(), 300*time.Millisecond)
	if ram.Get("pic.md").FeatureImageStatus != ImageHas {
		t.Error("stale verdict overwrote status")
	}
}

func TestIndexerUpdateVanishedFile(t *testing.T) {
	ix, ram, dir := testIndexer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ix.Start(ctx)

	writeNote(t, dir, "flash.md", "now you see me")
	ix.Reindex("flash.md")
	waitDiff(t, ix.Events())

	if err := os.Remove(filepath.Join(dir, "flash.md")); err != nil {
		t.Fatal(err)
	}
	ix.Update("flash.md")

	deadline := time.Now().Add(3 * time.Second)
	for ram.Has("flash.md") {
		if time.Now().After(deadline) {
			t.Fatal("vanished file still indexed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIsNotePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes/a.md", true},
		{"notes/a.markdown", true},
		{"notes/A.MD", true},
		{"notes/a.txt", false},
		{"notes/md", false},
	}
	for _, tt := range tests {
		if got := isNotePath(tt.path); got != tt.want {
			t.Errorf("isNotePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
