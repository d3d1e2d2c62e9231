package cache

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreUpsertLoadAll(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord()
	if err := s.Upsert(rec, "Quarterly planning notes body"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	got := loaded[rec.Path]
	if got == nil {
		t.Fatal("record not loaded")
	}
	if got.Preview != rec.Preview || got.Checksum != rec.Checksum || got.Mtime != rec.Mtime {
		t.Errorf("scalar fields = %+v", got)
	}
	if !slices.Equal(got.Tags, rec.Tags) {
		t.Errorf("Tags = %v, want %v", got.Tags, rec.Tags)
	}
	if !slices.Equal(got.Properties, rec.Properties) {
		t.Errorf("Properties = %v, want %v", got.Properties, rec.Properties)
	}
	if !got.RawNulls["published"] || len(got.RawNulls) != 1 {
		t.Errorf("RawNulls = %v", got.RawNulls)
	}
	if got.FeatureImageKey != rec.FeatureImageKey || got.FeatureImageStatus != ImageHas {
		t.Errorf("image fields = %q, %q", got.FeatureImageKey, got.FeatureImageStatus)
	}
	if got.WordCount == nil || *got.WordCount != 412 {
		t.Errorf("WordCount = %v", got.WordCount)
	}
	if got.TaskUnfinished == nil || *got.TaskUnfinished != 3 {
		t.Errorf("TaskUnfinished = %v", got.TaskUnfinished)
	}
}

func TestStoreNullCounts(t *testing.T) {
	s := testStore(t)
	rec := &FileRecord{Path: "bare.md", FeatureImageStatus: ImageUnprocessed}
	if err := s.Upsert(rec, ""); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	loaded, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	got := loaded["bare.md"]
	if got == nil {
		t.Fatal("record not loaded")
	}
	if got.WordCount != nil || got.TaskUnfinished != nil {
		t.Errorf("counts should stay nil, got %v / %v", got.WordCount, got.TaskUnfinished)
	}
	if got.Tags != nil || got.Properties != nil || got.RawNulls != nil {
		t.Errorf("empty collections should stay nil: %+v", got)
	}
}

func TestStoreUpsertReplaces(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord()
	if err := s.Upsert(rec, "old body"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	rec = sampleRecord()
	rec.Preview = "edited"
	rec.Properties = []notemeta.PropertyItem{{FieldKey: "status", Value: "done", Kind: notemeta.KindText}}
	if err := s.Upsert(rec, "new body"); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	loaded, _ := s.LoadAll()
	if len(loaded) != 1 {
		t.Fatalf("loaded %d records, want 1", len(loaded))
	}
	got := loaded[rec.Path]
	if got.Preview != "edited" || len(got.Properties) != 1 {
		t.Errorf("replacement not applied: %+v", got)
	}
}

func TestStoreDelete(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord()
	if err := s.Upsert(rec, "body"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.PutThumb(rec.Path, rec.FeatureImageKey, []byte{1, 2, 3}); err != nil {
		t.Fatalf("PutThumb: %v", err)
	}

	if err := s.Delete(rec.Path); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	loaded, _ := s.LoadAll()
	if len(loaded) != 0 {
		t.Error("record survived delete")
	}
	data, err := s.Thumb(rec.Path, rec.FeatureImageKey)
	if err != nil || data != nil {
		t.Errorf("thumb survived delete: %v, %v", data, err)
	}
}

func TestStoreRename(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord()
	if err := s.Upsert(rec, "body"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.PutThumb(rec.Path, rec.FeatureImageKey, []byte{9}); err != nil {
		t.Fatalf("PutThumb: %v", err)
	}

	if err := s.Rename(rec.Path, "archive/plan.md"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	loaded, _ := s.LoadAll()
	if loaded[rec.Path] != nil {
		t.Error("old path survived rename")
	}
	if loaded["archive/plan.md"] == nil {
		t.Fatal("new path missing after rename")
	}
	data, err := s.Thumb("archive/plan.md", rec.FeatureImageKey)
	if err != nil || len(data) != 1 {
		t.Errorf("thumb not re-keyed: %v, %v", data, err)
	}
}

func TestStoreChecksums(t *testing.T) {
	s := testStore(t)
	a := sampleRecord()
	b := sampleRecord()
	b.Path = "notes/other.md"
	b.Checksum = "ffee"
	if err := s.Upsert(a, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(b, ""); err != nil {
		t.Fatal(err)
	}

	sums, err := s.Checksums()
	if err != nil {
		t.Fatalf("Checksums: %v", err)
	}
	if len(sums) != 2 || sums[a.Path] != "a1b2c3" || sums[b.Path] != "ffee" {
		t.Errorf("sums = %v", sums)
	}
}

func TestStoreSetMtime(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord()
	if err := s.Upsert(rec, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMtime(rec.Path, 5555); err != nil {
		t.Fatalf("SetMtime: %v", err)
	}

	loaded, _ := s.LoadAll()
	if loaded[rec.Path].Mtime != 5555 {
		t.Errorf("Mtime = %d, want 5555", loaded[rec.Path].Mtime)
	}
}

func TestStoreUpdateImage(t *testing.T) {
	s := testStore(t)
	rec := sampleRecord()
	if err := s.Upsert(rec, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateImage(rec.Path, "new.png", ImageMissing); err != nil {
		t.Fatalf("UpdateImage: %v", err)
	}

	loaded, _ := s.LoadAll()
	got := loaded[rec.Path]
	if got.FeatureImageKey != "new.png" || got.FeatureImageStatus != ImageMissing {
		t.Errorf("image fields = %q, %q", got.FeatureImageKey, got.FeatureImageStatus)
	}
}

func TestStoreThumbMissing(t *testing.T) {
	s := testStore(t)
	data, err := s.Thumb("nowhere.md", "key")
	if err != nil {
		t.Fatalf("Thumb: %v", err)
	}
	if data != nil {
		t.Errorf("data = %v, want nil", data)
	}
}

func TestStoreThumbReplace(t *testing.T) {
	s := testStore(t)
	if err := s.PutThumb("a.md", "img.png", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutThumb("a.md", "img.png", []byte{2, 3}); err != nil {
		t.Fatal(err)
	}

	data, err := s.Thumb("a.md", "img.png")
	if err != nil || len(data) != 2 {
		t.Errorf("replacement blob = %v, %v", data, err)
	}
}

func TestStoreSearchText(t *testing.T) {
	s := testStore(t)
	a := sampleRecord()
	if err := s.Upsert(a, "the quick brown fox"); err != nil {
		t.Fatal(err)
	}
	b := sampleRecord()
	b.Path = "notes/other.md"
	b.Tags = []string{"personal"}
	if err := s.Upsert(b, "lazy dog sleeping"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"single token", []string{"quick"}, []string{"projects/plan.md"}},
		{"all tokens must match", []string{"quick", "dog"}, nil},
		{"no tokens", nil, nil},
		{"no hits", []string{"zebra"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchText(tt.tokens, 0)
			if err != nil {
				t.Fatalf("SearchText: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("paths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreReopenPersists(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cache.db")

	s, err := OpenStore(dbPath)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if err := s.Upsert(sampleRecord(), "body"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := OpenStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	loaded, err := s2.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Errorf("loaded %d records after reopen, want 1", len(loaded))
	}
}
