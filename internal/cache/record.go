// Package cache is the content index behind the file list: a SQLite store
// for persistence across runs, an in-memory mirror for synchronous reads
// during render, and an indexer goroutine that keeps both in sync with the
// vault. Consumers read snapshots and subscribe to per-path diffs; they
// never write. All mutations flow disk -> watcher -> indexer -> cache.
package cache

import (
	"maps"
	"slices"

	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
)

// ImageStatus tracks the thumbnail pipeline state for a note's feature
// image. Has implies a blob row exists in the store.
type ImageStatus string

const (
	ImageUnprocessed ImageStatus = "unprocessed"
	ImageHas         ImageStatus = "has"
	ImageMissing     ImageStatus = "missing"
	ImageFailed      ImageStatus = "failed"
)

// FileRecord is the cached view state for one note. Records are immutable
// once published to the RAM mirror: the indexer installs a replacement
// instead of mutating, so a pointer read from a snapshot stays valid.
// Checksum and Mtime are indexer bookkeeping, not view state.
type FileRecord struct {
	Path               string
	Preview            string
	Tags               []string
	Properties         []notemeta.PropertyItem
	RawNulls           map[string]bool
	FeatureImageKey    string
	FeatureImageStatus ImageStatus
	WordCount          *int
	TaskUnfinished     *int
	Checksum           string
	Mtime              int64
}

// Clone deep-copies the record. Consumers that need to reorder Properties
// or Tags (pill sorting) must work on a clone; the published record is
// shared.
func (r *FileRecord) Clone() *FileRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Tags = slices.Clone(r.Tags)
	c.Properties = slices.Clone(r.Properties)
	c.RawNulls = maps.Clone(r.RawNulls)
	if r.WordCount != nil {
		n := *r.WordCount
		c.WordCount = &n
	}
	if r.TaskUnfinished != nil {
		n := *r.TaskUnfinished
		c.TaskUnfinished = &n
	}
	return &c
}

// Field identifies one FileRecord field in a Diff mask.
type Field uint8

const (
	FieldPreview Field = 1 << iota
	FieldTags
	FieldProperties
	FieldFeatureImage
	FieldWordCount
	FieldTaskUnfinished
	// FieldMetadata flags frontmatter changes not visible through
	// Properties (raw-null flips, renames). Consumers bump their
	// metadata version on FieldProperties or FieldMetadata.
	FieldMetadata
)

const allFields = FieldPreview | FieldTags | FieldProperties |
	FieldFeatureImage | FieldWordCount | FieldTaskUnfinished | FieldMetadata

// Diff is a sparse update for one path. A payload field carries meaning
// only when its bit is set in Changed; everything else keeps its previous
// value on the consumer side, so an unrelated edit can never blank state.
type Diff struct {
	Path               string
	Changed            Field
	Preview            string
	Tags               []string
	Properties         []notemeta.PropertyItem
	RawNulls           map[string]bool
	FeatureImageKey    string
	FeatureImageStatus ImageStatus
	WordCount          *int
	TaskUnfinished     *int
}

// Has reports whether the diff touches the given field.
func (d Diff) Has(f Field) bool { return d.Changed&f != 0 }

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool { return d.Changed == 0 }

// diffRecords computes the sparse diff that turns old into new. A nil old
// yields a full diff. Checksum and Mtime never set a bit: a reindex that
// finds identical content produces an empty diff and no emission.
func diffRecords(old, rec *FileRecord) Diff {
	d := Diff{Path: rec.Path}
	if old == nil {
		d.Changed = allFields
		d.Preview = rec.Preview
		d.Tags = rec.Tags
		d.Properties = rec.Properties
		d.RawNulls = rec.RawNulls
		d.FeatureImageKey = rec.FeatureImageKey
		d.FeatureImageStatus = rec.FeatureImageStatus
		d.WordCount = rec.WordCount
		d.TaskUnfinished = rec.TaskUnfinished
		return d
	}
	if old.Preview != rec.Preview {
		d.Changed |= FieldPreview
		d.Preview = rec.Preview
	}
	if !slices.Equal(old.Tags, rec.Tags) {
		d.Changed |= FieldTags
		d.Tags = rec.Tags
	}
	if !slices.Equal(old.Properties, rec.Properties) {
		d.Changed |= FieldProperties
		d.Properties = rec.Properties
	}
	if !maps.Equal(old.RawNulls, rec.RawNulls) {
		d.Changed |= FieldMetadata
		d.RawNulls = rec.RawNulls
	}
	if old.FeatureImageKey != rec.FeatureImageKey || old.FeatureImageStatus != rec.FeatureImageStatus {
		d.Changed |= FieldFeatureImage
		d.FeatureImageKey = rec.FeatureImageKey
		d.FeatureImageStatus = rec.FeatureImageStatus
	}
	if !eqIntPtr(old.WordCount, rec.WordCount) {
		d.Changed |= FieldWordCount
		d.WordCount = rec.WordCount
	}
	if !eqIntPtr(old.TaskUnfinished, rec.TaskUnfinished) {
		d.Changed |= FieldTaskUnfinished
		d.TaskUnfinished = rec.TaskUnfinished
	}
	return d
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
