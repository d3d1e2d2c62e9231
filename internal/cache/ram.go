package cache

import (
	"slices"
	"sync"
)

// RAM is the in-memory mirror of the content index. Reads are synchronous
// and lock-cheap so render paths can hit it freely; the indexer goroutine
// is the only writer. Published records are immutable, so Get can hand out
// the stored pointer directly.
//
// Subscriptions are keyed by path. Handlers are NOT invoked by the indexer:
// the update loop drains the indexer's event channel and calls Dispatch,
// so handlers always run on the loop goroutine and may touch UI state.
type RAM struct {
	mu         sync.RWMutex
	records    map[string]*FileRecord
	handlers   map[string][]subEntry
	nextSubID  uint64
	generation uint64
}

type subEntry struct {
	id uint64
	fn func(Diff)
}

// NewRAM creates an empty mirror.
func NewRAM() *RAM {
	return &RAM{
		records:  make(map[string]*FileRecord),
		handlers: make(map[string][]subEntry),
	}
}

// Load hydrates the mirror from persisted records, replacing any current
// contents. Called once at startup before the indexer runs.
func (r *RAM) Load(records map[string]*FileRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]*FileRecord, len(records))
	for path, rec := range records {
		r.records[path] = rec
	}
	r.generation++
}

// Get returns the record for a path, or nil. The returned record is shared
// and must not be mutated; Clone it first if mutation is needed.
func (r *RAM) Get(path string) *FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[path]
}

// Preview returns the cached preview text for a path, empty when absent.
func (r *RAM) Preview(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec := r.records[path]; rec != nil {
		return rec.Preview
	}
	return ""
}

// Has reports whether a record exists for the path.
func (r *RAM) Has(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[path] != nil
}

// Len returns the number of cached records.
func (r *RAM) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Range calls fn for every record until fn returns false. The lock is held
// for the duration; fn must not call back into RAM writers.
func (r *RAM) Range(fn func(path string, rec *FileRecord) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for path, rec := range r.records {
		if !fn(path, rec) {
			return
		}
	}
}

// Generation is a counter bumped whenever tag or property data changes
// shape (record added, removed, renamed, or tags/properties/frontmatter
// edited). Tree projections rebuild when it moves; preview-only edits
// leave it alone.
func (r *RAM) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Apply installs a record and returns the sparse diff against the previous
// one. The caller (the indexer) emits non-empty diffs to the update loop.
func (r *RAM) Apply(rec *FileRecord) Diff {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.records[rec.Path]
	r.records[rec.Path] = rec
	d := diffRecords(old, rec)
	if old == nil || d.Changed&(FieldTags|FieldProperties|FieldMetadata) != 0 {
		r.generation++
	}
	return d
}

// Remove drops a path from the mirror. Rows for removed files unmount via
// the vault, so no diff is produced; projections catch up via Generation.
func (r *RAM) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[path]; !ok {
		return
	}
	delete(r.records, path)
	r.generation++
}

// Rename re-keys a record. Handlers stay bound to their old path; the
// consumer re-attaches on path change (renames change the subscription
// key). The returned diff tells already-reattached consumers that
// name-derived state must recompute.
func (r *RAM) Rename(oldPath, newPath string) Diff {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.records[oldPath]
	if rec == nil {
		return Diff{Path: newPath}
	}
	moved := rec.Clone()
	moved.Path = newPath
	delete(r.records, oldPath)
	r.records[newPath] = moved
	r.generation++
	return Diff{Path: newPath, Changed: FieldMetadata, RawNulls: moved.RawNulls}
}

// Subscribe registers a handler for one path's diffs and returns its
// cancel func. Handlers on the same path run in registration order.
func (r *RAM) Subscribe(path string, fn func(Diff)) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.handlers[path] = append(r.handlers[path], subEntry{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.handlers[path]
		for i, e := range list {
			if e.id == id {
				r.handlers[path] = slices.Delete(list, i, i+1)
				break
			}
		}
		if len(r.handlers[path]) == 0 {
			delete(r.handlers, path)
		}
	}
}

// Dispatch invokes the handlers subscribed to the diff's path. Called from
// the update loop only; the handler list is copied so a handler may
// unsubscribe itself.
func (r *RAM) Dispatch(d Diff) {
	r.mu.RLock()
	list := slices.Clone(r.handlers[d.Path])
	r.mu.RUnlock()
	for _, e := range list {
		e.fn(d)
	}
}
