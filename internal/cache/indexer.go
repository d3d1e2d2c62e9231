package cache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
)

const (
	// coalesceWindow batches write bursts: every new update re-arms the
	// timer, so a save that touches a file several times indexes once.
	coalesceWindow = 250 * time.Millisecond

	scanWorkers = 8
	inboxBuffer = 128
	eventBuffer = 256
)

type jobOp int

const (
	jobUpdate jobOp = iota
	jobReindex
	jobRemove
	jobRename
	jobImage
)

type job struct {
	op      jobOp
	path    string
	oldPath string      // jobRename
	key     string      // jobImage
	status  ImageStatus // jobImage
}

// Indexer keeps the store and RAM mirror in sync with note content. The
// update loop forwards vault changes through Update/Remove/Rename; the
// loop goroutine coalesces writes, parses, persists, applies to RAM, and
// emits the resulting diffs on Events.
type Indexer struct {
	dir    string // vault root on disk
	store  *Store
	ram    *RAM
	logger *slog.Logger

	inbox  chan job
	events chan Diff
}

// NewIndexer creates an indexer over the vault rooted at dir. Call Start
// to run the steady-state loop.
func NewIndexer(dir string, store *Store, ram *RAM, logger *slog.Logger) *Indexer {
	return &Indexer{
		dir:    dir,
		store:  store,
		ram:    ram,
		logger: logger,
		inbox:  make(chan job, inboxBuffer),
		events: make(chan Diff, eventBuffer),
	}
}

// Events delivers non-empty diffs in emission order. The update loop
// drains it via a redelivery Cmd and hands each diff to RAM.Dispatch. The
// channel is never closed; both the loop and the initial scan emit on it.
func (ix *Indexer) Events() <-chan Diff { return ix.events }

// Start runs the steady-state loop until ctx is cancelled.
func (ix *Indexer) Start(ctx context.Context) {
	go ix.loop(ctx)
}

// Update queues paths for reindexing after the coalesce window.
func (ix *Indexer) Update(paths ...string) {
	for _, p := range paths {
		ix.enqueue(job{op: jobUpdate, path: p})
	}
}

// Reindex indexes one path promptly, bypassing the coalesce window. Used
// when a row needs its preview and no record exists yet.
func (ix *Indexer) Reindex(path string) {
	ix.enqueue(job{op: jobReindex, path: path})
}

// Remove drops paths from the index.
func (ix *Indexer) Remove(paths ...string) {
	for _, p := range paths {
		ix.enqueue(job{op: jobRemove, path: p})
	}
}

// Rename re-keys a record without reindexing its content.
func (ix *Indexer) Rename(oldPath, newPath string) {
	ix.enqueue(job{op: jobRename, path: newPath, oldPath: oldPath})
}

// SetImageStatus records the thumbnail pipeline's verdict for (path, key).
// Stale verdicts (the record's key moved on) are dropped.
func (ix *Indexer) SetImageStatus(path, key string, status ImageStatus) {
	ix.enqueue(job{op: jobImage, path: path, key: key, status: status})
}

func (ix *Indexer) enqueue(j job) {
	select {
	case ix.inbox <- j:
	default:
		ix.logger.Warn("index queue full, dropping", "path", j.path)
	}
}

func (ix *Indexer) loop(ctx context.Context) {
	pending := make(map[string]struct{})
	flush := time.NewTimer(coalesceWindow)
	if !flush.Stop() {
		<-flush.C
	}
	var flushC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ix.inbox:
			switch j.op {
			case jobUpdate:
				pending[j.path] = struct{}{}
				if !flush.Stop() && flushC != nil {
					select {
					case <-flush.C:
					default:
					}
				}
				flush.Reset(coalesceWindow)
				flushC = flush.C
			case jobReindex:
				delete(pending, j.path)
				ix.indexOne(j.path)
			case jobRemove:
				delete(pending, j.path)
				ix.removeOne(j.path)
			case jobRename:
				if _, ok := pending[j.oldPath]; ok {
					delete(pending, j.oldPath)
					pending[j.path] = struct{}{}
				}
				ix.renameOne(j.oldPath, j.path)
			case jobImage:
				ix.applyImage(j.path, j.key, j.status)
			}
		case <-flushC:
			flushC = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			clear(pending)
			sort.Strings(batch)
			for _, p := range batch {
				ix.indexOne(p)
			}
		}
	}
}

// indexOne reads, parses, and commits one note. Unchanged files are
// skipped on the mtime fast path, then on checksum.
func (ix *Indexer) indexOne(path string) {
	if !isNotePath(path) {
		return
	}
	abs := filepath.Join(ix.dir, filepath.FromSlash(path))
	info, err := os.Stat(abs)
	if err != nil {
		// Gone between the event and now; treat as removal.
		ix.removeOne(path)
		return
	}
	mtime := info.ModTime().UnixNano()
	old := ix.ram.Get(path)
	if old != nil && old.Mtime == mtime {
		return
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		ix.logger.Warn("read note failed", "path", path, "error", err)
		return
	}
	sum := checksum(data)
	if old != nil && old.Checksum == sum {
		// Touched but identical; refresh bookkeeping only.
		rec := old.Clone()
		rec.Mtime = mtime
		if err := ix.store.SetMtime(path, mtime); err != nil {
			ix.logger.Warn("store mtime failed", "path", path, "error", err)
		}
		ix.ram.Apply(rec)
		return
	}

	res, perr := notemeta.Parse(string(data))
	if perr != nil {
		// Parse still yields a usable result; the note indexes as plain body.
		ix.logger.Warn("parse note failed", "path", path, "error", perr)
	}
	rec := buildRecord(path, res, sum, mtime, old)
	if err := ix.store.Upsert(rec, res.Body); err != nil {
		ix.logger.Warn("store upsert failed", "path", path, "error", err)
	}
	ix.emit(ix.ram.Apply(rec))
}

func (ix *Indexer) removeOne(path string) {
	if err := ix.store.Delete(path); err != nil {
		ix.logger.Warn("store delete failed", "path", path, "error", err)
	}
	ix.ram.Remove(path)
}

func (ix *Indexer) renameOne(oldPath, newPath string) {
	if err := ix.store.Rename(oldPath, newPath); err != nil {
		ix.logger.Warn("store rename failed", "path", oldPath, "error", err)
	}
	ix.emit(ix.ram.Rename(oldPath, newPath))
}

func (ix *Indexer) applyImage(path, key string, status ImageStatus) {
	old := ix.ram.Get(path)
	if old == nil || old.FeatureImageKey != key {
		return // superseded while the pipeline ran
	}
	if old.FeatureImageStatus == status {
		return
	}
	rec := old.Clone()
	rec.FeatureImageStatus = status
	if err := ix.store.UpdateImage(path, key, status); err != nil {
		ix.logger.Warn("store image update failed", "path", path, "error", err)
	}
	ix.emit(ix.ram.Apply(rec))
}

func (ix *Indexer) emit(d Diff) {
	if d.Empty() {
		return
	}
	select {
	case ix.events <- d:
	default:
		ix.logger.Warn("cache event buffer full, dropping", "path", d.Path)
	}
}

type scanResult struct {
	rec  *FileRecord
	body string
}

// InitialScan brings the index up to date with the given vault-relative
// note paths: changed or new files are parsed with bounded workers and
// committed serially, and store rows whose file is gone are swept. Safe
// to run while the steady-state loop drains watcher updates.
func (ix *Indexer) InitialScan(ctx context.Context, paths []string) error {
	start := time.Now()
	known, err := ix.store.Checksums()
	if err != nil {
		return err
	}

	results := make(chan scanResult, 64)
	committed := make(chan struct{})
	go func() {
		defer close(committed)
		for r := range results {
			if err := ix.store.Upsert(r.rec, r.body); err != nil {
				ix.logger.Warn("store upsert failed", "path", r.rec.Path, "error", err)
			}
			ix.emit(ix.ram.Apply(r.rec))
		}
	}()

	disk := make(map[string]struct{}, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanWorkers)
	indexed := 0
	for _, path := range paths {
		disk[path] = struct{}{}
		if !isNotePath(path) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			abs := filepath.Join(ix.dir, filepath.FromSlash(path))
			data, err := os.ReadFile(abs)
			if err != nil {
				ix.logger.Warn("scan read failed", "path", path, "error", err)
				return nil
			}
			sum := checksum(data)
			if known[path] == sum && ix.ram.Has(path) {
				return nil
			}
			res, perr := notemeta.Parse(string(data))
			if perr != nil {
				ix.logger.Warn("parse note failed", "path", path, "error", perr)
			}
			var mtime int64
			if info, err := os.Stat(abs); err == nil {
				mtime = info.ModTime().UnixNano()
			}
			results <- scanResult{rec: buildRecord(path, res, sum, mtime, ix.ram.Get(path)), body: res.Body}
			return nil
		})
		indexed++
	}
	werr := g.Wait()
	close(results)
	<-committed

	for path := range known {
		if _, ok := disk[path]; !ok {
			ix.removeOne(path)
		}
	}

	ix.logger.Info("initial scan done", "notes", indexed, "elapsed", time.Since(start))
	return werr
}

// buildRecord assembles a FileRecord from a parse result. The thumbnail
// status survives edits that keep the same image reference; a new or
// removed reference resets it to unprocessed.
func buildRecord(path string, res *notemeta.Result, sum string, mtime int64, old *FileRecord) *FileRecord {
	words := res.WordCount
	tasks := res.TaskUnfinished()
	rec := &FileRecord{
		Path:            path,
		Preview:         res.Preview,
		Tags:            res.Tags,
		Properties:      res.Properties,
		RawNulls:        res.RawNulls,
		FeatureImageKey: res.FeatureImage,
		WordCount:       &words,
		TaskUnfinished:  &tasks,
		Checksum:        sum,
		Mtime:           mtime,
	}
	if old != nil && old.FeatureImageKey == res.FeatureImage {
		rec.FeatureImageStatus = old.FeatureImageStatus
	} else {
		rec.FeatureImageStatus = ImageUnprocessed
	}
	return rec
}

func checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

func isNotePath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
