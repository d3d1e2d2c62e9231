package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	renameWindow = 200 * time.Millisecond
	eventBuffer  = 64
)

// Watcher turns fsnotify output into vault Events. A Rename followed
// quickly by a Create is reconciled into a single OpRename so file identity
// survives the move; an unclaimed Rename decays to a Remove when the window
// expires. Write bursts are not debounced here: the content indexer
// coalesces them downstream.
type Watcher struct {
	vault  *Vault
	logger *slog.Logger

	events chan Event
	fsw    *fsnotify.Watcher

	// Rename state lives on the loop goroutine only.
	pendingRename string
	renameTimer   *time.Timer
}

// NewWatcher creates a watcher over the vault's directory tree.
func NewWatcher(v *Vault, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		vault:  v,
		logger: logger,
		events: make(chan Event, eventBuffer),
		fsw:    fsw,
	}
	if err := w.addRecursive(v.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events is the stream the update loop drains. It closes when the watcher
// stops.
func (w *Watcher) Events() <-chan Event { return w.events }

// Start runs the watch loop until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.vault.skipName(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch dir failed", "dir", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.events)

	// Lazily armed timer for rename decay; renameC is nil while idle so
	// the select ignores it.
	w.renameTimer = time.NewTimer(renameWindow)
	if !w.renameTimer.Stop() {
		<-w.renameTimer.C
	}
	var renameC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			renameC = w.handle(ev, renameC)
		case <-renameC:
			w.emit(Event{Op: OpRemove, Path: w.pendingRename})
			w.pendingRename = ""
			renameC = nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handle translates one fsnotify event, returning the (possibly re-armed)
// rename decay channel.
func (w *Watcher) handle(ev fsnotify.Event, renameC <-chan time.Time) <-chan time.Time {
	rel, ok := w.vault.Rel(ev.Name)
	if !ok || rel == RootPath {
		return renameC
	}
	if w.vault.skipName(baseName(rel)) {
		return renameC
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		if w.pendingRename != "" && w.pendingRename != rel {
			w.stopRenameTimer(renameC)
			w.emit(Event{Op: OpRename, OldPath: w.pendingRename, Path: rel})
			w.pendingRename = ""
			renameC = nil
		} else {
			w.emit(Event{Op: OpCreate, Path: rel})
		}
		// New directories need their own watches before events inside
		// them can be seen.
		if abs := w.vault.Abs(rel); isDir(abs) {
			if err := w.addRecursive(abs); err != nil {
				w.logger.Warn("watch new dir failed", "dir", abs, "error", err)
			}
		}
		return renameC

	case ev.Op&fsnotify.Rename != 0:
		if w.pendingRename != "" {
			// Two renames in flight: the older one is a real removal.
			w.stopRenameTimer(renameC)
			w.emit(Event{Op: OpRemove, Path: w.pendingRename})
		} else {
			w.stopRenameTimer(renameC)
		}
		w.pendingRename = rel
		w.renameTimer.Reset(renameWindow)
		return w.renameTimer.C

	case ev.Op&fsnotify.Remove != 0:
		w.emit(Event{Op: OpRemove, Path: rel})
		return renameC

	case ev.Op&fsnotify.Write != 0:
		w.emit(Event{Op: OpWrite, Path: rel})
		return renameC
	}
	return renameC
}

// stopRenameTimer drains the timer so a later Reset starts clean.
func (w *Watcher) stopRenameTimer(renameC <-chan time.Time) {
	if !w.renameTimer.Stop() && renameC != nil {
		select {
		case <-w.renameTimer.C:
		default:
		}
	}
}

func (w *Watcher) emit(ev Event) {
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("event channel full, dropping", "path", ev.Path)
	}
}

func isDir(abs string) bool {
	info, err := os.Stat(abs)
	return err == nil && info.IsDir()
}
