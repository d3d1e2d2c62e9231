package treemodel

import (
	"sort"

	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
)

// Expansion is the shared open/closed store for every tree. No node ever
// expands itself: the navigator mutates this store on activation events
// and rows read it when building. Keys are noderef IDs, so one instance
// covers folders, tags, property keys, and virtual sections.
type Expansion struct {
	open map[string]struct{}
}

// NewExpansion returns an empty store.
func NewExpansion() *Expansion {
	return &Expansion{open: make(map[string]struct{})}
}

// IsOpen reports whether a node is expanded.
func (e *Expansion) IsOpen(ref noderef.Ref) bool {
	_, ok := e.open[ref.ID()]
	return ok
}

// Toggle flips a node and returns its new state.
func (e *Expansion) Toggle(ref noderef.Ref) bool {
	id := ref.ID()
	if _, ok := e.open[id]; ok {
		delete(e.open, id)
		return false
	}
	e.open[id] = struct{}{}
	return true
}

// SetOpen forces a node open or closed.
func (e *Expansion) SetOpen(ref noderef.Ref, open bool) {
	if open {
		e.open[ref.ID()] = struct{}{}
	} else {
		delete(e.open, ref.ID())
	}
}

// SnapshotKind lists the open paths (or keys, for property nodes) of one
// ref kind in sorted order, for the per-vault state file.
func (e *Expansion) SnapshotKind(kind noderef.Kind) []string {
	var out []string
	for id := range e.open {
		ref, err := noderef.Parse(id)
		if err != nil || ref.Kind != kind {
			continue
		}
		if kind == noderef.KindPropertyKey {
			out = append(out, ref.Key)
		} else {
			out = append(out, ref.Path)
		}
	}
	sort.Strings(out)
	return out
}

// RestoreKind reopens nodes of one kind from persisted paths or keys.
func (e *Expansion) RestoreKind(kind noderef.Kind, values []string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		switch kind {
		case noderef.KindFolder:
			e.SetOpen(noderef.Folder(v), true)
		case noderef.KindTag:
			e.SetOpen(noderef.Tag(v), true)
		case noderef.KindPropertyKey:
			e.SetOpen(noderef.PropertyKey(v), true)
		case noderef.KindVirtual:
			e.SetOpen(noderef.Virtual(v), true)
		}
	}
}

// RenamePath re-keys open folder entries after a move, descendants
// included, so a renamed folder stays open.
func (e *Expansion) RenamePath(oldPath, newPath string) {
	renames := make(map[string]string)
	for id := range e.open {
		ref, err := noderef.Parse(id)
		if err != nil {
			continue
		}
		if moved, ok := noderef.Repath(ref, oldPath, newPath); ok {
			renames[id] = moved.ID()
		}
	}
	for id, nid := range renames {
		delete(e.open, id)
		e.open[nid] = struct{}{}
	}
}

// RemovePath drops open entries under a deleted path.
func (e *Expansion) RemovePath(path string) {
	for id := range e.open {
		ref, err := noderef.Parse(id)
		if err != nil {
			continue
		}
		if ref.Under(path) {
			delete(e.open, id)
		}
	}
}
