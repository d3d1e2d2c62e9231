// Package meta stores user-assigned display metadata for navigator nodes:
// icons, colors, backgrounds, display names, hidden flags, sort overrides,
// pinned notes, and shortcuts. Entries are keyed by noderef IDs in a single
// JSON file per vault, so styling survives restarts and moves with the
// vault. Display attributes stay out of the entities themselves; rows ask
// the service at render time, which is what lets an icon or color change
// apply live without touching any file.
package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// PinContext separates the pin lists: a note pinned while browsing folders
// is independent from the same note pinned while browsing tags.
type PinContext string

const (
	PinFolder PinContext = "folder"
	PinTag    PinContext = "tag"
)

// fileData is the persisted JSON document. String maps are keyed by
// noderef IDs; pin and shortcut lists hold target IDs in display order.
type fileData struct {
	Icons         map[string]string       `json:"icons,omitempty"`
	Colors        map[string]string       `json:"colors,omitempty"`
	Backgrounds   map[string]string       `json:"backgrounds,omitempty"`
	DisplayNames  map[string]string       `json:"displayNames,omitempty"`
	Hidden        map[string]bool         `json:"hidden,omitempty"`
	SortOverrides map[string]string       `json:"sortOverrides,omitempty"`
	Pins          map[PinContext][]string `json:"pins,omitempty"`
	Shortcuts     []string                `json:"shortcuts,omitempty"`
}

// Service resolves and stores display metadata. Every setter persists
// immediately, like the state package. Safe for concurrent use.
type Service struct {
	mu   sync.RWMutex
	path string
	data fileData
}

// Open loads the metadata file at path. A missing file is not an error:
// the service starts empty and the file appears on first write.
func Open(path string) (*Service, error) {
	s := &Service{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	return s, nil
}

// save writes the document to disk. Callers hold mu.
func (s *Service) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Icon returns the icon stored for a node, or "".
func (s *Service) Icon(ref noderef.Ref) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Icons[ref.ID()]
}

// SetIcon assigns an icon glyph to a node; empty clears it.
func (s *Service) SetIcon(ref noderef.Ref, icon string) error {
	return s.setEntry(&s.data.Icons, ref, icon)
}

// Color returns the color stored directly on a node, or "".
func (s *Service) Color(ref noderef.Ref) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Colors[ref.ID()]
}

// SetColor assigns a foreground color to a node; empty clears it.
func (s *Service) SetColor(ref noderef.Ref, color string) error {
	return s.setEntry(&s.data.Colors, ref, color)
}

// Background returns the background stored directly on a node, or "".
func (s *Service) Background(ref noderef.Ref) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Backgrounds[ref.ID()]
}

// SetBackground assigns a row background to a node; empty clears it.
func (s *Service) SetBackground(ref noderef.Ref, color string) error {
	return s.setEntry(&s.data.Backgrounds, ref, color)
}

// DisplayName returns the custom display name for a node, or "". The root
// folder is the usual customer; its on-disk name is the vault directory.
func (s *Service) DisplayName(ref noderef.Ref) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.DisplayNames[ref.ID()]
}

// SetDisplayName assigns a custom display name; empty restores the real
// name.
func (s *Service) SetDisplayName(ref noderef.Ref, name string) error {
	return s.setEntry(&s.data.DisplayNames, ref, name)
}

// SortOverride returns the sort order pinned to a folder or tag node, or
// "" when the node follows the configured default.
func (s *Service) SortOverride(ref noderef.Ref) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.SortOverrides[ref.ID()]
}

// SetSortOverride pins a sort order to a node; empty restores the default.
func (s *Service) SetSortOverride(ref noderef.Ref, order string) error {
	return s.setEntry(&s.data.SortOverrides, ref, order)
}

// IsHidden reports whether a node was hidden via its context menu.
func (s *Service) IsHidden(ref noderef.Ref) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Hidden[ref.ID()]
}

// SetHidden marks or unmarks a node as hidden.
func (s *Service) SetHidden(ref noderef.Ref, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !hidden {
		delete(s.data.Hidden, ref.ID())
	} else {
		if s.data.Hidden == nil {
			s.data.Hidden = make(map[string]bool)
		}
		s.data.Hidden[ref.ID()] = true
	}
	return s.save()
}

// setEntry updates one string map. The map pointer keeps the address
// computation outside the lock harmless; the map itself is only touched
// while mu is held.
func (s *Service) setEntry(m *map[string]string, ref noderef.Ref, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(*m, ref.ID())
	} else {
		if *m == nil {
			*m = make(map[string]string)
		}
		(*m)[ref.ID()] = value
	}
	return s.save()
}

// EffectiveColor returns the color shown for a node. With inherit set, an
// unset color falls back through the node's ancestors: files and folders
// climb parent folders to the vault root, tags climb tag path segments,
// property values fall back to their key.
func (s *Service) EffectiveColor(ref noderef.Ref, inherit bool) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolve(s.data.Colors, ref, inherit)
}

// EffectiveBackground is EffectiveColor for row backgrounds.
func (s *Service) EffectiveBackground(ref noderef.Ref, inherit bool) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolve(s.data.Backgrounds, ref, inherit)
}

func resolve(m map[string]string, ref noderef.Ref, inherit bool) string {
	if c := m[ref.ID()]; c != "" || !inherit {
		return c
	}
	for _, anc := range ancestorRefs(ref) {
		if c := m[anc.ID()]; c != "" {
			return c
		}
	}
	return ""
}

// ancestorRefs lists the nodes consulted for inherited attributes, nearest
// first.
func ancestorRefs(ref noderef.Ref) []noderef.Ref {
	switch ref.Kind {
	case noderef.KindFile, noderef.KindFolder:
		var out []noderef.Ref
		for p := ref.Path; p != vault.RootPath && p != ""; {
			if i := strings.LastIndexByte(p, '/'); i > 0 {
				p = p[:i]
			} else {
				p = vault.RootPath
			}
			out = append(out, noderef.Folder(p))
		}
		return out
	case noderef.KindTag:
		var out []noderef.Ref
		p := ref.Path
		for {
			i := strings.LastIndexByte(p, '/')
			if i < 0 {
				return out
			}
			p = p[:i]
			out = append(out, noderef.Tag(p))
		}
	case noderef.KindPropertyValue:
		return []noderef.Ref{noderef.PropertyKey(ref.Key)}
	}
	return nil
}

// IsPinned reports whether a note is pinned in the given context.
func (s *Service) IsPinned(ctx PinContext, ref noderef.Ref) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.data.Pins[ctx], ref.ID())
}

// TogglePin pins a note in the given context, or unpins it if already
// pinned. New pins go to the end of the list.
func (s *Service) TogglePin(ctx PinContext, ref noderef.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ref.ID()
	list := s.data.Pins[ctx]
	if i := slices.Index(list, id); i >= 0 {
		list = slices.Delete(list, i, i+1)
	} else {
		list = append(list, id)
	}
	if len(list) == 0 {
		delete(s.data.Pins, ctx)
	} else {
		if s.data.Pins == nil {
			s.data.Pins = make(map[PinContext][]string)
		}
		s.data.Pins[ctx] = list
	}
	return s.save()
}

// Pinned returns the pin list for a context in pin order. Entries that no
// longer parse are skipped.
func (s *Service) Pinned(ctx PinContext) []noderef.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return parseRefs(s.data.Pins[ctx])
}

// Shortcuts returns the shortcut targets in display order.
func (s *Service) Shortcuts() []noderef.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return parseRefs(s.data.Shortcuts)
}

// HasShortcut reports whether a node is already a shortcut target.
func (s *Service) HasShortcut(ref noderef.Ref) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.data.Shortcuts, ref.ID())
}

// AddShortcut appends a node to the shortcut list. Adding an existing
// target is a no-op.
func (s *Service) AddShortcut(ref noderef.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ref.ID()
	if slices.Contains(s.data.Shortcuts, id) {
		return nil
	}
	s.data.Shortcuts = append(s.data.Shortcuts, id)
	return s.save()
}

// RemoveShortcut deletes a node from the shortcut list.
func (s *Service) RemoveShortcut(ref noderef.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.data.Shortcuts, ref.ID())
	if i < 0 {
		return nil
	}
	s.data.Shortcuts = slices.Delete(s.data.Shortcuts, i, i+1)
	return s.save()
}

// MoveShortcut shifts a shortcut by delta positions, clamping at the ends.
func (s *Service) MoveShortcut(ref noderef.Ref, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.data.Shortcuts, ref.ID())
	if i < 0 {
		return nil
	}
	j := min(max(i+delta, 0), len(s.data.Shortcuts)-1)
	if j == i {
		return nil
	}
	id := s.data.Shortcuts[i]
	s.data.Shortcuts = slices.Delete(s.data.Shortcuts, i, i+1)
	s.data.Shortcuts = slices.Insert(s.data.Shortcuts, j, id)
	return s.save()
}

func parseRefs(ids []string) []noderef.Ref {
	refs := make([]noderef.Ref, 0, len(ids))
	for _, id := range ids {
		ref, err := noderef.Parse(id)
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// RenamePath rewrites every entry under a moved file or folder. oldPath
// may name a single file or a whole folder; descendants move with it. Pins
// and shortcuts keep their positions.
func (s *Service) RenamePath(oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, m := range []map[string]string{
		s.data.Icons, s.data.Colors, s.data.Backgrounds,
		s.data.DisplayNames, s.data.SortOverrides,
	} {
		changed = renameKeys(m, oldPath, newPath) || changed
	}
	changed = renameKeys(s.data.Hidden, oldPath, newPath) || changed
	for _, list := range s.data.Pins {
		changed = renameList(list, oldPath, newPath) || changed
	}
	changed = renameList(s.data.Shortcuts, oldPath, newPath) || changed
	if !changed {
		return nil
	}
	return s.save()
}

// RemovePath drops every entry under a deleted file or folder, including
// its pins and shortcuts.
func (s *Service) RemovePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, m := range []map[string]string{
		s.data.Icons, s.data.Colors, s.data.Backgrounds,
		s.data.DisplayNames, s.data.SortOverrides,
	} {
		changed = deleteKeys(m, path) || changed
	}
	changed = deleteKeys(s.data.Hidden, path) || changed
	for ctx, list := range s.data.Pins {
		next, removed := deleteEntries(list, path)
		if !removed {
			continue
		}
		changed = true
		if len(next) == 0 {
			delete(s.data.Pins, ctx)
		} else {
			s.data.Pins[ctx] = next
		}
	}
	if next, removed := deleteEntries(s.data.Shortcuts, path); removed {
		s.data.Shortcuts = next
		changed = true
	}
	if !changed {
		return nil
	}
	return s.save()
}

// renameID maps a node ID under oldPath to its ID under newPath. Only file
// and folder IDs live in path space.
func renameID(id, oldPath, newPath string) (string, bool) {
	ref, err := noderef.Parse(id)
	if err != nil {
		return "", false
	}
	moved, ok := noderef.Repath(ref, oldPath, newPath)
	if !ok {
		return "", false
	}
	return moved.ID(), true
}

func renameKeys[V any](m map[string]V, oldPath, newPath string) bool {
	renames := make(map[string]string)
	for id := range m {
		if nid, ok := renameID(id, oldPath, newPath); ok {
			renames[id] = nid
		}
	}
	for id, nid := range renames {
		m[nid] = m[id]
		delete(m, id)
	}
	return len(renames) > 0
}

func renameList(ids []string, oldPath, newPath string) bool {
	var moved bool
	for i, id := range ids {
		if nid, ok := renameID(id, oldPath, newPath); ok {
			ids[i] = nid
			moved = true
		}
	}
	return moved
}

func deleteKeys[V any](m map[string]V, path string) bool {
	var removed bool
	for id := range m {
		if underPath(id, path) {
			delete(m, id)
			removed = true
		}
	}
	return removed
}

func deleteEntries(ids []string, path string) ([]string, bool) {
	n := len(ids)
	next := slices.DeleteFunc(ids, func(id string) bool { return underPath(id, path) })
	return next, len(next) != n
}

func underPath(id, path string) bool {
	ref, err := noderef.Parse(id)
	if err != nil {
		return false
	}
	return ref.Under(path)
}
