// Package noderef defines typed identities for everything the navigator can
// point at: folders, files, tags, property keys and values, virtual sections,
// and shortcuts. A Ref travels through selection, expansion, menus, and drag
// payloads; string IDs appear only at persistence boundaries.
package noderef

import (
	"fmt"
	"strings"
)

// Kind discriminates the Ref union.
type Kind string

const (
	KindFolder        Kind = "folder"
	KindFile          Kind = "file"
	KindTag           Kind = "tag"
	KindPropertyKey   Kind = "propkey"
	KindPropertyValue Kind = "propval"
	KindVirtual       Kind = "virtual"
	KindShortcut      Kind = "shortcut"
)

// Ref identifies a single navigable node. Exactly the fields for its Kind
// are set: Path for folders/files/tags/virtual sections, Key for property
// keys, Key+Value for property values, Path for the shortcut target.
type Ref struct {
	Kind  Kind
	Path  string
	Key   string
	Value string
}

// Zero reports whether the ref identifies nothing.
func (r Ref) Zero() bool {
	return r.Kind == ""
}

// Folder returns a folder ref for a vault-relative path.
func Folder(path string) Ref {
	return Ref{Kind: KindFolder, Path: path}
}

// File returns a file ref for a vault-relative path.
func File(path string) Ref {
	return Ref{Kind: KindFile, Path: path}
}

// Tag returns a tag ref for a tag path like "project/active".
func Tag(path string) Ref {
	return Ref{Kind: KindTag, Path: strings.TrimPrefix(path, "#")}
}

// PropertyKey returns a ref for a frontmatter key node.
func PropertyKey(key string) Ref {
	return Ref{Kind: KindPropertyKey, Key: key}
}

// PropertyValue returns a ref for a key=value node.
func PropertyValue(key, value string) Ref {
	return Ref{Kind: KindPropertyValue, Key: key, Value: value}
}

// Virtual returns a ref for a named virtual section ("shortcuts", "tags",
// "properties").
func Virtual(name string) Ref {
	return Ref{Kind: KindVirtual, Path: name}
}

// Shortcut returns a ref for a shortcut entry wrapping a target ID.
func Shortcut(targetID string) Ref {
	return Ref{Kind: KindShortcut, Path: targetID}
}

// ID renders a stable string form used as a map/persistence key. Path and
// Value may contain any characters except the record separator; Key is a
// frontmatter key and never contains one in practice.
func (r Ref) ID() string {
	switch r.Kind {
	case KindPropertyKey:
		return string(r.Kind) + ":" + r.Key
	case KindPropertyValue:
		return string(r.Kind) + ":" + r.Key + "\x1f" + r.Value
	default:
		return string(r.Kind) + ":" + r.Path
	}
}

// Parse reverses ID. It errors on unknown kinds or malformed input so stale
// persisted keys are dropped rather than misread.
func Parse(id string) (Ref, error) {
	kind, rest, ok := strings.Cut(id, ":")
	if !ok {
		return Ref{}, fmt.Errorf("node id %q: missing kind", id)
	}
	switch Kind(kind) {
	case KindFolder, KindFile, KindTag, KindVirtual, KindShortcut:
		return Ref{Kind: Kind(kind), Path: rest}, nil
	case KindPropertyKey:
		return Ref{Kind: KindPropertyKey, Key: rest}, nil
	case KindPropertyValue:
		key, val, ok := strings.Cut(rest, "\x1f")
		if !ok {
			return Ref{}, fmt.Errorf("node id %q: missing property value", id)
		}
		return Ref{Kind: KindPropertyValue, Key: key, Value: val}, nil
	default:
		return Ref{}, fmt.Errorf("node id %q: unknown kind %q", id, kind)
	}
}

// String implements fmt.Stringer for logs.
func (r Ref) String() string {
	return r.ID()
}

// Under reports whether a file or folder ref sits at path or anywhere
// below it. Refs outside path space never match.
func (r Ref) Under(path string) bool {
	if r.Kind != KindFolder && r.Kind != KindFile {
		return false
	}
	return r.Path == path || strings.HasPrefix(r.Path, path+"/")
}

// Repath maps a file or folder ref under oldPath to the same ref under
// newPath. ok is false when the ref is not in path space or not under
// oldPath.
func Repath(r Ref, oldPath, newPath string) (Ref, bool) {
	if !r.Under(oldPath) {
		return Ref{}, false
	}
	if r.Path == oldPath {
		r.Path = newPath
	} else {
		r.Path = newPath + r.Path[len(oldPath):]
	}
	return r, true
}
