// Package treemodel projects cache and vault state into the navigation
// trees. Tag and property trees are rebuilt from the RAM cache whenever its
// generation moves; folder rows are never cached here because the vault
// mutates Folder children in place, so folder counts are derived fresh from
// the live tree each render.
package treemodel

import (
	"sort"
	"strings"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/notecount"
	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Node is one row source in the tag or property tree. Children are keyed
// by the case-folded child segment; len(Children) is the existence check.
// Notes holds the paths of notes sitting exactly at this node, Info the
// aggregated counts over the whole subtree.
type Node struct {
	Ref      noderef.Ref
	Name     string
	Children map[string]*Node
	Notes    map[string]struct{}
	Info     notecount.Info
}

func newNode(ref noderef.Ref, name string) *Node {
	return &Node{
		Ref:      ref,
		Name:     name,
		Children: make(map[string]*Node),
		Notes:    make(map[string]struct{}),
	}
}

// HasChildren gates chevron interactivity.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// SortedChildren returns the children in display order (case-folded name
// order). The slice is rebuilt per call; trees are small and rebuilt only
// on cache generation bumps, so rows always see current data.
func (n *Node) SortedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Find walks the tree to the node with the given ref, or nil.
func (n *Node) Find(ref noderef.Ref) *Node {
	switch ref.Kind {
	case noderef.KindTag:
		node := n
		for _, seg := range strings.Split(ref.Path, "/") {
			node = node.Children[strings.ToLower(seg)]
			if node == nil {
				return nil
			}
		}
		return node
	case noderef.KindPropertyKey:
		return n.Children[strings.ToLower(ref.Key)]
	case noderef.KindPropertyValue:
		key := n.Children[strings.ToLower(ref.Key)]
		if key == nil {
			return nil
		}
		return key.Children[strings.ToLower(ref.Value)]
	}
	return nil
}

// NotesUnder returns the sorted note paths selected by this node. With
// descendants included the whole subtree contributes, deduplicated.
func (n *Node) NotesUnder(includeDescendants bool) []string {
	set := make(map[string]struct{}, len(n.Notes))
	if includeDescendants {
		n.collect(set)
	} else {
		for p := range n.Notes {
			set[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (n *Node) collect(set map[string]struct{}) {
	for p := range n.Notes {
		set[p] = struct{}{}
	}
	for _, c := range n.Children {
		c.collect(set)
	}
}

// BuildTagTree projects every record's tag list into one tree. Node paths
// are case-folded ("Work/Reports" and "work/reports" share a node); the
// display name keeps the first-seen casing per segment. The returned root
// is virtual: its Info totals every tagged note.
func BuildTagTree(ram *cache.RAM) *Node {
	root := newNode(noderef.Ref{}, "")
	ram.Range(func(path string, rec *cache.FileRecord) bool {
		for _, tag := range rec.Tags {
			insertTag(root, tag, path)
		}
		return true
	})
	aggregate(root)
	return root
}

func insertTag(root *Node, tag, notePath string) {
	node := root
	full := ""
	for _, seg := range strings.Split(tag, "/") {
		if seg == "" {
			continue
		}
		key := strings.ToLower(seg)
		if full == "" {
			full = key
		} else {
			full += "/" + key
		}
		child := node.Children[key]
		if child == nil {
			child = newNode(noderef.Tag(full), seg)
			node.Children[key] = child
		}
		node = child
	}
	if node != root {
		node.Notes[notePath] = struct{}{}
	}
}

/// BuildPropertyTree projects frontmatter properties into a two-level tree:
// key nodes with value children. Keys and values are case-folded like tag
// segments. A note with any value for a key sits in the key node's set, so
// key subtrees never add descendant-only notes.
func BuildPropertyTree(ram *cache.RAM) *Node {
	root := newNode(noderef.Ref{}, "")
	ram.Range(func(path string, rec *cache.FileRecord) bool {
		for _, item := range rec.Properties {
			insertProperty(root, item, path)
		}
		return true
	})
	aggregate(root)
	return root
}

func insertProperty(root *Node, item notemeta.PropertyItem, notePath string) {
	keyID := strings.ToLower(strings.TrimSpace(item.FieldKey))
	if keyID == "" {
		return
	}
	keyNode := root.Children[keyID]
	if keyNode == nil {
		keyNode = newNode(noderef.PropertyKey(keyID), item.FieldKey)
		root.Children[keyID] = keyNode
	}
	keyNode.Notes[notePath] = struct{}{}

	valID := strings.ToLower(strings.TrimSpace(item.Value))
	if valID == "" {
		return
	}
	valNode := keyNode.Children[valID]
	if valNode == nil {
		valNode = newNode(noderef.PropertyValue(keyID, valID), item.Value)
		keyNode.Children[valID] = valNode
	}
	valNode.Notes[notePath] = struct{}{}
}

// aggregate fills Info bottom-up. The subtree note set is deduplicated, so
// a note tagged both work and work/reports counts once in work's total.
func aggregate(n *Node) map[string]struct{} {
	subtree := make(map[string]struct{}, len(n.Notes))
	for p := range n.Notes {
		subtree[p] = struct{}{}
	}
	for _, c := range n.Children {
		for p := range aggregate(c) {
			subtree[p] = struct{}{}
		}
	}
	n.Info = notecount.Info{
		Current:     len(n.Notes),
		Descendants: len(subtree) - len(n.Notes),
		Total:       len(subtree),
	}
	return subtree
}

// Untagged lists notes carrying no tags at all, sorted by path.
func Untagged(ram *cache.RAM) []string {
	var out []string
	ram.Range(func(path string, rec *cache.FileRecord) bool {
		if len(rec.Tags) == 0 {
			out = append(out, path)
		}
		return true
	})
	sort.Strings(out)
	return out
}

// FolderCounts derives the badge numbers for a folder from the live vault
// tree. Notes live in exactly one folder, so sums need no deduplication.
func FolderCounts(folder *vault.Folder) notecount.Info {
	current := len(folder.Notes)
	descendants := 0
	var walk func(d *vault.Folder)
	walk = func(d *vault.Folder) {
		for _, sub := range d.Subfolders {
			descendants += len(sub.Notes)
			walk(sub)
		}
	}
	walk(folder)
	return notecount.Info{Current: current, Descendants: descendants, Total: current + descendants}
}
