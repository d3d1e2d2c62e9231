// Package rowmodel builds the renderable state of navigator rows. Tree
// rows are plain values assembled per render pass from tree nodes plus
// pre-resolved appearance; file rows keep a per-path controller that
// bridges the cache's diff stream into memoized render inputs.
package rowmodel

import (
	"strings"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/notecount"
	"github.com/vroablec/notebook-navigator-sub013/internal/treemodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// ChevronState says whether a row can expand and which way it points.
// Childless rows get ChevronNone and ignore chevron clicks.
type ChevronState int

const (
	ChevronNone ChevronState = iota
	ChevronClosed
	ChevronOpen
)

// Style is the pre-resolved appearance for one row. The pane renderer
// resolves icons and accents once per pass (see Palette) so sibling
// rows never repeat the metadata inheritance walk.
type Style struct {
	Icon       string
	Accent     string // hex, "" = theme default
	Background string // hex, "" = none
}

// DragSpec is the payload a row registers with its mouse hit region.
// One delegated handler reads it back on drag start; rows carry no
// callbacks of their own.
type DragSpec struct {
	Ref    noderef.Ref
	Title  string
	Icon   string
	Accent string
}

// TreeRow is one renderable navigation row. The pane renderer turns it
// into a styled line and a hit region; everything here is plain data.
type TreeRow struct {
	Ref        noderef.Ref
	Level      int
	Label      string
	Decoration string // dim trailing hint, e.g. a shortcut's location
	Icon       string
	Accent     string
	Background string
	Chevron    ChevronState
	// Guides lists the ancestor levels that draw a vertical connector.
	// The walker fills it in; rows never inspect ancestor expansion.
	Guides []int
	Count  notecount.Result
	Match  cache.MatchState
	Drag   *DragSpec
	// FolderNote is the folder's landing note path, "" when none. A
	// set value changes the label's styling and open behavior.
	FolderNote string
}

func chevron(hasChildren, expanded bool) ChevronState {
	switch {
	case !hasChildren:
		return ChevronNone
	case expanded:
		return ChevronOpen
	default:
		return ChevronClosed
	}
}

// FolderRow builds the row for one folder. The root gets the vault
// icons, keeps its configured display name, and is never draggable.
func FolderRow(f *vault.Folder, name string, level int, expanded bool, st Style, count notecount.Result, match cache.MatchState) TreeRow {
	ref := noderef.Folder(f.Path)
	row := TreeRow{
		Ref:        ref,
		Level:      level,
		Label:      name,
		Icon:       st.Icon,
		Accent:     st.Accent,
		Background: st.Background,
		Chevron:    chevron(len(f.Subfolders) > 0, expanded),
		Count:      count,
		Match:      match,
		FolderNote: FolderNote(f),
	}
	if f.IsRoot() {
		if row.Icon == "" {
			row.Icon = VaultClosedIcon
			if expanded {
				row.Icon = VaultOpenIcon
			}
		}
		return row
	}
	row.Drag = &DragSpec{Ref: ref, Title: name, Icon: row.Icon, Accent: row.Accent}
	return row
}

// FolderNote returns the folder's landing note: a note named after the
// folder, else index.md.
func FolderNote(f *vault.Folder) string {
	for _, n := range f.Notes {
		if n.IsNote() && strings.EqualFold(n.Base, f.Name) {
			return n.Path
		}
	}
	for _, n := range f.Notes {
		if n.IsNote() && strings.EqualFold(n.Base, "index") {
			return n.Path
		}
	}
	return ""
}

// ChildCounts reports a folder's direct contents for the status-line
// hint. Notes and subfolders live in separate slices, so this is two
// lengths rather than a filtered walk.
func ChildCounts(f *vault.Folder) (files, folders int) {
	return len(f.Notes), len(f.Subfolders)
}

// TagRow builds the row for one tag tree node. The label is the node's
// first-seen segment casing; the drag title carries the full tag.
func TagRow(node *treemodel.Node, level int, expanded bool, st Style, count notecount.Result, match cache.MatchState) TreeRow {
	return TreeRow{
		Ref:        node.Ref,
		Level:      level,
		Label:      node.Name,
		Icon:       st.Icon,
		Accent:     st.Accent,
		Background: st.Background,
		Chevron:    chevron(node.HasChildren(), expanded),
		Count:      count,
		Match:      match,
		Drag:       &DragSpec{Ref: node.Ref, Title: "#" + node.Ref.Path, Icon: st.Icon, Accent: st.Accent},
	}
}

// PropertyRow builds the row for a property key or value node.
func PropertyRow(node *treemodel.Node, level int, expanded bool, st Style, count notecount.Result, match cache.MatchState) TreeRow {
	return TreeRow{
		Ref:        node.Ref,
		Level:      level,
		Label:      node.Name,
		Icon:       st.Icon,
		Accent:     st.Accent,
		Background: st.Background,
		Chevron:    chevron(node.HasChildren(), expanded),
		Count:      count,
		Match:      match,
		Drag:       &DragSpec{Ref: node.Ref, Title: node.Name, Icon: st.Icon, Accent: st.Accent},
	}
}

// VirtualRow builds a section header or synthetic item row (shortcuts,
// tags, untagged, "no value"). Virtual rows are not draggable.
func VirtualRow(ref noderef.Ref, label string, level int, hasChildren, expanded bool, st Style, count notecount.Result, match cache.MatchState) TreeRow {
	return TreeRow{
		Ref:        ref,
		Level:      level,
		Label:      label,
		Icon:       st.Icon,
		Accent:     st.Accent,
		Background: st.Background,
		Chevron:    chevron(hasChildren, expanded),
		Count:      count,
		Match:      match,
	}
}

// ShortcutRow builds the row for one shortcut entry. The row's own ref
// wraps the target so it never collides with the target's real row;
// activation resolves the wrapped ID back to the target.
func ShortcutRow(target noderef.Ref, label, crumb string, level int, st Style, match cache.MatchState) TreeRow {
	ref := noderef.Shortcut(target.ID())
	return TreeRow{
		Ref:        ref,
		Level:      level,
		Label:      label,
		Decoration: crumb,
		Icon:       st.Icon,
		Accent:     st.Accent,
		Background: st.Background,
		Match:      match,
		Drag:       &DragSpec{Ref: ref, Title: label, Icon: st.Icon, Accent: st.Accent},
	}
}
