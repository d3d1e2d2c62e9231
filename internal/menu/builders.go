package menu

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// TargetKind selects which context menu Build constructs.
type TargetKind int

const (
	TargetFolder TargetKind = iota
	TargetTag
	TargetFile
	TargetProperty
	TargetEmptyArea
)

// Config describes the entity a context menu targets.
type Config struct {
	Kind  TargetKind
	Ref   noderef.Ref // target identity; zero for TargetEmptyArea
	Flags Flags
}

// Flags carries the per-target state the builders branch on.
type Flags struct {
	Pinned         bool   // file is pinned in the current list context
	HasShortcut    bool   // target already has a shortcut entry
	IsMarkdown     bool   // file gets markdown-only actions (wikilink, add tag)
	IsRoot         bool   // vault root folder: no rename, move, or delete
	HasChildren    bool   // target has expandable children
	Hidden         bool   // tag is in the hidden set
	Color          string // current accent name ("" = default)
	SortOverride   string // folder sort override ("" = inherited default)
	FolderNotePath string // path of the folder's folder note, if one exists
	CanPaste       bool   // a copied file is pending for the empty-area menu
}

// Env is the selection and settings snapshot menus are built against.
type Env struct {
	SelectionCount int    // files in the active selection, including the target
	DefaultSort    string // configured list sort, labels the inherited entry
}

// Build constructs the context menu for cfg, anchored at (x, y).
func Build(cfg Config, env Env, x, y int) *Menu {
	var items []Item
	switch cfg.Kind {
	case TargetFolder:
		items = folderItems(cfg, env)
	case TargetTag:
		items = tagItems(cfg)
	case TargetFile:
		items = fileItems(cfg, env)
	case TargetProperty:
		items = propertyItems(cfg)
	case TargetEmptyArea:
		items = emptyAreaItems(cfg, env)
	}
	return NewMenu(items, x, y)
}

func fileItems(cfg Config, env Env) []Item {
	f := cfg.Flags

	items := []Item{
		{ID: "preview", Label: "Open preview", Shortcut: "enter"},
		{ID: "open-editor", Label: "Open in editor", Shortcut: "o"},
		Divider(),
	}

	if f.Pinned {
		items = append(items, Item{ID: "unpin", Label: "Unpin note", Shortcut: "p"})
	} else {
		items = append(items, Item{ID: "pin", Label: "Pin note", Shortcut: "p"})
	}
	items = append(items, shortcutItem(f.HasShortcut))
	if f.IsMarkdown {
		items = append(items, Item{ID: "add-tag", Label: "Add tag…", Shortcut: "t"})
	}
	items = append(items,
		Item{ID: "set-icon", Label: "Change icon…"},
		Item{ID: "color", Label: "Change color", Submenu: colorSubmenu(f.Color)},
		Divider(),
		Item{ID: "copy-path", Label: "Copy path", Shortcut: "y"},
	)
	if f.IsMarkdown {
		items = append(items, Item{ID: "copy-link", Label: "Copy wikilink", Shortcut: "Y"})
	}

	items = append(items, Divider())
	if env.SelectionCount > 1 {
		items = append(items,
			Item{ID: "move", Label: fmt.Sprintf("Move %d files…", env.SelectionCount)},
			Divider(),
			Item{ID: "delete", Label: fmt.Sprintf("Delete %d files", env.SelectionCount), Shortcut: "d", Danger: true},
		)
	} else {
		items = append(items,
			Item{ID: "rename", Label: "Rename…", Shortcut: "r"},
			Item{ID: "duplicate", Label: "Duplicate", Shortcut: "D"},
			Item{ID: "move", Label: "Move to…"},
			Divider(),
			Item{ID: "delete", Label: "Delete", Shortcut: "d", Danger: true},
		)
	}
	return items
}

func folderItems(cfg Config, env Env) []Item {
	f := cfg.Flags

	items := []Item{
		{ID: "new-note", Label: "New note", Shortcut: "n"},
		{ID: "new-folder", Label: "New folder", Shortcut: "N"},
		Divider(),
		shortcutItem(f.HasShortcut),
		Item{ID: "set-icon", Label: "Change icon…"},
		Item{ID: "color", Label: "Change color", Submenu: colorSubmenu(f.Color)},
		Item{ID: "sort", Label: "Sort notes by", Submenu: sortSubmenu(f.SortOverride, env.DefaultSort)},
	}
	if f.FolderNotePath != "" {
		items = append(items, Item{ID: "pin-folder-note", Label: "Pin folder note"})
	}
	if f.HasChildren {
		items = append(items,
			Divider(),
			Item{ID: "expand-all", Label: "Expand all", Shortcut: "E"},
			Item{ID: "collapse-all", Label: "Collapse all", Shortcut: "C"},
		)
	}
	items = append(items, Divider(), Item{ID: "copy-path", Label: "Copy path", Shortcut: "y"})
	if !f.IsRoot {
		items = append(items,
			Item{ID: "rename", Label: "Rename…", Shortcut: "r"},
			Item{ID: "move", Label: "Move to…"},
			Divider(),
			Item{ID: "delete", Label: "Delete", Shortcut: "d", Danger: true},
		)
	}
	return items
}

func tagItems(cfg Config) []Item {
	f := cfg.Flags

	items := []Item{
		shortcutItem(f.HasShortcut),
		{ID: "set-icon", Label: "Change icon…"},
		{ID: "color", Label: "Change color", Submenu: colorSubmenu(f.Color)},
	}
	if f.Hidden {
		items = append(items, Item{ID: "unhide", Label: "Unhide tag"})
	} else {
		items = append(items, Item{ID: "hide", Label: "Hide tag"})
	}
	if f.HasChildren {
		items = append(items,
			Divider(),
			Item{ID: "expand-all", Label: "Expand all", Shortcut: "E"},
			Item{ID: "collapse-all", Label: "Collapse all", Shortcut: "C"},
		)
	}
	return items
}

func propertyItems(cfg Config) []Item {
	return []Item{
		shortcutItem(cfg.Flags.HasShortcut),
		{ID: "color", Label: "Change color", Submenu: colorSubmenu(cfg.Flags.Color)},
	}
}

func emptyAreaItems(cfg Config, env Env) []Item {
	return []Item{
		{ID: "new-note", Label: "New note", Shortcut: "n"},
		{ID: "paste", Label: "Paste", Disabled: !cfg.Flags.CanPaste},
		Divider(),
		{ID: "sort", Label: "Sort notes by", Submenu: sortSubmenu("", env.DefaultSort)},
	}
}

func shortcutItem(has bool) Item {
	if has {
		return Item{ID: "remove-shortcut", Label: "Remove shortcut", Shortcut: "s"}
	}
	return Item{ID: "add-shortcut", Label: "Add to shortcuts", Shortcut: "s"}
}

// colorSubmenu lists the accent palette with the current choice checked.
func colorSubmenu(current string) []Item {
	caser := cases.Title(language.English)
	items := make([]Item, 0, len(styles.ItemAccentNames)+2)
	items = append(items, Item{ID: "color:default", Label: "Default", Checked: current == ""})
	items = append(items, Divider())
	for _, name := range styles.ItemAccentNames {
		items = append(items, Item{
			ID:      "color:" + name,
			Label:   caser.String(name),
			Checked: current == name,
		})
	}
	return items
}

// sortSubmenu lists sort orders with the active choice checked. current
// is the folder override; "" means the configured default applies.
func sortSubmenu(current, defaultSort string) []Item {
	items := make([]Item, 0, len(settings.ValidSortOrders)+2)
	items = append(items, Item{
		ID:      "sort:default",
		Label:   fmt.Sprintf("Default (%s)", sortLabel(defaultSort)),
		Checked: current == "",
	})
	items = append(items, Divider())
	for _, order := range settings.ValidSortOrders {
		items = append(items, Item{
			ID:      "sort:" + order,
			Label:   sortLabel(order),
			Checked: current == order,
		})
	}
	return items
}

// sortLabel renders a sort order constant as menu text.
func sortLabel(order string) string {
	switch order {
	case settings.SortModifiedDesc:
		return "Modified (newest first)"
	case settings.SortModifiedAsc:
		return "Modified (oldest first)"
	case settings.SortCreatedDesc:
		return "Created (newest first)"
	case settings.SortCreatedAsc:
		return "Created (oldest first)"
	case settings.SortTitleAsc:
		return "Title (A to Z)"
	case settings.SortTitleDesc:
		return "Title (Z to A)"
	default:
		return order
	}
}
