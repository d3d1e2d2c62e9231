// Package settings holds user configuration for the navigator:
// what the panes show, how counts and dates are formatted, and which
// frontmatter keys drive the property tree.
package settings

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sort orders for the file list.
const (
	SortModifiedDesc = "modified-desc"
	SortModifiedAsc  = "modified-asc"
	SortCreatedDesc  = "created-desc"
	SortCreatedAsc   = "created-asc"
	SortTitleAsc     = "title-asc"
	SortTitleDesc    = "title-desc"
)

// ValidSortOrders lists every accepted sort order value.
var ValidSortOrders = []string{
	SortModifiedDesc, SortModifiedAsc,
	SortCreatedDesc, SortCreatedAsc,
	SortTitleAsc, SortTitleDesc,
}

// Settings is the root configuration structure.
type Settings struct {
	Vault      VaultSettings      `json:"vault"`
	Navigation NavigationSettings `json:"navigation"`
	List       ListSettings       `json:"list"`
	Icons      IconSettings       `json:"icons"`
	Counts     CountSettings      `json:"counts"`
	UI         UISettings         `json:"ui"`
	Keymap     KeymapSettings     `json:"keymap"`
	Search     SearchSettings     `json:"search"`
	Editor     EditorSettings     `json:"editor"`
}

// VaultSettings configures which parts of the vault are indexed.
type VaultSettings struct {
	// ExcludedFolders are vault-relative folder paths skipped during
	// scans. Events under them are ignored as well.
	ExcludedFolders []string `json:"excludedFolders"`
	// ExcludedFiles are glob patterns matched against file names.
	ExcludedFiles []string `json:"excludedFiles"`
}

// NavigationSettings configures the navigation tree pane.
type NavigationSettings struct {
	// ShowTags adds the tag tree section below folders.
	ShowTags bool `json:"showTags"`
	// ShowUntagged adds a virtual item collecting notes with no tags.
	ShowUntagged bool `json:"showUntagged"`
	// ShowProperties adds per-key property trees.
	ShowProperties bool `json:"showProperties"`
	// PropertyFields are the frontmatter keys projected as trees.
	PropertyFields []string `json:"propertyFields"`
	// ShowNoValue adds a virtual item under each property key for
	// notes that have the key with an empty value.
	ShowNoValue bool `json:"showNoValue"`
	// ShowShortcuts pins a shortcuts section above the folder tree.
	ShowShortcuts bool `json:"showShortcuts"`
	// ShowHiddenItems reveals dot-folders and excluded items grayed
	// out instead of hiding them.
	ShowHiddenItems bool `json:"showHiddenItems"`
}

// ListSettings configures the file list pane.
type ListSettings struct {
	// IncludeDescendants lists notes from subfolders (and nested
	// tags) under the selected item.
	IncludeDescendants bool `json:"includeDescendants"`
	// GroupByDate inserts date group headers when sorted by date.
	GroupByDate bool `json:"groupByDate"`
	// ShowPreview renders preview text under each title.
	ShowPreview bool `json:"showPreview"`
	// PreviewLines is how many lines of preview text to show (0-5).
	PreviewLines int `json:"previewLines"`
	// OptimizeHeight collapses multi-line rows that have no preview or
	// pill content. Rows with content always keep their full height.
	OptimizeHeight bool `json:"optimizeHeight"`
	// ShowDate shows the sort-relevant date on each row.
	ShowDate bool `json:"showDate"`
	// DateFormat is a Go reference layout for list dates.
	DateFormat string `json:"dateFormat"`
	// ShowParentCrumb shows the parent folder under notes when
	// descendants are included.
	ShowParentCrumb bool `json:"showParentCrumb"`
	// ShowFeatureImage reserves a thumbnail cell per row.
	ShowFeatureImage bool `json:"showFeatureImage"`
	// ShowTagPills renders tag pills on rows.
	ShowTagPills bool `json:"showTagPills"`
	// ShowPropertyPills renders pills for the configured keys.
	ShowPropertyPills bool `json:"showPropertyPills"`
	// PropertyPillFields are the frontmatter keys rendered as pills.
	PropertyPillFields []string `json:"propertyPillFields"`
	// ColoredPillsFirst sorts pills with assigned colors ahead of the
	// uncolored ones inside each key group.
	ColoredPillsFirst bool `json:"coloredPillsFirst"`
	// ShowWordCount renders a word count pill on rows.
	ShowWordCount bool `json:"showWordCount"`
	// ShowTaskCounts renders an unfinished-task pill on rows.
	ShowTaskCounts bool `json:"showTaskCounts"`
	// DefaultSort orders the list unless a folder overrides it.
	DefaultSort string `json:"defaultSort"`
}

// IconSettings configures how file icons are picked. The task icon wins
// over everything else, then a custom per-file icon, then the first
// matching filename rule, then the extension table, then the built-in
// category fallback.
type IconSettings struct {
	// ShowTaskIcon flags files with unfinished tasks.
	ShowTaskIcon bool `json:"showTaskIcon"`
	// FilenameRules map a case-insensitive name substring to an icon.
	FilenameRules []FilenameIconRule `json:"filenameRules,omitempty"`
	// ExtensionIcons override icons per extension, keyed without the dot.
	ExtensionIcons map[string]string `json:"extensionIcons,omitempty"`
}

// FilenameIconRule assigns an icon to files whose name contains Match.
type FilenameIconRule struct {
	Match string `json:"match"`
	Icon  string `json:"icon"`
}

// CountSettings configures note counts on tree items.
type CountSettings struct {
	// ShowCounts toggles counts entirely.
	ShowCounts bool `json:"showCounts"`
	// IncludeDescendants counts notes in nested items too.
	IncludeDescendants bool `json:"includeDescendants"`
	// SeparateCounts shows "direct separator nested" instead of a
	// single total when descendants are included.
	SeparateCounts bool `json:"separateCounts"`
	// Separator sits between the two numbers of a separate count.
	Separator string `json:"separator"`
}

// UISettings configures appearance.
type UISettings struct {
	ShowFooter bool `json:"showFooter"`
	// TreeWidthPercent is the navigation pane share of the screen.
	TreeWidthPercent int `json:"treeWidthPercent"`
	// MouseEnabled turns on mouse support (click, drag, scroll).
	MouseEnabled bool `json:"mouseEnabled"`
	// ShowHints surfaces folder summaries in the status line on hover.
	// Skipped when the mouse is off; nothing can hover.
	ShowHints bool        `json:"showHints"`
	Theme     ThemeConfig `json:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name"`
	Overrides map[string]string `json:"overrides,omitempty"` // user customizations on top
}

// KeymapSettings holds key binding overrides.
type KeymapSettings struct {
	Overrides map[string]string `json:"overrides"`
}

// SearchSettings configures the search provider.
type SearchSettings struct {
	// MaxResults caps search result counts.
	MaxResults int `json:"maxResults"`
}

// EditorSettings configures external editor integration.
type EditorSettings struct {
	// Command opens a file when set; empty falls back to $EDITOR.
	Command string `json:"command"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		Vault: VaultSettings{
			ExcludedFolders: []string{".obsidian", ".git", ".trash"},
			ExcludedFiles:   []string{},
		},
		Navigation: NavigationSettings{
			ShowTags:       true,
			ShowUntagged:   true,
			ShowProperties: false,
			PropertyFields: []string{},
			ShowNoValue:    true,
			ShowShortcuts:  true,
		},
		List: ListSettings{
			IncludeDescendants: true,
			GroupByDate:        true,
			ShowPreview:        true,
			PreviewLines:       2,
			OptimizeHeight:     true,
			ShowDate:           true,
			DateFormat:         "Jan 2, 2006",
			ShowParentCrumb:    true,
			ShowFeatureImage:   true,
			ShowTagPills:       true,
			ShowPropertyPills:  false,
			PropertyPillFields: []string{},
			ColoredPillsFirst:  false,
			ShowWordCount:      false,
			ShowTaskCounts:     true,
			DefaultSort:        SortModifiedDesc,
		},
		Icons: IconSettings{
			ShowTaskIcon:   true,
			ExtensionIcons: map[string]string{},
		},
		Counts: CountSettings{
			ShowCounts:         true,
			IncludeDescendants: true,
			SeparateCounts:     false,
			Separator:          " / ",
		},
		UI: UISettings{
			ShowFooter:       true,
			TreeWidthPercent: 30,
			MouseEnabled:     true,
			ShowHints:        true,
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
		Keymap: KeymapSettings{
			Overrides: make(map[string]string),
		},
		Search: SearchSettings{
			MaxResults: 200,
		},
		Editor: EditorSettings{},
	}
}

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	if err := validation.ValidateStruct(&s.List,
		validation.Field(&s.List.PreviewLines, validation.Min(0), validation.Max(5)),
		validation.Field(&s.List.DefaultSort, validation.In(sortOrderValues()...)),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&s.UI,
		validation.Field(&s.UI.TreeWidthPercent, validation.Min(15), validation.Max(60)),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&s.Search,
		validation.Field(&s.Search.MaxResults, validation.Min(1), validation.Max(5000)),
	)
}

func sortOrderValues() []interface{} {
	vals := make([]interface{}, len(ValidSortOrders))
	for i, v := range ValidSortOrders {
		vals[i] = v
	}
	return vals
}
