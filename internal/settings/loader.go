package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	settingsDir  = ".config/navigator"
	settingsFile = "config.json"
)

// rawSettings is the JSON-unmarshaling intermediary. Pointer fields
// distinguish "absent" from zero values so a sparse file only
// overrides what it mentions.
type rawSettings struct {
	Vault      rawVaultSettings      `json:"vault"`
	Navigation rawNavigationSettings `json:"navigation"`
	List       rawListSettings       `json:"list"`
	Icons      rawIconSettings       `json:"icons"`
	Counts     rawCountSettings      `json:"counts"`
	UI         rawUISettings         `json:"ui"`
	Keymap     KeymapSettings        `json:"keymap"`
	Search     rawSearchSettings     `json:"search"`
	Editor     EditorSettings        `json:"editor"`
}

type rawVaultSettings struct {
	ExcludedFolders []string `json:"excludedFolders"`
	ExcludedFiles   []string `json:"excludedFiles"`
}

type rawNavigationSettings struct {
	ShowTags        *bool    `json:"showTags"`
	ShowUntagged    *bool    `json:"showUntagged"`
	ShowProperties  *bool    `json:"showProperties"`
	PropertyFields  []string `json:"propertyFields"`
	ShowNoValue     *bool    `json:"showNoValue"`
	ShowShortcuts   *bool    `json:"showShortcuts"`
	ShowHiddenItems *bool    `json:"showHiddenItems"`
}

type rawListSettings struct {
	IncludeDescendants *bool    `json:"includeDescendants"`
	GroupByDate        *bool    `json:"groupByDate"`
	ShowPreview        *bool    `json:"showPreview"`
	PreviewLines       *int     `json:"previewLines"`
	OptimizeHeight     *bool    `json:"optimizeHeight"`
	ShowDate           *bool    `json:"showDate"`
	DateFormat         string   `json:"dateFormat"`
	ShowParentCrumb    *bool    `json:"showParentCrumb"`
	ShowFeatureImage   *bool    `json:"showFeatureImage"`
	ShowTagPills       *bool    `json:"showTagPills"`
	ShowPropertyPills  *bool    `json:"showPropertyPills"`
	PropertyPillFields []string `json:"propertyPillFields"`
	ColoredPillsFirst  *bool    `json:"coloredPillsFirst"`
	ShowWordCount      *bool    `json:"showWordCount"`
	ShowTaskCounts     *bool    `json:"showTaskCounts"`
	DefaultSort        string   `json:"defaultSort"`
}

type rawIconSettings struct {
	ShowTaskIcon   *bool              `json:"showTaskIcon"`
	FilenameRules  []FilenameIconRule `json:"filenameRules"`
	ExtensionIcons map[string]string  `json:"extensionIcons"`
}

type rawCountSettings struct {
	ShowCounts         *bool   `json:"showCounts"`
	IncludeDescendants *bool   `json:"includeDescendants"`
	SeparateCounts     *bool   `json:"separateCounts"`
	Separator          *string `json:"separator"`
}

type rawUISettings struct {
	ShowFooter       *bool       `json:"showFooter"`
	TreeWidthPercent *int        `json:"treeWidthPercent"`
	MouseEnabled     *bool       `json:"mouseEnabled"`
	ShowHints        *bool       `json:"showHints"`
	Theme            ThemeConfig `json:"theme"`
}

type rawSearchSettings struct {
	MaxResults *int `json:"maxResults"`
}

// Load loads settings from the default location.
func Load() (*Settings, error) {
	return LoadFrom("")
}

// LoadFrom loads settings from a specific path.
// If path is empty, uses ~/.config/navigator/config.json
func LoadFrom(path string) (*Settings, error) {
	s := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return s, nil // Return defaults on error
		}
		path = filepath.Join(home, settingsDir, settingsFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil // Return defaults if no settings file
		}
		return nil, err
	}

	var raw rawSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// Merge raw settings into defaults
	mergeSettings(s, &raw)

	// Validate
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// mergeSettings merges raw settings values into the settings.
func mergeSettings(s *Settings, raw *rawSettings) {
	// Vault
	if raw.Vault.ExcludedFolders != nil {
		s.Vault.ExcludedFolders = raw.Vault.ExcludedFolders
	}
	if raw.Vault.ExcludedFiles != nil {
		s.Vault.ExcludedFiles = raw.Vault.ExcludedFiles
	}

	// Navigation
	if raw.Navigation.ShowTags != nil {
		s.Navigation.ShowTags = *raw.Navigation.ShowTags
	}
	if raw.Navigation.ShowUntagged != nil {
		s.Navigation.ShowUntagged = *raw.Navigation.ShowUntagged
	}
	if raw.Navigation.ShowProperties != nil {
		s.Navigation.ShowProperties = *raw.Navigation.ShowProperties
	}
	if raw.Navigation.PropertyFields != nil {
		s.Navigation.PropertyFields = raw.Navigation.PropertyFields
	}
	if raw.Navigation.ShowNoValue != nil {
		s.Navigation.ShowNoValue = *raw.Navigation.ShowNoValue
	}
	if raw.Navigation.ShowShortcuts != nil {
		s.Navigation.ShowShortcuts = *raw.Navigation.ShowShortcuts
	}
	if raw.Navigation.ShowHiddenItems != nil {
		s.Navigation.ShowHiddenItems = *raw.Navigation.ShowHiddenItems
	}

	// List
	if raw.List.IncludeDescendants != nil {
		s.List.IncludeDescendants = *raw.List.IncludeDescendants
	}
	if raw.List.GroupByDate != nil {
		s.List.GroupByDate = *raw.List.GroupByDate
	}
	if raw.List.ShowPreview != nil {
		s.List.ShowPreview = *raw.List.ShowPreview
	}
	if raw.List.PreviewLines != nil {
		s.List.PreviewLines = *raw.List.PreviewLines
	}
	if raw.List.OptimizeHeight != nil {
		s.List.OptimizeHeight = *raw.List.OptimizeHeight
	}
	if raw.List.ShowDate != nil {
		s.List.ShowDate = *raw.List.ShowDate
	}
	if raw.List.DateFormat != "" {
		s.List.DateFormat = raw.List.DateFormat
	}
	if raw.List.ShowParentCrumb != nil {
		s.List.ShowParentCrumb = *raw.List.ShowParentCrumb
	}
	if raw.List.ShowFeatureImage != nil {
		s.List.ShowFeatureImage = *raw.List.ShowFeatureImage
	}
	if raw.List.ShowTagPills != nil {
		s.List.ShowTagPills = *raw.List.ShowTagPills
	}
	if raw.List.ShowPropertyPills != nil {
		s.List.ShowPropertyPills = *raw.List.ShowPropertyPills
	}
	if raw.List.PropertyPillFields != nil {
		s.List.PropertyPillFields = raw.List.PropertyPillFields
	}
	if raw.List.ColoredPillsFirst != nil {
		s.List.ColoredPillsFirst = *raw.List.ColoredPillsFirst
	}
	if raw.List.ShowWordCount != nil {
		s.List.ShowWordCount = *raw.List.ShowWordCount
	}
	if raw.List.ShowTaskCounts != nil {
		s.List.ShowTaskCounts = *raw.List.ShowTaskCounts
	}
	if raw.List.DefaultSort != "" {
		s.List.DefaultSort = raw.List.DefaultSort
	}

	// Icons
	if raw.Icons.ShowTaskIcon != nil {
		s.Icons.ShowTaskIcon = *raw.Icons.ShowTaskIcon
	}
	if raw.Icons.FilenameRules != nil {
		s.Icons.FilenameRules = raw.Icons.FilenameRules
	}
	if raw.Icons.ExtensionIcons != nil {
		s.Icons.ExtensionIcons = raw.Icons.ExtensionIcons
	}

	// Counts
	if raw.Counts.ShowCounts != nil {
		s.Counts.ShowCounts = *raw.Counts.ShowCounts
	}
	if raw.Counts.IncludeDescendants != nil {
		s.Counts.IncludeDescendants = *raw.Counts.IncludeDescendants
	}
	if raw.Counts.SeparateCounts != nil {
		s.Counts.SeparateCounts = *raw.Counts.SeparateCounts
	}
	if raw.Counts.Separator != nil {
		s.Counts.Separator = *raw.Counts.Separator
	}

	// UI
	if raw.UI.ShowFooter != nil {
		s.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.TreeWidthPercent != nil {
		s.UI.TreeWidthPercent = *raw.UI.TreeWidthPercent
	}
	if raw.UI.MouseEnabled != nil {
		s.UI.MouseEnabled = *raw.UI.MouseEnabled
	}
	if raw.UI.ShowHints != nil {
		s.UI.ShowHints = *raw.UI.ShowHints
	}
	if raw.UI.Theme.Name != "" {
		s.UI.Theme.Name = raw.UI.Theme.Name
	}
	if raw.UI.Theme.Overrides != nil {
		for k, v := range raw.UI.Theme.Overrides {
			s.UI.Theme.Overrides[k] = v
		}
	}

	// Keymap
	if raw.Keymap.Overrides != nil {
		for k, v := range raw.Keymap.Overrides {
			s.Keymap.Overrides[k] = v
		}
	}

	// Search
	if raw.Search.MaxResults != nil {
		s.Search.MaxResults = *raw.Search.MaxResults
	}

	// Editor
	if raw.Editor.Command != "" {
		s.Editor.Command = raw.Editor.Command
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// SettingsPath returns the path to the settings file.
func SettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, settingsDir, settingsFile)
}
