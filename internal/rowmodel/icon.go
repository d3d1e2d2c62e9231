package rowmodel

import (
	"strings"

	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
)

// Icons not tied to a file category.
const (
	TaskIcon        = "☐"
	VaultOpenIcon   = "◆"
	VaultClosedIcon = "◇"
)

// Category is the coarse file grouping behind the fallback icon.
type Category int

const (
	CategoryNote Category = iota
	CategoryImage
	CategoryAudio
	CategoryVideo
	CategoryDocument
	CategoryCanvas
	CategoryOther
)

var categoryByExt = map[string]Category{
	".md":       CategoryNote,
	".markdown": CategoryNote,
	".png":      CategoryImage,
	".jpg":      CategoryImage,
	".jpeg":     CategoryImage,
	".gif":      CategoryImage,
	".webp":     CategoryImage,
	".bmp":      CategoryImage,
	".svg":      CategoryImage,
	".mp3":      CategoryAudio,
	".wav":      CategoryAudio,
	".flac":     CategoryAudio,
	".ogg":      CategoryAudio,
	".m4a":      CategoryAudio,
	".mp4":      CategoryVideo,
	".mov":      CategoryVideo,
	".mkv":      CategoryVideo,
	".webm":     CategoryVideo,
	".pdf":      CategoryDocument,
	".canvas":   CategoryCanvas,
}

// Notes and unknown extensions carry no fallback icon; the extension
// badge already marks non-Markdown files.
var categoryIcons = map[Category]string{
	CategoryImage:    "▣",
	CategoryAudio:    "♪",
	CategoryVideo:    "▶",
	CategoryDocument: "▤",
	CategoryCanvas:   "▦",
}

// Categorize maps a lowercase dotted extension to its category.
func Categorize(ext string) Category {
	if c, ok := categoryByExt[ext]; ok {
		return c
	}
	return CategoryOther
}

// FileIcon picks a file's icon. Priority: unfinished-task flag, custom
// per-file icon, first matching filename rule, per-extension override,
// category fallback.
func FileIcon(name, ext, custom string, tasksOpen bool, ic settings.IconSettings) string {
	if ic.ShowTaskIcon && tasksOpen {
		return TaskIcon
	}
	if custom != "" {
		return custom
	}
	lower := strings.ToLower(name)
	for _, rule := range ic.FilenameRules {
		if rule.Match != "" && strings.Contains(lower, strings.ToLower(rule.Match)) {
			return rule.Icon
		}
	}
	if icon, ok := ic.ExtensionIcons[strings.TrimPrefix(ext, ".")]; ok {
		return icon
	}
	return categoryIcons[Categorize(ext)]
}
