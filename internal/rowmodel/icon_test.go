package rowmodel

import (
	"testing"

	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		ext  string
		want Category
	}{
		{".md", CategoryNote},
		{".markdown", CategoryNote},
		{".webp", CategoryImage},
		{".flac", CategoryAudio},
		{".mkv", CategoryVideo},
		{".pdf", CategoryDocument},
		{".canvas", CategoryCanvas},
		{".xyz", CategoryOther},
		{"", CategoryOther},
	}
	for _, tc := range cases {
		if got := Categorize(tc.ext); got != tc.want {
			t.Errorf("Categorize(%q) = %v, want %v", tc.ext, got, tc.want)
		}
	}
}

func TestFileIcon(t *testing.T) {
	full := settings.IconSettings{
		ShowTaskIcon:   true,
		FilenameRules:  []settings.FilenameIconRule{{Match: "meeting", Icon: "◈"}},
		ExtensionIcons: map[string]string{"md": "≡"},
	}
	bare := settings.IconSettings{ShowTaskIcon: true}

	cases := []struct {
		name   string
		file   string
		ext    string
		custom string
		tasks  bool
		ic     settings.IconSettings
		want   string
	}{
		{"open tasks win", "Standup Meeting.md", ".md", "◆", true, full, TaskIcon},
		{"custom icon", "plan.md", ".md", "◆", false, full, "◆"},
		{"filename rule", "Standup Meeting.md", ".md", "", false, full, "◈"},
		{"extension override", "plan.md", ".md", "", false, full, "≡"},
		{"category fallback", "song.mp3", ".mp3", "", false, full, "♪"},
		{"notes have no fallback", "plan.md", ".md", "", false, bare, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FileIcon(tc.file, tc.ext, tc.custom, tc.tasks, tc.ic); got != tc.want {
				t.Errorf("FileIcon = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFileIconRuleMatchesCaseInsensitive(t *testing.T) {
	ic := settings.IconSettings{
		FilenameRules: []settings.FilenameIconRule{{Match: "MEETING", Icon: "◈"}},
	}
	if got := FileIcon("weekly meeting notes.md", ".md", "", false, ic); got != "◈" {
		t.Errorf("FileIcon = %q", got)
	}
}
