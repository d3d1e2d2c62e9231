package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings should validate: %v", err)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if !s.Navigation.ShowTags {
		t.Error("expected default ShowTags=true")
	}
	if s.List.DefaultSort != SortModifiedDesc {
		t.Errorf("expected default sort, got %q", s.List.DefaultSort)
	}
}

func TestLoadFromMergesSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"navigation": {"showTags": false},
		"list": {"previewLines": 4, "defaultSort": "title-asc"},
		"counts": {"separator": " · "},
		"keymap": {"overrides": {"x": "delete"}}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if s.Navigation.ShowTags {
		t.Error("showTags override not applied")
	}
	if s.List.PreviewLines != 4 {
		t.Errorf("previewLines = %d, want 4", s.List.PreviewLines)
	}
	if s.List.DefaultSort != SortTitleAsc {
		t.Errorf("defaultSort = %q, want %q", s.List.DefaultSort, SortTitleAsc)
	}
	if s.Counts.Separator != " · " {
		t.Errorf("separator = %q", s.Counts.Separator)
	}
	if s.Keymap.Overrides["x"] != "delete" {
		t.Error("keymap override not merged")
	}

	// Untouched values keep defaults.
	if !s.Navigation.ShowUntagged {
		t.Error("unset showUntagged should keep default true")
	}
	if !s.List.ShowPreview {
		t.Error("unset showPreview should keep default true")
	}
	if s.UI.TreeWidthPercent != 30 {
		t.Errorf("unset treeWidthPercent should keep default 30, got %d", s.UI.TreeWidthPercent)
	}
}

func TestLoadFromExplicitFalseOverridesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"counts": {"showCounts": false}, "ui": {"showFooter": false}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if s.Counts.ShowCounts {
		t.Error("explicit false should override default true")
	}
	if s.UI.ShowFooter {
		t.Error("explicit false should override default true")
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"preview lines too high", `{"list": {"previewLines": 9}}`},
		{"bad sort order", `{"list": {"defaultSort": "random"}}`},
		{"tree width too small", `{"ui": {"treeWidthPercent": 5}}`},
		{"zero max results", `{"search": {"maxResults": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := ExpandPath("~/vault"); got != filepath.Join(home, "vault") {
		t.Errorf("ExpandPath(~/vault) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path should pass through, got %q", got)
	}
	if got := ExpandPath("relative"); got != "relative" {
		t.Errorf("relative path should pass through, got %q", got)
	}
}
