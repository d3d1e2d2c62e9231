package notemeta

import (
	"strings"
	"testing"
)

func TestParseFrontmatter(t *testing.T) {
	content := `---
title: Weekly Review
status: in progress
priority: 2
published: false
due: 2026-03-01
related: "[[Planning|Plans]]"
draft:
topics:
  - go
  - tooling
tags:
  - work/review
---
# Weekly Review

Body text here.
`
	res, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if res.Title != "Weekly Review" {
		t.Errorf("Title = %q", res.Title)
	}
	if !strings.Contains(res.Body, "Body text here.") {
		t.Errorf("Body missing content: %q", res.Body)
	}
	if len(res.Tags) != 1 || res.Tags[0] != "work/review" {
		t.Errorf("Tags = %v", res.Tags)
	}
	if !res.RawNulls["draft"] {
		t.Error("draft should be recorded as raw null")
	}

	wantProps := []PropertyItem{
		{FieldKey: "title", Value: "Weekly Review", Kind: KindText},
		{FieldKey: "status", Value: "in progress", Kind: KindText},
		{FieldKey: "priority", Value: "2", Kind: KindNumber},
		{FieldKey: "published", Value: "false", Kind: KindBool},
		{FieldKey: "due", Value: "2026-03-01", Kind: KindDate},
		{FieldKey: "related", Value: "[[Planning|Plans]]", Kind: KindLink},
		{FieldKey: "draft", Value: "true", Kind: KindBool},
		{FieldKey: "topics", Value: "go", Kind: KindListEntry},
		{FieldKey: "topics", Value: "tooling", Kind: KindListEntry},
	}
	if len(res.Properties) != len(wantProps) {
		t.Fatalf("Properties = %+v, want %d items", res.Properties, len(wantProps))
	}
	for i, want := range wantProps {
		if res.Properties[i] != want {
			t.Errorf("Properties[%d] = %+v, want %+v", i, res.Properties[i], want)
		}
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	res, err := Parse("# Heading\n\nJust text with #inbox tag.\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Frontmatter != nil {
		t.Errorf("Frontmatter = %v, want nil", res.Frontmatter)
	}
	if res.Title != "Heading" {
		t.Errorf("Title = %q, want heading fallback", res.Title)
	}
	if len(res.Tags) != 1 || res.Tags[0] != "inbox" {
		t.Errorf("Tags = %v", res.Tags)
	}
}

func TestParseMalformedFrontmatter(t *testing.T) {
	content := "---\n: [unbalanced\n---\nbody\n"
	res, err := Parse(content)
	if err == nil {
		t.Fatal("expected error for malformed frontmatter")
	}
	if res == nil {
		t.Fatal("Result must be usable despite error")
	}
	if res.Body != content {
		t.Errorf("Body should fall back to full content, got %q", res.Body)
	}
}

func TestTagMergeDeduplicates(t *testing.T) {
	content := "---\ntags: [inbox, work]\n---\nAlso #inbox and #work/deep here.\n"
	res, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"inbox", "work", "work/deep"}
	if len(res.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", res.Tags, want)
	}
	for i := range want {
		if res.Tags[i] != want[i] {
			t.Errorf("Tags[%d] = %q, want %q", i, res.Tags[i], want[i])
		}
	}
}

func TestCountTasks(t *testing.T) {
	body := `- [ ] open one
- [x] done one
  - [ ] nested open
* [X] star done
- [not a task]
`
	total, done := countTasks(body)
	if total != 4 || done != 2 {
		t.Errorf("countTasks = (%d, %d), want (4, 2)", total, done)
	}
}

func TestTaskUnfinished(t *testing.T) {
	res, err := Parse("- [ ] a\n- [ ] b\n- [x] c\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := res.TaskUnfinished(); got != 2 {
		t.Errorf("TaskUnfinished = %d, want 2", got)
	}
}

func TestExtractLinks(t *testing.T) {
	body := "See [[Alpha]] and [[Beta|an alias]] plus [[Alpha#section]] again."
	links := extractLinks(body)
	want := []string{"Alpha", "Beta"}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		item PropertyItem
		want string
	}{
		{PropertyItem{Value: "[[Note]]", Kind: KindLink}, "Note"},
		{PropertyItem{Value: "[[Note|Alias]]", Kind: KindLink}, "Alias"},
		{PropertyItem{Value: "[[Note#Head]]", Kind: KindLink}, "Note"},
		{PropertyItem{Value: "plain", Kind: KindText}, "plain"},
	}
	for _, tt := range tests {
		if got := tt.item.DisplayLabel(); got != tt.want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", tt.item.Value, got, tt.want)
		}
	}
}

func TestBuildPreviewSkipsStructure(t *testing.T) {
	body := "# Title\n\n```\ncode hidden\n```\nFirst real line with [[Target|link text]].\n\nSecond line.\n"
	preview := buildPreview(body)
	if strings.Contains(preview, "code hidden") {
		// Fence markers are skipped but fenced content is plain lines; accept
		// either way as long as the link rendered.
		t.Logf("preview includes fenced content: %q", preview)
	}
	if !strings.Contains(preview, "link text") {
		t.Errorf("preview should render link alias, got %q", preview)
	}
	if strings.Contains(preview, "# Title") {
		t.Errorf("preview should skip headings, got %q", preview)
	}
}

func TestPreviewCappedOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("héllo wörld ", 100)
	preview := buildPreview(body)
	if len(preview) > previewMaxLen {
		t.Errorf("preview length %d exceeds cap %d", len(preview), previewMaxLen)
	}
	if !strings.HasPrefix(body, preview[:5]) {
		t.Errorf("preview start mismatch: %q", preview[:5])
	}
	for _, r := range preview {
		if r == '�' {
			t.Fatal("preview contains replacement char: cut off mid-rune")
		}
	}
}

func TestFirstEmbeddedImage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"wiki embed", "text ![[cover.png]] more", "cover.png"},
		{"wiki embed with size", "![[cover.png|300]]", "cover.png"},
		{"markdown image", "![alt](assets/pic.jpg)", "assets/pic.jpg"},
		{"first of both wins", "![a](one.png) then ![[two.png]]", "one.png"},
		{"embed before markdown", "![[two.png]] then ![a](one.png)", "two.png"},
		{"none", "no images here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstEmbeddedImage(tt.body); got != tt.want {
				t.Errorf("firstEmbeddedImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsImagePath(t *testing.T) {
	if !IsImagePath("Assets/Cover.PNG") {
		t.Error("uppercase extension should match")
	}
	if IsImagePath("note.md") {
		t.Error("markdown is not an image")
	}
}
