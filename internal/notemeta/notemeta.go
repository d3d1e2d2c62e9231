// Package notemeta extracts display metadata from Markdown notes:
// frontmatter properties, tags, wiki links, preview text, word and task
// counts, and the first embedded image. The indexer calls Parse once per
// content change; everything downstream reads the Result.
package notemeta

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind classifies a property value for pill styling.
type ValueKind string

const (
	KindText      ValueKind = "text"
	KindLink      ValueKind = "link"
	KindBool      ValueKind = "bool"
	KindNumber    ValueKind = "number"
	KindDate      ValueKind = "date"
	KindListEntry ValueKind = "list"
)

// PropertyItem is one frontmatter scalar or array entry. Array-valued keys
// fan out to multiple items sharing a FieldKey. Value is always the literal
// frontmatter rendering; display labels are derived (see DisplayLabel).
type PropertyItem struct {
	FieldKey string
	Value    string
	Kind     ValueKind
}

// DisplayLabel returns the text a pill shows for this item. Wiki links show
// their alias or target instead of the raw bracket syntax.
func (p PropertyItem) DisplayLabel() string {
	if p.Kind != KindLink {
		return p.Value
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(p.Value, "[["), "]]")
	if _, alias, ok := strings.Cut(inner, "|"); ok {
		return alias
	}
	if target, _, ok := strings.Cut(inner, "#"); ok && target != "" {
		return target
	}
	return inner
}

// Result holds everything extracted from one note.
type Result struct {
	Frontmatter  map[string]any
	Body         string
	Title        string
	Tags         []string
	Links        []string
	Properties   []PropertyItem
	RawNulls     map[string]bool
	WordCount    int
	TaskTotal    int
	TaskDone     int
	Preview      string
	FeatureImage string
}

// TaskUnfinished returns the open checkbox count.
func (r *Result) TaskUnfinished() int {
	return r.TaskTotal - r.TaskDone
}

const previewMaxLen = 300

var (
	tagRe      = regexp.MustCompile(`#([A-Za-z][\w/-]*)`)
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	embedRe    = regexp.MustCompile(`!\[\[([^\]|]+)(?:\|[^\]]*)?\]\]`)
	mdImageRe  = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
	taskRe     = regexp.MustCompile(`(?m)^\s*[-*+] \[([ xX])\]`)
	headingRe  = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// Parse extracts metadata from note content. It never returns a nil Result:
// on malformed frontmatter the whole content is treated as body and the error
// is returned for logging.
func Parse(content string) (*Result, error) {
	res := &Result{RawNulls: make(map[string]bool)}

	fmRaw, body, hasFM := splitFrontmatter(content)
	res.Body = body

	var fmErr error
	if hasFM {
		if err := parseFrontmatter(fmRaw, res); err != nil {
			fmErr = fmt.Errorf("parse frontmatter: %w", err)
			res.Body = content
			res.Frontmatter = nil
			res.Properties = nil
		}
	}

	res.Tags = mergeTags(res.Tags, extractBodyTags(res.Body))
	res.Links = extractLinks(res.Body)
	res.WordCount = len(strings.Fields(res.Body))
	res.TaskTotal, res.TaskDone = countTasks(res.Body)
	res.Preview = buildPreview(res.Body)
	res.FeatureImage = firstEmbeddedImage(res.Body)

	if res.Title == "" {
		if m := headingRe.FindStringSubmatch(res.Body); m != nil {
			res.Title = strings.TrimSpace(m[1])
		}
	}

	return res, fmErr
}

// splitFrontmatter separates a leading `---` block from the body.
func splitFrontmatter(content string) (fm, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content, false
	}
	rest := strings.TrimPrefix(content, "---\n")
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[:i], rest[i+5:], true
	}
	if strings.HasSuffix(rest, "\n---") {
		return strings.TrimSuffix(rest, "\n---"), "", true
	}
	return "", content, false
}

// parseFrontmatter decodes the YAML block, preserving document key order so
// property groups keep their authored first-seen order.
func parseFrontmatter(raw string, res *Result) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}

	res.Frontmatter = make(map[string]any)
	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]
		key := keyNode.Value

		var val any
		if err := valNode.Decode(&val); err != nil {
			continue
		}
		res.Frontmatter[key] = val

		switch key {
		case "title":
			if s, isStr := val.(string); isStr {
				res.Title = s
			}
		case "tags", "tag":
			res.Tags = mergeTags(res.Tags, frontmatterTags(val))
			continue
		}

		appendProperties(res, key, valNode)
	}
	return nil
}

// appendProperties converts one frontmatter entry into PropertyItems.
// Null values record a raw-null marker and derive a "true" boolean item,
// the checkbox-style shorthand for a bare key.
func appendProperties(res *Result, key string, node *yaml.Node) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			res.RawNulls[key] = true
			res.Properties = append(res.Properties, PropertyItem{FieldKey: key, Value: "true", Kind: KindBool})
			return
		}
		res.Properties = append(res.Properties, scalarItem(key, node, KindText))
	case yaml.SequenceNode:
		for _, elem := range node.Content {
			if elem.Kind != yaml.ScalarNode || elem.Tag == "!!null" {
				continue
			}
			res.Properties = append(res.Properties, scalarItem(key, elem, KindListEntry))
		}
	}
	// Nested mappings are not surfaced as pills.
}

// scalarItem builds a PropertyItem from a scalar node, classifying the
// value. textKind is the kind used for plain strings (text vs list entry).
func scalarItem(key string, node *yaml.Node, textKind ValueKind) PropertyItem {
	item := PropertyItem{FieldKey: key, Value: node.Value, Kind: textKind}
	switch node.Tag {
	case "!!bool":
		item.Kind = KindBool
		item.Value = strings.ToLower(node.Value)
	case "!!int", "!!float":
		item.Kind = KindNumber
	case "!!timestamp":
		item.Kind = KindDate
	default:
		switch {
		case wikiLinkRe.MatchString(node.Value):
			item.Kind = KindLink
			item.Value = wikiLinkRe.FindString(node.Value)
		case dateRe.MatchString(node.Value):
			item.Kind = KindDate
		}
	}
	return item
}

// frontmatterTags accepts both string and list forms of the tags key.
func frontmatterTags(val any) []string {
	switch v := val.(type) {
	case string:
		var tags []string
		for _, t := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			if t = normalizeTag(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	case []any:
		var tags []string
		for _, e := range v {
			if s, ok := e.(string); ok {
				if t := normalizeTag(s); t != "" {
					tags = append(tags, t)
				}
			}
		}
		return tags
	}
	return nil
}

func normalizeTag(t string) string {
	return strings.TrimPrefix(strings.TrimSpace(t), "#")
}

func extractBodyTags(body string) []string {
	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// mergeTags appends extra tags, deduplicating while preserving order.
func mergeTags(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, t := range append(append([]string{}, base...), extra...) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func extractLinks(body string) []string {
	var links []string
	seen := make(map[string]struct{})
	for _, m := range wikiLinkRe.FindAllStringSubmatch(body, -1) {
		target := m[1]
		if i := strings.IndexAny(target, "|#"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		links = append(links, target)
	}
	return links
}

func countTasks(body string) (total, done int) {
	for _, m := range taskRe.FindAllStringSubmatch(body, -1) {
		total++
		if m[1] != " " {
			done++
		}
	}
	return total, done
}

// buildPreview returns the first content lines with Markdown syntax pared
// down, capped at previewMaxLen bytes on a rune boundary.
func buildPreview(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		line = mdImageRe.ReplaceAllString(line, "")
		line = embedRe.ReplaceAllString(line, "")
		line = wikiLinkRe.ReplaceAllStringFunc(line, func(s string) string {
			return PropertyItem{Value: s, Kind: KindLink}.DisplayLabel()
		})
		line = strings.Trim(line, "*_`> ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
		if b.Len() >= previewMaxLen {
			break
		}
	}
	preview := b.String()
	if len(preview) > previewMaxLen {
		cut := previewMaxLen
		for cut > 0 && preview[cut]&0xc0 == 0x80 {
			cut--
		}
		preview = preview[:cut]
	}
	return preview
}

// firstEmbeddedImage returns the first image referenced by the body, either
// wiki-embed or Markdown-image syntax, whichever appears first.
func firstEmbeddedImage(body string) string {
	embed := embedRe.FindStringSubmatchIndex(body)
	md := mdImageRe.FindStringSubmatchIndex(body)
	switch {
	case embed == nil && md == nil:
		return ""
	case md == nil || (embed != nil && embed[0] < md[0]):
		return strings.TrimSpace(body[embed[2]:embed[3]])
	default:
		return strings.TrimSpace(body[md[2]:md[3]])
	}
}

// IsImagePath reports whether a path looks like a raster image the terminal
// renderer can display.
func IsImagePath(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
