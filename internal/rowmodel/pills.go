package rowmodel

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vroablec/notebook-navigator-sub013/internal/meta"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
)

// Pill is one badge on a file row: a tag, a property value, or a
// derived count.
type Pill struct {
	Label  string
	Key    string // property field key, "" for tag and count pills
	Value  string // raw property value, "" otherwise
	Accent string // hex, "" = default pill styling
}

// pillCollator orders pill labels; update-loop use only.
var pillCollator = collate.New(language.Und, collate.IgnoreCase)

// Palette memoizes metadata accent lookups for a render pass. Entries
// key on the lowercased ref the metadata service stores, so repeated
// rows share one inheritance walk per distinct node. Reset after any
// metadata edit; Generation feeds the per-row pill memos.
type Palette struct {
	meta        *meta.Service
	gen         uint64
	accents     map[string]string
	backgrounds map[string]string
}

// NewPalette wraps a metadata service.
func NewPalette(m *meta.Service) *Palette {
	return &Palette{
		meta:        m,
		accents:     make(map[string]string),
		backgrounds: make(map[string]string),
	}
}

// Accent returns the effective inherited color for a node.
func (p *Palette) Accent(ref noderef.Ref) string {
	id := ref.ID()
	if c, ok := p.accents[id]; ok {
		return c
	}
	c := p.meta.EffectiveColor(ref, true)
	p.accents[id] = c
	return c
}

// Background returns the effective inherited background for a node.
func (p *Palette) Background(ref noderef.Ref) string {
	id := ref.ID()
	if c, ok := p.backgrounds[id]; ok {
		return c
	}
	c := p.meta.EffectiveBackground(ref, true)
	p.backgrounds[id] = c
	return c
}

// Tag returns the accent for a tag pill. Tag identity is case-folded.
func (p *Palette) Tag(tag string) string {
	return p.Accent(noderef.Tag(strings.ToLower(tag)))
}

// Property returns the accent for a (key, value) pill pair. The value
// ref inherits the key's color when it has none of its own.
func (p *Palette) Property(key, value string) string {
	return p.Accent(noderef.PropertyValue(strings.ToLower(key), strings.ToLower(value)))
}

// Reset drops all memoized entries and moves the generation.
func (p *Palette) Reset() {
	p.gen++
	clear(p.accents)
	clear(p.backgrounds)
}

// Generation identifies the current memo epoch.
func (p *Palette) Generation() uint64 { return p.gen }

// buildPropertyPills turns raw property items into display pills. One
// pill per distinct case-folded (key, value) pair; groups keep the key
// first-seen order while each group sorts independently. A "true" value
// whose frontmatter source is a literal null renders the key name
// instead: that shape is checkbox-style shorthand, not a value.
func buildPropertyPills(items []notemeta.PropertyItem, rawNulls map[string]bool, visible []string, coloredFirst bool, pal *Palette) []Pill {
	if len(visible) == 0 || len(items) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(visible))
	for _, k := range visible {
		allowed[strings.ToLower(k)] = true
	}

	type group struct {
		pills []Pill
	}
	var groups []*group
	index := make(map[string]*group)
	seen := make(map[[2]string]bool)

	for _, it := range items {
		key := strings.ToLower(it.FieldKey)
		if !allowed[key] {
			continue
		}
		label := it.DisplayLabel()
		if strings.EqualFold(strings.TrimSpace(it.Value), "true") && rawNulls[it.FieldKey] {
			label = it.FieldKey
		}
		if strings.TrimSpace(label) == "" {
			continue
		}
		pair := [2]string{key, strings.ToLower(it.Value)}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		g := index[key]
		if g == nil {
			g = &group{}
			index[key] = g
			groups = append(groups, g)
		}
		g.pills = append(g.pills, Pill{
			Label:  label,
			Key:    it.FieldKey,
			Value:  it.Value,
			Accent: pal.Property(it.FieldKey, it.Value),
		})
	}

	var out []Pill
	for _, g := range groups {
		sortPills(g.pills, coloredFirst)
		out = append(out, g.pills...)
	}
	return out
}

// sortPills orders one key group: colored entries first when asked,
// then label, then raw value, then key.
func sortPills(pills []Pill, coloredFirst bool) {
	slices.SortStableFunc(pills, func(a, b Pill) int {
		if coloredFirst && (a.Accent != "") != (b.Accent != "") {
			if a.Accent != "" {
				return -1
			}
			return 1
		}
		if n := pillCollator.CompareString(a.Label, b.Label); n != 0 {
			return n
		}
		if n := pillCollator.CompareString(a.Value, b.Value); n != 0 {
			return n
		}
		return pillCollator.CompareString(a.Key, b.Key)
	})
}
