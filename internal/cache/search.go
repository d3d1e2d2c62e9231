package cache

import (
	"strings"

	"github.com/vroablec/notebook-navigator-sub013/internal/highlight"
)

// MatchState is the coarse search-decoration signal for a tree node:
// whether the active query's structured clauses include or exclude it.
type MatchState int

const (
	MatchNone MatchState = iota
	MatchInclude
	MatchExclude
)

// PropClause is one key:name=value clause. An empty Value matches any
// value for the key.
type PropClause struct {
	Key   string
	Value string
}

// Query is a parsed search input. Structured clauses filter by tag and
// property; the remaining free-text tokens go through the text index.
//
//	tag:work -tag:archive key:status=done -key:draft rest is free text
type Query struct {
	FreeTokens   []string
	IncludeTags  []string
	ExcludeTags  []string
	IncludeProps []PropClause
	ExcludeProps []PropClause
}

// ParseQuery splits a raw search string into clauses and free text.
// Tags lose any leading '#' and match case-insensitively; property keys
// and values compare case-insensitively too.
func ParseQuery(raw string) Query {
	var q Query
	for _, tok := range strings.Fields(raw) {
		switch {
		case strings.HasPrefix(tok, "-tag:"):
			if t := normalizeTag(tok[len("-tag:"):]); t != "" {
				q.ExcludeTags = append(q.ExcludeTags, t)
			}
		case strings.HasPrefix(tok, "tag:"):
			if t := normalizeTag(tok[len("tag:"):]); t != "" {
				q.IncludeTags = append(q.IncludeTags, t)
			}
		case strings.HasPrefix(tok, "-key:"):
			if c, ok := parsePropClause(tok[len("-key:"):]); ok {
				q.ExcludeProps = append(q.ExcludeProps, c)
			}
		case strings.HasPrefix(tok, "key:"):
			if c, ok := parsePropClause(tok[len("key:"):]); ok {
				q.IncludeProps = append(q.IncludeProps, c)
			}
		default:
			q.FreeTokens = append(q.FreeTokens, tok)
		}
	}
	return q
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimPrefix(t, "#"))
}

func parsePropClause(s string) (PropClause, bool) {
	key, value, _ := strings.Cut(s, "=")
	key = strings.ToLower(key)
	if key == "" {
		return PropClause{}, false
	}
	return PropClause{Key: key, Value: strings.ToLower(value)}, true
}

// Empty reports whether the query constrains nothing.
func (q Query) Empty() bool {
	return len(q.FreeTokens) == 0 && !q.HasClauses()
}

// HasClauses reports whether any structured clause is present.
func (q Query) HasClauses() bool {
	return len(q.IncludeTags) > 0 || len(q.ExcludeTags) > 0 ||
		len(q.IncludeProps) > 0 || len(q.ExcludeProps) > 0
}

// Meta returns highlight tokens for free text, nil when there is none.
// Provider metadata keeps clause tokens out of name/preview highlighting.
func (q Query) Meta() *highlight.SearchMeta {
	if len(q.FreeTokens) == 0 {
		return nil
	}
	return &highlight.SearchMeta{Tokens: q.FreeTokens}
}

// MatchRecord applies the structured clauses to one record: every include
// clause must hold and no exclude clause may. Free text is not consulted
// here; the provider resolves it against the text index separately.
func (q Query) MatchRecord(rec *FileRecord) bool {
	if rec == nil {
		return !q.HasClauses()
	}
	for _, want := range q.IncludeTags {
		if !anyTagMatches(rec.Tags, want) {
			return false
		}
	}
	for _, not := range q.ExcludeTags {
		if anyTagMatches(rec.Tags, not) {
			return false
		}
	}
	for _, c := range q.IncludeProps {
		if !propMatches(rec, c) {
			return false
		}
	}
	for _, c := range q.ExcludeProps {
		if propMatches(rec, c) {
			return false
		}
	}
	return true
}

// tagMatches reports whether a clause tag covers tag: exact or ancestor
// of a nested tag, so tag:work also matches work/reports.
func tagMatches(tag, clause string) bool {
	tag = strings.ToLower(tag)
	return tag == clause || strings.HasPrefix(tag, clause+"/")
}

func anyTagMatches(tags []string, clause string) bool {
	for _, t := range tags {
		if tagMatches(t, clause) {
			return true
		}
	}
	return false
}

func propMatches(rec *FileRecord, c PropClause) bool {
	for _, item := range rec.Properties {
		if !strings.EqualFold(item.FieldKey, c.Key) {
			continue
		}
		if c.Value == "" || strings.EqualFold(item.Value, c.Value) {
			return true
		}
	}
	return false
}

// TagState returns the decoration state for a tag tree node. Exclusion
// wins when clauses overlap.
func (q Query) TagState(tag string) MatchState {
	for _, not := range q.ExcludeTags {
		if tagMatches(tag, not) {
			return MatchExclude
		}
	}
	for _, want := range q.IncludeTags {
		if tagMatches(tag, want) {
			return MatchInclude
		}
	}
	return MatchNone
}

// PropertyKeyState returns the decoration state for a property key node.
func (q Query) PropertyKeyState(key string) MatchState {
	for _, c := range q.ExcludeProps {
		if strings.EqualFold(key, c.Key) {
			return MatchExclude
		}
	}
	for _, c := range q.IncludeProps {
		if strings.EqualFold(key, c.Key) {
			return MatchInclude
		}
	}
	return MatchNone
}

// PropertyValueState returns the decoration state for a property value
// node. A key-only clause covers all of the key's values.
func (q Query) PropertyValueState(key, value string) MatchState {
	for _, c := range q.ExcludeProps {
		if strings.EqualFold(key, c.Key) && (c.Value == "" || strings.EqualFold(value, c.Value)) {
			return MatchExclude
		}
	}
	for _, c := range q.IncludeProps {
		if strings.EqualFold(key, c.Key) && (c.Value == "" || strings.EqualFold(value, c.Value)) {
			return MatchInclude
		}
	}
	return MatchNone
}

// Provider resolves free-text queries against the store's text index.
type Provider struct {
	store *Store
}

// NewProvider wraps the store for search use.
func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

// FreeTextPaths returns the set of paths matching the query's free-text
// tokens, or nil when the query has no free text (no constraint). Run it
// off the update loop; text search hits the database.
func (p *Provider) FreeTextPaths(q Query, limit int) (map[string]struct{}, error) {
	if len(q.FreeTokens) == 0 {
		return nil, nil
	}
	paths, err := p.store.SearchText(q.FreeTokens, limit)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		out[p] = struct{}{}
	}
	return out, nil
}
