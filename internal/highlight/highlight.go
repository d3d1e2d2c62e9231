// Package highlight computes and renders search-match highlighting for row
// text. Matching happens on plain display strings; rendering can target
// either plain text or lines that already carry ANSI styling.
package highlight

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Range is a half-open [Start, End) byte span over the display string.
type Range struct {
	Start int
	End   int
}

// SearchMeta carries provider-supplied match tokens for one result. When a
// search backend reports the terms it actually matched, those take priority
// over re-deriving tokens from the raw query.
type SearchMeta struct {
	Tokens []string
}

// Segment is one alternating run of Split output.
type Segment struct {
	Text  string
	Match bool
}

// tokens returns the lowercase, deduplicated token list for matching.
// Provider metadata wins outright when present: a meta with no usable tokens
// still suppresses the raw-query fallback, since the provider has already
// judged relevance.
func tokens(query string, meta *SearchMeta) []string {
	var src []string
	if meta != nil {
		src = meta.Tokens
	} else {
		src = strings.Fields(query)
	}

	seen := make(map[string]struct{}, len(src))
	out := make([]string, 0, len(src))
	for _, tok := range src {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// MergedRanges finds every case-insensitive occurrence of every token in
// text and returns the spans sorted and merged. Overlapping and touching
// spans coalesce, so consumers can assume disjoint ranges in ascending
// order. Empty text or no usable tokens yields nil.
func MergedRanges(text, query string, meta *SearchMeta) []Range {
	if text == "" {
		return nil
	}
	toks := tokens(query, meta)
	if len(toks) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	var ranges []Range
	for _, tok := range toks {
		for from := 0; ; {
			i := strings.Index(lower[from:], tok)
			if i < 0 {
				break
			}
			start := from + i
			ranges = append(ranges, Range{Start: start, End: start + len(tok)})
			// Advance one byte so overlapping occurrences are still found.
			from = start + 1
		}
	}
	if len(ranges) == 0 {
		return nil
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Split cuts text into alternating plain and match segments. Ranges must be
// sorted and disjoint (MergedRanges output); out-of-bounds ends are clamped.
// Concatenating the segment texts reproduces text exactly.
func Split(text string, ranges []Range) []Segment {
	if len(ranges) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	var segs []Segment
	pos := 0
	for _, r := range ranges {
		if r.Start > len(text) {
			break
		}
		end := r.End
		if end > len(text) {
			end = len(text)
		}
		if r.Start > pos {
			segs = append(segs, Segment{Text: text[pos:r.Start]})
		}
		if end > r.Start {
			segs = append(segs, Segment{Text: text[r.Start:end], Match: true})
		}
		pos = end
	}
	if pos < len(text) {
		segs = append(segs, Segment{Text: text[pos:]})
	}
	return segs
}

// Render styles the matched spans of plain text and leaves the rest as-is.
func Render(text, query string, meta *SearchMeta, style lipgloss.Style) string {
	ranges := MergedRanges(text, query, meta)
	if len(ranges) == 0 {
		return text
	}
	var b strings.Builder
	for _, seg := range Split(text, ranges) {
		if seg.Match {
			b.WriteString(style.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
