// Package notecount formats the note-count badges shown next to tree rows.
// All functions are pure: they run on every render of every row.
package notecount

import "strconv"

// Info holds the counts computed by the tree projection layer.
// Total is always Current + Descendants.
type Info struct {
	Current     int
	Descendants int
	Total       int
}

// Result is a renderable badge. Label is empty whenever Show is false.
type Result struct {
	Show  bool
	Label string
}

// Display builds the count badge for one row. Negative counts are clamped
// to zero. In separate mode the current and descendant counts are shown
// individually around the separator; otherwise a single combined number is
// shown only when positive.
func Display(info Info, includeDescendants, separateCounts bool, separator string) Result {
	current := clamp(info.Current)
	descendants := clamp(info.Descendants)

	if separateCounts && includeDescendants {
		switch {
		case current == 0 && descendants == 0:
			return Result{}
		case descendants == 0:
			return Result{Show: true, Label: strconv.Itoa(current)}
		case current == 0:
			return Result{Show: true, Label: separator + " " + strconv.Itoa(descendants)}
		default:
			return Result{Show: true, Label: strconv.Itoa(current) + " " + separator + " " + strconv.Itoa(descendants)}
		}
	}

	combined := current
	if includeDescendants {
		combined += descendants
	}
	if combined == 0 {
		return Result{}
	}
	return Result{Show: true, Label: strconv.Itoa(combined)}
}

// SortableDisplay decorates a count badge with a sort-order glyph. When the
// base badge is hidden but an indicator exists, the indicator alone becomes
// the label, so an empty folder with a custom sort order is still flagged.
func SortableDisplay(base Result, indicator string) Result {
	if indicator == "" {
		return base
	}
	if !base.Show {
		return Result{Show: true, Label: indicator}
	}
	return Result{Show: true, Label: indicator + " " + base.Label}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
