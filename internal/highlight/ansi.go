package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ansiSeqEnd returns the index just past the escape sequence starting at i.
// Handles CSI sequences (ESC [ ... final byte in 0x40-0x7e); anything else
// after ESC is treated as a two-byte sequence.
func ansiSeqEnd(s string, i int) int {
	if i+1 >= len(s) {
		return len(s)
	}
	if s[i+1] != '[' {
		return i + 2
	}
	j := i + 2
	for j < len(s) {
		if s[j] >= 0x40 && s[j] <= 0x7e {
			return j + 1
		}
		j++
	}
	return len(s)
}

// InjectANSI overlays highlight styling onto a line that already carries
// ANSI escape codes. Ranges are byte offsets into the plain (stripped) text,
// sorted and disjoint. After each highlighted chunk the previously active
// escape sequences are replayed so the surrounding styling resumes.
func InjectANSI(styled string, ranges []Range, style lipgloss.Style) string {
	if len(ranges) == 0 {
		return styled
	}

	var out strings.Builder
	var active strings.Builder
	ri := 0
	plainPos := 0

	for i := 0; i < len(styled); {
		if styled[i] == 0x1b {
			j := ansiSeqEnd(styled, i)
			seq := styled[i:j]
			active.WriteString(seq)
			out.WriteString(seq)
			i = j
			continue
		}

		j := i
		for j < len(styled) && styled[j] != 0x1b {
			j++
		}
		run := styled[i:j]

		for len(run) > 0 {
			for ri < len(ranges) && ranges[ri].End <= plainPos {
				ri++
			}
			if ri >= len(ranges) || ranges[ri].Start >= plainPos+len(run) {
				out.WriteString(run)
				plainPos += len(run)
				break
			}
			r := ranges[ri]
			if r.Start > plainPos {
				n := r.Start - plainPos
				out.WriteString(run[:n])
				run = run[n:]
				plainPos += n
			}
			n := r.End - plainPos
			if n > len(run) {
				n = len(run)
			}
			out.WriteString(style.Render(run[:n]))
			out.WriteString(active.String())
			run = run[n:]
			plainPos += n
		}
		i = j
	}
	return out.String()
}
