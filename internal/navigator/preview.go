package navigator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chstyles "github.com/alecthomas/chroma/v2/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vroablec/notebook-navigator-sub013/internal/image"
	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
	"github.com/vroablec/notebook-navigator-sub013/internal/ui"
)

// maxPreviewBytes caps how much of a file the overlay renders. Larger
// files are truncated with a marker line.
const maxPreviewBytes = 512 << 10

// previewState is the open overlay. Content arrives asynchronously;
// images render synchronously at draw time so they track resizes.
type previewState struct {
	path      string
	lines     []string
	scroll    int
	isImage   bool
	truncated bool
	ready     bool
	err       error
}

// openPreview opens the overlay for path and starts the render.
func (m *Model) openPreview(path string) tea.Cmd {
	m.previewEpoch++
	m.preview = &previewState{path: path}
	if notemeta.IsImagePath(path) {
		m.preview.isImage = true
		m.preview.ready = true
		return nil
	}
	return m.buildPreviewCmd(m.previewEpoch, path, m.previewContentWidth())
}

func (m *Model) closePreview() {
	m.preview = nil
	m.images.Invalidate()
}

// previewContentWidth is the text width inside the overlay box.
func (m *Model) previewContentWidth() int {
	w := m.width - 12
	if w > 120 {
		w = 120
	}
	if w < 40 {
		w = 40
	}
	return w
}

// previewVisibleLines is the scroll window height inside the box.
func (m *Model) previewVisibleLines() int {
	h := m.height - 10
	if h < 4 {
		h = 4
	}
	return h
}

func (m *Model) previewScroll(delta int) {
	if m.preview == nil {
		return
	}
	m.preview.scroll += delta
	m.clampPreviewScroll()
}

func (m *Model) previewTop() {
	if m.preview != nil {
		m.preview.scroll = 0
	}
}

func (m *Model) previewBottom() {
	if m.preview != nil {
		m.preview.scroll = len(m.preview.lines)
		m.clampPreviewScroll()
	}
}

func (m *Model) clampPreviewScroll() {
	p := m.preview
	max := len(p.lines) - m.previewVisibleLines()
	if max < 0 {
		max = 0
	}
	if p.scroll > max {
		p.scroll = max
	}
	if p.scroll < 0 {
		p.scroll = 0
	}
}

// buildPreviewCmd reads and renders the file off the update loop.
// Markdown goes through glamour, code through chroma; files with NUL
// bytes short out as binary.
func (m *Model) buildPreviewCmd(epoch int, path string, width int) tea.Cmd {
	abs := m.vault.Abs(path)
	return func() tea.Msg {
		p := previewState{path: path, ready: true}

		data, err := os.ReadFile(abs)
		if err != nil {
			p.err = err
			return previewReadyMsg{epoch: epoch, p: p}
		}
		if len(data) > maxPreviewBytes {
			data = data[:maxPreviewBytes]
			p.truncated = true
		}

		if bytes.IndexByte(data, 0) >= 0 {
			p.lines = []string{"Binary file"}
			return previewReadyMsg{epoch: epoch, p: p}
		}

		var rendered string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			rendered = renderMarkdown(string(data), width)
		default:
			rendered = renderCode(path, string(data))
		}
		for _, line := range strings.Split(rendered, "\n") {
			p.lines = append(p.lines, ui.ExpandTabs(line, 4))
		}
		if p.truncated {
			p.lines = append(p.lines, "", "... (file truncated)")
		}
		return previewReadyMsg{epoch: epoch, p: p}
	}
}

// renderMarkdown renders through glamour, falling back to the source
// text when the renderer fails.
func renderMarkdown(content string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GetMarkdownTheme()),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// renderCode highlights source through chroma's terminal formatter.
// Unknown extensions come back as plain text.
func renderCode(path, content string) string {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return content
	}
	lexer = chroma.Coalesce(lexer)

	style := chstyles.Get(styles.GetSyntaxTheme())
	if style == nil {
		style = chstyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return content
	}
	return buf.String()
}

// renderPreview builds the overlay box. The caller composites it over
// the dimmed background.
func (m *Model) renderPreview() string {
	p := m.preview
	width := m.previewContentWidth()
	visible := m.previewVisibleLines()

	header := ui.TruncateString(styles.Title.Render(p.path), width)
	meta := ""
	if f := m.vault.FileByPath(p.path); f != nil {
		meta = styles.Muted.Render(fmt.Sprintf("%s  %s", formatSize(f.Size), f.ModTime.Format("Jan 2 15:04")))
	}

	var body string
	switch {
	case p.err != nil:
		body = styles.Muted.Render(fmt.Sprintf("Cannot preview: %v", p.err))
	case p.isImage:
		body = m.renderImagePreview(p.path, width, visible)
	case !p.ready:
		body = styles.Muted.Render("Rendering...")
	default:
		m.clampPreviewScroll()
		end := p.scroll + visible
		if end > len(p.lines) {
			end = len(p.lines)
		}
		lineStyle := lipgloss.NewStyle().MaxWidth(width)
		var b strings.Builder
		for i := p.scroll; i < end; i++ {
			b.WriteString(lineStyle.Render(p.lines[i]))
			if i < end-1 {
				b.WriteByte('\n')
			}
		}
		body = b.String()
		if len(p.lines) > visible {
			pos := styles.Subtle.Render(fmt.Sprintf("%d-%d/%d", p.scroll+1, end, len(p.lines)))
			body += "\n" + pos
		}
	}

	content := header
	if meta != "" {
		content += "\n" + meta
	}
	content += "\n\n" + body
	return styles.ModalBox.Width(width + 4).Render(content)
}

// renderImagePreview draws the image at the overlay size. Fallback
// output names the terminals that would render it natively.
func (m *Model) renderImagePreview(path string, width, height int) string {
	res, err := m.images.Render(m.vault.Abs(path), width, height)
	if err != nil {
		return styles.Muted.Render(fmt.Sprintf("Image error: %v", err))
	}
	if res.IsFallback {
		note := styles.Subtle.Render("Full quality in: " + image.SupportedTerminals())
		return res.Content + "\n" + note
	}
	return res.Content
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
