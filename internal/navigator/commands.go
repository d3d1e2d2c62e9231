package navigator

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/msg"
	"github.com/vroablec/notebook-navigator-sub013/internal/thumbs"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

const tickInterval = 500 * time.Millisecond

// vaultEventMsg carries one filesystem event. ok is false when the
// watcher channel closed.
type vaultEventMsg struct {
	ev vault.Event
	ok bool
}

// cacheDiffMsg carries one indexer diff into the update loop, which
// dispatches it to RAM and the attached controllers.
type cacheDiffMsg struct {
	diff cache.Diff
}

type scanDoneMsg struct{ err error }

type tickMsg time.Time

// searchResultMsg reports the free-text half of a query. Results from a
// superseded query (stale seq) are discarded.
type searchResultMsg struct {
	seq   int
	paths map[string]struct{}
	err   error
}

// previewReadyMsg carries a rendered preview overlay. Stale epochs are
// discarded so a slow render cannot clobber a newer one.
type previewReadyMsg struct {
	epoch int
	p     previewState
}

type thumbAcquiredMsg struct {
	epoch  int
	path   string
	key    string
	handle *thumbs.Handle
	err    error
}

type thumbGeneratedMsg struct {
	epoch   int
	verdict thumbs.Verdict
}

// listenWatcher waits for a single filesystem event. The handler re-arms
// the pump after each delivery.
func (m *Model) listenWatcher() tea.Cmd {
	ch := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		return vaultEventMsg{ev: ev, ok: ok}
	}
}

// listenIndexer waits for a single cache diff. The indexer channel is
// never closed, so the pump blocks for the program lifetime.
func (m *Model) listenIndexer() tea.Cmd {
	ch := m.indexer.Events()
	return func() tea.Msg {
		return cacheDiffMsg{diff: <-ch}
	}
}

// initialScanCmd indexes every note currently in the vault. The path
// snapshot is taken on the update loop; the scan itself runs off it.
func (m *Model) initialScanCmd() tea.Cmd {
	paths := make([]string, 0, m.vault.FileCount())
	for _, f := range m.vault.AllFiles() {
		paths = append(paths, f.Path)
	}
	ix := m.indexer
	return func() tea.Msg {
		return scanDoneMsg{err: ix.InitialScan(context.Background(), paths)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// searchCmd runs the free-text FTS lookup for query seq.
func (m *Model) searchCmd(seq int, q cache.Query) tea.Cmd {
	prov := m.search
	limit := m.cfg.Search.MaxResults
	return func() tea.Msg {
		paths, err := prov.FreeTextPaths(q, limit)
		return searchResultMsg{seq: seq, paths: paths, err: err}
	}
}

// acquireThumbCmd decodes a stored thumbnail into a shared handle.
func (m *Model) acquireThumbCmd(epoch int, path, key string) tea.Cmd {
	tc := m.thumbs
	return func() tea.Msg {
		h, err := tc.Acquire(path, key)
		return thumbAcquiredMsg{epoch: epoch, path: path, key: key, handle: h, err: err}
	}
}

// generateThumbCmd builds and stores the thumbnail for one note. srcAbs
// is the resolved attachment path, empty when resolution found nothing;
// the verdict flows back through the indexer as an image status update.
func (m *Model) generateThumbCmd(epoch int, notePath, key, srcAbs string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return thumbGeneratedMsg{epoch: epoch, verdict: thumbs.Generate(st, notePath, key, srcAbs)}
	}
}

// openEditorCmd suspends the TUI and hands the terminal to the editor.
func (m *Model) openEditorCmd(path string) tea.Cmd {
	command := strings.TrimSpace(m.cfg.Editor.Command)
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = "vi"
	}
	parts := strings.Fields(command)
	args := append(parts[1:], m.vault.Abs(path))
	c := exec.Command(parts[0], args...)
	c.Dir = m.vault.Dir()
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return msg.ErrorMsg{Context: "editor", Err: err}
		}
		return nil
	})
}
