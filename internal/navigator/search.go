package navigator

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
)

// openSearch focuses the search bar. An already-committed query reopens
// for editing with its text intact.
func (m *Model) openSearch() tea.Cmd {
	m.searchOpen = true
	m.searchCommitted = false
	m.searchInput.Focus()
	m.searchInput.CursorEnd()
	return textinput.Blink
}

// commitSearch keeps the query active and returns focus to the list.
func (m *Model) commitSearch() {
	m.searchInput.Blur()
	m.searchOpen = false
	m.searchCommitted = !m.query.Empty()
	if !m.searchCommitted {
		m.clearSearch()
		return
	}
	m.activePane = PaneList
}

// clearSearch drops the query and every filter derived from it.
func (m *Model) clearSearch() {
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.searchOpen = false
	m.searchCommitted = false
	m.query = cache.Query{}
	m.freePaths = nil
	// Orphan any in-flight free-text lookup.
	m.searchSeq++
	m.listDirty = true
	m.treeDirty = true
}

// searchActive reports whether a query is constraining the list.
func (m *Model) searchActive() bool {
	return !m.query.Empty()
}

// refreshQuery reparses the input. Clause filtering applies on the spot;
// free text goes through the FTS index off the update loop.
func (m *Model) refreshQuery() tea.Cmd {
	m.query = cache.ParseQuery(m.searchInput.Value())
	m.listDirty = true
	m.treeDirty = true
	if len(m.query.FreeTokens) == 0 {
		m.freePaths = nil
		return nil
	}
	m.searchSeq++
	return m.searchCmd(m.searchSeq, m.query)
}

// updateSearchInput feeds a keystroke into the search bar and reparses
// when the text changed.
func (m *Model) updateSearchInput(msg tea.KeyMsg) tea.Cmd {
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, m.refreshQuery())
}
