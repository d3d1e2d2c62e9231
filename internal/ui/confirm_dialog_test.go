package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

func TestNewConfirmDialogDefaults(t *testing.T) {
	d := NewConfirmDialog("Remove shortcut", `Remove "daily" from shortcuts?`)

	if d.Title != "Remove shortcut" || d.Message != `Remove "daily" from shortcuts?` {
		t.Errorf("title/message not carried over: %q / %q", d.Title, d.Message)
	}
	if d.ConfirmLabel != " Confirm " || d.CancelLabel != " Cancel " {
		t.Errorf("default labels = %q / %q", d.ConfirmLabel, d.CancelLabel)
	}
	if d.BorderColor != styles.Primary {
		t.Errorf("default border = %v, want primary", d.BorderColor)
	}
	if d.Width != ModalWidthMedium {
		t.Errorf("default width = %d, want %d", d.Width, ModalWidthMedium)
	}
}

func TestConfirmDialogRendersContent(t *testing.T) {
	d := NewConfirmDialog("Delete note", "Move meeting-notes.md to trash?")
	d.ConfirmLabel = " Delete "
	d.BorderColor = styles.Error

	out := d.ToModal().Render(80, 24, nil)

	for _, want := range []string{
		"Delete note",
		"Move meeting-notes.md to trash?",
		" Delete ",
		" Cancel ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered dialog missing %q", want)
		}
	}
	if strings.Contains(out, "Tab to switch") {
		t.Error("confirm dialogs suppress the focus hint line")
	}
}

func TestConfirmDialogKeys(t *testing.T) {
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	t.Run("enter triggers confirm", func(t *testing.T) {
		m := NewConfirmDialog("Clear pins", "Unpin all notes?").ToModal()
		m.Render(80, 24, nil) // focus order is built at render time
		action, _ := m.HandleKey(enter)
		if action != "confirm" {
			t.Errorf("action = %q, want confirm", action)
		}
	})

	t.Run("tab moves focus to cancel", func(t *testing.T) {
		m := NewConfirmDialog("Clear pins", "Unpin all notes?").ToModal()
		m.Render(80, 24, nil)
		m.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
		action, _ := m.HandleKey(enter)
		if action != "cancel" {
			t.Errorf("action = %q, want cancel", action)
		}
	})

	t.Run("esc cancels without focus", func(t *testing.T) {
		m := NewConfirmDialog("Clear pins", "Unpin all notes?").ToModal()
		action, _ := m.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
		if action != "cancel" {
			t.Errorf("action = %q, want cancel", action)
		}
	})
}
