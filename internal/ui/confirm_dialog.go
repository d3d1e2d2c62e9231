package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vroablec/notebook-navigator-sub013/internal/menu"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
)

// Standard dialog widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 70
)

// ConfirmDialog describes a two-button confirmation prompt. Callers
// tweak the fields they care about and hand the rest to ToModal.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string // padded, " Delete " style
	CancelLabel  string
	BorderColor  lipgloss.Color // selects the modal variant, see ToModal
	Width        int
}

// NewConfirmDialog returns a medium-width dialog with the stock labels.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		BorderColor:  styles.Primary,
		Width:        ModalWidthMedium,
	}
}

// ToModal adapts the dialog configuration into a menu.Modal instance.
func (d *ConfirmDialog) ToModal() *menu.Modal {
	variant := menu.VariantDefault
	switch d.BorderColor {
	case styles.Error:
		variant = menu.VariantDanger
	case styles.Warning:
		variant = menu.VariantWarning
	case styles.Info:
		variant = menu.VariantInfo
	}

	return menu.New(d.Title,
		menu.WithWidth(d.Width),
		menu.WithVariant(variant),
		menu.WithPrimaryAction("confirm"),
		menu.WithHints(false),
	).
		AddSection(menu.Text(d.Message)).
		AddSection(menu.Spacer()).
		AddSection(menu.Buttons(
			menu.Btn(d.ConfirmLabel, "confirm"),
			menu.Btn(d.CancelLabel, "cancel"),
		))
}
