package menu

// Variant controls the modal's border and title color.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// Default dimensions for modal dialogs.
const (
	DefaultWidth  = 50
	MinModalWidth = 30
	ModalPadding  = 6 // border(2) + horizontal padding(4)
)

// Option is a functional option for Modal construction.
type Option func(*Modal)

// WithWidth sets the modal's preferred width. The actual width is
// clamped to the screen during layout.
func WithWidth(w int) Option {
	return func(m *Modal) { m.width = w }
}

// WithVariant sets the modal's color variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithHints controls whether the keyboard hint line is shown.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action returned when Enter is pressed on a
// focused element whose section doesn't consume the key itself.
func WithPrimaryAction(id string) Option {
	return func(m *Modal) { m.primaryAction = id }
}

// WithCloseOnBackdropClick controls whether clicking outside the modal
// dismisses it. Defaults to true.
func WithCloseOnBackdropClick(close bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = close }
}

// WithFooter sets a fixed footer rendered below the scroll viewport.
func WithFooter(footer string) Option {
	return func(m *Modal) { m.customFooter = footer }
}
