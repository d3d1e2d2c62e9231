package keymap

// UI contexts. The active context follows pane focus and whatever
// overlay is open.
const (
	ContextGlobal  = "global"
	ContextTree    = "nav-tree"
	ContextList    = "file-list"
	ContextSearch  = "search"
	ContextPreview = "preview"
	ContextPrompt  = "prompt"
	ContextMenu    = "menu"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: ContextGlobal},
		{Key: "q", Command: "quit", Context: ContextGlobal},
		{Key: "tab", Command: "switch-pane", Context: ContextGlobal},
		{Key: "shift+tab", Command: "switch-pane", Context: ContextGlobal},
		{Key: "j", Command: "cursor-down", Context: ContextGlobal},
		{Key: "down", Command: "cursor-down", Context: ContextGlobal},
		{Key: "k", Command: "cursor-up", Context: ContextGlobal},
		{Key: "up", Command: "cursor-up", Context: ContextGlobal},
		{Key: "g", Command: "cursor-top", Context: ContextGlobal},
		{Key: "G", Command: "cursor-bottom", Context: ContextGlobal},
		{Key: "ctrl+d", Command: "page-down", Context: ContextGlobal},
		{Key: "ctrl+u", Command: "page-up", Context: ContextGlobal},
		{Key: "/", Command: "search", Context: ContextGlobal},
		{Key: "ctrl+h", Command: "toggle-footer", Context: ContextGlobal},
		{Key: "ctrl+r", Command: "rebuild-index", Context: ContextGlobal},
		{Key: "esc", Command: "back", Context: ContextGlobal},

		// Navigation tree context
		{Key: "l", Command: "expand", Context: ContextTree},
		{Key: "right", Command: "expand", Context: ContextTree},
		{Key: "h", Command: "collapse", Context: ContextTree},
		{Key: "left", Command: "collapse", Context: ContextTree},
		{Key: " ", Command: "toggle-expand", Context: ContextTree},
		{Key: "enter", Command: "select", Context: ContextTree},
		{Key: "E", Command: "expand-all", Context: ContextTree},
		{Key: "C", Command: "collapse-all", Context: ContextTree},
		{Key: "Z", Command: "toggle-siblings", Context: ContextTree},
		{Key: "n", Command: "create-note", Context: ContextTree},
		{Key: "N", Command: "create-folder", Context: ContextTree},
		{Key: "r", Command: "rename", Context: ContextTree},
		{Key: "d", Command: "delete", Context: ContextTree},
		{Key: "y", Command: "copy-path", Context: ContextTree},
		{Key: "m", Command: "context-menu", Context: ContextTree},
		{Key: "s", Command: "add-shortcut", Context: ContextTree},
		{Key: "v", Command: "cycle-sort", Context: ContextTree},
		{Key: ".", Command: "toggle-descendants", Context: ContextTree},
		{Key: "R", Command: "reveal-selected", Context: ContextTree},

		// File list context
		{Key: "enter", Command: "preview", Context: ContextList},
		{Key: "o", Command: "open-editor", Context: ContextList},
		{Key: "n", Command: "create-note", Context: ContextList},
		{Key: "r", Command: "rename", Context: ContextList},
		{Key: "d", Command: "delete", Context: ContextList},
		{Key: "D", Command: "duplicate", Context: ContextList},
		{Key: "p", Command: "toggle-pin", Context: ContextList},
		{Key: "t", Command: "add-tag", Context: ContextList},
		{Key: "y", Command: "copy-path", Context: ContextList},
		{Key: "Y", Command: "copy-link", Context: ContextList},
		{Key: "m", Command: "context-menu", Context: ContextList},
		{Key: "h", Command: "focus-tree", Context: ContextList},
		{Key: "left", Command: "focus-tree", Context: ContextList},
		{Key: "R", Command: "reveal-selected", Context: ContextList},
		{Key: "v", Command: "cycle-sort", Context: ContextList},
		{Key: ".", Command: "toggle-descendants", Context: ContextList},

		// Search context
		{Key: "esc", Command: "cancel", Context: ContextSearch},
		{Key: "enter", Command: "confirm", Context: ContextSearch},
		{Key: "up", Command: "cursor-up", Context: ContextSearch},
		{Key: "down", Command: "cursor-down", Context: ContextSearch},
		{Key: "ctrl+p", Command: "cursor-up", Context: ContextSearch},
		{Key: "ctrl+n", Command: "cursor-down", Context: ContextSearch},

		// Preview overlay context
		{Key: "esc", Command: "close", Context: ContextPreview},
		{Key: "q", Command: "close", Context: ContextPreview},
		{Key: "j", Command: "scroll-down", Context: ContextPreview},
		{Key: "down", Command: "scroll-down", Context: ContextPreview},
		{Key: "k", Command: "scroll-up", Context: ContextPreview},
		{Key: "up", Command: "scroll-up", Context: ContextPreview},
		{Key: "g", Command: "scroll-top", Context: ContextPreview},
		{Key: "G", Command: "scroll-bottom", Context: ContextPreview},
		{Key: "ctrl+d", Command: "page-down", Context: ContextPreview},
		{Key: "ctrl+u", Command: "page-up", Context: ContextPreview},
		{Key: "o", Command: "open-editor", Context: ContextPreview},

		// Prompt context (rename/create/move inputs)
		{Key: "esc", Command: "cancel", Context: ContextPrompt},
		{Key: "enter", Command: "confirm", Context: ContextPrompt},

		// Context menu
		{Key: "esc", Command: "close", Context: ContextMenu},
		{Key: "enter", Command: "select", Context: ContextMenu},
		{Key: "j", Command: "cursor-down", Context: ContextMenu},
		{Key: "down", Command: "cursor-down", Context: ContextMenu},
		{Key: "k", Command: "cursor-up", Context: ContextMenu},
		{Key: "up", Command: "cursor-up", Context: ContextMenu},
		{Key: "l", Command: "open-submenu", Context: ContextMenu},
		{Key: "right", Command: "open-submenu", Context: ContextMenu},
		{Key: "h", Command: "close-submenu", Context: ContextMenu},
		{Key: "left", Command: "close-submenu", Context: ContextMenu},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
