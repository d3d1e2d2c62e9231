// Package keymap maps key presses to command identifiers per UI
// context. The model stays declarative: bindings resolve to command
// IDs and the update loop dispatches on those IDs.
package keymap

// Binding ties a key to a command within a context.
type Binding struct {
	Key     string // bubbletea key string ("enter", "ctrl+p", "G")
	Command string // command identifier ("cursor-down", "rename")
	Context string // UI context the binding applies in
}

// Registry holds bindings grouped by context plus user overrides.
// User overrides rebind a key across all contexts and win over
// defaults.
type Registry struct {
	byContext map[string][]Binding
	overrides map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byContext: make(map[string][]Binding),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding. A later binding for the same key
// and context replaces the earlier one.
func (r *Registry) RegisterBinding(b Binding) {
	list := r.byContext[b.Context]
	for i, existing := range list {
		if existing.Key == b.Key {
			list[i] = b
			return
		}
	}
	r.byContext[b.Context] = append(list, b)
}

// SetUserOverride rebinds a key to a command in every context.
func (r *Registry) SetUserOverride(key, command string) {
	r.overrides[key] = command
}

// Resolve maps a key in the given context to a command ID. Overrides
// are checked first, then context bindings, then the global context.
func (r *Registry) Resolve(key, context string) (string, bool) {
	if cmd, ok := r.overrides[key]; ok {
		return cmd, true
	}
	if cmd, ok := r.lookup(key, context); ok {
		return cmd, true
	}
	if context != ContextGlobal {
		return r.lookup(key, ContextGlobal)
	}
	return "", false
}

func (r *Registry) lookup(key, context string) (string, bool) {
	for _, b := range r.byContext[context] {
		if b.Key == key {
			return b.Command, true
		}
	}
	return "", false
}

// BindingsForContext returns the bindings registered for a context in
// registration order, with user overrides applied.
func (r *Registry) BindingsForContext(context string) []Binding {
	src := r.byContext[context]
	out := make([]Binding, 0, len(src))
	for _, b := range src {
		if cmd, ok := r.overrides[b.Key]; ok {
			b.Command = cmd
		}
		out = append(out, b)
	}
	return out
}

// KeysForCommand returns the keys bound to a command in a context,
// consulting the global context as well. Used for footer hints.
func (r *Registry) KeysForCommand(command, context string) []string {
	var keys []string
	seen := make(map[string]bool)
	collect := func(ctx string) {
		for _, b := range r.byContext[ctx] {
			if b.Command == command && !seen[b.Key] {
				keys = append(keys, b.Key)
				seen[b.Key] = true
			}
		}
	}
	collect(context)
	collect(ContextGlobal)
	return keys
}
