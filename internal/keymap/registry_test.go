package keymap

import "testing"

func TestResolveContextThenGlobal(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	tests := []struct {
		name    string
		key     string
		context string
		want    string
		found   bool
	}{
		{"context binding wins", "enter", ContextTree, "select", true},
		{"same key different context", "enter", ContextList, "preview", true},
		{"global fallback", "ctrl+c", ContextTree, "quit", true},
		{"tab falls through to global", "tab", ContextList, "switch-pane", true},
		{"unbound key", "ctrl+z", ContextTree, "", false},
		{"global context direct", "q", ContextGlobal, "quit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.key, tt.context)
			if ok != tt.found {
				t.Fatalf("Resolve(%q, %q) found = %v, want %v", tt.key, tt.context, ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.key, tt.context, got, tt.want)
			}
		})
	}
}

func TestUserOverrideWins(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	r.SetUserOverride("d", "duplicate")

	got, ok := r.Resolve("d", ContextTree)
	if !ok || got != "duplicate" {
		t.Errorf("expected override to win, got %q (found=%v)", got, ok)
	}

	// Override applies in every context.
	got, _ = r.Resolve("d", ContextList)
	if got != "duplicate" {
		t.Errorf("expected override in list context, got %q", got)
	}
}

func TestRegisterBindingReplacesSameKey(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "x", Command: "first", Context: ContextTree})
	r.RegisterBinding(Binding{Key: "x", Command: "second", Context: ContextTree})

	got, _ := r.Resolve("x", ContextTree)
	if got != "second" {
		t.Errorf("expected later binding to replace earlier, got %q", got)
	}
	if n := len(r.BindingsForContext(ContextTree)); n != 1 {
		t.Errorf("expected 1 binding after replace, got %d", n)
	}
}

func TestBindingsForContextAppliesOverrides(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	r.SetUserOverride("r", "reveal-selected")

	for _, b := range r.BindingsForContext(ContextTree) {
		if b.Key == "r" && b.Command != "reveal-selected" {
			t.Errorf("expected override reflected in listing, got %q", b.Command)
		}
	}
}

func TestKeysForCommand(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	keys := r.KeysForCommand("cursor-down", ContextSearch)
	want := map[string]bool{"down": true, "ctrl+n": true, "j": true}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q for cursor-down", k)
		}
		delete(want, k)
	}
	if len(want) != 0 {
		t.Errorf("missing keys for cursor-down: %v", want)
	}
}
