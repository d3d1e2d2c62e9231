package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// isolate points the package at a throwaway state file and restores the
// previous globals when the test finishes. Tests here mutate shared
// package state, so none of them run in parallel.
func isolate(t *testing.T) string {
	t.Helper()
	prevPath, prevCurrent := path, current
	t.Cleanup(func() {
		path = prevPath
		current = prevCurrent
	})
	path = filepath.Join(t.TempDir(), "state.json")
	current = nil
	return path
}

func readSaved(t *testing.T, file string) State {
	t.Helper()
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading saved state: %v", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decoding saved state: %v", err)
	}
	return s
}

func TestInitWithDir(t *testing.T) {
	isolate(t)

	dir := filepath.Join(t.TempDir(), ".config", "navigator")
	if err := InitWithDir(dir); err != nil {
		t.Fatalf("InitWithDir() failed: %v", err)
	}
	if current == nil {
		t.Error("state should be populated after init")
	}
	if path != filepath.Join(dir, "state.json") {
		t.Errorf("state file = %q, want it under %s", path, dir)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		isolate(t)
		if err := Load(); err != nil {
			t.Fatalf("Load() = %v, want nil for a missing file", err)
		}
		if current == nil {
			t.Error("Load() should leave usable defaults behind")
		}
	})

	t.Run("existing file", func(t *testing.T) {
		file := isolate(t)
		seed, _ := json.Marshal(State{TreeWidthPercent: 42, LastVault: "/vaults/work"})
		if err := os.WriteFile(file, seed, 0o644); err != nil {
			t.Fatal(err)
		}

		if err := Load(); err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if got := GetTreeWidthPercent(); got != 42 {
			t.Errorf("TreeWidthPercent = %d, want 42", got)
		}
		if got := GetLastVault(); got != "/vaults/work" {
			t.Errorf("LastVault = %q, want /vaults/work", got)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		file := isolate(t)
		if err := os.WriteFile(file, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := Load(); err == nil {
			t.Error("Load() should surface a decode error")
		}
	})
}

func TestSave(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		isolate(t)
		file := filepath.Join(t.TempDir(), "deep", "nested", "navigator", "state.json")
		path = file
		current = &State{TreeWidthPercent: 28}

		if err := Save(); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if readSaved(t, file).TreeWidthPercent != 28 {
			t.Error("saved file does not hold the written state")
		}
	})

	t.Run("nil state is a no-op", func(t *testing.T) {
		file := isolate(t)
		if err := Save(); err != nil {
			t.Fatalf("Save() with nothing loaded should not error: %v", err)
		}
		if _, err := os.Stat(file); !os.IsNotExist(err) {
			t.Error("Save() with nothing loaded should not touch disk")
		}
	})
}

func TestTreeWidthPercent(t *testing.T) {
	file := isolate(t)

	if got := GetTreeWidthPercent(); got != 0 {
		t.Errorf("unset TreeWidthPercent = %d, want 0", got)
	}

	// The setter initializes state on first use.
	if err := SetTreeWidthPercent(37); err != nil {
		t.Fatalf("SetTreeWidthPercent() failed: %v", err)
	}
	if got := GetTreeWidthPercent(); got != 37 {
		t.Errorf("TreeWidthPercent = %d, want 37", got)
	}
	if readSaved(t, file).TreeWidthPercent != 37 {
		t.Error("TreeWidthPercent not persisted")
	}
}

func TestFooterHidden(t *testing.T) {
	file := isolate(t)

	if GetFooterHidden() {
		t.Error("footer should default to visible")
	}
	if err := SetFooterHidden(true); err != nil {
		t.Fatalf("SetFooterHidden() failed: %v", err)
	}
	if !GetFooterHidden() {
		t.Error("footer should report hidden after set")
	}
	if !readSaved(t, file).FooterHidden {
		t.Error("FooterHidden not persisted")
	}
}

func TestLastVault(t *testing.T) {
	isolate(t)

	if got := GetLastVault(); got != "" {
		t.Errorf("unset LastVault = %q, want empty", got)
	}
	if err := SetLastVault("/vaults/personal"); err != nil {
		t.Fatalf("SetLastVault() failed: %v", err)
	}
	if got := GetLastVault(); got != "/vaults/personal" {
		t.Errorf("LastVault = %q, want /vaults/personal", got)
	}
}

func TestGetVaultStateZeroValues(t *testing.T) {
	tests := []struct {
		name string
		seed *State
	}{
		{"nothing loaded", nil},
		{"no vaults map", &State{}},
		{"unknown vault", &State{Vaults: map[string]VaultState{"/vaults/other": {SelectedFile: "a.md"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			current = tt.seed

			vs := GetVaultState("/vaults/notes")
			if vs.SelectedNav != "" || vs.SelectedFile != "" || len(vs.ExpandedFolders) > 0 {
				t.Errorf("expected zero vault state, got %+v", vs)
			}
		})
	}
}

func TestSetVaultState(t *testing.T) {
	file := isolate(t)

	descendants := true
	vs := VaultState{
		SelectedNav:        "folder:Projects",
		SelectedFile:       "Projects/roadmap.md",
		ActivePane:         "list",
		ExpandedFolders:    []string{"Projects", "Projects/2026"},
		ExpandedTags:       []string{"work"},
		SortOrder:          "title-asc",
		IncludeDescendants: &descendants,
	}
	if err := SetVaultState("/vaults/notes", vs); err != nil {
		t.Fatalf("SetVaultState() failed: %v", err)
	}

	got := GetVaultState("/vaults/notes")
	if got.SelectedNav != "folder:Projects" || got.SortOrder != "title-asc" {
		t.Errorf("stored vault state = %+v", got)
	}
	if got.IncludeDescendants == nil || !*got.IncludeDescendants {
		t.Error("IncludeDescendants should round-trip as true")
	}

	persisted := readSaved(t, file).Vaults["/vaults/notes"]
	if persisted.SelectedFile != "Projects/roadmap.md" {
		t.Errorf("persisted SelectedFile = %q", persisted.SelectedFile)
	}
	if len(persisted.ExpandedFolders) != 2 || persisted.ExpandedFolders[1] != "Projects/2026" {
		t.Errorf("persisted ExpandedFolders = %v", persisted.ExpandedFolders)
	}
}

func TestClearVaultState(t *testing.T) {
	t.Run("removes and persists", func(t *testing.T) {
		file := isolate(t)
		current = &State{
			Vaults: map[string]VaultState{
				"/vaults/notes": {SelectedFile: "inbox.md"},
				"/vaults/work":  {SelectedFile: "todo.md"},
			},
		}

		if err := ClearVaultState("/vaults/notes"); err != nil {
			t.Fatalf("ClearVaultState() failed: %v", err)
		}
		if _, ok := current.Vaults["/vaults/notes"]; ok {
			t.Error("entry should be removed")
		}
		if _, ok := current.Vaults["/vaults/work"]; !ok {
			t.Error("other vaults must be untouched")
		}

		saved := readSaved(t, file)
		if _, ok := saved.Vaults["/vaults/notes"]; ok {
			t.Error("removal should be persisted")
		}
	})

	t.Run("nothing loaded", func(t *testing.T) {
		file := isolate(t)
		if err := ClearVaultState("/vaults/notes"); err != nil {
			t.Fatalf("ClearVaultState() with nothing loaded should not error: %v", err)
		}
		if _, err := os.Stat(file); !os.IsNotExist(err) {
			t.Error("clearing with nothing loaded should not touch disk")
		}
	})
}

func TestConcurrentAccess(t *testing.T) {
	isolate(t)
	current = &State{}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			if err := SetTreeWidthPercent(22 + w); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			GetVaultState("/vaults/notes")
			GetFooterHidden()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent mutation: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	isolate(t)

	if err := SetLastVault("/vaults/personal"); err != nil {
		t.Fatal(err)
	}
	err := SetVaultState("/vaults/personal", VaultState{
		ExpandedTags: []string{"journal", "journal/2026"},
		SortOrder:    "created-desc",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Drop the in-memory copy and reload from disk.
	current = nil
	if err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if got := GetLastVault(); got != "/vaults/personal" {
		t.Errorf("LastVault = %q, want /vaults/personal", got)
	}
	vs := GetVaultState("/vaults/personal")
	if len(vs.ExpandedTags) != 2 || vs.ExpandedTags[0] != "journal" {
		t.Errorf("ExpandedTags = %v", vs.ExpandedTags)
	}
	if vs.SortOrder != "created-desc" {
		t.Errorf("SortOrder = %q, want created-desc", vs.SortOrder)
	}
}
