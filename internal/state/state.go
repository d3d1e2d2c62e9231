package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences and per-vault UI state.
type State struct {
	// Pane width preference (percentage of total width, 0 = use default)
	TreeWidthPercent int `json:"treeWidthPercent,omitempty"`

	// FooterHidden hides the key hint footer (zero value = visible).
	FooterHidden bool `json:"footerHidden,omitempty"`

	// LastVault is the vault opened most recently (absolute path).
	LastVault string `json:"lastVault,omitempty"`

	// Vaults holds per-vault state keyed by absolute vault path.
	Vaults map[string]VaultState `json:"vaults,omitempty"`
}

// VaultState holds UI state restored when a vault is reopened.
type VaultState struct {
	SelectedNav        string   `json:"selectedNav,omitempty"`        // selected navigation item ID
	SelectedFile       string   `json:"selectedFile,omitempty"`       // selected file path (vault-relative)
	ActivePane         string   `json:"activePane,omitempty"`         // "tree" or "list"
	TreeScroll         int      `json:"treeScroll,omitempty"`         // tree pane scroll offset
	ListScroll         int      `json:"listScroll,omitempty"`         // list pane scroll offset
	ExpandedFolders    []string `json:"expandedFolders,omitempty"`    // expanded folder paths
	ExpandedTags       []string `json:"expandedTags,omitempty"`       // expanded tag paths
	ExpandedProperties []string `json:"expandedProperties,omitempty"` // expanded property keys/values
	SortOrder          string   `json:"sortOrder,omitempty"`          // list sort override ("" = config default)
	IncludeDescendants *bool    `json:"includeDescendants,omitempty"` // descendant-notes toggle ("" = config default)
	ShowHidden         *bool    `json:"showHidden,omitempty"`         // hidden-items toggle
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the user config directory.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "navigator"))
}

// InitWithDir loads state from dir. Tests point it at a scratch
// directory so real preferences stay untouched.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk. A missing file is not an error, the
// zero state serves as the defaults.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, current)
}

// Save writes state to disk, creating the config directory on first
// use.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// update applies fn under the write lock and persists the result.
func update(fn func(*State)) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	fn(current)
	mu.Unlock()
	return Save()
}

// snapshot copies the current state for reads of scalar fields. The
// Vaults map is shared, readers must not touch it.
func snapshot() State {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return State{}
	}
	return *current
}

// GetTreeWidthPercent returns the saved tree pane width percentage,
// 0 when no preference is saved.
func GetTreeWidthPercent() int { return snapshot().TreeWidthPercent }

// SetTreeWidthPercent saves the tree pane width.
func SetTreeWidthPercent(percent int) error {
	return update(func(s *State) { s.TreeWidthPercent = percent })
}

// GetFooterHidden returns whether the key hint footer is hidden.
func GetFooterHidden() bool { return snapshot().FooterHidden }

// SetFooterHidden saves the footer visibility preference.
func SetFooterHidden(hidden bool) error {
	return update(func(s *State) { s.FooterHidden = hidden })
}

// GetLastVault returns the most recently opened vault path.
func GetLastVault() string { return snapshot().LastVault }

// SetLastVault saves the most recently opened vault path.
func SetLastVault(vaultPath string) error {
	return update(func(s *State) { s.LastVault = vaultPath })
}

// GetVaultState returns the saved state for a vault, the zero value
// when the vault has none.
func GetVaultState(vaultPath string) VaultState {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return VaultState{}
	}
	return current.Vaults[vaultPath]
}

// SetVaultState saves the state for a vault.
func SetVaultState(vaultPath string, vs VaultState) error {
	return update(func(s *State) {
		if s.Vaults == nil {
			s.Vaults = make(map[string]VaultState)
		}
		s.Vaults[vaultPath] = vs
	})
}

// ClearVaultState removes the saved state for a vault. With no state
// loaded there is nothing to remove and nothing is written.
func ClearVaultState(vaultPath string) error {
	mu.Lock()
	if current == nil || current.Vaults == nil {
		mu.Unlock()
		return nil
	}
	delete(current.Vaults, vaultPath)
	mu.Unlock()
	return Save()
}
