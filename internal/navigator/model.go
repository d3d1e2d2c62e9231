// Package navigator is the bubbletea application: a dual-pane vault
// browser with a navigation tree (folders, tags, properties, shortcuts)
// on the left and the selected item's note list on the right.
//
// The update loop is the single mutation point for UI state. Renders
// read RAM cache snapshots synchronously; everything slow (indexing,
// search, thumbnail work, file previews) runs in commands and reports
// back as messages.
package navigator

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/image"
	"github.com/vroablec/notebook-navigator-sub013/internal/keymap"
	"github.com/vroablec/notebook-navigator-sub013/internal/menu"
	"github.com/vroablec/notebook-navigator-sub013/internal/meta"
	"github.com/vroablec/notebook-navigator-sub013/internal/mouse"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/rowmodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
	"github.com/vroablec/notebook-navigator-sub013/internal/state"
	"github.com/vroablec/notebook-navigator-sub013/internal/thumbs"
	"github.com/vroablec/notebook-navigator-sub013/internal/treemodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Pane identifies which side of the split has focus.
type Pane int

const (
	PaneTree Pane = iota
	PaneList
)

// Deps are the services the navigator runs against. They are constructed
// in cmd/navigator and live for the program lifetime.
type Deps struct {
	Settings *settings.Settings
	Logger   *slog.Logger
	Vault    *vault.Vault
	Ops      *vault.Ops
	Watcher  *vault.Watcher
	Store    *cache.Store
	RAM      *cache.RAM
	Indexer  *cache.Indexer
	Search   *cache.Provider
	Meta     *meta.Service
	Thumbs   *thumbs.Cache
	Keymap   *keymap.Registry
}

// Model is the root bubbletea model.
type Model struct {
	cfg    *settings.Settings
	logger *slog.Logger

	vault   *vault.Vault
	ops     *vault.Ops
	watcher *vault.Watcher
	store   *cache.Store
	ram     *cache.RAM
	indexer *cache.Indexer
	search  *cache.Provider
	meta    *meta.Service
	thumbs  *thumbs.Cache
	keymap  *keymap.Registry

	expansion *treemodel.Expansion
	palette   *rowmodel.Palette
	limiter   *thumbs.Limiter
	menus     *menu.Coordinator
	mouse     *mouse.Handler
	images    *image.Renderer

	width  int
	height int
	ready  bool

	activePane   Pane
	treeWidth    int // columns, derived from treeWidthPct on resize
	treeWidthPct int

	// Navigation tree. Rows are re-derived from the live vault tree and
	// the cached projections; treeDirty marks them stale and the vault
	// version catches structural changes made outside the dirty paths.
	treeRows     []rowmodel.TreeRow
	treeCursor   int
	treeScroll   int
	treeDirty    bool
	treeVaultVer uint64

	// Tag/property projections, rebuilt when the RAM generation moves.
	tagTree  *treemodel.Node
	propTree *treemodel.Node
	projGen  uint64
	projInit bool

	// selected drives the file list; it usually trails the tree cursor.
	selected noderef.Ref

	// File list.
	entries      []listEntry
	listCursor   int
	listScroll   int
	listDirty    bool
	listVaultVer uint64
	listRAMGen   uint64
	controllers  map[string]*rowmodel.FileController

	// Per-vault toggles, seeded from settings and persisted in state.
	includeDesc bool
	showHidden  bool
	sortChoice  string // "" = config default

	// Search.
	searchOpen      bool
	searchCommitted bool
	searchInput     textinput.Model
	query           cache.Query
	freePaths       map[string]struct{} // nil = no free-text constraint
	searchSeq       int

	// Preview overlay.
	preview      *previewState
	previewEpoch int

	// Prompt modal state; which prompt is open lives in menus.ModalID.
	promptInput  textinput.Model
	promptTarget noderef.Ref

	// Drag and drop. dragDivider marks a pane-divider resize; dragSpec a
	// row being moved.
	dragSpec    *rowmodel.DragSpec
	dropRef     noderef.Ref
	dragDivider bool

	// Copy buffer for the empty-area paste action.
	copiedPath string

	// Thumbnail requests in flight, keyed path+"\x00"+key.
	thumbPending map[string]struct{}
	imgEpoch     int

	// Footer toast. hoverHint shows under it when no toast is up.
	statusMsg     string
	statusIsError bool
	statusExpiry  time.Time
	hoverHint     string

	scanning   bool
	showFooter bool
}

// New creates the navigator model and restores per-vault UI state.
func New(deps Deps) *Model {
	si := textinput.New()
	si.Placeholder = "Search (tag:x -tag:y key:k=v text)"
	si.Prompt = "/ "
	si.CharLimit = 200

	m := &Model{
		cfg:     deps.Settings,
		logger:  deps.Logger,
		vault:   deps.Vault,
		ops:     deps.Ops,
		watcher: deps.Watcher,
		store:   deps.Store,
		ram:     deps.RAM,
		indexer: deps.Indexer,
		search:  deps.Search,
		meta:    deps.Meta,
		thumbs:  deps.Thumbs,
		keymap:  deps.Keymap,

		expansion: treemodel.NewExpansion(),
		palette:   rowmodel.NewPalette(deps.Meta),
		limiter:   thumbs.NewLimiter(thumbs.DefaultWindow),
		menus:     menu.NewCoordinator(),
		mouse:     mouse.NewHandler(),
		images:    image.NewRenderer(),

		selected:     noderef.Folder(vault.RootPath),
		controllers:  make(map[string]*rowmodel.FileController),
		thumbPending: make(map[string]struct{}),
		searchInput:  si,

		includeDesc:  deps.Settings.List.IncludeDescendants,
		showHidden:   deps.Settings.Navigation.ShowHiddenItems,
		showFooter:   deps.Settings.UI.ShowFooter,
		treeWidthPct: deps.Settings.UI.TreeWidthPercent,

		treeDirty: true,
		listDirty: true,
		scanning:  true,
	}

	// Root starts expanded so a fresh vault is not a single collapsed row.
	m.expansion.SetOpen(noderef.Folder(vault.RootPath), true)
	m.restoreState()
	return m
}

// Init starts the event pumps and the initial index scan.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.initialScanCmd(),
		m.listenWatcher(),
		m.listenIndexer(),
		tickCmd(),
	)
}

// restoreState applies the persisted per-vault UI state.
func (m *Model) restoreState() {
	if pct := state.GetTreeWidthPercent(); pct > 0 {
		m.treeWidthPct = pct
	}
	if state.GetFooterHidden() {
		m.showFooter = false
	}

	vs := state.GetVaultState(m.vault.Dir())
	m.expansion.RestoreKind(noderef.KindFolder, vs.ExpandedFolders)
	m.expansion.RestoreKind(noderef.KindTag, vs.ExpandedTags)
	m.expansion.RestoreKind(noderef.KindPropertyKey, vs.ExpandedProperties)
	if len(vs.ExpandedFolders) == 0 {
		m.expansion.SetOpen(noderef.Folder(vault.RootPath), true)
	}

	if vs.SelectedNav != "" {
		if ref, err := noderef.Parse(vs.SelectedNav); err == nil {
			m.selected = ref
		}
	}
	if vs.ActivePane == "list" {
		m.activePane = PaneList
	}
	m.treeScroll = vs.TreeScroll
	m.listScroll = vs.ListScroll
	m.sortChoice = vs.SortOrder
	if vs.IncludeDescendants != nil {
		m.includeDesc = *vs.IncludeDescendants
	}
	if vs.ShowHidden != nil {
		m.showHidden = *vs.ShowHidden
	}
}

// saveState persists per-vault UI state. Called on quit. Each setter
// writes through to disk, so failures other than the last are dropped.
func (m *Model) saveState() {
	_ = state.SetTreeWidthPercent(m.treeWidthPct)
	_ = state.SetFooterHidden(!m.showFooter)
	_ = state.SetLastVault(m.vault.Dir())

	pane := "tree"
	if m.activePane == PaneList {
		pane = "list"
	}
	vs := state.VaultState{
		SelectedNav:        m.selected.ID(),
		SelectedFile:       m.selectedFilePath(),
		ActivePane:         pane,
		TreeScroll:         m.treeScroll,
		ListScroll:         m.listScroll,
		ExpandedFolders:    m.expansion.SnapshotKind(noderef.KindFolder),
		ExpandedTags:       m.expansion.SnapshotKind(noderef.KindTag),
		ExpandedProperties: m.expansion.SnapshotKind(noderef.KindPropertyKey),
		SortOrder:          m.sortChoice,
		IncludeDescendants: &m.includeDesc,
		ShowHidden:         &m.showHidden,
	}
	if err := state.SetVaultState(m.vault.Dir(), vs); err != nil {
		m.logger.Warn("state save failed", "err", err)
	}
}

// selectedFilePath is the path under the list cursor, "" when the cursor
// is not on a file row.
func (m *Model) selectedFilePath() string {
	if m.listCursor < 0 || m.listCursor >= len(m.entries) {
		return ""
	}
	e := m.entries[m.listCursor]
	if e.kind != entryFile {
		return ""
	}
	return e.path
}

// cursorRow is the tree row under the cursor, nil when out of range.
func (m *Model) cursorRow() *rowmodel.TreeRow {
	if m.treeCursor < 0 || m.treeCursor >= len(m.treeRows) {
		return nil
	}
	return &m.treeRows[m.treeCursor]
}

// setSelected switches the file list to ref and resets the list cursor.
func (m *Model) setSelected(ref noderef.Ref) {
	if ref == m.selected {
		return
	}
	m.selected = ref
	m.listCursor = 0
	m.listScroll = 0
	m.listDirty = true
}

// keyContext resolves which binding context keys dispatch against.
func (m *Model) keyContext() string {
	switch {
	case m.menus.ActiveMenu() != nil:
		return keymap.ContextMenu
	case m.menus.ActiveModal() != nil:
		return keymap.ContextPrompt
	case m.preview != nil:
		return keymap.ContextPreview
	case m.searchOpen && !m.searchCommitted:
		return keymap.ContextSearch
	case m.activePane == PaneTree:
		return keymap.ContextTree
	default:
		return keymap.ContextList
	}
}

// toastDuration is how long footer toasts stay up.
const toastDuration = 3 * time.Second

// showToast installs a footer toast. Expiry is handled by the tick loop.
func (m *Model) showToast(message string, isError bool) {
	m.statusMsg = message
	m.statusIsError = isError
	m.statusExpiry = time.Now().Add(toastDuration)
}

func (m *Model) clearExpiredToast(now time.Time) {
	if m.statusMsg != "" && now.After(m.statusExpiry) {
		m.statusMsg = ""
	}
}

// sortOrder resolves the active list sort: a folder override wins, then
// the per-vault choice, then the configured default.
func (m *Model) sortOrder() string {
	if m.selected.Kind == noderef.KindFolder {
		if o := m.meta.SortOverride(m.selected); o != "" {
			return o
		}
	}
	if m.sortChoice != "" {
		return m.sortChoice
	}
	return m.cfg.List.DefaultSort
}

// projections returns the tag and property trees, rebuilt when the RAM
// cache generation has moved since the last build.
func (m *Model) projections() (*treemodel.Node, *treemodel.Node) {
	gen := m.ram.Generation()
	if !m.projInit || gen != m.projGen {
		m.tagTree = treemodel.BuildTagTree(m.ram)
		m.propTree = treemodel.BuildPropertyTree(m.ram)
		m.projGen = gen
		m.projInit = true
	}
	return m.tagTree, m.propTree
}

// controller returns the attached FileController for path, creating one
// on first use. Controllers survive while their path stays listed.
func (m *Model) controller(path string) *rowmodel.FileController {
	if c, ok := m.controllers[path]; ok {
		return c
	}
	c := rowmodel.NewFileController(m.ram)
	c.Attach(path)
	m.controllers[path] = c
	return c
}

// dropController detaches and forgets the controller for path.
func (m *Model) dropController(path string) {
	if c, ok := m.controllers[path]; ok {
		c.SetImage(nil)
		c.Detach()
		delete(m.controllers, path)
	}
}
