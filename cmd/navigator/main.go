package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/keymap"
	"github.com/vroablec/notebook-navigator-sub013/internal/meta"
	"github.com/vroablec/notebook-navigator-sub013/internal/navigator"
	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
	"github.com/vroablec/notebook-navigator-sub013/internal/state"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
	"github.com/vroablec/notebook-navigator-sub013/internal/thumbs"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Version is set at build time via ldflags
var Version = ""

var (
	vaultDir    = flag.String("vault", "", "vault directory (default: last opened, then cwd)")
	configPath  = flag.String("config", "", "path to config file")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("navigator version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	styles.ApplyTheme(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)

	// Load persistent UI state (ignore errors - state is optional)
	_ = state.Init()

	dir, err := resolveVault(*vaultDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve vault: %v\n", err)
		os.Exit(1)
	}

	v := vault.New(dir, vault.Options{
		ExcludedFolders: cfg.Vault.ExcludedFolders,
		ExcludedFiles:   cfg.Vault.ExcludedFiles,
	})
	if err := v.Scan(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to scan vault: %v\n", err)
		os.Exit(1)
	}

	// Index and metadata live inside the vault, next to the notes.
	navDir := filepath.Join(dir, ".navigator")
	if err := os.MkdirAll(navDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", navDir, err)
		os.Exit(1)
	}

	store, err := cache.OpenStore(filepath.Join(navDir, "index.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open index: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ram := cache.NewRAM()
	if records, err := store.LoadAll(); err != nil {
		logger.Warn("index load failed, starting cold", "err", err)
	} else {
		ram.Load(records)
	}

	metaSvc, err := meta.Open(filepath.Join(navDir, "meta.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open metadata: %v\n", err)
		os.Exit(1)
	}

	watcher, err := vault.NewWatcher(v, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start watcher: %v\n", err)
		os.Exit(1)
	}
	indexer := cache.NewIndexer(dir, store, ram, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)
	indexer.Start(ctx)

	// Keymap with user overrides
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	model := navigator.New(navigator.Deps{
		Settings: cfg,
		Logger:   logger,
		Vault:    v,
		Ops:      vault.NewOps(v),
		Watcher:  watcher,
		Store:    store,
		RAM:      ram,
		Indexer:  indexer,
		Search:   cache.NewProvider(store),
		Meta:     metaSvc,
		Thumbs:   thumbs.NewCache(store),
		Keymap:   km,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadSettings(path string) (*settings.Settings, error) {
	if path != "" {
		return settings.LoadFrom(path)
	}
	return settings.Load()
}

// resolveVault picks the vault directory: the flag wins, then the last
// opened vault if it still exists, then the working directory.
func resolveVault(flagDir string) (string, error) {
	dir := flagDir
	if dir == "" {
		if last := state.GetLastVault(); last != "" {
			if info, err := os.Stat(last); err == nil && info.IsDir() {
				dir = last
			}
		}
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: navigator [options]\n\n")
		fmt.Fprintf(os.Stderr, "A dual-pane TUI browser for Markdown note vaults.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
