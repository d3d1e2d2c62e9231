// Package vault models the note vault as a live folder/file tree. The tree
// is confined to the program's update loop: the watcher only reports paths,
// and all mutations go through Apply. Folder children are mutated in place,
// so consumers read them fresh each render and key rebuilds off Version.
package vault

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RootPath is the canonical path of the vault root folder.
const RootPath = "/"

// File is one file in the vault. The struct pointer is stable across
// renames: Apply rewrites Path/Name in place, so anything keyed by path
// must re-key when a rename lands.
type File struct {
	Path    string // vault-relative, slash-separated
	Name    string // base name with extension
	Base    string // base name without extension
	Ext     string // lowercase extension including the dot
	Parent  *Folder
	Size    int64
	ModTime time.Time
}

// IsNote reports whether the file is a Markdown note.
func (f *File) IsNote() bool {
	return f.Ext == ".md" || f.Ext == ".markdown"
}

// Folder is one directory in the vault. Subfolders and Notes are sorted by
// name and mutated in place by Apply.
type Folder struct {
	Path       string // vault-relative; RootPath for the root
	Name       string
	Parent     *Folder
	Subfolders []*Folder
	Notes      []*File
}

// IsRoot reports whether this is the vault root.
func (d *Folder) IsRoot() bool {
	return d.Path == RootPath
}

// Vault owns the tree plus path indexes. Not safe for concurrent use; it
// belongs to the update loop.
type Vault struct {
	dir           string // absolute path on disk
	root          *Folder
	files         map[string]*File
	folders       map[string]*Folder
	version       uint64
	excluded      map[string]struct{}
	excludedFiles []string
}

// Options configures scanning.
type Options struct {
	// ExcludedFolders are directory names skipped entirely (the watcher
	// skips them too). Dotted names are always skipped.
	ExcludedFolders []string
	// ExcludedFiles are glob patterns matched against file names.
	ExcludedFiles []string
}

// New creates a vault rooted at dir. Call Scan before first use.
func New(dir string, opts Options) *Vault {
	excluded := make(map[string]struct{}, len(opts.ExcludedFolders))
	for _, name := range opts.ExcludedFolders {
		excluded[name] = struct{}{}
	}
	return &Vault{
		dir:           dir,
		files:         make(map[string]*File),
		folders:       make(map[string]*Folder),
		excluded:      excluded,
		excludedFiles: opts.ExcludedFiles,
	}
}

// Dir returns the vault's absolute directory on disk.
func (v *Vault) Dir() string { return v.dir }

// Root returns the root folder.
func (v *Vault) Root() *Folder { return v.root }

// Version increments on every structural change. Projections rebuild when
// it moves.
func (v *Vault) Version() uint64 { return v.version }

// FileByPath returns the file at a vault-relative path, or nil.
func (v *Vault) FileByPath(path string) *File { return v.files[path] }

// FolderByPath returns the folder at a vault-relative path, or nil.
func (v *Vault) FolderByPath(path string) *Folder { return v.folders[path] }

// FileCount returns the number of tracked files.
func (v *Vault) FileCount() int { return len(v.files) }

// AllFiles returns every tracked file in path order.
func (v *Vault) AllFiles() []*File {
	out := make([]*File, 0, len(v.files))
	for _, f := range v.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Abs converts a vault-relative path to an absolute disk path.
func (v *Vault) Abs(path string) string {
	if path == RootPath || path == "" {
		return v.dir
	}
	return filepath.Join(v.dir, filepath.FromSlash(path))
}

// Rel converts an absolute disk path to a vault-relative path. Returns
// ("", false) for paths outside the vault.
func (v *Vault) Rel(abs string) (string, bool) {
	rel, err := filepath.Rel(v.dir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	if rel == "." {
		return RootPath, true
	}
	return filepath.ToSlash(rel), true
}

// Scan rebuilds the whole tree from disk. Existing File/Folder pointers are
// discarded, so Scan is for startup and hard refresh only; incremental
// changes go through Apply.
func (v *Vault) Scan() error {
	root := &Folder{Path: RootPath, Name: filepath.Base(v.dir)}
	files := make(map[string]*File)
	folders := map[string]*Folder{RootPath: root}

	err := filepath.WalkDir(v.dir, func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		rel, ok := v.Rel(abs)
		if !ok || rel == RootPath {
			return nil
		}
		name := d.Name()
		if v.skipName(name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		parent := folders[parentPath(rel)]
		if parent == nil {
			return nil // parent was skipped
		}
		if d.IsDir() {
			folder := &Folder{Path: rel, Name: name, Parent: parent}
			folders[rel] = folder
			parent.Subfolders = append(parent.Subfolders, folder)
			return nil
		}

		if v.skipFile(name) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		file := newFile(rel, name, parent, info)
		files[rel] = file
		parent.Notes = append(parent.Notes, file)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan vault %s: %w", v.dir, err)
	}

	for _, folder := range folders {
		sortFolder(folder)
	}

	v.root = root
	v.files = files
	v.folders = folders
	v.version++
	return nil
}

func (v *Vault) skipName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, skip := v.excluded[name]
	return skip
}

// skipFile reports whether a file name matches an exclusion pattern.
// Bad patterns never match.
func (v *Vault) skipFile(name string) bool {
	for _, pat := range v.excludedFiles {
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

func newFile(rel, name string, parent *Folder, info fs.FileInfo) *File {
	ext := strings.ToLower(filepath.Ext(name))
	return &File{
		Path:    rel,
		Name:    name,
		Base:    strings.TrimSuffix(name, filepath.Ext(name)),
		Ext:     ext,
		Parent:  parent,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

func parentPath(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return RootPath
}

func sortFolder(d *Folder) {
	sort.Slice(d.Subfolders, func(i, j int) bool {
		return strings.ToLower(d.Subfolders[i].Name) < strings.ToLower(d.Subfolders[j].Name)
	})
	sort.Slice(d.Notes, func(i, j int) bool {
		return strings.ToLower(d.Notes[i].Name) < strings.ToLower(d.Notes[j].Name)
	})
}
