package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Op classifies a watcher event.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

// Event is one filesystem change, already translated to vault-relative
// paths by the watcher.
type Event struct {
	Op      Op
	Path    string
	OldPath string // renames only
}

// Change reports what Apply did, so the content index can follow along.
type Change struct {
	Structural bool
	Created    []string          // file paths added
	Removed    []string          // file paths removed
	Renamed    map[string]string // old path -> new path
	Written    []string          // file paths with content changes
}

// Empty reports whether nothing happened.
func (c Change) Empty() bool {
	return !c.Structural && len(c.Written) == 0
}

// Apply folds one event into the tree. File pointers survive renames: the
// existing entity is re-pathed and re-parented rather than replaced.
func (v *Vault) Apply(ev Event) Change {
	var ch Change
	switch ev.Op {
	case OpWrite:
		v.applyWrite(ev.Path, &ch)
	case OpCreate:
		v.applyCreate(ev.Path, &ch)
	case OpRemove:
		v.applyRemove(ev.Path, &ch)
	case OpRename:
		v.applyRename(ev.OldPath, ev.Path, &ch)
	}
	if ch.Structural {
		v.version++
	}
	return ch
}

func (v *Vault) applyWrite(path string, ch *Change) {
	f := v.files[path]
	if f == nil {
		v.applyCreate(path, ch)
		return
	}
	if info, err := os.Stat(v.Abs(path)); err == nil {
		f.Size = info.Size()
		f.ModTime = info.ModTime()
	}
	ch.Written = append(ch.Written, path)
}

func (v *Vault) applyCreate(path string, ch *Change) {
	if v.skipName(baseName(path)) {
		return
	}
	info, err := os.Stat(v.Abs(path))
	if err != nil {
		return // gone again before we looked
	}
	if info.IsDir() {
		if v.folders[path] == nil {
			v.ensureFolder(path)
			v.scanSubtree(path, ch)
			ch.Structural = true
		}
		return
	}
	if f := v.files[path]; f != nil {
		f.Size = info.Size()
		f.ModTime = info.ModTime()
		ch.Written = append(ch.Written, path)
		return
	}
	if v.skipFile(baseName(path)) {
		return
	}
	v.insertFile(path, info)
	ch.Structural = true
	ch.Created = append(ch.Created, path)
}

func (v *Vault) applyRemove(path string, ch *Change) {
	if folder := v.folders[path]; folder != nil && !folder.IsRoot() {
		v.removeFolder(folder, ch)
		ch.Structural = true
		return
	}
	if f := v.files[path]; f != nil {
		v.detachFile(f)
		ch.Structural = true
		ch.Removed = append(ch.Removed, path)
	}
}

func (v *Vault) applyRename(oldPath, newPath string, ch *Change) {
	newName := baseName(newPath)
	if f := v.files[oldPath]; f != nil {
		// Renamed into an excluded name: the file leaves the vault.
		if v.skipName(newName) || v.skipFile(newName) {
			v.applyRemove(oldPath, ch)
			return
		}
		v.repathFile(f, newPath)
		ch.Structural = true
		if ch.Renamed == nil {
			ch.Renamed = make(map[string]string)
		}
		ch.Renamed[oldPath] = newPath
		return
	}
	if folder := v.folders[oldPath]; folder != nil && !folder.IsRoot() {
		if v.skipName(newName) {
			v.applyRemove(oldPath, ch)
			return
		}
		if ch.Renamed == nil {
			ch.Renamed = make(map[string]string)
		}
		v.repathFolder(folder, newPath, ch.Renamed)
		ch.Structural = true
		return
	}
	// Unknown source: treat as plain create of the destination.
	v.applyCreate(newPath, ch)
}

// ensureFolder returns the folder at path, creating the chain of missing
// ancestors in the tree. Path must not be RootPath-relative garbage; the
// root itself always exists.
func (v *Vault) ensureFolder(path string) *Folder {
	if path == RootPath || path == "" {
		return v.root
	}
	if d := v.folders[path]; d != nil {
		return d
	}
	parent := v.ensureFolder(parentPath(path))
	folder := &Folder{Path: path, Name: baseName(path), Parent: parent}
	v.folders[path] = folder
	parent.Subfolders = append(parent.Subfolders, folder)
	sortFolder(parent)
	return folder
}

// scanSubtree indexes the on-disk contents of a directory that appeared as
// a unit (moved or copied in).
func (v *Vault) scanSubtree(path string, ch *Change) {
	_ = filepath.WalkDir(v.Abs(path), func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, ok := v.Rel(abs)
		if !ok || rel == path {
			return nil
		}
		if v.skipName(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			v.ensureFolder(rel)
			return nil
		}
		if v.files[rel] == nil && !v.skipFile(d.Name()) {
			if info, err := d.Info(); err == nil {
				v.insertFile(rel, info)
				ch.Created = append(ch.Created, rel)
			}
		}
		return nil
	})
}

func (v *Vault) insertFile(path string, info fs.FileInfo) *File {
	parent := v.ensureFolder(parentPath(path))
	f := newFile(path, baseName(path), parent, info)
	v.files[path] = f
	parent.Notes = append(parent.Notes, f)
	sortFolder(parent)
	return f
}

func (v *Vault) detachFile(f *File) {
	delete(v.files, f.Path)
	if f.Parent != nil {
		f.Parent.Notes = removeFile(f.Parent.Notes, f)
	}
}

func (v *Vault) removeFolder(folder *Folder, ch *Change) {
	for _, sub := range append([]*Folder{}, folder.Subfolders...) {
		v.removeFolder(sub, ch)
	}
	for _, f := range append([]*File{}, folder.Notes...) {
		v.detachFile(f)
		ch.Removed = append(ch.Removed, f.Path)
	}
	delete(v.folders, folder.Path)
	if folder.Parent != nil {
		folder.Parent.Subfolders = removeFolderSlice(folder.Parent.Subfolders, folder)
	}
}

// repathFile moves an existing File entity to a new path, preserving its
// identity.
func (v *Vault) repathFile(f *File, newPath string) {
	delete(v.files, f.Path)
	if f.Parent != nil {
		f.Parent.Notes = removeFile(f.Parent.Notes, f)
	}

	name := baseName(newPath)
	f.Path = newPath
	f.Name = name
	f.Base = strings.TrimSuffix(name, filepath.Ext(name))
	f.Ext = strings.ToLower(filepath.Ext(name))
	if info, err := os.Stat(v.Abs(newPath)); err == nil {
		f.Size = info.Size()
		f.ModTime = info.ModTime()
	}

	parent := v.ensureFolder(parentPath(newPath))
	f.Parent = parent
	parent.Notes = append(parent.Notes, f)
	sortFolder(parent)
	v.files[newPath] = f
}

// repathFolder moves a folder subtree to a new path, rewriting descendant
// paths in place and recording file moves in renamed.
func (v *Vault) repathFolder(folder *Folder, newPath string, renamed map[string]string) {
	delete(v.folders, folder.Path)
	if folder.Parent != nil {
		folder.Parent.Subfolders = removeFolderSlice(folder.Parent.Subfolders, folder)
	}

	oldPrefix := folder.Path + "/"
	folder.Path = newPath
	folder.Name = baseName(newPath)
	parent := v.ensureFolder(parentPath(newPath))
	folder.Parent = parent
	parent.Subfolders = append(parent.Subfolders, folder)
	sortFolder(parent)
	v.folders[newPath] = folder

	var walk func(d *Folder)
	walk = func(d *Folder) {
		for _, f := range d.Notes {
			oldFile := f.Path
			rest := strings.TrimPrefix(oldFile, oldPrefix)
			delete(v.files, oldFile)
			f.Path = newPath + "/" + rest
			v.files[f.Path] = f
			renamed[oldFile] = f.Path
		}
		for _, sub := range d.Subfolders {
			oldSub := sub.Path
			rest := strings.TrimPrefix(oldSub, oldPrefix)
			delete(v.folders, oldSub)
			sub.Path = newPath + "/" + rest
			v.folders[sub.Path] = sub
			walk(sub)
		}
	}
	walk(folder)
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func removeFile(s []*File, f *File) []*File {
	for i, x := range s {
		if x == f {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeFolderSlice(s []*Folder, d *Folder) []*Folder {
	for i, x := range s {
		if x == d {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
