package navigator

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vroablec/notebook-navigator-sub013/internal/menu"
	"github.com/vroablec/notebook-navigator-sub013/internal/meta"
	"github.com/vroablec/notebook-navigator-sub013/internal/msg"
	"github.com/vroablec/notebook-navigator-sub013/internal/noderef"
	"github.com/vroablec/notebook-navigator-sub013/internal/rowmodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/styles"
	"github.com/vroablec/notebook-navigator-sub013/internal/treemodel"
	"github.com/vroablec/notebook-navigator-sub013/internal/ui"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// Modal IDs. applyModalAction branches on menus.ModalID to know which
// prompt the confirm belongs to.
const (
	modalNewNote   = "new-note"
	modalNewFolder = "new-folder"
	modalRename    = "rename"
	modalMove      = "move"
	modalAddTag    = "add-tag"
	modalSetIcon   = "set-icon"
	modalDelete    = "delete"
)

// openInputModal shows a single-field prompt. The shared promptInput
// carries the text; promptTarget remembers what the prompt acts on.
func (m *Model) openInputModal(id, title, label, initial string, target noderef.Ref) tea.Cmd {
	m.promptTarget = target
	m.promptInput.SetValue(initial)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()

	mod := menu.New(title,
		menu.WithWidth(ui.ModalWidthMedium),
		menu.WithPrimaryAction("confirm"),
		menu.WithHints(false),
	).
		AddSection(menu.InputWithLabel("input", label, &m.promptInput)).
		AddSection(menu.Spacer()).
		AddSection(menu.Buttons(
			menu.Btn(" OK ", "confirm", menu.BtnPrimary()),
			menu.Btn(" Cancel ", "cancel"),
		))
	m.menus.OpenModal(mod, id)
	return textinput.Blink
}

func (m *Model) closePrompt() {
	m.menus.HideActive()
	m.promptInput.Blur()
	m.promptInput.SetValue("")
	m.promptTarget = noderef.Ref{}
}

// contextFolder is where create operations land: the selected folder,
// the parent of the cursor file, or the root.
func (m *Model) contextFolder() string {
	if m.selected.Kind == noderef.KindFolder {
		return m.selected.Path
	}
	if p := m.selectedFilePath(); p != "" {
		if f := m.vault.FileByPath(p); f != nil && f.Parent != nil {
			return f.Parent.Path
		}
	}
	return vault.RootPath
}

func (m *Model) openNewNotePrompt(folderPath string) tea.Cmd {
	return m.openInputModal(modalNewNote, "New note", "Name", "", noderef.Folder(folderPath))
}

func (m *Model) openNewFolderPrompt(parentPath string) tea.Cmd {
	return m.openInputModal(modalNewFolder, "New folder", "Name", "", noderef.Folder(parentPath))
}

func (m *Model) openRenamePrompt(target noderef.Ref) tea.Cmd {
	initial := ""
	switch target.Kind {
	case noderef.KindFolder:
		if target.Path == vault.RootPath {
			return nil
		}
		if f := m.vault.FolderByPath(target.Path); f != nil {
			initial = f.Name
		}
	case noderef.KindFile:
		if f := m.vault.FileByPath(target.Path); f != nil {
			initial = f.Name
		}
	default:
		return nil
	}
	return m.openInputModal(modalRename, "Rename", "New name", initial, target)
}

func (m *Model) openMovePrompt(target noderef.Ref) tea.Cmd {
	return m.openInputModal(modalMove, "Move to", "Destination folder", "", target)
}

func (m *Model) openAddTagPrompt(target noderef.Ref) tea.Cmd {
	return m.openInputModal(modalAddTag, "Add tag", "Tag", "", target)
}

func (m *Model) openSetIconPrompt(target noderef.Ref) tea.Cmd {
	return m.openInputModal(modalSetIcon, "Change icon", "Icon (empty resets)", m.meta.Icon(target), target)
}

func (m *Model) openDeletePrompt(target noderef.Ref) {
	m.promptTarget = target
	label := target.Path
	if target.Kind == noderef.KindFolder {
		if f := m.vault.FolderByPath(target.Path); f != nil {
			label = f.Name
		}
		if target.Path == vault.RootPath {
			return
		}
	}
	d := ui.NewConfirmDialog("Delete", fmt.Sprintf("Delete %q? This cannot be undone.", label))
	d.ConfirmLabel = " Delete "
	d.BorderColor = styles.Error
	m.menus.OpenModal(d.ToModal(), modalDelete)
}

// applyModalAction routes an action ID from the active modal. Returns
// a command for prompts that trigger follow-up work.
func (m *Model) applyModalAction(action string) tea.Cmd {
	if action == "" {
		return nil
	}
	if action == "cancel" {
		m.closePrompt()
		return nil
	}

	id := m.menus.ModalID()
	target := m.promptTarget
	value := strings.TrimSpace(m.promptInput.Value())
	m.closePrompt()

	switch id {
	case modalNewNote:
		path, err := m.ops.CreateNote(target.Path, value)
		if err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpCreate, Path: path})
		m.revealFile(path)
		m.showToast("Created "+path, false)

	case modalNewFolder:
		path, err := m.ops.CreateFolder(target.Path, value)
		if err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpCreate, Path: path})
		m.revealRef(noderef.Folder(path))
		m.showToast("Created "+path, false)

	case modalRename:
		newPath, err := m.ops.Rename(target.Path, value)
		if err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpRename, Path: newPath, OldPath: target.Path})
		if target.Kind == noderef.KindFolder {
			m.revealRef(noderef.Folder(newPath))
		} else {
			m.revealFile(newPath)
		}
		m.showToast("Renamed to "+value, false)

	case modalMove:
		dest := strings.Trim(value, "/ ")
		if dest == "" {
			dest = vault.RootPath
		}
		if m.vault.FolderByPath(dest) == nil {
			m.showToast("No such folder: "+dest, true)
			return nil
		}
		newPath, err := m.ops.Move(target.Path, dest)
		if err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpRename, Path: newPath, OldPath: target.Path})
		if target.Kind == noderef.KindFolder {
			m.revealRef(noderef.Folder(newPath))
		} else {
			m.revealFile(newPath)
		}
		m.showToast("Moved to "+dest, false)

	case modalAddTag:
		if err := m.ops.AddTag(target.Path, value); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpWrite, Path: target.Path})
		m.showToast("Tagged #"+strings.TrimPrefix(value, "#"), false)

	case modalSetIcon:
		if err := m.meta.SetIcon(target, value); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.treeDirty = true
		m.listDirty = true

	case modalDelete:
		return m.deleteTarget(target)
	}
	return nil
}

// deleteTarget removes a file or folder and repairs the selection when
// it pointed inside the deleted subtree.
func (m *Model) deleteTarget(target noderef.Ref) tea.Cmd {
	if err := m.ops.Delete(target.Path); err != nil {
		m.showToast(err.Error(), true)
		return nil
	}
	if target.Kind == noderef.KindFolder {
		if m.selected.Kind == noderef.KindFolder &&
			(m.selected.Path == target.Path || strings.HasPrefix(m.selected.Path, target.Path+"/")) {
			m.setSelected(noderef.Folder(parentOf(target.Path)))
		}
	}
	m.handleVaultEvent(vault.Event{Op: vault.OpRemove, Path: target.Path})
	m.showToast("Deleted "+target.Path, false)
	return nil
}

func parentOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return vault.RootPath
}

// pinContext maps the active selection to the pin namespace pins are
// stored under.
func (m *Model) pinContext() meta.PinContext {
	if m.selected.Kind == noderef.KindFolder {
		return meta.PinFolder
	}
	return meta.PinTag
}

// accentName reverse-maps a stored hex color to its palette name for
// the menu's checked state.
func accentName(hex string) string {
	if hex == "" {
		return ""
	}
	for _, name := range styles.ItemAccentNames {
		if strings.EqualFold(styles.ItemAccent(name), hex) {
			return name
		}
	}
	return ""
}

// openContextMenu builds and shows the menu for ref at screen (x, y).
// A zero ref opens the empty-area menu.
func (m *Model) openContextMenu(ref noderef.Ref, x, y int) {
	cfg := menu.Config{Ref: ref}

	switch ref.Kind {
	case noderef.KindFolder:
		cfg.Kind = menu.TargetFolder
		cfg.Flags = menu.Flags{
			HasShortcut:  m.meta.HasShortcut(ref),
			IsRoot:       ref.Path == vault.RootPath,
			Color:        accentName(m.meta.Color(ref)),
			SortOverride: m.meta.SortOverride(ref),
		}
		if f := m.vault.FolderByPath(ref.Path); f != nil {
			cfg.Flags.HasChildren = len(f.Subfolders) > 0
			cfg.Flags.FolderNotePath = rowmodel.FolderNote(f)
		}

	case noderef.KindTag:
		cfg.Kind = menu.TargetTag
		cfg.Flags = menu.Flags{
			HasShortcut: m.meta.HasShortcut(ref),
			Hidden:      m.meta.IsHidden(ref),
			Color:       accentName(m.meta.Color(ref)),
		}
		m.projections()
		if node := m.tagTree.Find(ref); node != nil {
			cfg.Flags.HasChildren = node.HasChildren()
		}

	case noderef.KindFile:
		cfg.Kind = menu.TargetFile
		f := m.vault.FileByPath(ref.Path)
		cfg.Flags = menu.Flags{
			Pinned:      m.meta.IsPinned(m.pinContext(), ref),
			HasShortcut: m.meta.HasShortcut(ref),
			IsMarkdown:  f != nil && f.IsNote(),
			Color:       accentName(m.meta.Color(ref)),
		}

	case noderef.KindPropertyKey, noderef.KindPropertyValue:
		cfg.Kind = menu.TargetProperty
		cfg.Flags = menu.Flags{
			HasShortcut: m.meta.HasShortcut(ref),
			Color:       accentName(m.meta.Color(ref)),
		}

	default:
		cfg.Kind = menu.TargetEmptyArea
		cfg.Flags = menu.Flags{CanPaste: m.copiedPath != ""}
	}

	env := menu.Env{SelectionCount: 1, DefaultSort: m.cfg.List.DefaultSort}
	m.menus.OpenMenu(menu.Build(cfg, env, x, y), ref)
}

// dispatchMenuItem executes a context-menu choice against its target.
// The caller has already closed the menu.
func (m *Model) dispatchMenuItem(id string, target noderef.Ref) tea.Cmd {
	switch {
	case strings.HasPrefix(id, "color:"):
		name := strings.TrimPrefix(id, "color:")
		hex := ""
		if name != "default" {
			hex = styles.ItemAccent(name)
		}
		if err := m.meta.SetColor(target, hex); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.palette.Reset()
		m.treeDirty = true
		m.listDirty = true
		return nil

	case strings.HasPrefix(id, "sort:"):
		order := strings.TrimPrefix(id, "sort:")
		if order == "default" {
			order = ""
		}
		if target.Kind == noderef.KindFolder {
			if err := m.meta.SetSortOverride(target, order); err != nil {
				m.showToast(err.Error(), true)
				return nil
			}
		} else if order != "" {
			m.sortChoice = order
		}
		m.treeDirty = true
		m.listDirty = true
		return nil
	}

	switch id {
	case "preview":
		return m.openPreview(target.Path)
	case "open-editor":
		return m.openEditorCmd(target.Path)
	case "pin", "unpin":
		if err := m.meta.TogglePin(m.pinContext(), target); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.listDirty = true
	case "add-shortcut":
		if err := m.meta.AddShortcut(target); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.treeDirty = true
		m.showToast("Added to shortcuts", false)
	case "remove-shortcut":
		if err := m.meta.RemoveShortcut(target); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.treeDirty = true
	case "add-tag":
		return m.openAddTagPrompt(target)
	case "set-icon":
		return m.openSetIconPrompt(target)
	case "copy-path":
		return m.copyPath(target)
	case "copy-link":
		return m.copyWikilink(target)
	case "rename":
		return m.openRenamePrompt(target)
	case "duplicate":
		path, err := m.ops.Duplicate(target.Path)
		if err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpCreate, Path: path})
		m.revealFile(path)
	case "move":
		return m.openMovePrompt(target)
	case "delete":
		m.openDeletePrompt(target)
	case "new-note":
		return m.openNewNotePrompt(m.menuFolder(target))
	case "new-folder":
		return m.openNewFolderPrompt(m.menuFolder(target))
	case "pin-folder-note":
		if f := m.vault.FolderByPath(target.Path); f != nil {
			if note := rowmodel.FolderNote(f); note != "" {
				ref := noderef.File(note)
				if !m.meta.IsPinned(meta.PinFolder, ref) {
					if err := m.meta.TogglePin(meta.PinFolder, ref); err != nil {
						m.showToast(err.Error(), true)
						return nil
					}
				}
				m.listDirty = true
			}
		}
	case "expand-all":
		m.setSubtreeOpen(target, true)
	case "collapse-all":
		m.setSubtreeOpen(target, false)
	case "hide":
		if err := m.meta.SetHidden(target, true); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.treeDirty = true
		m.listDirty = true
	case "unhide":
		if err := m.meta.SetHidden(target, false); err != nil {
			m.showToast(err.Error(), true)
			return nil
		}
		m.treeDirty = true
		m.listDirty = true
	case "paste":
		m.pasteInto(m.menuFolder(target))
	}
	return nil
}

// menuFolder resolves the folder a menu's create or paste action lands
// in: the target folder itself, or the selection context otherwise.
func (m *Model) menuFolder(target noderef.Ref) string {
	if target.Kind == noderef.KindFolder {
		return target.Path
	}
	return m.contextFolder()
}

func (m *Model) copyPath(target noderef.Ref) tea.Cmd {
	abs := m.vault.Abs(target.Path)
	if err := clipboard.WriteAll(abs); err != nil {
		return msg.ShowError("copy path", err)
	}
	if target.Kind == noderef.KindFile {
		m.copiedPath = target.Path
	}
	return msg.ShowToast("Copied path", 2*time.Second)
}

func (m *Model) copyWikilink(target noderef.Ref) tea.Cmd {
	f := m.vault.FileByPath(target.Path)
	if f == nil {
		return nil
	}
	if err := clipboard.WriteAll("[[" + f.Base + "]]"); err != nil {
		return msg.ShowError("copy link", err)
	}
	return msg.ShowToast("Copied wikilink", 2*time.Second)
}

// pasteInto copies the remembered file into a folder: duplicate next to
// the source, then move the copy when the destination differs.
func (m *Model) pasteInto(folderPath string) {
	if m.copiedPath == "" {
		return
	}
	path, err := m.ops.Duplicate(m.copiedPath)
	if err != nil {
		m.showToast(err.Error(), true)
		return
	}
	m.handleVaultEvent(vault.Event{Op: vault.OpCreate, Path: path})
	if parentOf(path) != folderPath {
		moved, err := m.ops.Move(path, folderPath)
		if err != nil {
			m.showToast(err.Error(), true)
			return
		}
		m.handleVaultEvent(vault.Event{Op: vault.OpRename, Path: moved, OldPath: path})
		path = moved
	}
	m.revealFile(path)
	m.showToast("Pasted "+path, false)
}

// setSubtreeOpen expands or collapses everything under a tree node.
func (m *Model) setSubtreeOpen(ref noderef.Ref, open bool) {
	switch ref.Kind {
	case noderef.KindFolder:
		if f := m.vault.FolderByPath(ref.Path); f != nil {
			m.openFolderSubtree(f, open)
		}
	case noderef.KindTag, noderef.KindPropertyKey:
		m.projections()
		tree := m.tagTree
		if ref.Kind == noderef.KindPropertyKey {
			tree = m.propTree
		}
		if node := tree.Find(ref); node != nil {
			m.openNodeSubtree(node, open)
		}
	}
	if !open && ref.Path == vault.RootPath {
		m.expansion.SetOpen(ref, true)
	}
	m.treeDirty = true
}

func (m *Model) openFolderSubtree(f *vault.Folder, open bool) {
	m.expansion.SetOpen(noderef.Folder(f.Path), open)
	for _, sub := range f.Subfolders {
		m.openFolderSubtree(sub, open)
	}
}

func (m *Model) openNodeSubtree(node *treemodel.Node, open bool) {
	m.expansion.SetOpen(node.Ref, open)
	for _, child := range node.Children {
		m.openNodeSubtree(child, open)
	}
}
