package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ops performs disk mutations for the navigator. Every method validates
// that target paths stay inside the vault before touching the filesystem.
// Results come back through the watcher, never by mutating the tree here.
type Ops struct {
	vault *Vault
}

// NewOps returns the mutation service for a vault.
func NewOps(v *Vault) *Ops {
	return &Ops{vault: v}
}

// validateName rejects names that cannot exist on common filesystems.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid name")
	}
	for _, r := range name {
		if r == 0 || (r < 32 && r != '\t') {
			return fmt.Errorf("name contains invalid characters")
		}
	}
	for _, c := range []rune{'<', '>', ':', '"', '|', '?', '*', '/', '\\'} {
		if strings.ContainsRune(name, c) {
			return fmt.Errorf("name contains invalid character: %c", c)
		}
	}
	return nil
}

// validateInside ensures an absolute path stays inside the vault.
func (o *Ops) validateInside(abs string) error {
	if _, ok := o.vault.Rel(abs); !ok {
		return fmt.Errorf("path escapes the vault")
	}
	return nil
}

// uniquePath appends " 1", " 2", ... before the extension until the path is
// free.
func uniquePath(abs string) (string, error) {
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return abs, nil
	}
	ext := filepath.Ext(abs)
	stem := strings.TrimSuffix(abs, ext)
	for i := 1; i <= 200; i++ {
		candidate := fmt.Sprintf("%s %d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s", filepath.Base(abs))
}

// CreateNote creates an empty Markdown note in a folder, uniquifying the
// name on collision. Returns the vault-relative path.
func (o *Ops) CreateNote(folderPath, name string) (string, error) {
	if name == "" {
		name = "Untitled"
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		name += ".md"
	}

	abs := filepath.Join(o.vault.Abs(folderPath), name)
	if err := o.validateInside(abs); err != nil {
		return "", err
	}
	abs, err := uniquePath(abs)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("create parent: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	rel, _ := o.vault.Rel(abs)
	return rel, nil
}

// CreateFolder creates a subfolder. Returns the vault-relative path.
func (o *Ops) CreateFolder(parentPath, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	abs := filepath.Join(o.vault.Abs(parentPath), name)
	if err := o.validateInside(abs); err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err == nil {
		return "", fmt.Errorf("already exists: %s", name)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	rel, _ := o.vault.Rel(abs)
	return rel, nil
}

// Rename gives a file or folder a new name in its current directory.
// Case-only renames go through a temp name for case-insensitive
// filesystems.
func (o *Ops) Rename(path, newName string) (string, error) {
	if err := validateName(newName); err != nil {
		return "", err
	}
	if path == RootPath {
		return "", fmt.Errorf("cannot rename the vault root")
	}

	src := o.vault.Abs(path)
	dst := filepath.Join(filepath.Dir(src), newName)
	if err := o.validateInside(dst); err != nil {
		return "", err
	}
	if src == dst {
		rel, _ := o.vault.Rel(dst)
		return rel, nil
	}

	if strings.EqualFold(src, dst) {
		tmp := src + ".rename-tmp"
		if err := os.Rename(src, tmp); err != nil {
			return "", fmt.Errorf("rename: %w", err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.Rename(tmp, src)
			return "", fmt.Errorf("rename: %w", err)
		}
	} else {
		if _, err := os.Stat(dst); err == nil {
			return "", fmt.Errorf("already exists: %s", newName)
		}
		if err := os.Rename(src, dst); err != nil {
			return "", fmt.Errorf("rename: %w", err)
		}
	}
	rel, _ := o.vault.Rel(dst)
	return rel, nil
}

// Move relocates a file or folder into a destination folder, keeping its
// name. Returns the new vault-relative path.
func (o *Ops) Move(path, destFolder string) (string, error) {
	if path == RootPath {
		return "", fmt.Errorf("cannot move the vault root")
	}
	src := o.vault.Abs(path)
	dst := filepath.Join(o.vault.Abs(destFolder), baseName(path))
	if err := o.validateInside(dst); err != nil {
		return "", err
	}
	if src == dst {
		return path, nil
	}
	if strings.HasPrefix(dst, src+string(filepath.Separator)) {
		return "", fmt.Errorf("cannot move a folder into itself")
	}
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("already exists in %s: %s", destFolder, baseName(path))
	}
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("move: %w", err)
	}
	rel, _ := o.vault.Rel(dst)
	return rel, nil
}

// Delete removes a file or folder subtree. The vault root is protected.
func (o *Ops) Delete(path string) error {
	if path == RootPath || path == "" {
		return fmt.Errorf("cannot delete the vault root")
	}
	abs := o.vault.Abs(path)
	if err := o.validateInside(abs); err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Duplicate copies a file next to itself with a uniquified name. Returns
// the new vault-relative path.
func (o *Ops) Duplicate(path string) (string, error) {
	src := o.vault.Abs(path)
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("duplicate: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot duplicate a folder")
	}

	ext := filepath.Ext(src)
	dst, err := uniquePath(strings.TrimSuffix(src, ext) + " copy" + ext)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("duplicate: %w", err)
	}
	if err := os.WriteFile(dst, data, info.Mode()); err != nil {
		return "", fmt.Errorf("duplicate: %w", err)
	}
	rel, _ := o.vault.Rel(dst)
	return rel, nil
}

// AddTag inserts a tag into a note's frontmatter tags list, creating the
// frontmatter block when missing. Already-tagged notes are left untouched.
func (o *Ops) AddTag(path, tag string) error {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return fmt.Errorf("empty tag")
	}
	abs := o.vault.Abs(path)
	if err := o.validateInside(abs); err != nil {
		return err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}

	updated, changed, err := addTagToContent(string(data), tag)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat note: %w", err)
	}
	if err := os.WriteFile(abs, []byte(updated), info.Mode()); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}

// addTagToContent rewrites the frontmatter block with the tag appended to
// the tags sequence. Yaml round-trips through a node tree so key order is
// preserved.
func addTagToContent(content, tag string) (string, bool, error) {
	fmRaw, body, hasFM := splitFrontmatterBlock(content)
	if !hasFM {
		block := fmt.Sprintf("---\ntags:\n  - %s\n---\n", tag)
		return block + content, true, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fmRaw), &doc); err != nil {
		return "", false, fmt.Errorf("parse frontmatter: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return "", false, fmt.Errorf("frontmatter is not a mapping")
	}
	mapping := doc.Content[0]

	tagNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag}
	var seq *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if k := mapping.Content[i].Value; k == "tags" || k == "tag" {
			val := mapping.Content[i+1]
			switch val.Kind {
			case yaml.SequenceNode:
				seq = val
			case yaml.ScalarNode:
				if val.Tag == "!!null" {
					// Bare "tags:" key: turn it into a sequence.
					*val = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
					seq = val
				} else {
					existing := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val.Value}
					*val = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{existing}}
					seq = val
				}
			}
			break
		}
	}
	if seq == nil {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "tags"},
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{tagNode}},
		)
	} else {
		for _, existing := range seq.Content {
			if strings.TrimPrefix(existing.Value, "#") == tag {
				return "", false, nil
			}
		}
		seq.Content = append(seq.Content, tagNode)
	}

	out, err := yaml.Marshal(mapping)
	if err != nil {
		return "", false, fmt.Errorf("render frontmatter: %w", err)
	}
	return "---\n" + string(out) + "---\n" + body, true, nil
}

// splitFrontmatterBlock mirrors the parser's frontmatter split.
func splitFrontmatterBlock(content string) (fm, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") {
		return "", content, false
	}
	rest := strings.TrimPrefix(content, "---\n")
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[:i], rest[i+5:], true
	}
	if strings.HasSuffix(rest, "\n---") {
		return strings.TrimSuffix(rest, "\n---"), "", true
	}
	return "", content, false
}
