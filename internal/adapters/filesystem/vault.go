package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"docbridge/internal/ports"
)

// Vault implements ports.VaultRepository on top of a local directory.
// All paths are vault-relative with "/" separators.
type Vault struct {
	root string
}

// Ensure Vault implements VaultRepository
var _ ports.VaultRepository = (*Vault)(nil)

// New creates a vault rooted at root. A leading ~ is expanded to the
// user's home directory.
func New(root string) *Vault {
	if strings.HasPrefix(root, "~") {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, root[1:])
	}
	return &Vault{root: root}
}

// Root returns the absolute vault root.
func (v *Vault) Root() string {
	return v.root
}

func (v *Vault) abs(path string) string {
	return filepath.Join(v.root, filepath.FromSlash(path))
}

// Read returns the content of the file at path.
func (v *Vault) Read(path string) (string, error) {
	data, err := os.ReadFile(v.abs(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Create writes a new file, creating parent folders as needed. Fails if
// the file already exists.
func (v *Vault) Create(path, content string) error {
	full := v.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create parent folders for %s: %w", path, err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Modify overwrites an existing file.
func (v *Vault) Modify(path, content string) error {
	full := v.abs(path)
	if _, err := os.Stat(full); err != nil {
		return fmt.Errorf("cannot modify %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CreateFolder creates a folder and any missing parents. Idempotent.
func (v *Vault) CreateFolder(path string) error {
	if err := os.MkdirAll(v.abs(path), 0755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a file or folder exists at path.
func (v *Vault) Exists(path string) (bool, error) {
	_, err := os.Stat(v.abs(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// List walks the vault and returns every file and folder below the root,
// skipping hidden directories (.obsidian and friends). WalkDir yields a
// stable lexical order.
func (v *Vault) List() ([]ports.Entry, error) {
	var entries []ports.Entry
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if path == v.root {
			return nil
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return nil
		}
		kind := ports.EntryFile
		if d.IsDir() {
			kind = ports.EntryFolder
		}
		entries = append(entries, ports.Entry{Path: filepath.ToSlash(rel), Kind: kind})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vault: %w", err)
	}
	return entries, nil
}
