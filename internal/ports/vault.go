package ports

// EntryKind distinguishes files from folders in vault listings. The vault
// boundary returns typed entries so callers never have to probe for the
// presence of children.
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryFolder
)

// Entry is one vault path with its kind. Paths use "/" separators and are
// relative to the vault root.
type Entry struct {
	Path string
	Kind EntryKind
}

// VaultRepository defines the interface for local vault storage. Listings
// and existence checks are re-queried fresh per sync pass; nothing is
// cached across passes.
type VaultRepository interface {
	// Read returns the content of the file at path.
	Read(path string) (string, error)

	// Create writes a new file, creating parent folders as needed. It
	// fails if the file already exists.
	Create(path, content string) error

	// Modify overwrites the content of an existing file.
	Modify(path, content string) error

	// CreateFolder creates a folder (and parents). Idempotent.
	CreateFolder(path string) error

	// Exists reports whether a file or folder exists at path.
	Exists(path string) (bool, error)

	// List returns every entry in the vault, files and folders, in a
	// stable lexical order.
	List() ([]Entry, error)
}
