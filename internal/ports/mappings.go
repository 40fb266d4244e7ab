package ports

// MappingStore persists the identity mapping (docID, vault path) → remote
// page id. It is the source of truth for "this file already corresponds
// to this page" and must be consulted before any name-based fallback.
//
// Set and Delete are durable on return: a crash between files leaves a
// consistent, if incomplete, mapping.
type MappingStore interface {
	// Get returns the recorded page id for (docID, path).
	Get(docID, path string) (string, bool)

	// Set records or overwrites the page id for (docID, path).
	Set(docID, path, pageID string) error

	// Delete removes the entry for (docID, path). No-op if absent.
	Delete(docID, path string) error

	// GarbageCollect removes every entry whose key fails to parse, whose
	// path is not in existingPaths, or whose doc id is not in validDocIDs.
	// Returns the number of entries removed.
	GarbageCollect(existingPaths map[string]bool, validDocIDs map[string]bool) (int, error)
}
