package domain

import "strings"

// SyncTarget is one configured correspondence between a vault folder
// subtree and a remote doc. Read-only to the engine during a sync pass.
type SyncTarget struct {
	DocID        string
	Folder       string // vault-relative folder, "" means vault root
	ParentPageID string // optional default parent for created pages
}

// Actionable reports whether the target can be synced at all. Targets
// with an empty doc id are skipped, not treated as errors.
func (t SyncTarget) Actionable() bool {
	return t.DocID != ""
}

// NormalizedFolder returns the folder prefix with a trailing slash, or ""
// for a vault-root target.
func (t SyncTarget) NormalizedFolder() string {
	f := strings.Trim(t.Folder, "/")
	if f == "" {
		return ""
	}
	return f + "/"
}

// Contains reports whether a vault path falls under this target's folder.
// A vault-root target contains everything.
func (t SyncTarget) Contains(path string) bool {
	prefix := t.NormalizedFolder()
	return prefix == "" || strings.HasPrefix(path, prefix)
}

// RelativeSegments returns the directory components of path below the
// target folder, excluding the file name itself. For a file at
// "work/a/b/c.md" under folder "work" this is ["a", "b"].
func (t SyncTarget) RelativeSegments(path string) []string {
	rel := strings.TrimPrefix(path, t.NormalizedFolder())
	parts := strings.Split(rel, "/")
	if len(parts) <= 1 {
		return nil
	}
	segments := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
