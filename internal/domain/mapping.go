package domain

import "strings"

// mappingKeySep joins a doc id and a vault path into one mapping key. The
// sentinel must never appear in a valid doc id or path component.
const mappingKeySep = ":::"

// MappingKey builds the persisted identity-mapping key for a file within
// a remote doc.
func MappingKey(docID, path string) string {
	return docID + mappingKeySep + path
}

// ParseMappingKey splits a mapping key back into its doc id and vault
// path. A key must contain exactly one separator occurrence; anything
// else is corrupt and reported with ok=false so garbage collection can
// drop it.
func ParseMappingKey(key string) (docID, path string, ok bool) {
	if strings.Count(key, mappingKeySep) != 1 {
		return "", "", false
	}
	parts := strings.SplitN(key, mappingKeySep, 2)
	return parts[0], parts[1], true
}
