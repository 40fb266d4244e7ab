// Package sqlite persists the identity mapping in a per-vault SQLite
// database.
package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"docbridge/internal/domain"
	"docbridge/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.MappingStore using SQLite. Every Set and Delete
// is durable on return, so an interrupted run leaves a consistent (if
// incomplete) mapping, never a corrupt one.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements MappingStore
var _ ports.MappingStore = (*Store)(nil)

// Open opens (or creates) the mapping database for a vault. The file
// lives under the XDG data directory, keyed by a hash of the vault path
// so distinct vaults never share mappings.
func Open(vaultPath string) (*Store, error) {
	s := &Store{dbPath: databasePath(vaultPath)}

	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Pragmas + schema in a single batch
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS mappings (
			key TEXT PRIMARY KEY,
			page_id TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the recorded page id for (docID, path).
func (s *Store) Get(docID, path string) (string, bool) {
	var pageID string
	err := s.db.QueryRow(
		`SELECT page_id FROM mappings WHERE key = ?`,
		domain.MappingKey(docID, path),
	).Scan(&pageID)
	if err != nil {
		return "", false
	}
	return pageID, true
}

// Set records or overwrites the page id for (docID, path).
func (s *Store) Set(docID, path, pageID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO mappings (key, page_id) VALUES (?, ?)`,
		domain.MappingKey(docID, path), pageID,
	)
	if err != nil {
		return fmt.Errorf("failed to store mapping: %w", err)
	}
	return nil
}

// Delete removes the entry for (docID, path). No-op if absent.
func (s *Store) Delete(docID, path string) error {
	_, err := s.db.Exec(
		`DELETE FROM mappings WHERE key = ?`,
		domain.MappingKey(docID, path),
	)
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}
	return nil
}

// GarbageCollect scans every key and removes entries that fail to parse,
// whose path no longer exists locally, or whose doc id is no longer a
// configured target.
func (s *Store) GarbageCollect(existingPaths map[string]bool, validDocIDs map[string]bool) (int, error) {
	rows, err := s.db.Query(`SELECT key FROM mappings`)
	if err != nil {
		return 0, fmt.Errorf("failed to scan mappings: %w", err)
	}
	var stale []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return 0, err
		}
		docID, path, ok := domain.ParseMappingKey(key)
		if !ok || !existingPaths[path] || !validDocIDs[docID] {
			stale = append(stale, key)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(stale) == 0 {
		return 0, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	for _, key := range stale {
		if _, err := tx.Exec(`DELETE FROM mappings WHERE key = ?`, key); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to remove stale mapping: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// databasePath returns the SQLite file path for a vault.
func databasePath(vaultPath string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	h := sha256.Sum256([]byte(vaultPath))
	return filepath.Join(dataHome, "docbridge", hex.EncodeToString(h[:8])+".db")
}
