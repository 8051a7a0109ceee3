// Package sqlite persists OAuth credentials in a local database under the
// user's home directory.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure-Go sqlite driver.
	_ "modernc.org/sqlite"
)

const defaultDBFile = "oof.db"

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	account       TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	expiry        TIMESTAMP NOT NULL,
	scopes        TEXT NOT NULL DEFAULT '',
	updated_at    TIMESTAMP NOT NULL
);
`

// Store owns the database handle. Sub-stores share it.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) the database at path. An empty path uses
// ~/.oof/oof.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".oof")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		path = filepath.Join(dir, defaultDBFile)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The CLI is single-user; one connection avoids sqlite write contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CredentialStore returns the credential sub-store.
func (s *Store) CredentialStore() *CredentialStore {
	return &CredentialStore{db: s.db}
}
