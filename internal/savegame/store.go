// Package savegame reads and edits uploaded save archives. A save is a
// complete SQLite database image; the adapter exposes only the queries the
// deposit and editing features need, never a general SQL surface.
package savegame

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
)

// Store wraps one opened save archive. Each Store owns a private temp file
// holding the uploaded image and removes it on Close. A Store serves a single
// validation or editing pass and is not safe for concurrent use; concurrent
// pipeline runs each open their own Store.
type Store struct {
	conn *sql.DB
	path string
}

// Open spools data to a temp file and opens it as a SQLite database.
// A buffer that is not a well-formed database image yields ErrCorruptStore.
func Open(data []byte) (*Store, error) {
	f, err := os.CreateTemp("", "savegame-*.db")
	if err != nil {
		return nil, fmt.Errorf("savegame: create temp: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("savegame: spool upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("savegame: close temp: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("savegame: open db: %w", err)
	}
	s := &Store{conn: conn, path: path}

	// sql.Open is lazy; reading the schema both connects and verifies that
	// the upload really is a database image.
	var n int
	if err := conn.QueryRow(`SELECT count(*) FROM sqlite_master`).Scan(&n); err != nil {
		s.Close()
		return nil, fmt.Errorf("savegame: verify image: %v: %w", err, apperr.ErrCorruptStore)
	}

	return s, nil
}

// Close releases the connection and removes the spooled temp file. It is
// safe on every exit path, including mid-decode failures.
func (s *Store) Close() error {
	err := s.conn.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}

// Export returns the current database image, including any edits made
// through the mutating accessors.
func (s *Store) Export() ([]byte, error) {
	// Flush any journal state so the file on disk is the whole image.
	if _, err := s.conn.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return nil, fmt.Errorf("savegame: checkpoint: %w", err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("savegame: export: %w", err)
	}
	return data, nil
}

// exec runs a mutation and enforces the rows-changed contract: zero changed
// rows is ErrRecordNotFound, never silently ignored.
func (s *Store) exec(what, query string, args ...any) (int64, error) {
	res, err := s.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("savegame: %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("savegame: %s: rows affected: %w", what, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("savegame: %s: %w", what, apperr.ErrRecordNotFound)
	}
	return n, nil
}
