// Package history records settled sessions in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var _ ports.SessionHistory = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	settled_at   INTEGER NOT NULL, -- unix nanoseconds
	fingerprint  TEXT NOT NULL,
	path_count   INTEGER NOT NULL,
	rename_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS paths (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	path       TEXT NOT NULL,
	PRIMARY KEY (session_id, path)
);
CREATE TABLE IF NOT EXISTS renames (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	new_path   TEXT NOT NULL,
	old_path   TEXT NOT NULL,
	PRIMARY KEY (session_id, new_path)
);
CREATE INDEX IF NOT EXISTS sessions_settled_at ON sessions(settled_at);
`

// Store implements ports.SessionHistory. The database is opened on first use.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewStore creates a store backed by the database file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return nil, errors.Join(domain.ErrHistoryOpenFailed, zerr.With(err, "path", s.path))
	}

	dsn := "file:" + s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Join(domain.ErrHistoryOpenFailed, zerr.With(err, "path", s.path))
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Join(domain.ErrHistoryOpenFailed, zerr.With(err, "path", s.path))
	}

	s.db = db
	return db, nil
}

// Score records one settled session, including empty ones.
func (s *Store) Score(ctx context.Context, changes domain.ChangeSet) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(domain.ErrHistoryWriteFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, settled_at, fingerprint, path_count, rename_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		changes.SessionID,
		changes.SettledAt.UnixNano(),
		strconv.FormatUint(changes.Fingerprint, 16),
		len(changes.Paths),
		len(changes.RenameOrigins),
	)
	if err != nil {
		return errors.Join(domain.ErrHistoryWriteFailed, zerr.With(err, "session", changes.SessionID))
	}

	for _, path := range changes.Paths {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO paths (session_id, path) VALUES (?, ?)`,
			changes.SessionID, path,
		); err != nil {
			return errors.Join(domain.ErrHistoryWriteFailed, zerr.With(err, "session", changes.SessionID))
		}
	}

	for newPath, oldPath := range changes.RenameOrigins {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO renames (session_id, new_path, old_path) VALUES (?, ?, ?)`,
			changes.SessionID, newPath, oldPath,
		); err != nil {
			return errors.Join(domain.ErrHistoryWriteFailed, zerr.With(err, "session", changes.SessionID))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(domain.ErrHistoryWriteFailed, zerr.With(err, "session", changes.SessionID))
	}
	return nil
}

// Recent returns up to limit sessions, newest first. A non-positive limit returns all of them.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, settled_at, fingerprint FROM sessions
		ORDER BY settled_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var settledAt int64
		var fingerprint string
		if err := rows.Scan(&entry.SessionID, &settledAt, &fingerprint); err != nil {
			_ = rows.Close()
			return nil, errors.Join(domain.ErrHistoryReadFailed, err)
		}
		entry.SettledAt = time.Unix(0, settledAt).UTC()
		if fp, err := strconv.ParseUint(fingerprint, 16, 64); err == nil {
			entry.Fingerprint = fp
		}
		entries = append(entries, entry)
	}
	if err := rows.Close(); err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}

	for i := range entries {
		if err := s.fill(ctx, db, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// fill loads the paths and renames of one entry.
func (s *Store) fill(ctx context.Context, db *sql.DB, entry *domain.HistoryEntry) error {
	paths, err := queryPaths(ctx, db, entry.SessionID)
	if err != nil {
		return err
	}
	entry.Paths = paths

	renames, err := queryRenames(ctx, db, entry.SessionID)
	if err != nil {
		return err
	}
	entry.Renames = renames
	return nil
}

func queryPaths(ctx context.Context, db *sql.DB, sessionID string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT path FROM paths WHERE session_id = ? ORDER BY path`, sessionID)
	if err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, errors.Join(domain.ErrHistoryReadFailed, err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}
	return paths, nil
}

func queryRenames(ctx context.Context, db *sql.DB, sessionID string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT new_path, old_path FROM renames WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}
	defer func() { _ = rows.Close() }()

	var renames map[string]string
	for rows.Next() {
		var newPath, oldPath string
		if err := rows.Scan(&newPath, &oldPath); err != nil {
			return nil, errors.Join(domain.ErrHistoryReadFailed, err)
		}
		if renames == nil {
			renames = make(map[string]string)
		}
		renames[newPath] = oldPath
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(domain.ErrHistoryReadFailed, err)
	}
	return renames, nil
}

// Close closes the database if it was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
