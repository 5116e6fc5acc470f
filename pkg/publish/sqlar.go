package publish

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// sqlarSchema is the table layout the sqlite3 CLI uses for "-A" archives.
const sqlarSchema = `
CREATE TABLE IF NOT EXISTS sqlar (
	name TEXT PRIMARY KEY,
	mode INT,
	mtime INT,
	sz INT,
	data BLOB
);`

// sqlarFileMode is a regular file with 0644 permissions.
const sqlarFileMode = 0o100644

// SQLiteArchiveSink stores files in an SQLite Archive. Content is stored
// uncompressed (sz equals the blob length).
type SQLiteArchiveSink struct {
	db    *sql.DB
	mtime int64

	mu   sync.Mutex
	stmt *sql.Stmt
}

// OpenSQLiteArchive opens or creates the archive at path. Files already in
// the archive are kept and replaced when written again.
func OpenSQLiteArchive(path string) (*SQLiteArchiveSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(sqlarSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlar table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT OR REPLACE INTO sqlar (name, mode, mtime, sz, data) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteArchiveSink{
		db:    db,
		stmt:  stmt,
		mtime: time.Now().Unix(),
	}, nil
}

// Write stores data under p.
func (s *SQLiteArchiveSink) Write(ctx context.Context, p string, data []byte) error {
	name, err := cleanPath(p)
	if err != nil {
		return err
	}

	// One writer at a time, otherwise concurrent inserts see SQLITE_BUSY.
	s.mu.Lock()
	defer s.mu.Unlock()

	if data == nil {
		data = []byte{}
	}
	if _, err := s.stmt.ExecContext(ctx, name, sqlarFileMode, s.mtime, len(data), data); err != nil {
		return fmt.Errorf("sqlar insert %s: %w", name, err)
	}
	return nil
}

// ReadFile returns the content stored under p.
func (s *SQLiteArchiveSink) ReadFile(ctx context.Context, p string) ([]byte, error) {
	name, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = s.db.QueryRowContext(ctx, `SELECT data FROM sqlar WHERE name = ?`, name).Scan(&data)
	return data, err
}

// Close releases the database.
func (s *SQLiteArchiveSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.stmt.Close()
	return s.db.Close()
}
