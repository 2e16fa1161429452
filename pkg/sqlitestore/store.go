// Package sqlitestore persists board layout snapshots in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-board/components/board"
)

const schema = `
CREATE TABLE IF NOT EXISTS board_layouts (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Store implements board.LayoutStore on a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ board.LayoutStore = (*Store)(nil)

// Open creates or opens the database at dsn. ":memory:" keeps everything in
// process.
func Open(dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("sqlitestore: dsn is required")
	}
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("sqlitestore: create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open database: %w", err)
	}
	// an in-memory database lives only as long as its connection
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: initialize schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveLayout upserts the snapshot stored under key.
func (s *Store) SaveLayout(ctx context.Context, key string, layout board.LayoutJSON) error {
	if key == "" {
		return fmt.Errorf("sqlitestore: key is required")
	}
	body, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("sqlitestore: encode layout %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO board_layouts (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		key, string(body), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlitestore: save layout %s: %w", key, err)
	}
	return nil
}

// LoadLayout returns the snapshot stored under key.
func (s *Store) LoadLayout(ctx context.Context, key string) (board.LayoutJSON, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM board_layouts WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return board.LayoutJSON{}, false, nil
	}
	if err != nil {
		return board.LayoutJSON{}, false, fmt.Errorf("sqlitestore: load layout %s: %w", key, err)
	}
	var layout board.LayoutJSON
	if err := json.Unmarshal([]byte(body), &layout); err != nil {
		return board.LayoutJSON{}, false, fmt.Errorf("sqlitestore: decode layout %s: %w", key, err)
	}
	return layout, true, nil
}

// Keys lists stored keys in order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM board_layouts ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: list keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Delete removes the snapshot under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM board_layouts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitestore: delete layout %s: %w", key, err)
	}
	return nil
}
