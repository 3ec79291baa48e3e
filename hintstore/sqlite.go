package hintstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists dismissals in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and migrates it.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL mode reduces write latency by avoiding full fsync on every commit.
	// synchronous=NORMAL is safe with WAL and significantly faster than the
	// default FULL.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Dismiss(ctx context.Context, hintID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dismissed_hints(hint_id, dismissed_at) VALUES(?, ?)
		 ON CONFLICT(hint_id) DO UPDATE SET dismissed_at=excluded.dismissed_at`,
		hintID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("dismiss hint %q: %w", hintID, err)
	}
	return nil
}

func (s *SQLiteStore) Dismissed(ctx context.Context, hintID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM dismissed_hints WHERE hint_id = ? LIMIT 1`, hintID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query hint %q: %w", hintID, err)
	}
	return true, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]DismissedHint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hint_id, dismissed_at FROM dismissed_hints ORDER BY dismissed_at DESC, hint_id`)
	if err != nil {
		return nil, fmt.Errorf("list dismissed hints: %w", err)
	}
	defer rows.Close()

	var out []DismissedHint
	for rows.Next() {
		var h DismissedHint
		var at string
		if err := rows.Scan(&h.HintID, &at); err != nil {
			return nil, fmt.Errorf("scan dismissed hint: %w", err)
		}
		if h.DismissedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parse dismissed_at %q: %w", at, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dismissed_hints`); err != nil {
		return fmt.Errorf("reset dismissed hints: %w", err)
	}
	return nil
}
