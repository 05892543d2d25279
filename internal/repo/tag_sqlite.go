package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// sqliteTagSchema is executed on every open.
const sqliteTagSchema = `
CREATE TABLE IF NOT EXISTS tags (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    usage_count INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);
`

// SQLiteTagStore is the CLI's TagRepo: a single-file SQLite database that
// usually lives inside the archive root.
type SQLiteTagStore struct {
	db *sql.DB
}

var _ TagRepo = (*SQLiteTagStore)(nil)

// NewSQLiteTagStore opens (or creates) the tag database at path, enables WAL
// mode and a busy timeout, and creates the schema if needed.
func NewSQLiteTagStore(ctx context.Context, path string) (*SQLiteTagStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteTagStore: open %s: %w", path, err)
	}

	// SQLite has a single writer; one connection keeps the PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("repo.SQLiteTagStore: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteTagSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.SQLiteTagStore: create schema: %w", err)
	}

	return &SQLiteTagStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteTagStore) Close() error {
	return s.db.Close()
}

// GetTagList returns all tags ordered by created_at, then name.
func (s *SQLiteTagStore) GetTagList(ctx context.Context) ([]domain.Tag, error) {
	const q = `SELECT id, name, usage_count, created_at FROM tags ORDER BY created_at, name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteTagStore.GetTagList: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var (
			t      domain.Tag
			id, ts string
		)
		if err := rows.Scan(&id, &t.Name, &t.Count, &ts); err != nil {
			return nil, fmt.Errorf("repo.SQLiteTagStore.GetTagList: scan: %w", err)
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("repo.SQLiteTagStore.GetTagList: tag %q id: %w", t.Name, err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("repo.SQLiteTagStore.GetTagList: tag %q created_at: %w", t.Name, err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SQLiteTagStore.GetTagList: rows: %w", err)
	}
	return tags, nil
}

// SetTagList replaces the stored list with tags in a single transaction.
func (s *SQLiteTagStore) SetTagList(ctx context.Context, tags []domain.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repo.SQLiteTagStore.SetTagList: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM tags`); err != nil {
		return fmt.Errorf("repo.SQLiteTagStore.SetTagList: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tags (id, name, usage_count, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("repo.SQLiteTagStore.SetTagList: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range tags {
		id := t.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		created := t.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		ts := created.UTC().Format(time.RFC3339Nano)
		if _, err := stmt.ExecContext(ctx, id.String(), t.Name, t.Count, ts); err != nil {
			return fmt.Errorf("repo.SQLiteTagStore.SetTagList: insert %q: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repo.SQLiteTagStore.SetTagList: commit: %w", err)
	}
	return nil
}
