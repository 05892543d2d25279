package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// TagRepo is the tag registry's persistence boundary: it loads and replaces
// the whole tag list. The registry itself is the only writer, so there is no
// per-tag API.
type TagRepo interface {
	// GetTagList returns every persisted tag, oldest first.
	GetTagList(ctx context.Context) ([]domain.Tag, error)

	// SetTagList makes the persisted list equal to tags: new names are
	// inserted, counts of existing names are updated, and names not in tags
	// are removed. IDs and created_at of existing names are preserved.
	SetTagList(ctx context.Context, tags []domain.Tag) error
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// GetTagList returns all tags ordered by created_at, then name.
func (r *pgTagRepo) GetTagList(ctx context.Context) ([]domain.Tag, error) {
	const q = `
		SELECT id, name, usage_count, created_at
		FROM tags
		ORDER BY created_at, name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.GetTagList: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo.GetTagList: scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.GetTagList: rows: %w", err)
	}
	return tags, nil
}

// SetTagList upserts every tag and prunes the rest in one transaction.
// The arrays are passed as text and cast in SQL so the statement does not
// depend on pgx's array encoders for uuid.
func (r *pgTagRepo) SetTagList(ctx context.Context, tags []domain.Tag) error {
	const upsert = `
		INSERT INTO tags (id, name, usage_count, created_at)
		SELECT u.id::uuid, u.name, u.usage_count, u.created_at
		FROM unnest(@ids::text[], @names::text[], @counts::int[], @created::timestamptz[])
			AS u(id, name, usage_count, created_at)
		ON CONFLICT (name) DO UPDATE SET usage_count = EXCLUDED.usage_count`

	const prune = `DELETE FROM tags WHERE NOT (name = ANY(@names::text[]))`

	// make, not var: a nil slice would be sent as NULL and prune nothing.
	ids := make([]string, len(tags))
	names := make([]string, len(tags))
	counts := make([]int32, len(tags))
	created := make([]time.Time, len(tags))
	for i, t := range tags {
		id := t.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		ids[i] = id.String()
		names[i] = t.Name
		counts[i] = int32(t.Count)
		created[i] = t.CreatedAt
		if created[i].IsZero() {
			created[i] = time.Now().UTC()
		}
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		args := pgx.NamedArgs{"ids": ids, "names": names, "counts": counts, "created": created}
		if _, err := tx.Exec(ctx, upsert, args); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		if _, err := tx.Exec(ctx, prune, pgx.NamedArgs{"names": names}); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.SetTagList: %w", err)
	}
	return nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t     domain.Tag
		id    pgtype.UUID
		count int32
	)
	err := s.Scan(&id, &t.Name, &count, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.Count = int(count)
	return t, nil
}
