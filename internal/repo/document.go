package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// DocumentRepo defines persistence operations for tracked documents.
type DocumentRepo interface {
	// Create inserts a new document and returns it with server-generated fields.
	// Returns domain.ErrValidation if an unarchived document already tracks
	// the same source path.
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)

	// GetByID returns domain.ErrNotFound when no document has the given ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error)

	// GetActiveBySourcePath returns the unarchived document tracking path,
	// or domain.ErrNotFound.
	GetActiveBySourcePath(ctx context.Context, path string) (domain.Document, error)

	// List returns a page of documents (oldest first) and the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int, error)

	// Update writes every mutable field of doc and bumps updated_at.
	// Returns domain.ErrNotFound if the row no longer exists.
	Update(ctx context.Context, doc domain.Document) (domain.Document, error)
}

// pgDocumentRepo is the Postgres implementation of DocumentRepo.
type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

const documentColumns = `id, source_path, doc_date, description, tags, status, created_at, updated_at`

// Create inserts a new document row.
func (r *pgDocumentRepo) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	q := `
		INSERT INTO documents (source_path, doc_date, description, tags, status)
		VALUES (@source_path, @doc_date, @description, @tags, @status)
		RETURNING ` + documentColumns

	row := r.db.QueryRow(ctx, q, documentArgs(doc))
	created, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %q already tracked: %w", doc.SourcePath, domain.ErrValidation)
		}
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %w", err)
	}
	return created, nil
}

// GetByID returns the document with the given ID.
func (r *pgDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = @id`

	doc, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": pgtype.UUID{Bytes: id, Valid: true}}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", err)
	}
	return doc, nil
}

// GetActiveBySourcePath returns the unarchived document for path.
func (r *pgDocumentRepo) GetActiveBySourcePath(ctx context.Context, path string) (domain.Document, error) {
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE source_path = @source_path AND status <> 'archived'`

	doc, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"source_path": path}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetActiveBySourcePath: %w", err)
	}
	return doc, nil
}

// List returns one page of documents and the total count across all pages.
func (r *pgDocumentRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.List: count: %w", err)
	}

	q := `SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.List: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.DocumentRepo.List: scan: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.List: rows: %w", err)
	}
	return docs, total, nil
}

// Update overwrites the mutable fields of an existing document.
func (r *pgDocumentRepo) Update(ctx context.Context, doc domain.Document) (domain.Document, error) {
	q := `
		UPDATE documents
		SET source_path = @source_path,
		    doc_date    = @doc_date,
		    description = @description,
		    tags        = @tags,
		    status      = @status,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + documentColumns

	args := documentArgs(doc)
	args["id"] = pgtype.UUID{Bytes: doc.ID, Valid: true}

	updated, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Update: %w", err)
	}
	return updated, nil
}

func documentArgs(doc domain.Document) pgx.NamedArgs {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	status := doc.Status
	if status == "" {
		status = domain.StatusDiscovered
	}
	return pgx.NamedArgs{
		"source_path": doc.SourcePath,
		"doc_date":    domain.DateOf(doc.Date),
		"description": doc.Description,
		"tags":        tags,
		"status":      string(status),
	}
}

// scanDocument maps a single database row into a domain.Document.
// Returns domain.ErrNotFound if the row does not exist.
func scanDocument(s scanner) (domain.Document, error) {
	var (
		d      domain.Document
		id     pgtype.UUID
		date   pgtype.Date
		status string
	)
	err := s.Scan(&id, &d.SourcePath, &date, &d.Description, &d.Tags, &status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.Date = date.Time
	d.Status = domain.DocumentStatus(status)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d, nil
}
