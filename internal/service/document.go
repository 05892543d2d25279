// Package service contains the business logic of the PDF archiver.
// Services validate inputs, enforce business rules, and orchestrate repo,
// registry and archiver calls. No SQL lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/keylock"
	"github.com/pkordes/pdf-archiver/internal/naming"
	"github.com/pkordes/pdf-archiver/internal/notify"
	"github.com/pkordes/pdf-archiver/internal/registry"
	"github.com/pkordes/pdf-archiver/internal/repo"
)

// Archiver is the filesystem side of archiving, implemented by *archive.Archiver.
type Archiver interface {
	Plan(doc domain.Document, archiveRoot string) (naming.Placement, error)
	Archive(ctx context.Context, doc *domain.Document, archiveRoot string) (naming.Placement, error)
}

// DocumentPatch holds the user-editable scalar fields of a document.
// Nil fields are left unchanged.
type DocumentPatch struct {
	Description *string
	Date        *time.Time
}

// DocumentService implements the document lifecycle:
// discover, edit, plan and archive.
type DocumentService struct {
	docs        repo.DocumentRepo
	tags        *registry.Registry
	tagStore    repo.TagRepo
	archiver    Archiver
	notifier    notify.UserNotifier
	discoverer  Discoverer
	archiveRoot string
	log         *slog.Logger
	now         func() time.Time

	// locks serializes read-modify-write cycles per document ID and
	// discovery per source path.
	locks keylock.Map
}

// NewDocumentService constructs a DocumentService. Tag counts changed by a
// document operation are written to tagStore after the document is saved.
func NewDocumentService(
	docs repo.DocumentRepo,
	tags *registry.Registry,
	tagStore repo.TagRepo,
	archiver Archiver,
	notifier notify.UserNotifier,
	archiveRoot string,
) *DocumentService {
	return &DocumentService{
		docs:        docs,
		tags:        tags,
		tagStore:    tagStore,
		archiver:    archiver,
		notifier:    notifier,
		archiveRoot: archiveRoot,
		log:         slog.Default(),
		now:         time.Now,
	}
}

// Discover starts tracking the PDF at path, pre-filling date, description
// and tags from its filename. Discovering a path that is already tracked
// returns the existing document and leaves tag counts untouched.
// path must be a single file; folders go through Scan.
func (s *DocumentService) Discover(ctx context.Context, path string) (domain.Document, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Discover: %s is a folder, use scan: %w", path, domain.ErrValidation)
	}
	paths, err := s.discoverer.Find(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Discover: %w", err)
	}
	if len(paths) != 1 {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Discover: no pdf at %s: %w", path, domain.ErrValidation)
	}
	return s.discover(ctx, paths[0])
}

// Scan discovers every PDF at path (a file or a folder). It stops at the
// first failure and returns the documents discovered so far.
func (s *DocumentService) Scan(ctx context.Context, path string) ([]domain.Document, error) {
	paths, err := s.discoverer.Find(path)
	if err != nil {
		return nil, fmt.Errorf("service.DocumentService.Scan: %w", err)
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := s.discover(ctx, p)
		if err != nil {
			return docs, fmt.Errorf("service.DocumentService.Scan: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// discover handles one absolute PDF path.
func (s *DocumentService) discover(ctx context.Context, path string) (domain.Document, error) {
	unlock := s.locks.Lock("path:" + path)
	defer unlock()

	existing, err := s.docs.GetActiveBySourcePath(ctx, path)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Discover: %w", err)
	}

	// Parse without the registry first: counts only change once the
	// document has been stored.
	parsed := naming.Parse(filepath.Base(path), nil, s.now())
	doc := domain.Document{
		SourcePath:  path,
		Date:        parsed.Date,
		Description: parsed.Description,
		Tags:        parsed.Tags,
		Status:      domain.StatusDiscovered,
	}

	created, err := s.docs.Create(ctx, doc)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Discover: %w", err)
	}
	if err := s.countTags(ctx, created.Tags...); err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Discover: %w", err)
	}

	s.log.InfoContext(ctx, "document discovered",
		"document_id", created.ID,
		"path", path,
		"date_from_name", parsed.DateFromName,
		"tags", len(created.Tags),
	)
	return created, nil
}

// Get returns a single document by ID.
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Get: %w", err)
	}
	return doc, nil
}

// List returns a page of documents and the total number of documents.
func (s *DocumentService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int, error) {
	docs, total, err := s.docs.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.DocumentService.List: %w", err)
	}
	return docs, total, nil
}

// Update applies patch. The description is normalized; the date is reduced
// to its calendar day.
func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, patch DocumentPatch) (domain.Document, error) {
	doc, err := s.mutate(ctx, id, func(doc *domain.Document) (bool, error) {
		if patch.Description != nil {
			doc.Description = naming.Normalize(*patch.Description)
		}
		if patch.Date != nil {
			doc.Date = domain.DateOf(*patch.Date)
		}
		return true, nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Update: %w", err)
	}
	return doc, nil
}

// AddTag attaches the tag called name (normalized) to the document, creating
// the tag in the registry if needed. Attaching a tag the document already
// has is a no-op and does not change its count.
func (s *DocumentService) AddTag(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	slug := naming.Normalize(name)
	if slug == "" {
		return domain.Document{}, fmt.Errorf("service.DocumentService.AddTag: %w: tag name %q is empty after normalization", domain.ErrValidation, name)
	}

	added := false
	doc, err := s.mutate(ctx, id, func(doc *domain.Document) (bool, error) {
		if doc.HasTag(slug) {
			return false, nil
		}
		doc.Tags = append(doc.Tags, slug)
		added = true
		return true, nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.AddTag: %w", err)
	}
	if added {
		if err := s.countTags(ctx, slug); err != nil {
			return domain.Document{}, fmt.Errorf("service.DocumentService.AddTag: %w", err)
		}
	}
	return doc, nil
}

// RemoveTag detaches the tag called name from the document. The tag's usage
// count is not decremented. Returns domain.ErrNotFound if the document does
// not carry the tag.
func (s *DocumentService) RemoveTag(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	slug := naming.Normalize(name)
	doc, err := s.mutate(ctx, id, func(doc *domain.Document) (bool, error) {
		i := slices.Index(doc.Tags, slug)
		if i < 0 {
			return false, fmt.Errorf("tag %q: %w", slug, domain.ErrNotFound)
		}
		doc.Tags = slices.Delete(doc.Tags, i, i+1)
		return true, nil
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.RemoveTag: %w", err)
	}
	return doc, nil
}

// Plan returns where the document would be archived, without moving it.
func (s *DocumentService) Plan(ctx context.Context, id uuid.UUID) (naming.Placement, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return naming.Placement{}, fmt.Errorf("service.DocumentService.Plan: %w", err)
	}
	p, err := s.archiver.Plan(doc, s.archiveRoot)
	if err != nil {
		return naming.Placement{}, fmt.Errorf("service.DocumentService.Plan: %w", err)
	}
	return p, nil
}

// Archive moves the document to its canonical place and records the new
// path. Failures are also reported to the user notifier.
func (s *DocumentService) Archive(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Archive: %w", err)
	}

	if _, err := s.archiver.Archive(ctx, &doc, s.archiveRoot); err != nil {
		notify.NotifyError(ctx, s.notifier, err)
		return domain.Document{}, fmt.Errorf("service.DocumentService.Archive: %w", err)
	}

	saved, err := s.docs.Update(ctx, doc)
	if err != nil {
		// The file has moved; the row still points at the old path.
		s.log.ErrorContext(ctx, "archived document could not be saved",
			"document_id", id,
			"path", doc.SourcePath,
			"error", err,
		)
		return domain.Document{}, fmt.Errorf("service.DocumentService.Archive: %w", err)
	}
	return saved, nil
}

// mutate runs fn on the stored document under its lock and saves the result
// when fn reports a change. Archived documents are rejected before fn runs.
func (s *DocumentService) mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Document) (bool, error)) (domain.Document, error) {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.Archived() {
		return domain.Document{}, domain.ErrDocumentArchived
	}

	changed, err := fn(&doc)
	if err != nil {
		return domain.Document{}, err
	}
	if !changed {
		return doc, nil
	}

	doc.Status = domain.StatusEditable
	return s.docs.Update(ctx, doc)
}

// countTags registers one more use of each name and persists the registry.
func (s *DocumentService) countTags(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		s.tags.LookupOrCreate(name)
	}
	return s.tags.Persist(ctx, s.tagStore)
}
