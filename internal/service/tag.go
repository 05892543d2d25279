package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/naming"
	"github.com/pkordes/pdf-archiver/internal/registry"
	"github.com/pkordes/pdf-archiver/internal/repo"
)

// TagService implements business logic for the tag registry.
// Tag identity is the normalized slug; every name coming from a user goes
// through naming.Normalize before it reaches the registry.
type TagService struct {
	tags        *registry.Registry
	store       repo.TagRepo
	discoverer  Discoverer
	archiveRoot string
	log         *slog.Logger
	now         func() time.Time
}

// NewTagService constructs a TagService. store receives a snapshot of the
// registry after every change.
func NewTagService(tags *registry.Registry, store repo.TagRepo, archiveRoot string) *TagService {
	return &TagService{
		tags:        tags,
		store:       store,
		archiveRoot: archiveRoot,
		log:         slog.Default(),
		now:         time.Now,
	}
}

// List returns one page of the tags whose name starts with the normalized
// prefix, sorted by name, plus the total number of matches.
func (s *TagService) List(_ context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int, error) {
	matches := s.tags.FilterByPrefix(naming.Normalize(prefix))
	lo, hi := p.Bounds(len(matches))
	return matches[lo:hi], len(matches), nil
}

// All returns every registered tag in insertion order.
func (s *TagService) All(_ context.Context) []domain.Tag {
	return s.tags.List()
}

// Import adds tags to the registry. Names are normalized; names that are
// already registered, or empty after normalization, are skipped. Returns the
// number of tags added.
func (s *TagService) Import(ctx context.Context, tags []domain.Tag) (int, error) {
	added := 0
	for _, t := range tags {
		t.Name = naming.Normalize(t.Name)
		if t.Name == "" {
			continue
		}
		err := s.tags.Insert(t)
		if errors.Is(err, domain.ErrTagExists) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("service.TagService.Import: %w", err)
		}
		added++
	}

	if err := s.tags.Persist(ctx, s.store); err != nil {
		return added, fmt.Errorf("service.TagService.Import: %w", err)
	}
	return added, nil
}

// Reindex rebuilds the registry from the archive: every PDF under the
// archive root is parsed and its tags counted. Tags that no archived file
// uses anymore are dropped. Returns the new tag list.
func (s *TagService) Reindex(ctx context.Context) ([]domain.Tag, error) {
	if s.archiveRoot == "" {
		return nil, fmt.Errorf("service.TagService.Reindex: %w", domain.ErrNoArchiveRoot)
	}

	paths, err := s.discoverer.Find(s.archiveRoot)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.Reindex: %w", err)
	}

	fresh := registry.New()
	now := s.now()
	for _, p := range paths {
		naming.Parse(filepath.Base(p), fresh, now)
	}

	s.tags.Replace(fresh.List())
	if err := s.tags.Persist(ctx, s.store); err != nil {
		return nil, fmt.Errorf("service.TagService.Reindex: %w", err)
	}

	s.log.InfoContext(ctx, "tag registry rebuilt",
		"archive_root", s.archiveRoot,
		"files", len(paths),
		"tags", s.tags.Len(),
	)
	return s.tags.List(), nil
}
