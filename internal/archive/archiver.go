// Package archive moves documents into the archive under their canonical
// name. It owns every filesystem side effect of the engine: creating the
// year directory, the no-overwrite check and the rename.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/keylock"
	"github.com/pkordes/pdf-archiver/internal/naming"
)

// Archiver performs guarded moves into an archive root.
// It is safe for concurrent use: the existence check and the rename for a
// destination directory run under that directory's lock.
type Archiver struct {
	meta  MetadataWriter
	log   *slog.Logger
	now   func() time.Time
	locks keylock.Map
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithMetadataWriter sets the sink for native file tags. Defaults to the
// platform's extended attribute writer.
func WithMetadataWriter(m MetadataWriter) Option {
	return func(a *Archiver) { a.meta = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Archiver) { a.log = l }
}

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) { a.now = now }
}

// New constructs an Archiver.
func New(opts ...Option) *Archiver {
	a := &Archiver{
		meta: XattrWriter{},
		log:  slog.Default(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Plan returns the placement doc would get under archiveRoot without
// touching the filesystem.
// Returns domain.ErrNoArchiveRoot, domain.ErrMissingTags or
// domain.ErrMissingDescription.
func (a *Archiver) Plan(doc domain.Document, archiveRoot string) (naming.Placement, error) {
	if archiveRoot == "" {
		return naming.Placement{}, domain.ErrNoArchiveRoot
	}
	return naming.PlanDocument(doc, archiveRoot)
}

// Archive moves doc.SourcePath to its canonical place under archiveRoot.
//
// Only the year directory is created; archiveRoot itself must exist. An
// existing destination file is never overwritten (domain.ErrAlreadyExists).
// On success doc points at the new path and is marked archived, and the tag
// names are written as file metadata on a best-effort basis. On any failure
// doc is left unchanged and the source file stays where it was.
func (a *Archiver) Archive(ctx context.Context, doc *domain.Document, archiveRoot string) (naming.Placement, error) {
	if doc.Archived() {
		return naming.Placement{}, fmt.Errorf("archive.Archive: %w", domain.ErrDocumentArchived)
	}
	placement, err := a.Plan(*doc, archiveRoot)
	if err != nil {
		return naming.Placement{}, fmt.Errorf("archive.Archive: %w", err)
	}

	if err := a.move(doc.SourcePath, placement); err != nil {
		a.log.WarnContext(ctx, "archiving failed",
			"source", doc.SourcePath,
			"destination", placement.Path(),
			"error", err,
		)
		return naming.Placement{}, fmt.Errorf("archive.Archive: %w", err)
	}

	dest := placement.Path()
	a.log.InfoContext(ctx, "document archived", "source", doc.SourcePath, "destination", dest)

	doc.SourcePath = dest
	doc.Status = domain.StatusArchived
	doc.UpdatedAt = a.now().UTC()

	if err := a.meta.WriteTags(dest, doc.Tags); err != nil {
		a.log.WarnContext(ctx, "could not set file tags", "path", dest, "error", err)
	}
	return placement, nil
}

// move runs the directory/exists/rename sequence under the directory lock.
func (a *Archiver) move(src string, p naming.Placement) error {
	unlock := a.locks.Lock(filepath.Clean(p.Directory))
	defer unlock()

	if err := ensureDir(p.Directory); err != nil {
		return err
	}

	dest := p.Path()
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrMoveFailed, err)
	}

	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMoveFailed, err)
	}
	return nil
}

// ensureDir creates dir if it is missing. Parents are not created.
func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%w: %s is not a directory", domain.ErrDirectoryCreationFailed, dir)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", domain.ErrDirectoryCreationFailed, err)
	}

	if err := os.Mkdir(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %w", domain.ErrDirectoryCreationFailed, err)
	}
	return nil
}
