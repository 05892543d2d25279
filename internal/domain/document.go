// Package domain contains the core data types for the PDF archiver.
// It is imported by every other internal package (naming, registry, archive,
// repo, service, handler) and depends only on uuid.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the on-disk date format used in canonical filenames.
const DateLayout = "2006-01-02"

// DocumentStatus tracks where a document is in the archiving lifecycle.
// The only transitions are discovered → editable → archived; archived is terminal.
type DocumentStatus string

const (
	StatusDiscovered DocumentStatus = "discovered"
	StatusEditable   DocumentStatus = "editable"
	StatusArchived   DocumentStatus = "archived"
)

// Document is a single PDF file on its way into the archive.
//
// Description is always a normalized slug. Tags holds tag names, which are
// resolved through the tag registry; the document never owns tag counts.
// Description and Tags may be empty while the document is being edited;
// completeness is only enforced when a placement is planned.
type Document struct {
	ID          uuid.UUID      `json:"id"`
	SourcePath  string         `json:"source_path"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Status      DocumentStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Archived reports whether the document has reached the terminal state.
func (d Document) Archived() bool {
	return d.Status == StatusArchived
}

// HasTag reports whether name is already attached to the document.
func (d Document) HasTag(name string) bool {
	return slices.Contains(d.Tags, name)
}

// DateOf truncates t to its calendar date, expressed as midnight UTC.
// The year, month and day are taken from t's own location so that "today"
// in local time stays today after conversion.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
