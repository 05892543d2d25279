package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a tag name that normalizes to nothing).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// Archiving errors. All of them leave the document unchanged so the caller
// can correct the fields and retry.
var (
	// ErrMissingDescription means the document has no description to put in its filename.
	ErrMissingDescription = errors.New("document description is missing")

	// ErrMissingTags means the document has no tags to put in its filename.
	ErrMissingTags = errors.New("document tags are missing")

	// ErrAlreadyExists means a file already occupies the canonical destination.
	// The archiver never overwrites.
	ErrAlreadyExists = errors.New("destination file already exists")

	// ErrDirectoryCreationFailed means the year directory could not be created.
	ErrDirectoryCreationFailed = errors.New("archive directory creation failed")

	// ErrMoveFailed means the rename into the archive failed; the source is untouched.
	ErrMoveFailed = errors.New("moving document into archive failed")
)

// ErrDocumentArchived is returned when a caller tries to edit or re-archive a
// document that has already been moved into the archive.
var ErrDocumentArchived = errors.New("document is already archived")

// ErrTagExists is returned by registry inserts that would overwrite a tag.
var ErrTagExists = errors.New("tag already exists")

// ErrNoArchiveRoot is returned when no archive root directory is configured.
var ErrNoArchiveRoot = errors.New("archive root is not configured")
