package domain

// ExportRow is a single row in the archive manifest export: one row per
// document, flat and denormalized so it can be written as CSV.
//
// Tags holds the document's tag names sorted alphabetically.
// Callers that need a joined string (e.g. CSV) should join with "|".
type ExportRow struct {
	DocumentID  string
	Path        string
	Date        string // "2006-01-02" formatted date
	Description string
	Status      string
	Tags        []string
}
