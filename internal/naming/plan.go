package naming

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// Placement is where a document belongs inside the archive.
type Placement struct {
	Directory string
	Filename  string
}

// Path returns the full destination path.
func (p Placement) Path() string {
	return filepath.Join(p.Directory, p.Filename)
}

// Plan derives the canonical filename and year directory for the given fields:
//
//	<archiveRoot>/<YYYY>/<YYYY-MM-DD>--<description>__<tag1>_<tag2>.pdf
//
// Tag names are sorted so the result does not depend on the order in which
// tags were attached. Returns domain.ErrMissingTags when tags is empty and
// domain.ErrMissingDescription when description is empty, in that order.
func Plan(date time.Time, description string, tags []string, archiveRoot string) (Placement, error) {
	if len(tags) == 0 {
		return Placement{}, domain.ErrMissingTags
	}
	if description == "" {
		return Placement{}, domain.ErrMissingDescription
	}

	sorted := slices.Compact(slices.Sorted(slices.Values(tags)))
	filename := fmt.Sprintf("%s--%s__%s.pdf",
		date.Format(domain.DateLayout), description, strings.Join(sorted, "_"))

	return Placement{
		Directory: filepath.Join(archiveRoot, fmt.Sprintf("%04d", date.Year())),
		Filename:  filename,
	}, nil
}

// PlanDocument is Plan applied to a document's current fields.
func PlanDocument(doc domain.Document, archiveRoot string) (Placement, error) {
	return Plan(doc.Date, doc.Description, doc.Tags, archiveRoot)
}
