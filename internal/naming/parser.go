package naming

import (
	"path/filepath"
	"time"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// TagResolver resolves a tag name to the registry's shared Tag, creating it
// on first reference. *registry.Registry satisfies it.
type TagResolver interface {
	LookupOrCreate(name string) domain.Tag
}

// Parsed holds the fields recovered from a filename.
type Parsed struct {
	// Date is the calendar date from the filename, or the parse day when
	// DateFromName is false.
	Date         time.Time
	DateFromName bool

	// Description is normalized; it may be empty for names like "__tag.pdf".
	Description string

	// Tags are normalized, de-duplicated tag names in filename order.
	// Each one has been resolved through the TagResolver exactly once.
	Tags []string
}

// Parse decomposes a filename (or a path; only the base name is examined)
// following the archive convention. Parse never fails: every field that
// does not match falls back to a default, so files that predate or ignore
// the convention still yield a usable document.
//
// now supplies the fallback date. tags may be nil, in which case tag names
// are returned without touching any registry.
func Parse(name string, tags TagResolver, now time.Time) Parsed {
	base := filepath.Base(name)

	var p Parsed
	if d, ok := firstMatch(DateRules, base); ok {
		p.Date = d
		p.DateFromName = true
	} else {
		p.Date = domain.DateOf(now)
	}

	if desc, ok := firstMatch(DescriptionRules, base); ok {
		p.Description = Normalize(desc)
	} else {
		p.Description = Normalize(descriptionFallback(base))
	}

	candidates, _ := firstMatch(TagRules, base)
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		n := Normalize(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		if tags != nil {
			n = tags.LookupOrCreate(n).Name
		}
		p.Tags = append(p.Tags, n)
	}
	return p
}
