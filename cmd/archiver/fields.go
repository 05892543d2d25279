package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/naming"
)

// fieldFlags holds the per-run overrides for fields parsed from filenames.
type fieldFlags struct {
	description string
	date        string
	tags        []string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "description to use instead of the parsed one")
	cmd.Flags().StringVar(&f.date, "date", "", "date (YYYY-MM-DD) to use instead of the parsed one")
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "tag to use instead of the parsed ones (repeatable)")
}

// document builds the document for path from its filename and the overrides.
func (f *fieldFlags) document(path string, now time.Time) (domain.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	p := naming.Parse(abs, nil, now)
	doc := domain.Document{
		SourcePath:  abs,
		Date:        p.Date,
		Description: p.Description,
		Tags:        p.Tags,
		Status:      domain.StatusDiscovered,
	}

	if f.description != "" {
		doc.Description = naming.Normalize(f.description)
	}
	if f.date != "" {
		d, err := time.Parse(domain.DateLayout, f.date)
		if err != nil {
			return domain.Document{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", domain.ErrValidation, f.date)
		}
		doc.Date = domain.DateOf(d)
	}
	if len(f.tags) > 0 {
		doc.Tags = normalizeTags(f.tags)
	}
	return doc, nil
}

// normalizeTags normalizes names and drops empties and duplicates.
func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := naming.Normalize(r)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
