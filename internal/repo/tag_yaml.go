package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// tagFile is the on-disk YAML shape shared by export and import:
//
//	tags:
//	  - name: invoice
//	    count: 3
type tagFile struct {
	Tags []tagEntry `yaml:"tags"`
}

type tagEntry struct {
	Name      string    `yaml:"name"`
	Count     int       `yaml:"count"`
	ID        string    `yaml:"id,omitempty"`
	CreatedAt time.Time `yaml:"created_at,omitempty"`
}

// EncodeTagsYAML writes tags to w in the tag file format.
func EncodeTagsYAML(w io.Writer, tags []domain.Tag) error {
	f := tagFile{Tags: make([]tagEntry, 0, len(tags))}
	for _, t := range tags {
		e := tagEntry{Name: t.Name, Count: t.Count, CreatedAt: t.CreatedAt.UTC()}
		if t.ID != uuid.Nil {
			e.ID = t.ID.String()
		}
		f.Tags = append(f.Tags, e)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("repo.EncodeTagsYAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("repo.EncodeTagsYAML: %w", err)
	}
	return nil
}

// DecodeTagsYAML reads a tag file. Entries without a name or with a negative
// count are rejected with domain.ErrValidation. A missing id is left as
// uuid.Nil for the caller to assign.
func DecodeTagsYAML(r io.Reader) ([]domain.Tag, error) {
	var f tagFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("repo.DecodeTagsYAML: %w", err)
	}

	tags := make([]domain.Tag, 0, len(f.Tags))
	for i, e := range f.Tags {
		if e.Name == "" {
			return nil, fmt.Errorf("repo.DecodeTagsYAML: entry %d: name is required: %w", i, domain.ErrValidation)
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("repo.DecodeTagsYAML: tag %q: negative count: %w", e.Name, domain.ErrValidation)
		}
		t := domain.Tag{Name: e.Name, Count: e.Count, CreatedAt: e.CreatedAt}
		if e.ID != "" {
			id, err := uuid.Parse(e.ID)
			if err != nil {
				return nil, fmt.Errorf("repo.DecodeTagsYAML: tag %q id: %v: %w", e.Name, err, domain.ErrValidation)
			}
			t.ID = id
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// YAMLTagFile is a TagRepo backed by a single YAML file. A missing file
// reads as an empty list; writes go to a temp file that is renamed into place.
type YAMLTagFile struct {
	path string
}

var _ TagRepo = (*YAMLTagFile)(nil)

// NewYAMLTagFile returns a TagRepo reading and writing path.
func NewYAMLTagFile(path string) *YAMLTagFile {
	return &YAMLTagFile{path: path}
}

// GetTagList decodes the file, or returns an empty list if it does not exist.
func (y *YAMLTagFile) GetTagList(_ context.Context) ([]domain.Tag, error) {
	f, err := os.Open(y.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Tag{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.YAMLTagFile.GetTagList: %w", err)
	}
	defer f.Close()

	tags, err := DecodeTagsYAML(f)
	if err != nil {
		return nil, fmt.Errorf("repo.YAMLTagFile.GetTagList: %s: %w", y.path, err)
	}
	return tags, nil
}

// SetTagList writes tags to the file, replacing its previous content.
func (y *YAMLTagFile) SetTagList(_ context.Context, tags []domain.Tag) error {
	tmp, err := os.CreateTemp(filepath.Dir(y.path), "."+filepath.Base(y.path)+".*")
	if err != nil {
		return fmt.Errorf("repo.YAMLTagFile.SetTagList: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := EncodeTagsYAML(tmp, tags); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.YAMLTagFile.SetTagList: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.YAMLTagFile.SetTagList: %w", err)
	}
	if err := os.Rename(tmp.Name(), y.path); err != nil {
		return fmt.Errorf("repo.YAMLTagFile.SetTagList: %w", err)
	}
	return nil
}
