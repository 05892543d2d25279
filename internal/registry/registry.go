// Package registry holds the in-memory tag registry: the single owner of
// every domain.Tag, keyed by name. Documents refer to tags by name only, so
// counts never diverge between documents that share a tag.
package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// TagListReader loads a persisted tag list.
type TagListReader interface {
	GetTagList(ctx context.Context) ([]domain.Tag, error)
}

// TagListWriter replaces the persisted tag list.
type TagListWriter interface {
	SetTagList(ctx context.Context, tags []domain.Tag) error
}

// Registry is a deduplicated set of tags with usage counts.
// All methods are goroutine-safe. Returned tags are copies; identity is the
// tag's Name (and its stable ID).
type Registry struct {
	mu     sync.Mutex
	byName map[string]*domain.Tag
	order  []string

	// persistMu orders snapshot+write pairs so an older snapshot is never
	// written after a newer one.
	persistMu sync.Mutex

	now func() time.Time
}

// New returns a registry seeded with tags. When the seed contains the same
// name twice, the first occurrence wins.
func New(tags ...domain.Tag) *Registry {
	r := &Registry{
		byName: make(map[string]*domain.Tag, len(tags)),
		now:    time.Now,
	}
	for _, t := range tags {
		_ = r.Insert(t)
	}
	return r
}

// Load builds a registry from a persisted tag list.
func Load(ctx context.Context, src TagListReader) (*Registry, error) {
	tags, err := src.GetTagList(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry.Load: %w", err)
	}
	return New(tags...), nil
}

// LookupOrCreate returns the tag called name, incrementing its count, or
// creates it with a count of 1. An empty name is never registered and yields
// the zero Tag.
func (r *Registry) LookupOrCreate(name string) domain.Tag {
	if name == "" {
		return domain.Tag{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.byName[name]; ok {
		t.Count++
		return *t
	}
	t := &domain.Tag{ID: uuid.New(), Name: name, Count: 1, CreatedAt: r.now().UTC()}
	r.byName[name] = t
	r.order = append(r.order, name)
	return *t
}

// Insert adds a pre-built tag. It returns domain.ErrTagExists, and changes
// nothing, when the name is already registered. A missing ID or CreatedAt
// is filled in.
func (r *Registry) Insert(tag domain.Tag) error {
	if tag.Name == "" {
		return fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[tag.Name]; ok {
		return fmt.Errorf("registry.Insert %q: %w", tag.Name, domain.ErrTagExists)
	}
	r.put(tag)
	return nil
}

// put stores tag, filling defaults. Caller holds mu.
func (r *Registry) put(tag domain.Tag) {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = r.now().UTC()
	}
	tag.Count = max(tag.Count, 0)
	r.byName[tag.Name] = &tag
	r.order = append(r.order, tag.Name)
}

// Get returns the tag called name.
func (r *Registry) Get(name string) (domain.Tag, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byName[name]
	if !ok {
		return domain.Tag{}, false
	}
	return *t, true
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// List returns every tag in insertion order.
func (r *Registry) List() []domain.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Tag, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.byName[name])
	}
	return out
}

// FilterByPrefix returns the tags whose name starts with prefix, sorted by
// name. The match is case-sensitive; callers normalize prefix first.
// An empty prefix matches every tag.
func (r *Registry) FilterByPrefix(prefix string) []domain.Tag {
	r.mu.Lock()
	out := []domain.Tag{}
	for _, name := range r.order {
		if strings.HasPrefix(name, prefix) {
			out = append(out, *r.byName[name])
		}
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.Tag) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Replace swaps the registry contents for tags (typically a recount built
// from the archive). Names that were already registered keep their ID and
// CreatedAt so references held elsewhere stay valid.
func (r *Registry) Replace(tags []domain.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.byName
	r.byName = make(map[string]*domain.Tag, len(tags))
	r.order = r.order[:0:0]
	for _, t := range tags {
		if t.Name == "" {
			continue
		}
		if _, dup := r.byName[t.Name]; dup {
			continue
		}
		if prev, ok := old[t.Name]; ok {
			t.ID = prev.ID
			t.CreatedAt = prev.CreatedAt
		}
		r.put(t)
	}
}

// Persist writes a snapshot of the registry to w.
func (r *Registry) Persist(ctx context.Context, w TagListWriter) error {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	if err := w.SetTagList(ctx, r.List()); err != nil {
		return fmt.Errorf("registry.Persist: %w", err)
	}
	return nil
}
