package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/notify"
	"github.com/pkordes/pdf-archiver/internal/repo"
)

// mockDocumentRepo is a hand-written test double for repo.DocumentRepo.
// Each method is a function field; set only the ones your test needs.
type mockDocumentRepo struct {
	create                func(ctx context.Context, doc domain.Document) (domain.Document, error)
	getByID               func(ctx context.Context, id uuid.UUID) (domain.Document, error)
	getActiveBySourcePath func(ctx context.Context, path string) (domain.Document, error)
	list                  func(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int, error)
	update                func(ctx context.Context, doc domain.Document) (domain.Document, error)
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	return m.create(ctx, doc)
}
func (m *mockDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	return m.getByID(ctx, id)
}
func (m *mockDocumentRepo) GetActiveBySourcePath(ctx context.Context, path string) (domain.Document, error) {
	return m.getActiveBySourcePath(ctx, path)
}
func (m *mockDocumentRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int, error) {
	return m.list(ctx, p)
}
func (m *mockDocumentRepo) Update(ctx context.Context, doc domain.Document) (domain.Document, error) {
	return m.update(ctx, doc)
}

// compile-time check: mockDocumentRepo must satisfy repo.DocumentRepo.
var _ repo.DocumentRepo = (*mockDocumentRepo)(nil)

// memDocumentRepo returns a mockDocumentRepo backed by a map, for tests that
// exercise several service calls against the same documents.
func memDocumentRepo() *mockDocumentRepo {
	var (
		mu   sync.Mutex
		rows = map[uuid.UUID]domain.Document{}
	)
	clone := func(d domain.Document) domain.Document {
		d.Tags = append([]string{}, d.Tags...)
		return d
	}
	return &mockDocumentRepo{
		create: func(_ context.Context, d domain.Document) (domain.Document, error) {
			mu.Lock()
			defer mu.Unlock()
			d.ID = uuid.New()
			if d.Tags == nil {
				d.Tags = []string{}
			}
			rows[d.ID] = clone(d)
			return clone(d), nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.Document, error) {
			mu.Lock()
			defer mu.Unlock()
			d, ok := rows[id]
			if !ok {
				return domain.Document{}, domain.ErrNotFound
			}
			return clone(d), nil
		},
		getActiveBySourcePath: func(_ context.Context, path string) (domain.Document, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, d := range rows {
				if d.SourcePath == path && !d.Archived() {
					return clone(d), nil
				}
			}
			return domain.Document{}, domain.ErrNotFound
		},
		update: func(_ context.Context, d domain.Document) (domain.Document, error) {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := rows[d.ID]; !ok {
				return domain.Document{}, domain.ErrNotFound
			}
			rows[d.ID] = clone(d)
			return clone(d), nil
		},
	}
}

// mockTagRepo is a hand-written test double for repo.TagRepo.
type mockTagRepo struct {
	getTagList func(ctx context.Context) ([]domain.Tag, error)
	setTagList func(ctx context.Context, tags []domain.Tag) error
}

func (m *mockTagRepo) GetTagList(ctx context.Context) ([]domain.Tag, error) {
	return m.getTagList(ctx)
}
func (m *mockTagRepo) SetTagList(ctx context.Context, tags []domain.Tag) error {
	return m.setTagList(ctx, tags)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

// recordingTagRepo returns a mockTagRepo whose writes are captured in *last.
func recordingTagRepo(last *[]domain.Tag) *mockTagRepo {
	return &mockTagRepo{
		setTagList: func(_ context.Context, tags []domain.Tag) error {
			*last = tags
			return nil
		},
	}
}

// recordingNotifier captures every notice it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

var _ notify.UserNotifier = (*recordingNotifier)(nil)
