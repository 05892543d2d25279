package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/service"
)

// pagedRepo serves docs through List in the pages the service asks for.
func pagedRepo(docs []domain.Document) *mockDocumentRepo {
	return &mockDocumentRepo{
		list: func(_ context.Context, p domain.PaginationParams) ([]domain.Document, int, error) {
			lo, hi := p.Bounds(len(docs))
			return docs[lo:hi], len(docs), nil
		},
	}
}

func TestExportService_Export_OneRowPerDocument(t *testing.T) {
	id := uuid.New()
	svc := service.NewExportService(pagedRepo([]domain.Document{{
		ID:          id,
		SourcePath:  "/archive/2024/2024-03-15--bill__tax_invoice.pdf",
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "bill",
		Tags:        []string{"tax", "invoice"},
		Status:      domain.StatusArchived,
	}}))

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, id.String(), rows[0].DocumentID)
	assert.Equal(t, "2024-03-15", rows[0].Date)
	assert.Equal(t, "archived", rows[0].Status)
	assert.Equal(t, []string{"invoice", "tax"}, rows[0].Tags, "tags are sorted")
}

func TestExportService_Export_WalksAllPages(t *testing.T) {
	docs := make([]domain.Document, 250)
	for i := range docs {
		docs[i] = domain.Document{ID: uuid.New()}
	}
	svc := service.NewExportService(pagedRepo(docs))

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.Len(t, rows, 250)
	assert.Equal(t, docs[249].ID.String(), rows[249].DocumentID)
	assert.NotNil(t, rows[0].Tags)
}

func TestExportService_Export_Empty(t *testing.T) {
	svc := service.NewExportService(pagedRepo(nil))

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewExportService(&mockDocumentRepo{
		list: func(context.Context, domain.PaginationParams) ([]domain.Document, int, error) {
			return nil, 0, boom
		},
	})

	_, err := svc.Export(context.Background())

	assert.ErrorIs(t, err, boom)
}
