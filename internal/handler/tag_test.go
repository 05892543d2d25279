package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/handler"
)

// mockTagServicer is a test double for handler.TagServicer.
type mockTagServicer struct {
	list    func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int, error)
	reindex func(ctx context.Context) ([]domain.Tag, error)
}

func (m *mockTagServicer) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int, error) {
	return m.list(ctx, prefix, p)
}
func (m *mockTagServicer) Reindex(ctx context.Context) ([]domain.Tag, error) {
	return m.reindex(ctx)
}

var _ handler.TagServicer = (*mockTagServicer)(nil)

func newTagHandler(svc handler.TagServicer) http.Handler {
	return handler.Handler(handler.NewServer(nil, svc, nil))
}

func TestListTags_200(t *testing.T) {
	var gotPrefix string
	svc := &mockTagServicer{
		list: func(_ context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int, error) {
			gotPrefix = prefix
			return []domain.Tag{{ID: uuid.New(), Name: "invoice", Count: 3, CreatedAt: time.Now()}}, 1, nil
		},
	}

	rec := serve(newTagHandler(svc), http.MethodGet, "/tags?q=Inv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Inv", gotPrefix, "normalization is the service's job")

	var resp handler.TagList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "invoice", resp.Data[0].Name)
	assert.Equal(t, 3, resp.Data[0].Count)
	assert.Equal(t, handler.Pagination{Page: 1, Limit: 20, Total: 1}, resp.Pagination)
}

func TestListTags_NoPrefix(t *testing.T) {
	gotPrefix := "unset"
	svc := &mockTagServicer{
		list: func(_ context.Context, prefix string, _ domain.PaginationParams) ([]domain.Tag, int, error) {
			gotPrefix = prefix
			return []domain.Tag{}, 0, nil
		},
	}

	rec := serve(newTagHandler(svc), http.MethodGet, "/tags", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", gotPrefix)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":20,"total":0}}`, rec.Body.String())
}

func TestReindexTags_200(t *testing.T) {
	svc := &mockTagServicer{
		reindex: func(context.Context) ([]domain.Tag, error) {
			return []domain.Tag{{Name: "home", Count: 1}, {Name: "invoice", Count: 2}}, nil
		},
	}

	rec := serve(newTagHandler(svc), http.MethodPost, "/tags/reindex", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Tag
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestReindexTags_503_NoArchiveRoot(t *testing.T) {
	svc := &mockTagServicer{
		reindex: func(context.Context) ([]domain.Tag, error) {
			return nil, fmt.Errorf("service.TagService.Reindex: %w", domain.ErrNoArchiveRoot)
		},
	}

	rec := serve(newTagHandler(svc), http.MethodPost, "/tags/reindex", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "select_preferences", decodeError(t, rec).Code)
}
