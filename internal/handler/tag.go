package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// ListTags handles GET /tags.
// ?q= filters by name prefix (normalized by the service); ?page= and ?limit=
// page through the matches.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		badRequest(w, err)
		return
	}
	page, limit, err := pageParams(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	prefix := ""
	if q != nil {
		prefix = *q
	}
	params := domain.NewPaginationParams(page, limit)
	tags, total, err := s.tags.List(r.Context(), prefix, params)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TagList{
		Data: tagsToResponse(tags),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ReindexTags handles POST /tags/reindex.
func (s *Server) ReindexTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.Reindex(r.Context())
	if err != nil {
		writeServiceError(w, r, "archive root", err)
		return
	}
	writeJSON(w, http.StatusOK, tagsToResponse(tags))
}

func tagsToResponse(tags []domain.Tag) []Tag {
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = Tag{Id: t.ID, Name: t.Name, Count: t.Count, CreatedAt: t.CreatedAt}
	}
	return out
}
