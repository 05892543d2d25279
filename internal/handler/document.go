package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/service"
)

// DiscoverDocument handles POST /documents.
func (s *Server) DiscoverDocument(w http.ResponseWriter, r *http.Request) {
	var body PathRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	if body.Path == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("path is required"))
		return
	}

	doc, err := s.docs.Discover(r.Context(), body.Path)
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

// ScanDocuments handles POST /documents/scan.
func (s *Server) ScanDocuments(w http.ResponseWriter, r *http.Request) {
	var body PathRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}
	if body.Path == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("path is required"))
		return
	}

	docs, err := s.docs.Scan(r.Context(), body.Path)
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusCreated, documentsToResponse(docs))
}

// ListDocuments handles GET /documents.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	params := domain.NewPaginationParams(page, limit)
	docs, total, err := s.docs.List(r.Context(), params)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DocumentList{
		Data: documentsToResponse(docs),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	doc, err := s.docs.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// UpdateDocument handles PATCH /documents/{id}.
func (s *Server) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	var body UpdateDocumentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}

	doc, err := s.docs.Update(r.Context(), id, requestToPatch(body))
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// AddDocumentTag handles POST /documents/{id}/tags.
func (s *Server) AddDocumentTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	var body AddTagRequest
	if err := decodeJSON(r, &body); err != nil {
		writeBodyError(w, err)
		return
	}

	doc, err := s.docs.AddTag(r.Context(), id, body.Name)
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusCreated, documentToResponse(doc))
}

// RemoveDocumentTag handles DELETE /documents/{id}/tags/{name}.
func (s *Server) RemoveDocumentTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	if _, err := s.docs.RemoveTag(r.Context(), id, chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, r, "document or tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlanDocument handles GET /documents/{id}/plan.
func (s *Server) PlanDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	p, err := s.docs.Plan(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusOK, Placement{Directory: p.Directory, Filename: p.Filename, Path: p.Path()})
}

// ArchiveDocument handles POST /documents/{id}/archive.
func (s *Server) ArchiveDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	doc, err := s.docs.Archive(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "document", err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// --- mapping helpers --------------------------------------------------------

// requestToPatch converts an UpdateDocumentRequest body into a service patch.
func requestToPatch(body UpdateDocumentRequest) service.DocumentPatch {
	patch := service.DocumentPatch{Description: body.Description}
	if body.Date != nil {
		d := body.Date.Time
		patch.Date = &d
	}
	return patch
}

// documentToResponse converts a domain.Document into its API type.
func documentToResponse(d domain.Document) Document {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return Document{
		Id:          d.ID,
		Path:        d.SourcePath,
		Date:        openapi_types.Date{Time: d.Date},
		Description: d.Description,
		Tags:        tags,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func documentsToResponse(docs []domain.Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = documentToResponse(d)
	}
	return out
}
