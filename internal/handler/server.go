// Package handler implements the HTTP API of the PDF archiver.
// All handlers are methods on Server; Handler mounts them on a chi router.
// Methods are split into resource files (health.go, document.go, tag.go,
// export.go) but share the same Server struct and its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/naming"
	"github.com/pkordes/pdf-archiver/internal/service"
)

// DocumentServicer defines the document operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or the filesystem.
type DocumentServicer interface {
	Discover(ctx context.Context, path string) (domain.Document, error)
	Scan(ctx context.Context, path string) ([]domain.Document, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Document, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int, error)
	Update(ctx context.Context, id uuid.UUID, patch service.DocumentPatch) (domain.Document, error)
	AddTag(ctx context.Context, id uuid.UUID, name string) (domain.Document, error)
	RemoveTag(ctx context.Context, id uuid.UUID, name string) (domain.Document, error)
	Plan(ctx context.Context, id uuid.UUID) (naming.Placement, error)
	Archive(ctx context.Context, id uuid.UUID) (domain.Document, error)
}

// TagServicer defines the tag registry operations the handlers depend on.
type TagServicer interface {
	List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int, error)
	Reindex(ctx context.Context) ([]domain.Tag, error)
}

// ExportServicer defines the export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// HealthCheck is one named dependency probe run by GET /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	docs   DocumentServicer
	tags   TagServicer
	export ExportServicer
	checks []HealthCheck
}

// Option configures a Server.
type Option func(*Server)

// WithHealthCheck adds a probe to GET /healthz.
func WithHealthCheck(name string, check func(ctx context.Context) error) Option {
	return func(s *Server) { s.checks = append(s.checks, HealthCheck{Name: name, Check: check}) }
}

// NewServer constructs the Server with all its dependencies.
func NewServer(docs DocumentServicer, tags TagServicer, export ExportServicer, opts ...Option) *Server {
	s := &Server{docs: docs, tags: tags, export: export}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler(opts ...Option) *Server {
	return NewServer(nil, nil, nil, opts...)
}

// Handler returns an http.Handler serving every endpoint of s.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	HandlerFromMux(s, r)
	return r
}

// HandlerFromMux registers every endpoint of s on r.
func HandlerFromMux(s *Server, r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/tags", s.ListTags)
	r.Post("/tags/reindex", s.ReindexTags)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Post("/", s.DiscoverDocument)
		r.Post("/scan", s.ScanDocuments)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Patch("/", s.UpdateDocument)
			r.Get("/plan", s.PlanDocument)
			r.Post("/archive", s.ArchiveDocument)
			r.Post("/tags", s.AddDocumentTag)
			r.Delete("/tags/{name}", s.RemoveDocumentTag)
		})
	})

	r.Get("/export", s.GetExport)
}
