package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/repo"
)

// exportPageSize is the page size used to walk the document table.
const exportPageSize = 100

// ExportService assembles the archive manifest: one flat row per document.
type ExportService struct {
	docs repo.DocumentRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(docs repo.DocumentRepo) *ExportService {
	return &ExportService{docs: docs}
}

// Export returns one ExportRow per tracked document, oldest first.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	rows := []domain.ExportRow{}
	for page := 1; ; page++ {
		docs, total, err := s.docs.List(ctx, domain.PaginationParams{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		for _, d := range docs {
			rows = append(rows, toExportRow(d))
		}
		if len(docs) == 0 || page*exportPageSize >= total {
			return rows, nil
		}
	}
}

func toExportRow(d domain.Document) domain.ExportRow {
	tags := slices.Clone(d.Tags)
	slices.Sort(tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.ExportRow{
		DocumentID:  d.ID.String(),
		Path:        d.SourcePath,
		Date:        d.Date.Format(domain.DateLayout),
		Description: d.Description,
		Status:      string(d.Status),
		Tags:        tags,
	}
}
