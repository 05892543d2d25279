package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{"document_id", "path", "date", "description", "status", "tags"}

// GetExport handles GET /export.
// It returns one row per tracked document. Use ?format=csv to receive CSV;
// default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		badRequest(w, err)
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{Code: "invalid_parameter", Message: "format must be json or csv"},
			})
			return
		}
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONResponse(rows))
}

// buildJSONResponse converts domain rows to the API row type.
func buildJSONResponse(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		id, _ := uuid.Parse(r.DocumentID)
		date, _ := time.Parse(domain.DateLayout, r.Date)
		out = append(out, ExportRow{
			DocumentId:  id,
			Path:        r.Path,
			Date:        openapi_types.Date{Time: date},
			Description: r.Description,
			Status:      r.Status,
			Tags:        r.Tags,
		})
	}
	return out
}

// writeCSV encodes rows as CSV. Tags within a row are pipe-separated ("|")
// to keep each document on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write([]string{r.DocumentID, r.Path, r.Date, r.Description, r.Status, strings.Join(r.Tags, "|")})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="archive-manifest.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
