package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Request and response bodies. They mirror the schemas in openapi.yaml.

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz. Status is "ok" or "degraded";
// Checks holds "ok" or the failure message per registered check.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Document is the API representation of a tracked document.
type Document struct {
	Id          openapi_types.UUID `json:"id"`
	Path        string             `json:"path"`
	Date        openapi_types.Date `json:"date"`
	Description string             `json:"description"`
	Tags        []string           `json:"tags"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// DocumentList is the body of GET /documents.
type DocumentList struct {
	Data       []Document `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PathRequest is the body of POST /documents and POST /documents/scan.
type PathRequest struct {
	Path string `json:"path"`
}

// UpdateDocumentRequest is the body of PATCH /documents/{id}.
type UpdateDocumentRequest struct {
	Description *string             `json:"description,omitempty"`
	Date        *openapi_types.Date `json:"date,omitempty"`
}

// AddTagRequest is the body of POST /documents/{id}/tags.
type AddTagRequest struct {
	Name string `json:"name"`
}

// Placement is the body of GET /documents/{id}/plan.
type Placement struct {
	Directory string `json:"directory"`
	Filename  string `json:"filename"`
	Path      string `json:"path"`
}

// Tag is the API representation of a registry tag.
type Tag struct {
	Id        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	Count     int                `json:"count"`
	CreatedAt time.Time          `json:"created_at"`
}

// TagList is the body of GET /tags.
type TagList struct {
	Data       []Tag      `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ExportRow is one row of GET /export in JSON form.
type ExportRow struct {
	DocumentId  openapi_types.UUID `json:"document_id"`
	Path        string             `json:"path"`
	Date        openapi_types.Date `json:"date"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	Tags        []string           `json:"tags"`
}
