package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/notify"
)

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "document not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	msg := strings.TrimPrefix(unwrapMessage(err), domain.ErrValidation.Error()+": ")
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: msg}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// archiveBody returns an ErrorResponse for a plan or archive failure. The
// code is the user notice's info key so clients can show the same hint the
// notifier logs.
func archiveBody(err error) ErrorResponse {
	n, _ := notify.FromError(err)
	return ErrorResponse{Error: ErrorDetail{Code: n.Info, Message: unwrapMessage(err)}}
}

// unwrapMessage extracts the human-readable part from a wrapped error chain,
// dropping the "pkg.Type.Method: " location prefixes.
// e.g. "service.DocumentService.AddTag: validation error: tag name is empty" → "validation error: tag name is empty"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !isLocation(head) {
			return msg
		}
		msg = rest
	}
}

// isLocation reports whether s looks like "pkg.Type.Method" or "pkg.Func".
func isLocation(s string) bool {
	return strings.Contains(s, ".") && !strings.ContainsAny(s, " \"/")
}

// writeServiceError maps a service error to its HTTP status and body. what
// names the resource for 404 messages (e.g. "document").
func writeServiceError(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(what+" not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrMissingDescription), errors.Is(err, domain.ErrMissingTags):
		writeJSON(w, http.StatusUnprocessableEntity, archiveBody(err))
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrDocumentArchived):
		writeJSON(w, http.StatusConflict, archiveBody(err))
	case errors.Is(err, domain.ErrNoArchiveRoot):
		writeJSON(w, http.StatusServiceUnavailable, archiveBody(err))
	case errors.Is(err, domain.ErrDirectoryCreationFailed), errors.Is(err, domain.ErrMoveFailed):
		slog.ErrorContext(r.Context(), "archive failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, archiveBody(err))
	default:
		writeInternalError(w, r, err)
	}
}

// writeInternalError logs err and answers 500 without leaking its text.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
	})
}
