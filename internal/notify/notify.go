// Package notify turns engine errors into user-facing notices.
// The engine only produces the notice; rendering it (dialog, log line,
// HTTP body) is up to the UserNotifier implementation.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// Severity of a notice.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Message and info keys. They are stable identifiers a presentation layer can
// localise.
const (
	MsgRenamingFailed = "renaming_failed"
	MsgNoArchive      = "no_archive"

	InfoCheckDescription = "check_document_description"
	InfoCheckTags        = "check_document_tags"
	InfoCheckFields      = "check_document_fields"
	InfoFileExists       = "file_already_exists"
	InfoSelectPrefs      = "select_preferences"
	InfoDocumentArchived = "document_already_archived"
)

// Notice is a single message for the user.
type Notice struct {
	Message  string
	Info     string
	Severity Severity
}

// UserNotifier surfaces notices to whoever is operating the archive.
type UserNotifier interface {
	Notify(ctx context.Context, n Notice)
}

// FromError maps an archiving error to its notice. ok is false for nil errors.
func FromError(err error) (n Notice, ok bool) {
	switch {
	case err == nil:
		return Notice{}, false
	case errors.Is(err, domain.ErrNoArchiveRoot):
		return Notice{Message: MsgNoArchive, Info: InfoSelectPrefs, Severity: SeverityCritical}, true
	case errors.Is(err, domain.ErrMissingDescription):
		return Notice{Message: MsgRenamingFailed, Info: InfoCheckDescription, Severity: SeverityWarning}, true
	case errors.Is(err, domain.ErrMissingTags):
		return Notice{Message: MsgRenamingFailed, Info: InfoCheckTags, Severity: SeverityWarning}, true
	case errors.Is(err, domain.ErrAlreadyExists):
		return Notice{Message: MsgRenamingFailed, Info: InfoFileExists, Severity: SeverityWarning}, true
	case errors.Is(err, domain.ErrDocumentArchived):
		return Notice{Message: MsgRenamingFailed, Info: InfoDocumentArchived, Severity: SeverityInfo}, true
	default:
		return Notice{Message: MsgRenamingFailed, Info: InfoCheckFields, Severity: SeverityWarning}, true
	}
}

// NotifyError sends the notice for err, if any.
func NotifyError(ctx context.Context, n UserNotifier, err error) {
	if n == nil {
		return
	}
	if notice, ok := FromError(err); ok {
		n.Notify(ctx, notice)
	}
}

// SlogNotifier writes notices as structured log lines.
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier returns a notifier logging to log, or slog.Default() when nil.
func NewSlogNotifier(log *slog.Logger) *SlogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &SlogNotifier{log: log}
}

// Notify logs n at a level matching its severity.
func (s *SlogNotifier) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	switch n.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityCritical:
		level = slog.LevelError
	}
	s.log.Log(ctx, level, "user notice",
		"message", n.Message,
		"info", n.Info,
		"severity", string(n.Severity),
	)
}
