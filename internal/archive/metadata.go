package archive

// MetadataWriter attaches tag names to a file as native metadata.
// Failures are reported to the caller, which treats them as non-fatal.
type MetadataWriter interface {
	WriteTags(path string, tags []string) error
}

// XattrName is the extended attribute used for file tags (freedesktop.org
// shared metadata convention, comma separated).
const XattrName = "user.xdg.tags"

// NopMetadataWriter discards tags.
type NopMetadataWriter struct{}

func (NopMetadataWriter) WriteTags(string, []string) error { return nil }
