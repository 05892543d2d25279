//go:build !linux && !darwin

package archive

// XattrWriter is a no-op on platforms without extended attribute support.
type XattrWriter struct{}

func (XattrWriter) WriteTags(string, []string) error { return nil }
