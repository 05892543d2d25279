//go:build linux || darwin

package archive

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// XattrWriter stores tags in the XattrName extended attribute.
type XattrWriter struct{}

func (XattrWriter) WriteTags(path string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	if err := unix.Setxattr(path, XattrName, []byte(strings.Join(tags, ",")), 0); err != nil {
		return fmt.Errorf("archive.XattrWriter: setxattr %s: %w", path, err)
	}
	return nil
}
