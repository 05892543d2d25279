package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkordes/pdf-archiver/internal/domain"
)

// Discoverer finds PDF files to hand to the engine. It never decides what
// should be archived; callers pass an explicit file or folder.
type Discoverer struct {
	// IncludeHidden also descends into dot-directories and returns dot-files.
	IncludeHidden bool
}

// Find returns the absolute paths of the PDFs at path, sorted.
// A file is returned as-is if it has a .pdf extension (any case). A folder is
// walked recursively. Returns domain.ErrValidation if path is a file that is
// not a PDF or does not exist.
func (d Discoverer) Find(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("service.Discoverer.Find: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("service.Discoverer.Find: %v: %w", err, domain.ErrValidation)
	}
	if !info.IsDir() {
		if !isPDF(abs) {
			return nil, fmt.Errorf("service.Discoverer.Find: %s is not a pdf: %w", abs, domain.ErrValidation)
		}
		return []string{abs}, nil
	}

	paths := []string{}
	err = filepath.WalkDir(abs, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != abs && !d.IncludeHidden && strings.HasPrefix(e.Name(), ".") {
			if e.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if e.Type().IsRegular() && isPDF(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.Discoverer.Find: %w", err)
	}
	slices.Sort(paths)
	return paths, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
