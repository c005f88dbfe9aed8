package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// UnsupportedFormatError reports an input file whose extension has no
// registered reader. It aborts the run: an unrecognized input points at
// a configuration mistake, not a weak document.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Path)
}

// Format reads one document format into page-indexed text.
type Format interface {
	Name() string
	Extensions() []string
	Read(path string) ([]domain.Page, error)
}

// Registry maps file extensions to their format readers.
type Registry struct {
	formats map[string]Format
}

var _ ports.DocumentLoader = (*Registry)(nil)

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: map[string]Format{}}
}

// NewDefaultRegistry wires the formats the scanner understands out of
// the box: plain text, PDF, and HTML.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TextFormat{})
	r.Register(PDFFormat{})
	r.Register(HTMLFormat{})
	return r
}

// Register adds or replaces a format reader for all its extensions.
func (r *Registry) Register(f Format) {
	if r.formats == nil {
		r.formats = map[string]Format{}
	}
	for _, ext := range f.Extensions() {
		r.formats[strings.ToLower(ext)] = f
	}
}

// Extensions lists every registered extension, used for file discovery.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		exts = append(exts, ext)
	}
	return exts
}

// Load resolves the path's extension to a reader and returns the
// document name with its ordered pages.
func (r *Registry) Load(path string) (string, []domain.Page, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := r.formats[ext]
	if !ok {
		return "", nil, &UnsupportedFormatError{Path: path}
	}

	pages, err := format.Read(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s as %s: %w", path, format.Name(), err)
	}

	return filepath.Base(path), pages, nil
}
