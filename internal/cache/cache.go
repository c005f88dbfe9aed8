package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// Store is a content-addressed map of verified documents: one JSON file
// per content hash under a directory. Entries are never evicted;
// deleting a file is the only way to force recomputation.
type Store struct {
	dir string
}

var _ ports.DocStore = (*Store)(nil)

// NewStore creates the cache directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get loads the verified document for a content hash, reporting whether
// the entry exists.
func (s *Store) Get(hash string) (domain.ExtractedDoc, bool, error) {
	raw, err := os.ReadFile(s.entryPath(hash))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ExtractedDoc{}, false, nil
	}
	if err != nil {
		return domain.ExtractedDoc{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	var doc domain.ExtractedDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.ExtractedDoc{}, false, fmt.Errorf("decode cache entry %s: %w", hash, err)
	}
	doc.EnsureDefaults()

	return doc, true, nil
}

// Put persists the verified document under its content hash.
func (s *Store) Put(hash string, doc domain.ExtractedDoc) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := os.WriteFile(s.entryPath(hash), raw, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (s *Store) entryPath(hash string) string {
	return filepath.Join(s.dir, hash+".json")
}
