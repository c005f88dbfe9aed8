package ports

import (
	"context"

	"DiligenceScanner/internal/domain"
)

// DocumentLoader resolves a file path into page-indexed text and
// advertises the file extensions it understands, which drive input
// discovery.
type DocumentLoader interface {
	Load(path string) (docName string, pages []domain.Page, err error)
	Extensions() []string
}

// Extractor produces a structured document record from raw pages.
// Implementations return a best-effort record with populated
// missing_fields where possible; errors are reserved for infrastructure
// or schema failures that yield no usable record at all.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, docName string, pages []domain.Page) (domain.ExtractedDoc, error)
}

// CompletionClient is a blocking text-generation backend.
type CompletionClient interface {
	Complete(ctx context.Context, model, message string, temperature float64) (string, error)
}

// Scorer finalizes confidence and completeness bookkeeping for an
// extracted document against its source pages.
type Scorer interface {
	Score(doc domain.ExtractedDoc, pages []domain.Page) domain.ExtractedDoc
}

// DocStore persists verified documents keyed by content hash.
type DocStore interface {
	Get(hash string) (domain.ExtractedDoc, bool, error)
	Put(hash string, doc domain.ExtractedDoc) error
}

// Rule inspects the full verified document collection and emits flags.
type Rule interface {
	Name() string
	Apply(docs []domain.ExtractedDoc) []domain.Flag
}
