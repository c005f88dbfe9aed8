package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"DiligenceScanner/internal/domain"
)

type stubClient struct {
	response string
	err      error
	lastMsg  string
}

func (s *stubClient) Complete(_ context.Context, _ string, message string, _ float64) (string, error) {
	s.lastMsg = message
	return s.response, s.err
}

func TestModelExtractorParsesJSONWithSurroundingProse(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: `Here is the extraction you asked for:

{"doc_name": "deck.pdf", "doc_date": "2024-03-31",
 "aum": {"value": 1200000000, "confidence": 0.8,
         "evidence": {"doc_name": "deck.pdf", "page": 1, "snippet": "AUM: $1.20B"}},
 "notes": [], "missing_fields": ["tvpi.value"]}

Let me know if you need anything else.`}

	extractor := NewModelExtractor(client, "command-r-plus", 0.0, "Extract the facts.")
	doc, err := extractor.Extract(context.Background(), "deck.pdf", []domain.Page{{PageNum: 1, Text: "AUM: $1.20B"}})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if doc.DocName != "deck.pdf" {
		t.Fatalf("unexpected doc name: %s", doc.DocName)
	}
	if doc.AUM.Value == nil || *doc.AUM.Value != 1.2e9 {
		t.Fatalf("unexpected AUM: %v", doc.AUM.Value)
	}
	if len(doc.MissingFields) != 1 || doc.MissingFields[0] != "tvpi.value" {
		t.Fatalf("unexpected missing fields: %v", doc.MissingFields)
	}
}

func TestModelExtractorMessageShape(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: `{"doc_name": "d.txt"}`}
	extractor := NewModelExtractor(client, "command-r-plus", 0.0, "PRELUDE")

	pages := []domain.Page{
		{PageNum: 1, Text: "first page"},
		{PageNum: 2, Text: "second page"},
	}
	if _, err := extractor.Extract(context.Background(), "d.txt", pages); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	for _, want := range []string{
		"PRELUDE",
		"SCHEMA EXAMPLE (shape only):",
		"--- PAGE 1 ---\nfirst page",
		"--- PAGE 2 ---\nsecond page",
		`"missing_fields":[]`,
	} {
		if !strings.Contains(client.lastMsg, want) {
			t.Fatalf("message missing %q:\n%s", want, client.lastMsg)
		}
	}
}

func TestModelExtractorNoJSONIsSchemaError(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: "I could not find any metrics in this document."}
	extractor := NewModelExtractor(client, "command-r-plus", 0.0, "Extract.")

	_, err := extractor.Extract(context.Background(), "d.txt", []domain.Page{{PageNum: 1, Text: "x"}})

	var schemaErr *SchemaParseError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaParseError, got %v", err)
	}
}

func TestModelExtractorMalformedJSONIsSchemaError(t *testing.T) {
	t.Parallel()

	client := &stubClient{response: `{"doc_name": 42}`}
	extractor := NewModelExtractor(client, "command-r-plus", 0.0, "Extract.")

	_, err := extractor.Extract(context.Background(), "d.txt", []domain.Page{{PageNum: 1, Text: "x"}})

	var schemaErr *SchemaParseError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaParseError, got %v", err)
	}
}

func TestModelExtractorPropagatesClientError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("connection refused")
	client := &stubClient{err: wantErr}
	extractor := NewModelExtractor(client, "command-r-plus", 0.0, "Extract.")

	_, err := extractor.Extract(context.Background(), "d.txt", []domain.Page{{PageNum: 1, Text: "x"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}
