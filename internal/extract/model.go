package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
)

// SchemaParseError marks a model response that could not be parsed into
// the expected document shape. Like infrastructure errors it triggers
// the pattern fallback; unlike them it means the backend answered.
type SchemaParseError struct {
	Reason string
	Err    error
}

func (e *SchemaParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model response: %s: %v", e.Reason, e.Err)
	}
	return "model response: " + e.Reason
}

func (e *SchemaParseError) Unwrap() error { return e.Err }

// ModelExtractor asks a text-generation backend to fill the document
// schema from the raw page text.
type ModelExtractor struct {
	client      ports.CompletionClient
	model       string
	temperature float64
	prompt      string
}

var _ ports.Extractor = (*ModelExtractor)(nil)

// NewModelExtractor wires a completion client with the instruction
// prelude loaded from the prompts directory.
func NewModelExtractor(client ports.CompletionClient, model string, temperature float64, prompt string) *ModelExtractor {
	return &ModelExtractor{
		client:      client,
		model:       model,
		temperature: temperature,
		prompt:      prompt,
	}
}

// Name identifies the strategy in logs and audit notes.
func (*ModelExtractor) Name() string { return "cohere" }

// Extract sends one blocking completion request and parses the first
// top-level JSON object found in the response. Surrounding prose is
// tolerated so minor formatting drift from the backend does not break
// parsing.
func (e *ModelExtractor) Extract(ctx context.Context, docName string, pages []domain.Page) (domain.ExtractedDoc, error) {
	message, err := e.buildMessage(docName, pages)
	if err != nil {
		return domain.ExtractedDoc{}, err
	}

	text, err := e.client.Complete(ctx, e.model, message, e.temperature)
	if err != nil {
		return domain.ExtractedDoc{}, fmt.Errorf("complete: %w", err)
	}

	return parseResponse(docName, text)
}

func (e *ModelExtractor) buildMessage(docName string, pages []domain.Page) (string, error) {
	blocks := make([]string, 0, len(pages))
	for _, pg := range pages {
		blocks = append(blocks, fmt.Sprintf("--- PAGE %d ---\n%s", pg.PageNum, pg.Text))
	}

	// An all-null document anchors the expected schema for the model.
	hint, err := json.Marshal(domain.NewExtractedDoc(docName))
	if err != nil {
		return "", fmt.Errorf("marshal schema hint: %w", err)
	}

	return fmt.Sprintf("%s\n\nSCHEMA EXAMPLE (shape only):\n%s\n\nDOCUMENT:\n%s",
		strings.TrimSpace(e.prompt), hint, strings.Join(blocks, "\n\n")), nil
}

// parseResponse cuts the response from the first '{' to the last '}'
// and decodes it as an ExtractedDoc.
func parseResponse(docName, text string) (domain.ExtractedDoc, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return domain.ExtractedDoc{}, &SchemaParseError{Reason: "no JSON object in response"}
	}

	var doc domain.ExtractedDoc
	if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err != nil {
		return domain.ExtractedDoc{}, &SchemaParseError{Reason: "decode document", Err: err}
	}
	if doc.DocName == "" {
		doc.DocName = docName
	}
	doc.EnsureDefaults()

	return doc, nil
}
