package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"DiligenceScanner/internal/config"
	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/ports"
	"DiligenceScanner/internal/report"
)

// ErrNoInputs aborts a run whose input directory yields no usable
// documents.
var ErrNoInputs = errors.New("no input documents found")

// PipelineDeps wires all adapters into the orchestration pipeline.
type PipelineDeps struct {
	Loader    ports.DocumentLoader
	Extractor ports.Extractor // model-backed primary, may be nil
	Fallback  ports.Extractor // deterministic pattern extractor
	Scorer    ports.Scorer
	Store     ports.DocStore
	Rules     []ports.Rule
	Config    config.Config
	Logger    *slog.Logger
}

// Pipeline implements the extraction-verification-flagging workflow.
type Pipeline struct {
	loader    ports.DocumentLoader
	extractor ports.Extractor
	fallback  ports.Extractor
	scorer    ports.Scorer
	store     ports.DocStore
	rules     []ports.Rule
	cfg       config.Config
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		loader:    deps.Loader,
		extractor: deps.Extractor,
		fallback:  deps.Fallback,
		scorer:    deps.Scorer,
		store:     deps.Store,
		rules:     deps.Rules,
		cfg:       deps.Config,
		logger:    logger,
	}
}

// Run executes the full workflow: discovery, manifests, extraction with
// verification, cross-document rules, and report rendering. The
// verified documents and flags are returned for console summaries.
func (p *Pipeline) Run(ctx context.Context, inputDir, outDir string) ([]domain.ExtractedDoc, []domain.Flag, error) {
	paths, err := p.Discover(inputDir)
	if err != nil {
		return nil, nil, err
	}

	if _, err := p.WriteManifests(paths, outDir); err != nil {
		return nil, nil, err
	}

	docs, err := p.ExtractAll(ctx, paths, outDir)
	if err != nil {
		return nil, nil, err
	}

	flags, err := p.RunRules(docs, outDir)
	if err != nil {
		return nil, nil, err
	}

	if err := p.BuildReports(docs, flags, outDir); err != nil {
		return nil, nil, err
	}

	return docs, flags, nil
}

// Discover lists input files with recognized extensions in
// lexicographic order. An empty result is fatal: it signals a
// configuration mistake, not an empty portfolio.
func (p *Pipeline) Discover(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", inputDir, err)
	}

	recognized := map[string]bool{}
	for _, ext := range p.loader.Extensions() {
		recognized[strings.ToLower(ext)] = true
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if recognized[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(inputDir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputs, inputDir)
	}

	return paths, nil
}

// WriteManifests persists the resolved configuration and the input
// manifest; the manifest doubles as the audit trail of cache keys.
func (p *Pipeline) WriteManifests(paths []string, outDir string) ([]domain.InputFile, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSON(filepath.Join(outDir, "config.json"), p.cfg); err != nil {
		return nil, err
	}

	inputs := make([]domain.InputFile, 0, len(paths))
	for _, path := range paths {
		hash, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, domain.InputFile{Path: path, SHA256: hash})
	}

	if err := writeJSON(filepath.Join(outDir, "inputs.json"), inputs); err != nil {
		return nil, err
	}

	return inputs, nil
}

// ExtractAll processes each input to completion before the next: cache
// check, load, extract, score, cache write. Extraction failures fall
// back to the pattern extractor with an audit note; they never abort
// the run.
func (p *Pipeline) ExtractAll(ctx context.Context, paths []string, outDir string) ([]domain.ExtractedDoc, error) {
	docs := make([]domain.ExtractedDoc, 0, len(paths))

	for _, path := range paths {
		hash, err := hashFile(path)
		if err != nil {
			return nil, err
		}

		cached, hit, err := p.store.Get(hash)
		if err != nil {
			return nil, err
		}
		if hit {
			p.logger.Info("cache hit", "doc", filepath.Base(path))
			docs = append(docs, cached)
			continue
		}

		docName, pages, err := p.loader.Load(path)
		if err != nil {
			return nil, err
		}
		p.logger.Info("extracting", "doc", docName)

		doc := p.extract(ctx, docName, pages)
		doc = p.scorer.Score(doc, pages)

		if err := p.store.Put(hash, doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := writeJSON(filepath.Join(outDir, "extracted.json"), docs); err != nil {
		return nil, err
	}

	return docs, nil
}

// extract runs the primary extractor when configured, downgrading any
// failure to the pattern fallback with a note so the switch is visible
// downstream.
func (p *Pipeline) extract(ctx context.Context, docName string, pages []domain.Page) domain.ExtractedDoc {
	if p.extractor == nil {
		doc, _ := p.fallback.Extract(ctx, docName, pages)
		return doc
	}

	doc, err := p.extractor.Extract(ctx, docName, pages)
	if err == nil {
		return doc
	}

	p.logger.Warn("model extraction failed; falling back",
		"doc", docName, "extractor", p.extractor.Name(), "error", err)

	doc, _ = p.fallback.Extract(ctx, docName, pages)
	doc.Notes = append(doc.Notes, fmt.Sprintf("NOTE: Cohere extraction failed; used regex fallback. Error: %v", err))
	return doc
}

// RunRules applies the configured rules in order over the verified
// document collection and persists the flag queue.
func (p *Pipeline) RunRules(docs []domain.ExtractedDoc, outDir string) ([]domain.Flag, error) {
	flags := []domain.Flag{}
	for _, rule := range p.rules {
		flags = append(flags, rule.Apply(docs)...)
	}

	if err := writeJSON(filepath.Join(outDir, "flags.json"), flags); err != nil {
		return nil, err
	}

	return flags, nil
}

// BuildReports renders the facts table and IC memo from the verified
// documents and flags; no field is re-derived or re-scored here.
func (p *Pipeline) BuildReports(docs []domain.ExtractedDoc, flags []domain.Flag, outDir string) error {
	facts, err := os.Create(filepath.Join(outDir, "facts_table.csv"))
	if err != nil {
		return fmt.Errorf("create facts table: %w", err)
	}
	if err := report.WriteFacts(facts, docs); err != nil {
		_ = facts.Close()
		return fmt.Errorf("write facts table: %w", err)
	}
	if err := facts.Close(); err != nil {
		return fmt.Errorf("close facts table: %w", err)
	}

	memo := report.RenderMemo(docs, flags)
	if err := os.WriteFile(filepath.Join(outDir, "ic_summary.md"), []byte(memo), 0o644); err != nil {
		return fmt.Errorf("write ic summary: %w", err)
	}

	return nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// hashFile computes the sha256 of the file's bytes, the cache key and
// manifest fingerprint.
func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
