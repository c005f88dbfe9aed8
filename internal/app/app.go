package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"DiligenceScanner/internal/cache"
	"DiligenceScanner/internal/config"
	"DiligenceScanner/internal/extract"
	"DiligenceScanner/internal/infrastructure/llm"
	"DiligenceScanner/internal/loader"
	"DiligenceScanner/internal/logging"
	"DiligenceScanner/internal/ports"
	"DiligenceScanner/internal/rules"
	"DiligenceScanner/internal/usecase"
	"DiligenceScanner/internal/verify"
)

// Application wires configs to the pipeline and its adapters.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. The model-backed
// extractor is attempted only when enabled; any construction failure
// downgrades to the pattern fallback with a log line, never an abort.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var primary ports.Extractor
	if cfg.Run.UseCohere {
		primary = buildModelExtractor(cfg, baseLogger)
	}

	store, err := cache.NewStore(cfg.Run.CacheDir)
	if err != nil {
		return nil, err
	}

	registry := rules.NewRegistry()
	registry.Register(rules.NewNumericMismatchRule(cfg.Rules))
	registry.Register(rules.NewDefinitionDriftRule())

	selected, err := registry.Select(cfg.Run.Rules)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Loader:    loader.NewDefaultRegistry(),
		Extractor: primary,
		Fallback:  extract.NewPatternExtractor(),
		Scorer:    verify.New(),
		Store:     store,
		Rules:     selected,
		Config:    cfg,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}, nil
}

// Pipeline exposes the orchestration component to the CLI commands.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

func buildModelExtractor(cfg config.Config, logger *slog.Logger) ports.Extractor {
	client, err := llm.NewCohereClient(cfg.Model)
	if err != nil {
		logger.Info("cohere disabled or unavailable; using regex fallback", "error", err)
		return nil
	}

	prompt, err := loadPrompt(cfg.Run.PromptsDir, cfg.Run.ExtractPrompt)
	if err != nil {
		logger.Info("extract prompt unavailable; using regex fallback", "error", err)
		return nil
	}

	return extract.NewModelExtractor(client, cfg.Model.Model, cfg.Model.Temperature, prompt)
}

func loadPrompt(dir, name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	return string(raw), nil
}
