// Package main implements the diligencescanner CLI: automated
// due-diligence extraction over fund documents with cross-document
// contradiction flags.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"DiligenceScanner/internal/app"
	"DiligenceScanner/internal/config"
	"DiligenceScanner/internal/domain"
	"DiligenceScanner/internal/logging"
	"DiligenceScanner/internal/report"
)

var (
	inputDir   string
	outDir     string
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "diligencescanner",
	Short: "Diligence extraction and contradiction flags for fund documents",
	Long: `diligencescanner turns a directory of fund/offering documents (PDF,
text, or HTML) into structured financial facts with per-field confidence
and evidence citations, then cross-checks the documents against each
other for numeric contradictions and definitional drift.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: extract, verify, flag, report",
	RunE:  runRun,
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write manifests and extract documents without running rules",
	RunE:  runExtract,
}

var flagCmd = &cobra.Command{
	Use:   "flag",
	Short: "Apply cross-document rules to an existing extracted.json",
	RunE:  runFlag,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render reports from existing run artifacts",
	RunE:  runReport,
}

func init() {
	// Credentials may live in a local .env file.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input", "sample_docs", "directory of input documents")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "outputs/run", "directory for run artifacts")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(reportCmd)
}

// setup resolves configuration and attaches a run-scoped logger writing
// to stdout and <out>/run.log.
func setup() (config.Config, *slog.Logger, func() error) {
	cfg := config.Load(configPath)

	logger, closeLog, err := logging.NewWithFile(cfg.Logging.Level, filepath.Join(outDir, "run.log"))
	if err != nil {
		logger.Warn("run.log unavailable; logging to console only", "error", err)
	}

	return cfg, logger.With("run_id", uuid.NewString()), closeLog
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, logger, closeLog := setup()
	defer func() { _ = closeLog() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	docs, flags, err := application.Pipeline().Run(cmd.Context(), inputDir, outDir)
	if err != nil {
		return err
	}

	fmt.Print(report.ConsoleSummary(docs, flags))
	logger.Info("run complete", "docs", len(docs), "flags", len(flags))
	return nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, logger, closeLog := setup()
	defer func() { _ = closeLog() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	pipeline := application.Pipeline()

	paths, err := pipeline.Discover(inputDir)
	if err != nil {
		return err
	}
	if _, err := pipeline.WriteManifests(paths, outDir); err != nil {
		return err
	}

	docs, err := pipeline.ExtractAll(cmd.Context(), paths, outDir)
	if err != nil {
		return err
	}

	logger.Info("extraction complete", "docs", len(docs))
	return nil
}

func runFlag(_ *cobra.Command, _ []string) error {
	cfg, logger, closeLog := setup()
	defer func() { _ = closeLog() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	docs, err := readDocs(filepath.Join(outDir, "extracted.json"))
	if err != nil {
		return fmt.Errorf("missing extracted.json in %s; run extract first: %w", outDir, err)
	}

	flags, err := application.Pipeline().RunRules(docs, outDir)
	if err != nil {
		return err
	}

	fmt.Print(report.ConsoleSummary(docs, flags))
	logger.Info("rules complete", "flags", len(flags))
	return nil
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg, logger, closeLog := setup()
	defer func() { _ = closeLog() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	docs, err := readDocs(filepath.Join(outDir, "extracted.json"))
	if err != nil {
		return fmt.Errorf("missing extracted.json in %s; run extract first: %w", outDir, err)
	}

	// flags.json is optional here; reports render without a flag queue.
	var flags []domain.Flag
	if raw, err := os.ReadFile(filepath.Join(outDir, "flags.json")); err == nil {
		if err := json.Unmarshal(raw, &flags); err != nil {
			return fmt.Errorf("decode flags.json: %w", err)
		}
	}

	if err := application.Pipeline().BuildReports(docs, flags, outDir); err != nil {
		return err
	}

	logger.Info("reports written", "out", outDir)
	return nil
}

func readDocs(path string) ([]domain.ExtractedDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var docs []domain.ExtractedDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	for i := range docs {
		docs[i].EnsureDefaults()
	}
	return docs, nil
}
