// Command processor runs the visa statistics pipeline over every yearly
// workbook in the input directory and writes the report files per year.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"visacli/internal/config"
	"visacli/internal/exporter"
	"visacli/internal/geo"
	"visacli/internal/infrastructure"
	"visacli/internal/services"
	"visacli/internal/validation"
	"visacli/internal/visa"
)

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

func main() {
	inDir := flag.String("in", "", "input directory for .xlsx workbooks (defaults to configured input dir)")
	outDir := flag.String("out", "", "output directory for report files (defaults to configured reports dir)")
	year := flag.String("year", "", "process only the workbook for this year")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *inDir != "" {
		cfg.Paths.InputDir = *inDir
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := run(context.Background(), cfg, logger, *year); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, onlyYear string) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(cfg.Paths.InputDir); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(cfg.Paths.ReportsDir); err != nil {
		return err
	}

	workbooks, err := services.DiscoverWorkbooks(cfg.Paths.InputDir)
	if err != nil {
		return err
	}
	if onlyYear != "" {
		workbooks = filterByYear(workbooks, onlyYear)
	}
	if len(workbooks) == 0 {
		return fmt.Errorf("no workbooks to process in %s", cfg.Paths.InputDir)
	}

	logger.InfoContext(ctx, "starting visa statistics processing",
		slog.String("input_dir", cfg.Paths.InputDir),
		slog.String("output_dir", cfg.Paths.ReportsDir),
		slog.Int("workbooks", len(workbooks)),
		slog.Int("max_concurrency", cfg.Pipeline.MaxConcurrency))

	start := time.Now()

	// Yearly datasets are independent, so workbooks process in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Pipeline.MaxConcurrency)

	for _, workbook := range workbooks {
		g.Go(func() error {
			return processWorkbook(gctx, cfg, logger, workbook)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "processing complete",
		slog.Int("workbooks", len(workbooks)),
		slog.String("duration", time.Since(start).String()))
	return nil
}

func processWorkbook(ctx context.Context, cfg *config.Config, logger *slog.Logger, workbook string) error {
	year := workbookYear(workbook)
	wbLogger := logger.With(
		slog.String("workbook", filepath.Base(workbook)),
		slog.String("year", year))

	pipeline := visa.NewPipeline(geo.NewTableClassifier(), wbLogger)
	svc := services.NewDatasetService(cfg, pipeline, wbLogger)

	dataset, err := svc.LoadWorkbook(ctx, workbook)
	if err != nil {
		return err
	}

	outDir := filepath.Join(cfg.Paths.ReportsDir, year)
	if err := exporter.WriteDataset(dataset, outDir); err != nil {
		return fmt.Errorf("write reports for %s: %w", workbook, err)
	}

	wbLogger.InfoContext(ctx, "workbook processed",
		slog.Int("records", len(dataset.Records)),
		slog.Int("countries", len(dataset.Countries)),
		slog.Int("rows_dropped", dataset.Stats.RowsDropped),
		slog.Int("counts_defaulted", dataset.Stats.CountsDefaulted),
		slog.Int("rates_undefined", dataset.Stats.RatesUndefined),
		slog.Int("unclassified", dataset.Stats.Unclassified),
		slog.String("output_dir", outDir))
	return nil
}

// workbookYear extracts the four-digit year from a workbook file name,
// falling back to the bare file name when none is present.
func workbookYear(path string) string {
	name := filepath.Base(path)
	if match := yearPattern.FindString(name); match != "" {
		return match
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func filterByYear(workbooks []string, year string) []string {
	var matched []string
	for _, wb := range workbooks {
		if workbookYear(wb) == year {
			matched = append(matched, wb)
		}
	}
	return matched
}
