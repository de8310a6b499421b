// Package services holds the application services behind the report HTTP
// shell: dataset access, report file listing, and health checks.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"visacli/internal/config"
	"visacli/internal/dataprocessing"
	"visacli/internal/validation"
	"visacli/internal/visa"
)

// DatasetService runs the processing pipeline over workbooks and keeps
// the most recent dataset in memory for the API handlers.
type DatasetService struct {
	cfg       *config.Config
	pipeline  *visa.Pipeline
	validator *validation.FileValidator
	logger    *slog.Logger

	mu      sync.RWMutex
	dataset *visa.Dataset
	loaded  time.Time
	source  string
}

// NewDatasetService creates a dataset service.
func NewDatasetService(cfg *config.Config, pipeline *visa.Pipeline, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		cfg:       cfg,
		pipeline:  pipeline,
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// LoadWorkbook parses the given workbook, runs the pipeline on it, and
// makes the result the current dataset.
func (s *DatasetService) LoadWorkbook(ctx context.Context, filePath string) (*visa.Dataset, error) {
	s.logger.InfoContext(ctx, "loading workbook",
		slog.String("file_path", filePath))

	if err := s.validator.ValidateWorkbookFile(filePath); err != nil {
		return nil, err
	}

	rows, err := dataprocessing.ParseWorkbook(filePath)
	if err != nil {
		return nil, fmt.Errorf("parse workbook %s: %w", filePath, err)
	}

	dataset, err := s.pipeline.Run(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("run pipeline on %s: %w", filePath, err)
	}

	s.mu.Lock()
	s.dataset = dataset
	s.loaded = time.Now()
	s.source = filePath
	s.mu.Unlock()

	return dataset, nil
}

// LoadLatest finds the newest workbook in the configured input directory
// and loads it.
func (s *DatasetService) LoadLatest(ctx context.Context) (*visa.Dataset, error) {
	workbooks, err := DiscoverWorkbooks(s.cfg.Paths.InputDir)
	if err != nil {
		return nil, err
	}
	if len(workbooks) == 0 {
		return nil, fmt.Errorf("no workbooks found in %s", s.cfg.Paths.InputDir)
	}
	return s.LoadWorkbook(ctx, workbooks[len(workbooks)-1])
}

// Dataset returns the current dataset, or nil when nothing has been
// loaded yet.
func (s *DatasetService) Dataset() *visa.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Source reports the workbook path and load time of the current dataset.
func (s *DatasetService) Source() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, s.loaded
}

// DiscoverWorkbooks lists the .xlsx files under dir in lexical order,
// skipping Excel lock files (the ~$ prefix).
func DiscoverWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	var workbooks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			workbooks = append(workbooks, filepath.Join(dir, name))
		}
	}
	sort.Strings(workbooks)
	return workbooks, nil
}
