package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReportFile describes one generated report file on disk.
type ReportFile struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Year     string    `json:"year,omitempty"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// ReportService lists and serves the report files written by the
// exporter under the configured reports directory.
type ReportService struct {
	reportsDir string
	logger     *slog.Logger
}

// NewReportService creates a report service rooted at reportsDir.
func NewReportService(reportsDir string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{reportsDir: reportsDir, logger: logger}
}

// ListReports walks the reports directory and returns every CSV and text
// report, newest first. Per-year runs live in subdirectories named after
// the year, which becomes the Year field.
func (s *ReportService) ListReports(ctx context.Context) ([]ReportFile, error) {
	s.logger.DebugContext(ctx, "scanning reports directory",
		slog.String("reports_dir", s.reportsDir))

	var reports []ReportFile
	err := filepath.Walk(s.reportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			s.logger.DebugContext(ctx, "error accessing path",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		if ext != ".csv" && ext != ".txt" {
			return nil
		}

		rel, relErr := filepath.Rel(s.reportsDir, path)
		if relErr != nil {
			rel = info.Name()
		}

		year := ""
		if dir := filepath.Dir(rel); dir != "." {
			year = strings.Split(filepath.ToSlash(dir), "/")[0]
		}

		reports = append(reports, ReportFile{
			Name:     info.Name(),
			Path:     filepath.ToSlash(rel),
			Year:     year,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan reports directory: %w", err)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Modified.After(reports[j].Modified)
	})
	return reports, nil
}

// ResolveReport maps a client-supplied relative path to an absolute file
// path, rejecting anything that escapes the reports directory.
func (s *ReportService) ResolveReport(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid report path %q", relPath)
	}

	full := filepath.Join(s.reportsDir, cleaned)
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("report %s: %w", relPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("report %s is a directory", relPath)
	}
	return full, nil
}
