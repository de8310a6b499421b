package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	datasets  *DatasetService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Dataset   *DatasetHealth         `json:"dataset,omitempty"`
}

// DatasetHealth describes the currently loaded dataset.
type DatasetHealth struct {
	Loaded   bool      `json:"loaded"`
	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Records  int       `json:"records"`
}

// NewHealthService creates a new health service.
func NewHealthService(version, buildTime string, datasets *DatasetService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check reports the overall health of the report server. A server with
// no loaded dataset is degraded but serving.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	}

	dataset := &DatasetHealth{}
	if ds := s.datasets.Dataset(); ds != nil {
		source, loadedAt := s.datasets.Source()
		dataset.Loaded = true
		dataset.Source = source
		dataset.LoadedAt = loadedAt
		dataset.Records = len(ds.Records)
	} else {
		status.Status = "degraded"
	}
	status.Dataset = dataset

	return status
}
