package visa

import (
	"context"
	"log/slog"
	"time"

	"visacli/internal/geo"
)

// MetricsRecorder receives the outcome of a pipeline run. Implemented by
// infrastructure.PipelineMetrics; nil-safe from the pipeline's side.
type MetricsRecorder interface {
	RecordRun(ctx context.Context, stats RunStats, duration time.Duration)
}

// Pipeline composes the cleaning and aggregation stages into one run over
// a raw dataset. The transformation itself is a single sequential pass;
// callers wanting parallelism run independent datasets through separate
// calls.
type Pipeline struct {
	classifier geo.Classifier
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// NewPipeline creates a pipeline with the given continent classifier.
func NewPipeline(classifier geo.Classifier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		classifier: classifier,
		logger:     logger,
	}
}

// SetMetrics attaches a metrics recorder for run outcomes.
func (p *Pipeline) SetMetrics(m MetricsRecorder) {
	p.metrics = m
}

// Run executes stages B through F over the selected rows and returns the
// derived tables. Schema problems are caught earlier, at load time; here
// every data-quality issue is absorbed by its policy and counted in
// Dataset.Stats, so Run fails only on context cancellation.
func (p *Pipeline) Run(ctx context.Context, rows []SourceRow) (*Dataset, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := RunStats{RowsIn: len(rows)}

	kept, dropped := DropUnidentified(rows)
	stats.RowsDropped = dropped

	records, defaulted := DefaultMissingCounts(kept)
	stats.CountsDefaulted = defaulted

	records, undefined := DeriveMetrics(records)
	stats.RatesUndefined = undefined

	records, unclassified := ClassifyContinents(records, p.classifier)
	stats.Unclassified = unclassified

	dataset := &Dataset{
		Records:    records,
		Countries:  AggregateByCountry(records),
		Continents: AggregateByContinent(records),
		Stats:      stats,
	}

	duration := time.Since(start)
	p.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_dropped_missing_country", stats.RowsDropped),
		slog.Int("counts_defaulted", stats.CountsDefaulted),
		slog.Int("rates_undefined", stats.RatesUndefined),
		slog.Int("continents_unclassified", stats.Unclassified),
		slog.Int("countries", len(dataset.Countries)),
		slog.Int("continents", len(dataset.Continents)),
		slog.Duration("duration", duration),
	)

	if p.metrics != nil {
		p.metrics.RecordRun(ctx, stats, duration)
	}

	return dataset, nil
}
