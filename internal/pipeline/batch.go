package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/catalogscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh pipeline for the dataset at position index of the
// input list. The same path may appear more than once; index tells the
// occurrences apart.
type Factory func(index int, dataset string) *Pipeline

// BatchProcessor analyzes several datasets concurrently, one pipeline per
// dataset, with at most concurrency runs in flight.
type BatchProcessor struct {
	factory     Factory
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger for batch progress.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Non-positive values keep the default of 1.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that builds pipelines with factory.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyzes datasets and calls done with each finished report
// and its input index. A failed dataset carries its error in the report and
// does not stop the others. done runs on the goroutine that finished the
// run, so it must be safe for concurrent use.
//
// The returned error is set only when ctx was cancelled; datasets not yet
// started by then are skipped.
func (bp *BatchProcessor) ProcessBatch(
	ctx context.Context,
	datasets []string,
	done func(index int, report *model.CatalogReport),
) error {
	bp.logger.Info("batch started",
		"datasets", len(datasets),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, dataset := range datasets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report := model.NewCatalogReport(dataset)
			if err := bp.factory(i, dataset).Execute(ctx, report); err != nil {
				bp.logger.Debug("dataset failed", "dataset", dataset, "index", i, "error", err)
			}
			done(i, report)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch finished",
		"datasets", len(datasets),
		"elapsed", time.Since(start),
	)
	return err
}
