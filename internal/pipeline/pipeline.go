package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/catalogscan/internal/model"
)

// Step is one stage of a dataset analysis. Do reads what earlier steps put
// into the report and adds its own results. An error returned by Do ends
// the run; problems that should not stop it are logged instead.
type Step interface {
	Do(ctx context.Context, report *model.CatalogReport) error
	Name() string
}

// Pipeline runs the steps of one dataset analysis in order.
// A Pipeline is built per dataset and is not reused across runs.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step progress.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends steps to the pipeline.
func (p *Pipeline) AddStep(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of the steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs the steps until one fails or ctx is cancelled. Cancellation
// is checked before each step; a running step is not interrupted.
//
// The error that ends the run is recorded in the report and returned.
// Failures are logged at debug level only, since the caller reports them.
func (p *Pipeline) Execute(ctx context.Context, report *model.CatalogReport) error {
	p.logger.Debug("analysis started",
		"dataset", report.Dataset,
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Debug("analysis cancelled",
				"dataset", report.Dataset,
				"before", step.Name(),
			)
			report.Fail(err)
			return err
		}

		start := time.Now()
		if err := step.Do(ctx, report); err != nil {
			p.logger.Debug("step failed",
				"dataset", report.Dataset,
				"step", step.Name(),
				"error", err,
			)
			report.Fail(err)
			return err
		}
		report.PerformedSteps = append(report.PerformedSteps, step.Name())

		p.logger.Debug("step completed",
			"dataset", report.Dataset,
			"step", step.Name(),
			"elapsed", time.Since(start),
		)
	}
	return nil
}
