package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/catalogscan/internal/analysis"
	"github.com/nao1215/catalogscan/internal/config"
	"github.com/nao1215/catalogscan/internal/loader"
	"github.com/nao1215/catalogscan/internal/model"
	"github.com/nao1215/catalogscan/internal/report"
)

// ErrNoTable is returned by steps that need a loaded table when none is present.
var ErrNoTable = errors.New("no table loaded")

// LoadStep reads the dataset file into the report's table.
type LoadStep struct {
	// opts are passed to loader.Load.
	opts []loader.Option
}

// NewLoadStep creates a LoadStep.
func NewLoadStep(opts ...loader.Option) *LoadStep {
	return &LoadStep{opts: opts}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads report.Dataset.
func (s *LoadStep) Do(_ context.Context, r *model.CatalogReport) error {
	table, err := loader.Load(r.Dataset, s.opts...)
	if err != nil {
		return err
	}
	r.Table = table
	r.RowCount = table.Len()
	r.Columns = table.Columns
	return nil
}

// ResolveStep maps semantic roles to the table's columns.
type ResolveStep struct {
	// aliases overrides the default aliases of individual roles.
	aliases map[model.Role][]string

	logger *slog.Logger
}

// NewResolveStep creates a ResolveStep. A nil aliases map keeps the defaults.
func NewResolveStep(aliases map[model.Role][]string, logger *slog.Logger) *ResolveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolveStep{aliases: aliases, logger: logger}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve_columns"
}

// Do resolves the columns. A role without a column is logged, not an error.
func (s *ResolveStep) Do(_ context.Context, r *model.CatalogReport) error {
	if r.Table == nil {
		return ErrNoTable
	}
	r.Resolved = analysis.ResolveColumns(r.Table.Columns, s.aliases)
	for _, role := range model.Roles {
		if col, ok := r.Resolved.Column(role); ok {
			s.logger.Debug("column resolved", "dataset", r.Dataset, "role", role.String(), "column", col)
		} else {
			s.logger.Debug("column not found, skipping role", "dataset", r.Dataset, "role", role.String())
		}
	}
	return nil
}

// YearStep derives the release year of every row and summarizes it.
// It does nothing when no release column was resolved.
type YearStep struct {
	logger *slog.Logger
}

// NewYearStep creates a YearStep.
func NewYearStep(logger *slog.Logger) *YearStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &YearStep{logger: logger}
}

// Name returns the step name.
func (s *YearStep) Name() string {
	return "extract_years"
}

// Do attaches the derived year column and stores the year summary.
func (s *YearStep) Do(_ context.Context, r *model.CatalogReport) error {
	if r.Table == nil {
		return ErrNoTable
	}
	column, ok := r.Resolved.Column(model.RoleRelease)
	if !ok {
		return nil
	}

	years := analysis.ExtractYears(r.Table, column)
	if err := r.Table.AttachYears(years); err != nil {
		return fmt.Errorf("attach %s: %w", model.DerivedYearColumn, err)
	}
	r.Years = analysis.SummarizeYears(years)

	s.logger.Debug("years extracted",
		"dataset", r.Dataset,
		"column", column,
		"parsed", years.Count(),
		"unparsed", years.Unparsed,
	)
	return nil
}

// AggregateStep computes the frequency tables of the categorical roles.
type AggregateStep struct {
	// topN is recorded in the report for writers and charts.
	topN int
}

// NewAggregateStep creates an AggregateStep.
func NewAggregateStep(topN int) *AggregateStep {
	return &AggregateStep{topN: topN}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do fills Types, Genres and Countries for every resolved role.
func (s *AggregateStep) Do(_ context.Context, r *model.CatalogReport) error {
	if r.Table == nil {
		return ErrNoTable
	}
	r.TopN = s.topN
	for _, role := range model.Roles {
		if ft, ok := analysis.Frequency(r.Table, r.Resolved, role); ok {
			r.SetFrequency(role, ft)
		}
	}
	return nil
}

// SummaryStep writes the report through a report.Writer.
// A write failure is logged and never fails the run.
type SummaryStep struct {
	writer report.Writer
	logger *slog.Logger
}

// NewSummaryStep creates a SummaryStep.
func NewSummaryStep(w report.Writer, logger *slog.Logger) *SummaryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryStep{writer: w, logger: logger}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do writes the summary.
func (s *SummaryStep) Do(_ context.Context, r *model.CatalogReport) error {
	if _, err := s.writer.Write(r); err != nil {
		s.logger.Warn("failed to write summary", "dataset", r.Dataset, "error", err)
	}
	return nil
}

// ChartRenderer renders the charts of a report into a directory.
type ChartRenderer interface {
	RenderAll(dir string, r *model.CatalogReport, topN int) ([]model.ChartFile, error)
}

// ChartStep renders the report's charts. Any failure is fatal for the run;
// charts written before the failure stay on disk.
type ChartStep struct {
	renderer ChartRenderer
	dir      string
	topN     int
}

// NewChartStep creates a ChartStep writing into dir.
func NewChartStep(renderer ChartRenderer, dir string, topN int) *ChartStep {
	return &ChartStep{renderer: renderer, dir: dir, topN: topN}
}

// Name returns the step name.
func (s *ChartStep) Name() string {
	return "charts"
}

// Do renders the charts and records them in the report.
func (s *ChartStep) Do(_ context.Context, r *model.CatalogReport) error {
	r.ChartsDir = s.dir
	charts, err := s.renderer.RenderAll(s.dir, r, s.topN)
	r.Charts = charts
	if err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Delimiter forces the field delimiter. Zero detects it from the file name.
	Delimiter rune

	// Aliases overrides the column aliases of individual roles.
	Aliases map[model.Role][]string

	// TopN limits the genre and country tables.
	TopN int

	// Summary, when set, receives the report before charts are rendered.
	Summary report.Writer

	// Renderer, when set, renders charts into ChartDir.
	Renderer ChartRenderer

	// ChartDir is the chart output directory.
	ChartDir string
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineDelimiter sets the field delimiter.
func WithPipelineDelimiter(d rune) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Delimiter = d
	}
}

// WithPipelineAliases sets per-role column aliases.
func WithPipelineAliases(aliases map[model.Role][]string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Aliases = aliases
	}
}

// WithPipelineTopN sets the top-N cut for genres and countries.
func WithPipelineTopN(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.TopN = n
	}
}

// WithPipelineSummary adds a summary step writing to w.
func WithPipelineSummary(w report.Writer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Summary = w
	}
}

// WithPipelineCharts adds a chart step rendering into dir.
func WithPipelineCharts(renderer ChartRenderer, dir string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Renderer = renderer
		c.ChartDir = dir
	}
}

// DefaultPipeline creates a pipeline with the standard analysis steps:
// load, resolve_columns, extract_years, aggregate, then summary and charts
// when configured.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineTopN, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		TopN: config.DefaultTopN,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	var loadOpts []loader.Option
	if cfg.Delimiter != 0 {
		loadOpts = append(loadOpts, loader.WithDelimiter(cfg.Delimiter))
	}

	p.AddStep(
		NewLoadStep(loadOpts...),
		NewResolveStep(cfg.Aliases, p.logger),
		NewYearStep(p.logger),
		NewAggregateStep(cfg.TopN),
	)
	if cfg.Summary != nil {
		p.AddStep(NewSummaryStep(cfg.Summary, p.logger))
	}
	if cfg.Renderer != nil {
		p.AddStep(NewChartStep(cfg.Renderer, cfg.ChartDir, cfg.TopN))
	}

	return p
}
