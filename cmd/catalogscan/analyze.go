package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/catalogscan/internal/chart"
	"github.com/nao1215/catalogscan/internal/config"
	"github.com/nao1215/catalogscan/internal/database"
	"github.com/nao1215/catalogscan/internal/log"
	"github.com/nao1215/catalogscan/internal/model"
	"github.com/nao1215/catalogscan/internal/pipeline"
	"github.com/nao1215/catalogscan/internal/report"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze catalog datasets and render charts",
		Long: `Analyze loads each dataset and reports:
- Movies vs TV Shows distribution
- Top genres and top countries (comma-separated lists are split)
- Release year range

Charts are written as PNG files into the output directory:
type_distribution.png, top_genres.png, top_countries.png and
yearly_trend.png. A chart is skipped when its column is missing or empty.

Without arguments the file "Netflix Dataset_1.csv" in the current directory
is analyzed.

Examples:
  # Analyze the default dataset
  catalogscan analyze

  # Analyze a compressed TSV export and list the top 5 values
  catalogscan analyze -n 5 titles.tsv.gz

  # Analyze several datasets concurrently
  catalogscan analyze -b 4 2019.csv 2020.csv 2021.csv

  # Write a Markdown report next to the charts
  catalogscan analyze -m -r charts/report.md titles.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Analysis flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory charts are written to")
	cmd.Flags().IntP("top", "n", config.DefaultTopN,
		"Number of genres and countries to list and chart")
	cmd.Flags().StringP("delimiter", "d", "",
		`Field delimiter (single character or "tab"; default: detect from extension)`)
	cmd.Flags().Bool("no-charts", false,
		"Skip chart rendering")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the analysis history")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of datasets analyzed concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .catalogscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "r", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")
	_ = cmd.Flags().MarkHidden("db-dir") //nolint:errcheck // flag is defined above

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel between steps on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra command flags.
// Flags the user set explicitly override values from the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; otherwise a missing file
	// just means defaults.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := cfg.ApplyFile(file); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("top") {
		if cfg.TopN, err = flags.GetInt("top"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delimiter") {
		raw, err := flags.GetString("delimiter")
		if err != nil {
			return nil, err
		}
		if cfg.Delimiter, err = config.ParseDelimiter(raw); err != nil {
			return nil, err
		}
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}

	noCharts, err := flags.GetBool("no-charts")
	if err != nil {
		return nil, err
	}
	cfg.RenderCharts = !noCharts

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.Inputs = args
	}

	return cfg, nil
}

// analyzer holds everything a run over the configured datasets shares.
type analyzer struct {
	cfg    *config.Config
	logger *slog.Logger

	// summary is the console writer run as a pipeline step; nil when a
	// JSON or Markdown report is requested.
	summary report.Writer

	// final writes JSON or Markdown reports after a dataset completes.
	final report.Writer

	renderer  *chart.Renderer
	chartDirs []string
	db        *database.HistoryDB
}

// runAnalyze analyzes every input and returns an error if any of them failed.
func runAnalyze(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	logger.Debug("starting analysis",
		"inputs", cfg.Inputs,
		"outputDir", cfg.OutputDir,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	output, closeOutput, err := openReportOutput(cfg, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	a := &analyzer{
		cfg:       cfg,
		logger:    logger,
		renderer:  chart.NewRenderer(chart.WithSize(cfg.ChartWidth, cfg.ChartHeight)),
		chartDirs: cfg.ChartDirs(),
		db:        openHistory(cfg, logger),
	}
	if a.db != nil {
		defer a.db.Close()
	}

	if w := newReportWriter(cfg, output); cfg.JSONReport || cfg.MarkdownReport {
		a.final = report.NewSyncWriter(w)
	} else {
		a.summary = report.NewSyncWriter(w)
	}

	var failed []error
	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 {
		failed, err = a.runBatch(ctx)
	} else {
		failed, err = a.runSequential(ctx)
	}
	if err != nil {
		return err
	}

	// The completion message stays off stdout when stdout carries a
	// machine-readable report.
	status := stdout
	if a.final != nil && cfg.ReportFile == "" {
		status = stderr
	}
	if len(failed) < len(cfg.Inputs) {
		if cfg.RenderCharts {
			fmt.Fprintf(status, "\nAnalysis complete. Charts saved in '%s/' folder.\n", cfg.OutputDir)
		} else {
			fmt.Fprintln(status, "\nAnalysis complete.")
		}
	}

	return errors.Join(failed...)
}

// runSequential analyzes the inputs one after another.
func (a *analyzer) runSequential(ctx context.Context) ([]error, error) {
	var failed []error
	for i, input := range a.cfg.Inputs {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		r := model.NewCatalogReport(input)
		if err := a.newPipeline(i, input).Execute(ctx, r); err != nil {
			if errors.Is(err, context.Canceled) {
				return failed, err
			}
			a.logger.Debug("analysis failed", "dataset", input, "error", err)
		}
		if err := a.finish(ctx, r); err != nil {
			failed = append(failed, err)
		}
	}
	return failed, nil
}

// runBatch analyzes the inputs concurrently.
func (a *analyzer) runBatch(ctx context.Context) ([]error, error) {
	bp := pipeline.NewBatchProcessor(
		a.newPipeline,
		pipeline.WithConcurrency(a.cfg.BatchSize),
		pipeline.WithBatchLogger(a.logger),
	)

	failed := make([]error, len(a.cfg.Inputs))
	err := bp.ProcessBatch(ctx, a.cfg.Inputs, func(index int, r *model.CatalogReport) {
		failed[index] = a.finish(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, e := range failed {
		if e != nil {
			errs = append(errs, e)
		}
	}
	return errs, nil
}

// newPipeline builds the pipeline for the input at position index.
func (a *analyzer) newPipeline(index int, _ string) *pipeline.Pipeline {
	opts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineTopN(a.cfg.TopN),
		pipeline.WithPipelineDelimiter(a.cfg.Delimiter),
		pipeline.WithPipelineAliases(a.cfg.Aliases),
	}
	if a.summary != nil {
		opts = append(opts, pipeline.WithPipelineSummary(a.summary))
	}
	if a.cfg.RenderCharts {
		opts = append(opts, pipeline.WithPipelineCharts(a.renderer, a.chartDirs[index]))
	}

	return pipeline.DefaultPipeline([]pipeline.Option{pipeline.WithLogger(a.logger)}, opts...)
}

// finish writes the final report of a completed run and records it in the
// history. It returns the run's error, if any.
func (a *analyzer) finish(ctx context.Context, r *model.CatalogReport) error {
	if a.final != nil {
		if _, err := a.final.Write(r); err != nil {
			a.logger.Error("report failed", "dataset", r.Dataset, "error", err)
		}
	}

	if r.Failed() {
		if r.Error != nil {
			return r.Error
		}
		return errors.New(r.ErrorMessage)
	}

	if err := saveRun(ctx, a.db, r, a.logger); err != nil {
		a.logger.Warn("failed to record analysis history", "dataset", r.Dataset, "error", err)
	}
	return nil
}

// newReportWriter returns the writer for the requested report format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		opts := []report.MarkdownWriterOption{report.WithMarkdownTopN(cfg.TopN)}
		if cfg.ReportFile != "" {
			opts = append(opts, report.WithLinkBase(filepath.Dir(cfg.ReportFile)))
		}
		return report.NewMarkdownWriter(output, opts...)
	default:
		return report.NewSimpleWriter(output,
			report.WithTopN(cfg.TopN),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// openReportOutput returns the report destination: ReportFile when set,
// stdout otherwise. The returned function closes the file.
func openReportOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// openHistory opens the history database, or returns nil when history is
// disabled or unavailable.
func openHistory(cfg *config.Config, logger *slog.Logger) *database.HistoryDB {
	if !cfg.SaveToDB {
		return nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("analysis history disabled", "dir", cfg.DBDir, "error", err)
		return nil
	}
	logger.Debug("history database opened", "path", db.Path())
	return db
}

// saveRun records a report in the history database.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.HistoryDB, r *model.CatalogReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}
	if err := db.SaveRun(ctx, r); err != nil {
		return err
	}
	logger.Debug("analysis run saved", "dataset", r.Dataset, "run_id", r.RunID)
	return nil
}
