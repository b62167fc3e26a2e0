package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
	"github.com/nao1215/catalogscan/internal/analysis"
	"github.com/nao1215/catalogscan/internal/config"
	"github.com/nao1215/catalogscan/internal/database"
	"github.com/nao1215/catalogscan/internal/model"
	"github.com/nao1215/catalogscan/internal/report"
	"github.com/spf13/cobra"
)

// ErrNotEnoughRuns is returned when a dataset has fewer than two stored runs.
var ErrNotEnoughRuns = errors.New("at least 2 analysis runs are required for comparison")

// NewCompareCmd creates the compare command.
// This command compares analysis results stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [dataset]",
		Short: "Compare analysis runs of a dataset",
		Long: `Compare displays how a dataset changed between two recorded analysis runs.

The dataset is named by its file name without extensions, so "data/titles.csv"
and "titles.tsv.gz" both belong to the dataset "titles". The comparison shows:
- Values that appeared or disappeared per type, genre and country
- Count changes of values present in both runs
- Row count and release year range changes

By default the latest two runs are compared. Use 'catalogscan analyze' to
record runs.

Examples:
  # Compare the latest two runs
  catalogscan compare titles

  # List recorded runs of a dataset
  catalogscan compare --list titles

  # Compare the latest run with a specific earlier run
  catalogscan compare --with-run-id 5f0c... titles

  # Compare with the first run since a date
  catalogscan compare --since 2025-01-01 titles

  # List all datasets with recorded runs
  catalogscan compare --list-datasets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List analysis history for the specified dataset")
	cmd.Flags().BoolP("list-datasets", "L", false,
		"List all datasets in the history database")

	// Comparison target flags
	cmd.Flags().StringP("with-run-id", "i", "",
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run at or after this date")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")
	_ = cmd.Flags().MarkHidden("db-dir") //nolint:errcheck // flag is defined above

	return cmd
}

// compareOptions holds the parsed compare flags.
type compareOptions struct {
	dataset   string
	withRunID string
	since     string
	json      bool
	markdown  bool
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	listDatasets, err := flags.GetBool("list-datasets")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var opts compareOptions
	if !listDatasets {
		if len(args) == 0 {
			return errors.New("dataset name is required (use --list-datasets to see recorded datasets)")
		}
		opts.dataset = model.DatasetName(args[0])
	}

	if opts.json, err = flags.GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if opts.json && opts.markdown {
		return config.ErrConflictingReportFormats
	}
	if opts.withRunID, err = flags.GetString("with-run-id"); err != nil {
		return err
	}
	if opts.since, err = flags.GetString("since"); err != nil {
		return err
	}

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listDatasets {
		return listHistoryDatasets(ctx, out, db)
	}

	listHistory, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, out, db, opts.dataset)
	}

	return runComparison(ctx, out, db, opts)
}

// listHistoryDatasets lists all datasets that have runs in the database.
func listHistoryDatasets(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	datasets, err := db.ListDatasets(ctx)
	if err != nil {
		return err
	}

	if len(datasets) == 0 {
		fmt.Fprintln(out, "No analyzed datasets found in the database.")
		fmt.Fprintln(out, "\nUse 'catalogscan analyze <file>' to analyze a dataset.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed datasets (%d):\n\n", len(datasets))
	for _, dataset := range datasets {
		fmt.Fprintf(out, "  • %s\n", dataset)
	}
	fmt.Fprintln(out, "\nUse 'catalogscan compare --list <dataset>' to see the runs of a dataset.")

	return nil
}

// listRunHistory lists all runs recorded for a dataset.
func listRunHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, dataset string) error {
	runs, err := db.GetRunHistoryWithMetadata(ctx, dataset)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintf(out, "No analysis history found for %s\n", dataset)
		fmt.Fprintln(out, "\nUse 'catalogscan analyze' to analyze this dataset.")
		return nil
	}

	fmt.Fprintf(out, "Analysis history for %s (%d runs):\n\n", dataset, len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %-14s  %8s  %s\n", "Run ID", "Date", "Age", "Rows", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 100))

	for _, meta := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %-14s  %8s  %s\n",
			meta.RunID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			humanize.Time(meta.Timestamp),
			humanize.Comma(int64(meta.RowCount)),
			formatRunSummary(meta.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'catalogscan compare <dataset>' to compare the latest two runs.")
	fmt.Fprintln(out, "Use 'catalogscan compare --with-run-id <id> <dataset>' to compare with a specific run.")

	return nil
}

// formatRunSummary formats the run digest into a short line.
func formatRunSummary(s database.RunSummary) string {
	parts := []string{
		fmt.Sprintf("types:%d", s.Types),
		fmt.Sprintf("genres:%d", s.Genres),
		fmt.Sprintf("countries:%d", s.Countries),
	}
	if s.YearMin != 0 || s.YearMax != 0 {
		parts = append(parts, fmt.Sprintf("years:%d-%d", s.YearMin, s.YearMax))
	}
	return strings.Join(parts, " ")
}

// runComparison selects the two runs and writes their comparison.
func runComparison(ctx context.Context, out io.Writer, db *database.HistoryDB, opts compareOptions) error {
	runs, err := db.GetRunHistory(ctx, opts.dataset)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no analysis history found for %s", opts.dataset)
	}

	before, err := selectBaseline(ctx, db, runs, opts)
	if err != nil {
		return err
	}

	comparison := analysis.Compare(before, runs[0])

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out)
	}
	_, err = w.WriteComparison(comparison)
	return err
}

// selectBaseline picks the run the latest run is compared against.
// runs are ordered newest first.
func selectBaseline(ctx context.Context, db *database.HistoryDB, runs []*model.CatalogReport, opts compareOptions) (*model.CatalogReport, error) {
	switch {
	case opts.withRunID != "":
		before, err := db.GetRunByID(ctx, opts.withRunID)
		if err != nil {
			return nil, err
		}
		if name := before.DatasetName(); name != opts.dataset {
			return nil, fmt.Errorf("run %s belongs to %s, not %s", opts.withRunID, name, opts.dataset)
		}
		if before.RunID == runs[0].RunID {
			return nil, fmt.Errorf("run %s is the latest run; choose an earlier one", opts.withRunID)
		}
		return before, nil

	case opts.since != "":
		since, err := dateparse.ParseAny(opts.since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since date %q: %w", opts.since, err)
		}
		return firstRunSince(runs, since, opts.since)

	default:
		if len(runs) < 2 {
			return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughRuns, len(runs))
		}
		return runs[1], nil
	}
}

// firstRunSince returns the oldest run at or after since that is not the
// latest run.
func firstRunSince(runs []*model.CatalogReport, since time.Time, raw string) (*model.CatalogReport, error) {
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].DateAnalyzed.Before(since) {
			continue
		}
		if i == 0 {
			return nil, fmt.Errorf("only one run found since %s: %w", raw, ErrNotEnoughRuns)
		}
		return runs[i], nil
	}
	return nil, fmt.Errorf("no runs found since %s", raw)
}
