package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/nao1215/catalogscan/internal/model"
)

// SimpleWriter outputs the console summary.
// Each resolved role gets a heading followed by one "value  count" line per
// entry; roles that were not resolved are skipped silently.
type SimpleWriter struct {
	baseWriter

	// topN limits the genre and country sections. Zero means no limit.
	topN int

	// verbose adds the dataset header and parse statistics.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTopN limits the genre and country sections to n entries.
func WithTopN(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.topN = n
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		topN:       10,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in console format.
func (w *SimpleWriter) Write(report *model.CatalogReport) (int, error) {
	var sb strings.Builder

	if w.verbose {
		w.writeHeader(&sb, report)
	}
	if report.Failed() {
		fmt.Fprintf(&sb, "\nError: %s\n", w.errorText(report))
	}

	for _, s := range sections {
		if !report.Resolved.Has(s.role) {
			continue
		}
		w.writeFrequency(&sb, s.heading, report.Frequency(s.role), limitFor(s.role, w.topN))
	}

	w.writeYears(&sb, report.Years)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the dataset and column resolution summary.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CatalogReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Dataset:  %s\n", report.Dataset)
	fmt.Fprintf(sb, "Rows:     %s\n", humanize.Comma(int64(report.RowCount)))
	for _, role := range model.Roles {
		col, ok := report.Resolved.Column(role)
		if !ok {
			col = "(not found)"
		}
		fmt.Fprintf(sb, "  %-8s %s\n", role.String()+":", col)
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// writeFrequency writes one heading and its value/count lines.
func (w *SimpleWriter) writeFrequency(sb *strings.Builder, heading string, table *model.FrequencyTable, limit int) {
	sb.WriteString("\n")
	sb.WriteString(heading)
	sb.WriteString("\n")

	entries := table.Top(limit)
	width := 0
	for _, e := range entries {
		width = max(width, runewidth.StringWidth(e.Value))
	}
	for _, e := range entries {
		fmt.Fprintf(sb, "%s    %d\n", runewidth.FillRight(e.Value, width), e.Count)
	}
}

// writeYears writes the year range line when derived years exist.
func (w *SimpleWriter) writeYears(sb *strings.Builder, years *model.YearSummary) {
	if years == nil {
		return
	}
	fmt.Fprintf(sb, "\nYear Range: %d - %d\n", years.Min, years.Max)
	if w.verbose {
		fmt.Fprintf(sb, "  parsed %s values from %s, %s unparseable\n",
			humanize.Comma(int64(years.Parsed)), years.Column, humanize.Comma(int64(years.Unparsed)))
	}
}

// errorText returns the failure description of a report.
func (w *SimpleWriter) errorText(report *model.CatalogReport) string {
	if report.ErrorMessage != "" {
		return report.ErrorMessage
	}
	return report.Error.Error()
}

// WriteComparison outputs the difference between two runs.
func (w *SimpleWriter) WriteComparison(c *model.Comparison) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\nComparing %s\n", c.Dataset)
	fmt.Fprintf(&sb, "  before: %s (%s)\n", c.BeforeDate.Format("2006-01-02 15:04:05"), c.BeforeRunID)
	fmt.Fprintf(&sb, "  after:  %s (%s)\n", c.AfterDate.Format("2006-01-02 15:04:05"), c.AfterRunID)

	fmt.Fprintf(&sb, "\nRows: %s -> %s (%+d)\n",
		humanize.Comma(int64(c.RowsBefore)), humanize.Comma(int64(c.RowsAfter)), c.RowDelta())

	if c.YearRangeChanged() {
		fmt.Fprintf(&sb, "Year Range: %s -> %s\n", formatRange(c.YearsBefore), formatRange(c.YearsAfter))
	}

	for _, rc := range c.Roles {
		if !rc.HasChanges() {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", rc.Role)
		for _, e := range rc.Added {
			fmt.Fprintf(&sb, "  + %s (%d)\n", e.Value, e.Count)
		}
		for _, e := range rc.Removed {
			fmt.Fprintf(&sb, "  - %s (%d)\n", e.Value, e.Count)
		}
		for _, d := range rc.Changed {
			fmt.Fprintf(&sb, "  ~ %s: %d -> %d (%+d)\n", d.Value, d.Before, d.After, d.Delta())
		}
	}

	if !c.HasChanges() {
		sb.WriteString("\nNo changes.\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// formatRange renders a year range or "none".
func formatRange(r *model.YearRange) string {
	if r == nil {
		return "none"
	}
	return fmt.Sprintf("%d - %d", r.Min, r.Max)
}
