package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/catalogscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	// topN limits the genre and country tables. Zero means no limit.
	topN int

	// linkBase is the directory chart links are made relative to.
	// Empty keeps the chart paths as recorded.
	linkBase string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownTopN limits the genre and country tables to n rows.
func WithMarkdownTopN(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.topN = n
	}
}

// WithLinkBase makes chart image links relative to dir, typically the
// directory the Markdown file is written to.
func WithLinkBase(dir string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.linkBase = dir
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		topN:       10,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CatalogReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	for _, s := range sections {
		if !report.Resolved.Has(s.role) {
			continue
		}
		w.writeFrequency(md, s, report.Frequency(s.role))
	}

	w.writeYears(md, report.Years)
	w.writeCharts(md, report.Charts)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and dataset information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CatalogReport) {
	md.H1("Catalog Report: " + report.DatasetName())
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Dataset", "`" + report.Dataset + "`"},
			{"Run ID", "`" + report.RunID + "`"},
			{"Analyzed", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
			{"Rows", humanize.Comma(int64(report.RowCount))},
			{"Columns", strconv.Itoa(len(report.Columns))},
		},
	})
	md.PlainText("")

	if report.Failed() {
		msg := report.ErrorMessage
		if msg == "" {
			msg = report.Error.Error()
		}
		md.Cautionf("Analysis failed: %s", msg)
		md.PlainText("")
	}

	if missing := report.Resolved.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, role := range missing {
			names[i] = role.String()
		}
		md.Note("No column found for: " + strings.Join(names, ", "))
		md.PlainText("")
	}
}

// writeFrequency writes one role's table, with a pie chart for types.
func (w *MarkdownWriter) writeFrequency(md *markdown.Markdown, s section, table *model.FrequencyTable) {
	md.H2(s.title)
	md.PlainText("")

	entries := table.Top(limitFor(s.role, w.topN))
	if len(entries) == 0 {
		md.PlainText("No values.")
		md.PlainText("")
		return
	}

	md.PlainTextf("Column: `%s`", table.Column)
	md.PlainText("")

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Value, strconv.Itoa(e.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{s.label, "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.role == model.RoleType {
		w.writePieChart(md, entries)
	}
}

// writePieChart writes a mermaid pie chart of the type distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, entries []model.Entry) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Type Distribution"),
		piechart.WithShowData(true),
	)
	for _, e := range entries {
		chart.LabelAndIntValue(e.Value, uint64(e.Count)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeYears writes the year range and the per-year trend.
func (w *MarkdownWriter) writeYears(md *markdown.Markdown, years *model.YearSummary) {
	if years == nil {
		return
	}

	md.H2("Release Years")
	md.PlainText("")
	md.PlainTextf("Year Range: **%d - %d**", years.Min, years.Max)
	md.PlainText("")
	if years.Unparsed > 0 {
		md.Warningf("%s value(s) in `%s` could not be parsed as a date.",
			humanize.Comma(int64(years.Unparsed)), years.Column)
		md.PlainText("")
	}

	var sb strings.Builder
	for _, yc := range years.Trend {
		fmt.Fprintf(&sb, "- %d: %d\n", yc.Year, yc.Count)
	}
	md.Details("Content released per year", sb.String())
	md.PlainText("")
}

// writeCharts writes image links to the rendered charts.
func (w *MarkdownWriter) writeCharts(md *markdown.Markdown, charts []model.ChartFile) {
	if len(charts) == 0 {
		return
	}

	md.H2("Charts")
	md.PlainText("")
	for _, c := range charts {
		md.PlainTextf("![%s](%s)", c.Title, w.link(c.Path))
		md.PlainText("")
	}
}

// link returns the chart path relative to linkBase when possible.
func (w *MarkdownWriter) link(path string) string {
	if w.linkBase == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(w.linkBase, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by catalogscan*")
}

// WriteComparison outputs the difference between two runs in Markdown.
func (w *MarkdownWriter) WriteComparison(c *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Catalog Comparison: " + model.DatasetName(c.Dataset))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"", "Before", "After"},
		Rows: [][]string{
			{"Run ID", "`" + c.BeforeRunID + "`", "`" + c.AfterRunID + "`"},
			{"Analyzed", c.BeforeDate.Format("2006-01-02 15:04:05"), c.AfterDate.Format("2006-01-02 15:04:05")},
			{"Rows", humanize.Comma(int64(c.RowsBefore)), humanize.Comma(int64(c.RowsAfter))},
			{"Year Range", formatRange(c.YearsBefore), formatRange(c.YearsAfter)},
		},
	})
	md.PlainText("")

	if !c.HasChanges() {
		md.Tip("No changes between the two runs.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	for _, rc := range c.Roles {
		if !rc.HasChanges() {
			continue
		}
		md.H2(rc.Role.String())
		md.PlainText("")

		var rows [][]string
		for _, e := range rc.Added {
			rows = append(rows, []string{"added", e.Value, "-", strconv.Itoa(e.Count)})
		}
		for _, e := range rc.Removed {
			rows = append(rows, []string{"removed", e.Value, strconv.Itoa(e.Count), "-"})
		}
		for _, d := range rc.Changed {
			rows = append(rows, []string{"changed", d.Value, strconv.Itoa(d.Before), strconv.Itoa(d.After)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Change", "Value", "Before", "After"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
