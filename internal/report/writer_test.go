package report

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nao1215/catalogscan/internal/model"
)

// createTestReport creates the report of a small two-row catalog.
func createTestReport() *model.CatalogReport {
	report := model.NewCatalogReport("testdata/catalog.csv")
	report.RowCount = 2
	report.Columns = []string{"type", "listed_in", "country", "release_date"}
	report.Resolved = model.ResolvedColumns{
		model.RoleType:    "type",
		model.RoleGenre:   "listed_in",
		model.RoleCountry: "country",
		model.RoleRelease: "release_date",
	}
	report.Types = &model.FrequencyTable{
		Role:    model.RoleType,
		Column:  "type",
		Entries: []model.Entry{{Value: "Movie", Count: 1}, {Value: "TV Show", Count: 1}},
	}
	report.Genres = &model.FrequencyTable{
		Role:    model.RoleGenre,
		Column:  "listed_in",
		Entries: []model.Entry{{Value: "Drama", Count: 2}, {Value: "Comedy", Count: 1}},
	}
	report.Countries = &model.FrequencyTable{
		Role:    model.RoleCountry,
		Column:  "country",
		Entries: []model.Entry{{Value: "United States", Count: 1}, {Value: "India", Count: 1}},
	}
	report.Years = &model.YearSummary{
		Column: "release_date",
		Min:    2019,
		Max:    2020,
		Trend:  []model.YearCount{{Year: 2019, Count: 1}, {Year: 2020, Count: 1}},
		Parsed: 2,
	}
	report.TopN = 10
	return report
}

// createManyGenresReport creates a report with more genres than the top-N cut.
func createManyGenresReport(n int) *model.CatalogReport {
	report := createTestReport()
	entries := make([]model.Entry, n)
	for i := range entries {
		entries[i] = model.Entry{Value: "Genre" + string(rune('A'+i)), Count: n - i}
	}
	report.Genres.Entries = entries
	return report
}

// createTestComparison creates a comparison with one change of each kind.
func createTestComparison() *model.Comparison {
	return &model.Comparison{
		Dataset:     "catalog.csv",
		BeforeRunID: "run-1",
		BeforeDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		AfterRunID:  "run-2",
		AfterDate:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		RowsBefore:  1000,
		RowsAfter:   1200,
		Roles: []model.RoleComparison{
			{Role: model.RoleType},
			{
				Role:    model.RoleGenre,
				Added:   []model.Entry{{Value: "Anime", Count: 4}},
				Removed: []model.Entry{{Value: "Horror", Count: 1}},
				Changed: []model.ValueDelta{{Value: "Drama", Before: 10, After: 15}},
			},
		},
		YearsBefore: &model.YearRange{Min: 2000, Max: 2019},
		YearsAfter:  &model.YearRange{Min: 2000, Max: 2021},
	}
}

// TestSimpleWriter tests the console summary writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes sections in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		headings := []string{"Movies vs TV Shows:", "Top Genres:", "Top Countries:", "Year Range: 2019 - 2020"}
		last := -1
		for _, h := range headings {
			i := strings.Index(output, h)
			if i < 0 {
				t.Fatalf("expected output to contain %q\n%s", h, output)
			}
			if i < last {
				t.Errorf("expected %q after previous heading", h)
			}
			last = i
		}
	})

	t.Run("writes aligned value and count lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Movie      1\n") {
			t.Errorf("expected padded Movie line, got:\n%s", output)
		}
		if !strings.Contains(output, "TV Show    1\n") {
			t.Errorf("expected TV Show line, got:\n%s", output)
		}
		if !strings.Contains(output, "Drama     2\n") {
			t.Errorf("expected Drama line, got:\n%s", output)
		}
	})

	t.Run("skips unresolved roles", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		delete(report.Resolved, model.RoleCountry)
		report.Countries = nil

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "Top Countries:") {
			t.Error("expected no country section")
		}
	})

	t.Run("skips year range without derived years", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Years = nil

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "Year Range") {
			t.Error("expected no year range")
		}
	})

	t.Run("limits genres to top n", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithTopN(3)).Write(createManyGenresReport(12)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "GenreC") || strings.Contains(output, "GenreD") {
			t.Errorf("expected only the top 3 genres, got:\n%s", output)
		}
	})

	t.Run("empty table prints heading only", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Types.Entries = nil

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Movies vs TV Shows:\n\nTop Genres:") {
			t.Errorf("expected empty type section, got:\n%s", buf.String())
		}
	})

	t.Run("verbose adds dataset header", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.RowCount = 8807

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "8,807") {
			t.Error("expected humanized row count")
		}
		if !strings.Contains(output, "testdata/catalog.csv") {
			t.Error("expected dataset path")
		}
	})

	t.Run("writes error of failed report", func(t *testing.T) {
		t.Parallel()

		report := model.NewCatalogReport("missing.csv")
		report.Error = errors.New("failed to load missing.csv")

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Error: failed to load missing.csv") {
			t.Errorf("expected error line, got:\n%s", buf.String())
		}
	})
}

// TestSimpleWriterComparison tests the console comparison output.
func TestSimpleWriterComparison(t *testing.T) {
	t.Parallel()

	t.Run("lists changes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"Rows: 1,000 -> 1,200 (+200)",
			"Year Range: 2000 - 2019 -> 2000 - 2021",
			"+ Anime (4)",
			"- Horror (1)",
			"~ Drama: 10 -> 15 (+5)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
		if strings.Contains(output, "\ntype:") {
			t.Error("expected unchanged role to be skipped")
		}
	})

	t.Run("reports no changes", func(t *testing.T) {
		t.Parallel()

		c := &model.Comparison{Dataset: "catalog.csv", RowsBefore: 5, RowsAfter: 5}
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteComparison(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No changes.") {
			t.Error("expected no changes message")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON with full tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createManyGenresReport(12)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.CatalogReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if decoded.Genres.Len() != 12 {
			t.Errorf("expected 12 genres, got %d", decoded.Genres.Len())
		}
		if decoded.Years.Min != 2019 {
			t.Errorf("expected min year 2019, got %d", decoded.Years.Min)
		}
		if decoded.Resolved[model.RoleGenre] != "listed_in" {
			t.Errorf("expected resolved genre column, got %v", decoded.Resolved)
		}
	})

	t.Run("compact output is a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact JSON with a trailing newline")
		}
	})

	t.Run("records error message", func(t *testing.T) {
		t.Parallel()

		report := model.NewCatalogReport("bad.csv")
		report.Error = errors.New("boom")

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"error":"boom"`) {
			t.Errorf("expected error field, got %s", buf.String())
		}
	})

	t.Run("writes comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded model.Comparison
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if decoded.RowDelta() != 200 {
			t.Errorf("expected row delta 200, got %d", decoded.RowDelta())
		}
	})
}

// TestWithIndent tests pretty-printed JSON output.
func TestWithIndent(t *testing.T) {
	t.Parallel()

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"run_id\"") {
			t.Error("expected tab-indented output")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"run_id\"") {
			t.Error("expected two-space indented output")
		}
	})
}

// TestFullJSONWriter tests the versioned JSON wrapper.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if decoded.Version != "v1.2.3" {
		t.Errorf("expected version v1.2.3, got %q", decoded.Version)
	}
	if decoded.Report == nil || decoded.Report.RowCount != 2 {
		t.Error("expected wrapped report")
	}
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title and tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"# Catalog Report: catalog",
			"## Movies vs TV Shows",
			"## Top Genres",
			"## Top Countries",
			"Drama",
			"Year Range: **2019 - 2020**",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes mermaid pie chart of types", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "```mermaid") {
			t.Error("expected mermaid code block")
		}
		if !strings.Contains(output, "Type Distribution") {
			t.Error("expected pie chart title")
		}
	})

	t.Run("links charts relative to base", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Charts = []model.ChartFile{
			{Role: model.RoleType, Title: "Movies vs TV Shows - Distribution", Path: "out/charts/type_distribution.png"},
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithLinkBase("out")).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "![Movies vs TV Shows - Distribution](charts/type_distribution.png)") {
			t.Errorf("expected relative chart link, got:\n%s", buf.String())
		}
	})

	t.Run("notes missing roles", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		delete(report.Resolved, model.RoleCountry)
		report.Countries = nil

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Contains(output, "## Top Countries") {
			t.Error("expected no country section")
		}
		if !strings.Contains(output, "No column found for: country") {
			t.Error("expected missing role note")
		}
	})

	t.Run("writes comparison", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteComparison(createTestComparison()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# Catalog Comparison: catalog") {
			t.Error("expected comparison title")
		}
		if !strings.Contains(output, "Anime") || !strings.Contains(output, "Horror") {
			t.Error("expected added and removed values")
		}
	})
}

// TestSyncWriter tests that concurrent writes do not interleave.
func TestSyncWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSyncWriter(NewSimpleWriter(&buf))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Write(createTestReport())
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "Movies vs TV Shows:\nMovie      1\nTV Show    1\n"); got != 8 {
		t.Errorf("expected 8 intact sections, got %d", got)
	}
}
