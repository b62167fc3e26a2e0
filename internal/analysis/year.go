package analysis

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/nao1215/catalogscan/internal/model"
)

const (
	minYear = 1
	maxYear = 9999
)

// dateLayouts are tried in order before falling back to dateparse.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"January 2006",
	"2006-01",
}

// ParseYear derives a calendar year from a date-like value.
// Bare integers and integral floats are taken as the year itself.
// Blank and unrecognized values report false.
func ParseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f != math.Trunc(f) || f < minYear || f > maxYear {
			return 0, false
		}
		return int(f), true
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Year(), true
		}
	}

	ts, ok := parseAny(s)
	if !ok {
		return 0, false
	}
	if y := ts.Year(); y >= minYear && y <= maxYear {
		return y, true
	}
	return 0, false
}

// parseAny wraps dateparse.ParseAny, which panics on some malformed inputs.
func parseAny(s string) (ts time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	ts, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ExtractYears parses every row of column into a derived year column.
// Rows whose value is missing or unparseable have no year; non-blank
// values that fail to parse are counted in Unparsed.
func ExtractYears(t *model.Table, column string) *model.YearColumn {
	col := model.NewYearColumn(column, t.Len())
	for row := range t.Len() {
		raw, ok := t.Value(row, column)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		year, ok := ParseYear(raw)
		if !ok {
			col.Unparsed++
			continue
		}
		col.Set(row, year)
	}
	return col
}

// SummarizeYears computes the year range and per-year counts.
// It returns nil when col is nil or holds no derived year.
func SummarizeYears(col *model.YearColumn) *model.YearSummary {
	if col == nil {
		return nil
	}
	years := col.Present()
	if len(years) == 0 {
		return nil
	}

	counts := make(map[int]int)
	for _, y := range years {
		counts[y]++
	}
	trend := make([]model.YearCount, 0, len(counts))
	for y, n := range counts {
		trend = append(trend, model.YearCount{Year: y, Count: n})
	}
	slices.SortFunc(trend, func(a, b model.YearCount) int {
		return a.Year - b.Year
	})

	return &model.YearSummary{
		Column:   col.Source,
		Min:      trend[0].Year,
		Max:      trend[len(trend)-1].Year,
		Trend:    trend,
		Parsed:   len(years),
		Unparsed: col.Unparsed,
	}
}
