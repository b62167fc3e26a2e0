package model

// DerivedYearColumn is the name under which derived release years are
// attached to a table.
const DerivedYearColumn = "release_year_extracted"

// YearColumn holds one optional derived year per table row.
// Rows whose release value was missing or failed to parse have no year.
type YearColumn struct {
	// Source is the column the years were derived from.
	Source string

	// Unparsed counts rows with a non-empty release value that did not
	// parse as a date.
	Unparsed int

	years []int
	ok    []bool
}

// NewYearColumn creates an empty column with n row slots.
func NewYearColumn(source string, n int) *YearColumn {
	return &YearColumn{
		Source: source,
		years:  make([]int, n),
		ok:     make([]bool, n),
	}
}

// Set records the derived year for row.
func (c *YearColumn) Set(row, year int) {
	c.years[row] = year
	c.ok[row] = true
}

// At returns the derived year for row. The second result is false when the
// row has no derived year.
func (c *YearColumn) At(row int) (int, bool) {
	if row < 0 || row >= len(c.years) || !c.ok[row] {
		return 0, false
	}
	return c.years[row], true
}

// Len returns the number of row slots.
func (c *YearColumn) Len() int {
	return len(c.years)
}

// Count returns the number of rows that have a derived year.
func (c *YearColumn) Count() int {
	n := 0
	for _, ok := range c.ok {
		if ok {
			n++
		}
	}
	return n
}

// Present returns the derived years in row order, skipping absent rows.
func (c *YearColumn) Present() []int {
	out := make([]int, 0, len(c.years))
	for i, y := range c.years {
		if c.ok[i] {
			out = append(out, y)
		}
	}
	return out
}

// YearCount is the number of rows released in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearSummary aggregates the derived years of a table.
type YearSummary struct {
	// Column is the release column the years were derived from.
	Column string `json:"column"`

	// Min is the earliest derived year.
	Min int `json:"min"`

	// Max is the latest derived year.
	Max int `json:"max"`

	// Trend counts rows per year, ordered by ascending year.
	Trend []YearCount `json:"trend"`

	// Parsed is the number of rows with a derived year.
	Parsed int `json:"parsed"`

	// Unparsed is the number of non-empty release values that did not parse.
	Unparsed int `json:"unparsed"`
}

// Count returns the number of rows released in year.
func (s *YearSummary) Count(year int) int {
	if s == nil {
		return 0
	}
	for _, yc := range s.Trend {
		if yc.Year == year {
			return yc.Count
		}
	}
	return 0
}
