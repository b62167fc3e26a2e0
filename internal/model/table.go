package model

import (
	"errors"
	"fmt"
)

// ErrDerivedColumnExists is returned when a derived year column is attached
// to a table that already has one.
var ErrDerivedColumnExists = errors.New("derived year column already attached")

// Record is one row of the input table. Fields are positional and follow
// Table.Columns; a record may be shorter than the header, in which case the
// trailing fields are missing.
type Record struct {
	Fields []string
}

// Value returns the field at position i. The second result is false when
// the record has no such field.
func (r Record) Value(i int) (string, bool) {
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	return r.Fields[i], true
}

// Table is an ordered sequence of records sharing a common column set.
// It is built once by the loader and only read afterwards, except for the
// single derived year column attached by the year extractor.
type Table struct {
	// Columns holds the column names, trimmed of surrounding whitespace.
	Columns []string

	// Rows holds the records in file order.
	Rows []Record

	// index maps a column name to its position. When a name occurs more
	// than once, the last occurrence wins.
	index map[string]int

	// years is the derived release year column, nil until attached.
	years *YearColumn
}

// NewTable creates a Table from column names and rows.
func NewTable(columns []string, rows []Record) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Table{
		Columns: columns,
		Rows:    rows,
		index:   index,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the raw value of column in the given row. The second result
// is false when the column does not exist or the row has no such field.
func (t *Table) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	return t.Rows[row].Value(i)
}

// AttachYears attaches the derived year column. It can be called only once,
// and the column must have one slot per row.
func (t *Table) AttachYears(col *YearColumn) error {
	if t.years != nil {
		return ErrDerivedColumnExists
	}
	if col.Len() != t.Len() {
		return fmt.Errorf("derived year column has %d rows, table has %d", col.Len(), t.Len())
	}
	t.years = col
	return nil
}

// Years returns the derived year column, or nil if none was attached.
func (t *Table) Years() *YearColumn {
	return t.years
}
