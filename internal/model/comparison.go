package model

import "time"

// ValueDelta is a value whose count changed between two runs.
type ValueDelta struct {
	Value  string `json:"value"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// Delta returns After minus Before.
func (d ValueDelta) Delta() int {
	return d.After - d.Before
}

// RoleComparison lists how one role's frequency table changed.
type RoleComparison struct {
	Role Role `json:"role"`

	// Added holds values present only in the later run, with their counts.
	Added []Entry `json:"added,omitempty"`

	// Removed holds values present only in the earlier run, with their counts.
	Removed []Entry `json:"removed,omitempty"`

	// Changed holds values present in both runs with different counts.
	Changed []ValueDelta `json:"changed,omitempty"`
}

// HasChanges reports whether anything differs for the role.
func (c RoleComparison) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0 || len(c.Changed) > 0
}

// YearRange is the min and max derived year of a run.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Comparison is the difference between two stored runs of one dataset.
type Comparison struct {
	Dataset string `json:"dataset"`

	BeforeRunID string    `json:"before_run_id"`
	BeforeDate  time.Time `json:"before_date"`
	AfterRunID  string    `json:"after_run_id"`
	AfterDate   time.Time `json:"after_date"`

	RowsBefore int `json:"rows_before"`
	RowsAfter  int `json:"rows_after"`

	Roles []RoleComparison `json:"roles"`

	YearsBefore *YearRange `json:"years_before,omitempty"`
	YearsAfter  *YearRange `json:"years_after,omitempty"`
}

// RowDelta returns the change in row count.
func (c *Comparison) RowDelta() int {
	return c.RowsAfter - c.RowsBefore
}

// YearRangeChanged reports whether the derived year range differs.
func (c *Comparison) YearRangeChanged() bool {
	switch {
	case c.YearsBefore == nil && c.YearsAfter == nil:
		return false
	case c.YearsBefore == nil || c.YearsAfter == nil:
		return true
	default:
		return *c.YearsBefore != *c.YearsAfter
	}
}

// HasChanges reports whether the two runs differ at all.
func (c *Comparison) HasChanges() bool {
	if c.RowDelta() != 0 || c.YearRangeChanged() {
		return true
	}
	for _, rc := range c.Roles {
		if rc.HasChanges() {
			return true
		}
	}
	return false
}

// Range returns the year range of the summary, or nil.
func (s *YearSummary) Range() *YearRange {
	if s == nil {
		return nil
	}
	return &YearRange{Min: s.Min, Max: s.Max}
}
