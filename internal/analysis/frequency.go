package analysis

import (
	"slices"
	"strings"

	"github.com/nao1215/catalogscan/internal/model"
)

// Counter counts string occurrences and remembers first-seen order.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add counts one occurrence of value.
func (c *Counter) Add(value string) {
	if _, seen := c.counts[value]; !seen {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// Entries returns the counts ordered by descending count.
// Values with equal counts keep the order in which they were first seen.
func (c *Counter) Entries() []model.Entry {
	entries := make([]model.Entry, 0, len(c.order))
	for _, v := range c.order {
		entries = append(entries, model.Entry{Value: v, Count: c.counts[v]})
	}
	slices.SortStableFunc(entries, func(a, b model.Entry) int {
		return b.Count - a.Count
	})
	return entries
}

// SplitMultiValue splits a comma-separated field into trimmed, non-empty tokens.
func SplitMultiValue(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// CountColumn builds the frequency entries of one column.
// Missing and blank values are skipped. When multi is true every value is
// expanded with SplitMultiValue before counting.
func CountColumn(t *model.Table, column string, multi bool) []model.Entry {
	c := NewCounter()
	for row := range t.Len() {
		raw, ok := t.Value(row, column)
		if !ok {
			continue
		}
		if multi {
			for _, token := range SplitMultiValue(raw) {
				c.Add(token)
			}
			continue
		}
		if v := strings.TrimSpace(raw); v != "" {
			c.Add(v)
		}
	}
	return c.Entries()
}

// Frequency returns the frequency table of a categorical role.
// It reports false when the role was not resolved or is not categorical.
func Frequency(t *model.Table, rc model.ResolvedColumns, role model.Role) (*model.FrequencyTable, bool) {
	if role == model.RoleRelease {
		return nil, false
	}
	column, ok := rc.Column(role)
	if !ok {
		return nil, false
	}
	return &model.FrequencyTable{
		Role:    role,
		Column:  column,
		Entries: CountColumn(t, column, role.MultiValued()),
	}, true
}
