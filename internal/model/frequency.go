package model

// Entry is one distinct value and the number of times it occurred.
type Entry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable maps distinct values of one role to their occurrence counts.
// Entries are ordered by descending count; ties keep the order in which the
// values were first encountered.
type FrequencyTable struct {
	// Role is the semantic role that was counted.
	Role Role `json:"role"`

	// Column is the table column the role resolved to.
	Column string `json:"column"`

	// Entries holds the counted values, most frequent first.
	Entries []Entry `json:"entries"`
}

// Len returns the number of distinct values.
func (f *FrequencyTable) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Entries)
}

// IsEmpty reports whether nothing was counted.
func (f *FrequencyTable) IsEmpty() bool {
	return f.Len() == 0
}

// Total returns the sum of all counts, i.e. the number of contributing
// occurrences.
func (f *FrequencyTable) Total() int {
	if f == nil {
		return 0
	}
	total := 0
	for _, e := range f.Entries {
		total += e.Count
	}
	return total
}

// Top returns the n most frequent entries. The result is always a prefix of
// Entries. A non-positive n returns all entries.
func (f *FrequencyTable) Top(n int) []Entry {
	if f == nil {
		return nil
	}
	if n <= 0 || n >= len(f.Entries) {
		return f.Entries
	}
	return f.Entries[:n]
}

// Count returns the count recorded for value, or zero.
func (f *FrequencyTable) Count(value string) int {
	if f == nil {
		return 0
	}
	for _, e := range f.Entries {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// CountMap returns the table as a value to count map.
func (f *FrequencyTable) CountMap() map[string]int {
	m := make(map[string]int, f.Len())
	if f == nil {
		return m
	}
	for _, e := range f.Entries {
		m[e.Value] = e.Count
	}
	return m
}
