package analysis

import (
	"slices"
	"testing"

	"github.com/nao1215/catalogscan/internal/model"
)

// TestSplitMultiValue tests comma-separated field expansion.
func TestSplitMultiValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "trims tokens", raw: " Drama , Comedy ", want: []string{"Drama", "Comedy"}},
		{name: "single value", raw: "India", want: []string{"India"}},
		{name: "drops empty tokens", raw: "Drama,, ,Comedy,", want: []string{"Drama", "Comedy"}},
		{name: "blank value", raw: "   ", want: nil},
		{name: "empty value", raw: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitMultiValue(tt.raw)
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitMultiValue(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestCounterEntries tests stable descending ordering.
func TestCounterEntries(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	for _, v := range []string{"b", "a", "c", "a", "c", "d"} {
		c.Add(v)
	}

	got := c.Entries()
	want := []model.Entry{
		{Value: "a", Count: 2},
		{Value: "c", Count: 2},
		{Value: "b", Count: 1},
		{Value: "d", Count: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestFrequency tests frequency tables built from a table.
func TestFrequency(t *testing.T) {
	t.Parallel()

	table := model.NewTable(
		[]string{"type", "listed_in", "country"},
		[]model.Record{
			{Fields: []string{"Movie", " Drama , Comedy ", "United States"}},
			{Fields: []string{"TV Show", "Drama", ""}},
			{Fields: []string{" Movie ", "", "India, United States"}},
			{Fields: []string{""}},
		},
	)
	rc := ResolveColumns(table.Columns, nil)

	t.Run("single valued column", func(t *testing.T) {
		t.Parallel()

		ft, ok := Frequency(table, rc, model.RoleType)
		if !ok {
			t.Fatal("expected type frequency")
		}
		if ft.Count("Movie") != 2 || ft.Count("TV Show") != 1 {
			t.Errorf("unexpected counts: %v", ft.Entries)
		}
		if ft.Total() != 3 {
			t.Errorf("expected total 3, got %d", ft.Total())
		}
	})

	t.Run("multi valued column", func(t *testing.T) {
		t.Parallel()

		ft, ok := Frequency(table, rc, model.RoleGenre)
		if !ok {
			t.Fatal("expected genre frequency")
		}
		want := []model.Entry{{Value: "Drama", Count: 2}, {Value: "Comedy", Count: 1}}
		if !slices.Equal(ft.Entries, want) {
			t.Errorf("expected %v, got %v", want, ft.Entries)
		}
		if ft.Column != "listed_in" || ft.Role != model.RoleGenre {
			t.Errorf("unexpected metadata: %s/%s", ft.Role, ft.Column)
		}
	})

	t.Run("counts sum to contributing occurrences", func(t *testing.T) {
		t.Parallel()

		ft, _ := Frequency(table, rc, model.RoleCountry)
		if ft.Total() != 3 {
			t.Errorf("expected 3 occurrences, got %d", ft.Total())
		}
		if ft.Entries[0].Value != "United States" {
			t.Errorf("expected United States first, got %v", ft.Entries)
		}
	})

	t.Run("unresolved role", func(t *testing.T) {
		t.Parallel()

		if _, ok := Frequency(table, model.ResolvedColumns{}, model.RoleType); ok {
			t.Error("expected unresolved role to be skipped")
		}
	})

	t.Run("release role is not categorical", func(t *testing.T) {
		t.Parallel()

		rc := model.ResolvedColumns{model.RoleRelease: "type"}
		if _, ok := Frequency(table, rc, model.RoleRelease); ok {
			t.Error("expected release role to be rejected")
		}
	})

	t.Run("empty table gives empty frequency", func(t *testing.T) {
		t.Parallel()

		empty := model.NewTable([]string{"type"}, nil)
		ft, ok := Frequency(empty, ResolveColumns(empty.Columns, nil), model.RoleType)
		if !ok {
			t.Fatal("expected resolved role")
		}
		if !ft.IsEmpty() {
			t.Errorf("expected empty table, got %v", ft.Entries)
		}
	})
}

// TestTopIsPrefix tests that a top-N list is a prefix of the full ordering.
func TestTopIsPrefix(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	for i := range 15 {
		for range i + 1 {
			c.Add(string(rune('a' + i)))
		}
	}
	ft := &model.FrequencyTable{Entries: c.Entries()}

	top := ft.Top(10)
	if len(top) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(top))
	}
	if !slices.Equal(top, ft.Entries[:10]) {
		t.Error("expected top entries to be a prefix")
	}
	if top[0].Value != "o" || top[0].Count != 15 {
		t.Errorf("expected o:15 first, got %v", top[0])
	}
}
