package model

import "testing"

// TestFrequencyTable tests frequency table helpers.
func TestFrequencyTable(t *testing.T) {
	t.Parallel()

	table := &FrequencyTable{
		Role:   RoleGenre,
		Column: "listed_in",
		Entries: []Entry{
			{Value: "Drama", Count: 5},
			{Value: "Comedy", Count: 3},
			{Value: "Horror", Count: 3},
			{Value: "Anime", Count: 1},
		},
	}

	t.Run("total sums counts", func(t *testing.T) {
		t.Parallel()
		if table.Total() != 12 {
			t.Errorf("expected 12, got %d", table.Total())
		}
	})

	t.Run("top returns prefix", func(t *testing.T) {
		t.Parallel()
		top := table.Top(2)
		if len(top) != 2 || top[0].Value != "Drama" || top[1].Value != "Comedy" {
			t.Errorf("unexpected top 2: %v", top)
		}
	})

	t.Run("top larger than table returns everything", func(t *testing.T) {
		t.Parallel()
		if len(table.Top(10)) != 4 {
			t.Errorf("expected 4 entries, got %d", len(table.Top(10)))
		}
	})

	t.Run("non-positive top returns everything", func(t *testing.T) {
		t.Parallel()
		if len(table.Top(0)) != 4 {
			t.Errorf("expected 4 entries, got %d", len(table.Top(0)))
		}
	})

	t.Run("count looks up values", func(t *testing.T) {
		t.Parallel()
		if table.Count("Horror") != 3 {
			t.Errorf("expected 3, got %d", table.Count("Horror"))
		}
		if table.Count("Western") != 0 {
			t.Errorf("expected 0, got %d", table.Count("Western"))
		}
	})

	t.Run("count map mirrors entries", func(t *testing.T) {
		t.Parallel()
		m := table.CountMap()
		if len(m) != 4 || m["Drama"] != 5 {
			t.Errorf("unexpected map: %v", m)
		}
	})

	t.Run("nil table is empty", func(t *testing.T) {
		t.Parallel()
		var nilTable *FrequencyTable
		if !nilTable.IsEmpty() || nilTable.Total() != 0 || nilTable.Top(3) != nil {
			t.Error("expected nil table to behave as empty")
		}
		if len(nilTable.CountMap()) != 0 {
			t.Error("expected empty map for nil table")
		}
	})
}
