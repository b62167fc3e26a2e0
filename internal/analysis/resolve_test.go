package analysis

import (
	"testing"

	"github.com/nao1215/catalogscan/internal/model"
)

// TestResolveColumns tests role resolution against column names.
func TestResolveColumns(t *testing.T) {
	t.Parallel()

	t.Run("resolves Netflix style header", func(t *testing.T) {
		t.Parallel()

		columns := []string{"Show_Id", "Category", "Title", "Country", "Release_Date", "Type"}
		rc := ResolveColumns(columns, nil)

		want := map[model.Role]string{
			model.RoleType:    "Type",
			model.RoleGenre:   "Category",
			model.RoleCountry: "Country",
			model.RoleRelease: "Release_Date",
		}
		for role, col := range want {
			got, ok := rc.Column(role)
			if !ok || got != col {
				t.Errorf("role %s: expected %q, got %q (ok=%v)", role, col, got, ok)
			}
		}
	})

	t.Run("uses alias priority order", func(t *testing.T) {
		t.Parallel()

		columns := []string{"genres", "listed_in", "date_added", "release_year"}
		rc := ResolveColumns(columns, nil)

		if got, _ := rc.Column(model.RoleGenre); got != "listed_in" {
			t.Errorf("expected listed_in, got %q", got)
		}
		if got, _ := rc.Column(model.RoleRelease); got != "release_year" {
			t.Errorf("expected release_year, got %q", got)
		}
	})

	t.Run("missing roles are absent", func(t *testing.T) {
		t.Parallel()

		rc := ResolveColumns([]string{"title", "type"}, nil)
		if rc.Has(model.RoleCountry) {
			t.Error("expected country to be absent")
		}
		missing := rc.Missing()
		if len(missing) != 3 {
			t.Errorf("expected 3 missing roles, got %v", missing)
		}
	})

	t.Run("depends only on the column name set", func(t *testing.T) {
		t.Parallel()

		a := ResolveColumns([]string{"TYPE", "country", "Listed_In"}, nil)
		b := ResolveColumns([]string{"Listed_In", "TYPE", "country"}, nil)
		for _, role := range model.Roles {
			ca, oka := a.Column(role)
			cb, okb := b.Column(role)
			if ca != cb || oka != okb {
				t.Errorf("role %s: %q/%v vs %q/%v", role, ca, oka, cb, okb)
			}
		}
	})

	t.Run("later column wins when names fold together", func(t *testing.T) {
		t.Parallel()

		rc := ResolveColumns([]string{"Country", "COUNTRY"}, nil)
		if got, _ := rc.Column(model.RoleCountry); got != "COUNTRY" {
			t.Errorf("expected COUNTRY, got %q", got)
		}
	})

	t.Run("custom aliases replace defaults per role", func(t *testing.T) {
		t.Parallel()

		aliases := map[model.Role][]string{
			model.RoleGenre: {"Kind"},
		}
		rc := ResolveColumns([]string{"kind", "category", "type"}, aliases)
		if got, _ := rc.Column(model.RoleGenre); got != "kind" {
			t.Errorf("expected kind, got %q", got)
		}
		if got, _ := rc.Column(model.RoleType); got != "type" {
			t.Errorf("expected default alias for type, got %q", got)
		}
	})
}
