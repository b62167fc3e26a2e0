package analysis

import "github.com/nao1215/catalogscan/internal/model"

// compareRoles are the roles whose frequency tables are compared.
var compareRoles = []model.Role{model.RoleType, model.RoleGenre, model.RoleCountry}

// Compare reports how after differs from before.
// Frequency tables are compared in full, not only their top values.
// Added and changed values follow the later run's ordering, removed values
// the earlier run's.
func Compare(before, after *model.CatalogReport) *model.Comparison {
	c := &model.Comparison{
		Dataset:     after.Dataset,
		BeforeRunID: before.RunID,
		BeforeDate:  before.DateAnalyzed,
		AfterRunID:  after.RunID,
		AfterDate:   after.DateAnalyzed,
		RowsBefore:  before.RowCount,
		RowsAfter:   after.RowCount,
		YearsBefore: before.Years.Range(),
		YearsAfter:  after.Years.Range(),
	}

	for _, role := range compareRoles {
		c.Roles = append(c.Roles, compareRole(role, before.Frequency(role), after.Frequency(role)))
	}
	return c
}

// compareRole diffs two frequency tables of the same role.
func compareRole(role model.Role, before, after *model.FrequencyTable) model.RoleComparison {
	rc := model.RoleComparison{Role: role}
	old := before.CountMap()
	cur := after.CountMap()

	if after != nil {
		for _, e := range after.Entries {
			prev, seen := old[e.Value]
			switch {
			case !seen:
				rc.Added = append(rc.Added, e)
			case prev != e.Count:
				rc.Changed = append(rc.Changed, model.ValueDelta{Value: e.Value, Before: prev, After: e.Count})
			}
		}
	}
	if before != nil {
		for _, e := range before.Entries {
			if _, ok := cur[e.Value]; !ok {
				rc.Removed = append(rc.Removed, e)
			}
		}
	}
	return rc
}
