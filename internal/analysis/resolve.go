package analysis

import (
	"strings"

	"github.com/nao1215/catalogscan/internal/model"
	"golang.org/x/text/cases"
)

// fold returns the case-folded, trimmed form of a column name or alias.
// A Caser holds state, so a new one is created per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ResolveColumns maps each role to at most one column of columns.
//
// For every role the aliases are tried in order and the first one whose
// case-folded form matches a column wins. Roles missing from aliases fall
// back to model.DefaultAliases. When several columns fold to the same name
// the rightmost one is used. Roles without a match are left out of the result.
func ResolveColumns(columns []string, aliases map[model.Role][]string) model.ResolvedColumns {
	byFolded := make(map[string]string, len(columns))
	for _, c := range columns {
		byFolded[fold(c)] = c
	}

	defaults := model.DefaultAliases()
	resolved := model.ResolvedColumns{}
	for _, role := range model.Roles {
		candidates, ok := aliases[role]
		if !ok {
			candidates = defaults[role]
		}
		for _, alias := range candidates {
			if col, found := byFolded[fold(alias)]; found {
				resolved[role] = col
				break
			}
		}
	}
	return resolved
}
