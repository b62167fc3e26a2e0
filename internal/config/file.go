package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/catalogscan/internal/model"
)

// ChartFile holds chart settings from the config file.
type ChartFile struct {
	// Width is the chart width in inches.
	Width float64 `yaml:"width,omitempty"`

	// Height is the chart height in inches.
	Height float64 `yaml:"height,omitempty"`
}

// File represents the structure of the .catalogscan configuration file.
type File struct {
	// OutputDir overrides the chart output directory.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Top overrides how many genres and countries are shown.
	Top int `yaml:"top,omitempty"`

	// Delimiter forces the field delimiter ("," ";" "tab" ...).
	Delimiter string `yaml:"delimiter,omitempty"`

	// Chart holds the chart size.
	Chart ChartFile `yaml:"chart,omitempty"`

	// Roles replaces the column aliases of a role, keyed by role name.
	// The list order is the matching priority.
	Roles map[string][]string `yaml:"roles,omitempty"`
}

// RoleAliases converts Roles into typed aliases.
// Unknown role names and empty alias lists are rejected.
func (f *File) RoleAliases() (map[model.Role][]string, error) {
	if len(f.Roles) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(f.Roles))
	for name := range f.Roles {
		names = append(names, name)
	}
	sort.Strings(names)

	aliases := make(map[model.Role][]string, len(f.Roles))
	for _, name := range names {
		role := model.Role(strings.ToLower(strings.TrimSpace(name)))
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, name)
		}
		var list []string
		for _, a := range f.Roles[name] {
			if a = strings.TrimSpace(a); a != "" {
				list = append(list, a)
			}
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyAliases, role)
		}
		aliases[role] = list
	}
	return aliases, nil
}
