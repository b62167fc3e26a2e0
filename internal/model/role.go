package model

// Role is a semantic category that one of several literal column names
// may satisfy.
type Role string

const (
	// RoleType is the content type column (e.g. "Movie", "TV Show").
	RoleType Role = "type"

	// RoleGenre is the comma-separated genre list column.
	RoleGenre Role = "genre"

	// RoleCountry is the comma-separated production country column.
	RoleCountry Role = "country"

	// RoleRelease is the date-like column the release year is derived from.
	RoleRelease Role = "release"
)

// Roles lists every role in report order.
var Roles = []Role{RoleType, RoleGenre, RoleCountry, RoleRelease}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleType, RoleGenre, RoleCountry, RoleRelease:
		return true
	default:
		return false
	}
}

// MultiValued reports whether the role's raw value is a comma-separated list.
func (r Role) MultiValued() bool {
	return r == RoleGenre || r == RoleCountry
}

// DefaultAliases returns the accepted column names for every role, in
// priority order. The first alias present in a table wins.
// A fresh map is returned on every call so callers may modify it.
func DefaultAliases() map[Role][]string {
	return map[Role][]string{
		RoleType:    {"type"},
		RoleGenre:   {"category", "listed_in", "genres"},
		RoleCountry: {"country"},
		RoleRelease: {"release_date", "release_year", "date_added"},
	}
}

// ResolvedColumns maps each role to the actual column name satisfying it.
// A role missing from the map is absent from the table.
type ResolvedColumns map[Role]string

// Column returns the column resolved for role.
func (rc ResolvedColumns) Column(role Role) (string, bool) {
	col, ok := rc[role]
	return col, ok
}

// Has reports whether role resolved to a column.
func (rc ResolvedColumns) Has(role Role) bool {
	_, ok := rc[role]
	return ok
}

// Missing returns the roles that did not resolve, in report order.
func (rc ResolvedColumns) Missing() []Role {
	var missing []Role
	for _, role := range Roles {
		if !rc.Has(role) {
			missing = append(missing, role)
		}
	}
	return missing
}
