package domain

import "strings"

// UserType classifies a configured role name and selects its resolution
// strategy. The set is closed: unrecognized classifications resolve to
// nothing and are logged by the resolver.
type UserType string

const (
	UserTypeIAMRole      UserType = "iam_role"
	UserTypeRedshiftUser UserType = "redshift_user"
	UserTypeSuperuser    UserType = "superuser"
	UserTypeUnknown      UserType = ""
)

// PrincipalDirectory is a case-insensitive index of the database principals
// observed this cycle: upper-cased name → name as cased by the warehouse.
// All grantee comparisons and role-to-principal checks go through the
// directory, never through raw string equality.
type PrincipalDirectory struct {
	byUpper map[string]string
}

// NewPrincipalDirectory builds the index from the principal names returned
// by the warehouse. Later duplicates (differing only in case) win.
func NewPrincipalDirectory(names []string) *PrincipalDirectory {
	d := &PrincipalDirectory{byUpper: make(map[string]string, len(names))}
	for _, n := range names {
		d.byUpper[strings.ToUpper(n)] = n
	}
	return d
}

// Lookup returns the canonical casing of name, matching case-insensitively.
func (d *PrincipalDirectory) Lookup(name string) (string, bool) {
	canonical, ok := d.byUpper[strings.ToUpper(name)]
	return canonical, ok
}

// Names returns every canonical principal name. Order is unspecified.
func (d *PrincipalDirectory) Names() []string {
	names := make([]string, 0, len(d.byUpper))
	for _, n := range d.byUpper {
		names = append(names, n)
	}
	return names
}

// Len returns the number of indexed principals.
func (d *PrincipalDirectory) Len() int {
	return len(d.byUpper)
}
