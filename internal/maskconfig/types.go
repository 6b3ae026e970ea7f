// Package maskconfig models the two operator-authored configuration
// documents the reconciler consumes: the masking rules document and the
// external identity directory.
package maskconfig

import "masksync/domain"

// Permissions is the per-column permissions block: one configured role list
// per permission type. Any list may be empty or absent.
type Permissions struct {
	Allowed []string `yaml:"allowed"`
	Masked  []string `yaml:"masked"`
	Denied  []string `yaml:"denied"`
}

// Roles returns the configured role list for the given permission type.
func (p *Permissions) Roles(t domain.PermissionType) []string {
	if p == nil {
		return nil
	}
	switch t {
	case domain.PermissionAllowed:
		return p.Allowed
	case domain.PermissionMasked:
		return p.Masked
	case domain.PermissionDenied:
		return p.Denied
	}
	return nil
}

// MaskingDoc is the parsed masking rules document.
//
// Columns is an ordered list of single-entry mappings from a dotted column
// identifier to its permissions block. The order only affects log and SQL
// batching order, never correctness.
type MaskingDoc struct {
	UserTypes map[string][]string       `yaml:"user_types"`
	Columns   []map[string]*Permissions `yaml:"columns"`
}

// Identity is one entry of the external identity directory.
type Identity struct {
	Groups []string `yaml:"groups"`
	Email  string   `yaml:"email"`
}

// DirectoryDoc maps external identity name → attributes.
type DirectoryDoc map[string]Identity
