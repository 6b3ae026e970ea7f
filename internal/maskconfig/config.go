package maskconfig

import (
	"strings"

	"masksync/domain"
)

// envPlaceholder is the literal substring in role identifiers that is
// replaced by the configured environment name before any lookup.
const envPlaceholder = "{env}"

// ColumnEntry is one configured column with its permissions block.
type ColumnEntry struct {
	ID          string
	Permissions *Permissions
}

// Config wraps the two parsed configuration documents and answers naming,
// priority, and principal-classification lookups. Immutable after New.
type Config struct {
	masking   *MaskingDoc
	directory DirectoryDoc
	env       string

	// upper-cased role name (env-expanded) → raw classification name
	roleClasses map[string]string
}

// New builds the configuration wrapper for the given environment name.
func New(masking *MaskingDoc, directory DirectoryDoc, env string) *Config {
	c := &Config{
		masking:     masking,
		directory:   directory,
		env:         env,
		roleClasses: make(map[string]string),
	}
	for class, roles := range masking.UserTypes {
		for _, role := range roles {
			c.roleClasses[strings.ToUpper(c.ExpandEnv(role))] = class
		}
	}
	return c
}

// Env returns the configured environment name.
func (c *Config) Env() string {
	return c.env
}

// ExpandEnv substitutes the environment placeholder in a role identifier.
func (c *Config) ExpandEnv(role string) string {
	return strings.ReplaceAll(role, envPlaceholder, c.env)
}

// Directory returns the external identity directory.
func (c *Config) Directory() DirectoryDoc {
	return c.directory
}

// ColumnsConfig returns the configured column entries in document order.
func (c *Config) ColumnsConfig() []ColumnEntry {
	entries := make([]ColumnEntry, 0, len(c.masking.Columns))
	for _, m := range c.masking.Columns {
		for id, perms := range m {
			entries = append(entries, ColumnEntry{ID: id, Permissions: perms})
		}
	}
	return entries
}

// PolicyName returns the deterministic policy object name for a permission
// type on a column. ok is false when the permission type is unrecognized.
func (c *Config) PolicyName(t domain.PermissionType, col domain.Column) (string, bool) {
	if !t.Valid() {
		return "", false
	}
	return t.PolicyName(col), true
}

// PolicyPriority returns the fixed priority for a permission type. ok is
// false when the permission type is unrecognized.
func (c *Config) PolicyPriority(t domain.PermissionType) (int, bool) {
	if !t.Valid() {
		return 0, false
	}
	return t.Priority(), true
}

// UserTypeOf returns the classification of a configured role name, matched
// case-insensitively after environment expansion. ok is false when the role
// does not appear under user_types at all; a role listed under an
// unrecognized classification returns UserTypeUnknown with ok true.
func (c *Config) UserTypeOf(role string) (domain.UserType, bool) {
	class, ok := c.roleClasses[strings.ToUpper(c.ExpandEnv(role))]
	if !ok {
		return domain.UserTypeUnknown, false
	}
	switch class {
	case string(domain.UserTypeIAMRole):
		return domain.UserTypeIAMRole, true
	case string(domain.UserTypeRedshiftUser):
		return domain.UserTypeRedshiftUser, true
	case string(domain.UserTypeSuperuser):
		return domain.UserTypeSuperuser, true
	}
	return domain.UserTypeUnknown, true
}

// Superusers returns the env-expanded role names classified superuser.
// These roles can never have a policy attached to them and are excluded
// from every resolution step.
func (c *Config) Superusers() []string {
	var out []string
	for _, role := range c.masking.UserTypes[string(domain.UserTypeSuperuser)] {
		out = append(out, c.ExpandEnv(role))
	}
	return out
}
