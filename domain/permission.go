package domain

import "strings"

// PermissionType is one of the three visibility outcomes a principal can
// have on a sensitive column.
type PermissionType string

const (
	PermissionAllowed PermissionType = "allowed"
	PermissionMasked  PermissionType = "masked"
	PermissionDenied  PermissionType = "denied"
)

// PermissionTypes lists the fixed permission types in priority order,
// highest first.
var PermissionTypes = []PermissionType{PermissionAllowed, PermissionDenied, PermissionMasked}

// PublicGrantee is the warehouse catch-all grantee. It is a keyword, never
// quoted as an identifier in generated SQL.
const PublicGrantee = "PUBLIC"

// BaselinePriority is the priority of the PUBLIC catch-all mask attachment.
// It sits below every explicit attachment so per-principal overrides win.
const BaselinePriority = 10

// Fixed naming and priority tables. Never mutated at run time.
var (
	policyPrefixes = map[PermissionType]string{
		PermissionAllowed: "unmask",
		PermissionDenied:  "deny",
		PermissionMasked:  "mask",
	}
	policyPriorities = map[PermissionType]int{
		PermissionAllowed: 300,
		PermissionDenied:  200,
		PermissionMasked:  100,
	}
)

// Valid reports whether t is one of the three recognized permission types.
func (t PermissionType) Valid() bool {
	_, ok := policyPrefixes[t]
	return ok
}

// Prefix returns the policy-name prefix for t, or "" when unrecognized.
func (t PermissionType) Prefix() string {
	return policyPrefixes[t]
}

// Priority returns the fixed attachment priority for t, or 0 when
// unrecognized.
func (t PermissionType) Priority() int {
	return policyPriorities[t]
}

// PolicyName returns the deterministic policy object name for t on the
// given column: "{prefix}_{schema}_{table}_{column}". The name doubles as
// the SQL object name and must be stable across runs.
func (t PermissionType) PolicyName(col Column) string {
	if !t.Valid() {
		return ""
	}
	return t.Prefix() + "_" + strings.ReplaceAll(col.String(), ".", "_")
}
