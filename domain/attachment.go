package domain

import "strings"

// PolicyAttachment binds one masking policy to a (column, grantee) pair at
// a given priority. Attachments are built fresh every reconciliation cycle,
// either from configuration (expected) or from the warehouse catalog
// (actual), and are never mutated or persisted as objects.
type PolicyAttachment struct {
	PolicyName string `json:"policy_name"`
	Column     Column `json:"column"`
	Grantee    string `json:"grantee"`
	Priority   int    `json:"priority"`
}

// Key is the reconciliation identity of the attachment:
// "{schema}.{table}.{column}::{GRANTEE_UPPERCASE}". At most one attachment
// per column per grantee is meaningful, and grantee case differences must
// not produce duplicate keys.
func (a PolicyAttachment) Key() string {
	return a.Column.String() + "::" + strings.ToUpper(a.Grantee)
}

// Matches reports whether another attachment holding the same key carries
// the same policy at the same priority — the "no drift" predicate.
func (a PolicyAttachment) Matches(other PolicyAttachment) bool {
	return a.PolicyName == other.PolicyName && a.Priority == other.Priority
}

// Mismatch pairs an expected attachment with the conflicting actual
// attachment currently holding the same key.
type Mismatch struct {
	Expected PolicyAttachment `json:"expected"`
	Actual   PolicyAttachment `json:"actual"`
}

// Drift is the difference between the expected and actual attachment sets.
// It is a computation output, never stored between runs.
type Drift struct {
	Missing    []PolicyAttachment `json:"missing"`
	Extra      []PolicyAttachment `json:"extra"`
	Mismatched []Mismatch         `json:"mismatched"`
}

// Empty reports whether the drift carries no findings.
func (d Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Mismatched) == 0
}

// Corrections returns the number of corrective statements the drift
// implies. A mismatch costs two: a detach and an attach.
func (d Drift) Corrections() int {
	return len(d.Missing) + len(d.Extra) + 2*len(d.Mismatched)
}
