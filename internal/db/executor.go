package db

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"masksync/domain"
)

// maskedPlaceholder is the literal every masked column renders as.
const maskedPlaceholder = "REDACTED"

// PolicyExecutor renders and executes masking policy DDL: policy creation
// and corrective attach/detach statements.
type PolicyExecutor struct {
	db     Queryer
	logger *slog.Logger
}

// NewPolicyExecutor creates the policy writer over the given queryer.
func NewPolicyExecutor(db Queryer, logger *slog.Logger) *PolicyExecutor {
	return &PolicyExecutor{db: db, logger: logger}
}

// EnsurePolicies creates one policy per permission type for every observed
// column, as a single idempotent batch. No-op on an empty type map. Runs
// before corrections so every referenced policy name already exists.
func (e *PolicyExecutor) EnsurePolicies(ctx context.Context, types map[domain.Column]domain.ColumnType) error {
	if len(types) == 0 {
		return nil
	}

	cols := make([]domain.Column, 0, len(types))
	for c := range types {
		cols = append(cols, c)
	}
	// Stable batch order keeps logs and generated SQL diffable across runs.
	sort.Slice(cols, func(i, j int) bool { return cols[i].String() < cols[j].String() })

	var stmts []string
	for _, col := range cols {
		typ := types[col]
		for _, t := range domain.PermissionTypes {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE MASKING POLICY %s IF NOT EXISTS WITH (%s %s) USING (%s)",
				t.PolicyName(col), col.Name, typ, valueExpression(t, col, typ)))
		}
	}

	if _, err := e.db.ExecContext(ctx, strings.Join(stmts, ";\n")+";"); err != nil {
		return fmt.Errorf("create masking policies: %w", err)
	}
	e.logger.Info("masking policies ensured", "columns", len(types), "statements", len(stmts))
	return nil
}

// Apply executes the corrective statements for the given drift: detaches
// first (extras and the actual side of mismatches), then attaches (missing
// and the expected side of mismatches). Detach must precede attach because
// only one attachment per (column, grantee) key is valid at a time. Each
// correction is its own unit of work; a failure is logged and the rest
// continue, since every correction is idempotent and retried next cycle.
func (e *PolicyExecutor) Apply(ctx context.Context, drift domain.Drift) error {
	detach := make([]domain.PolicyAttachment, 0, len(drift.Extra)+len(drift.Mismatched))
	detach = append(detach, drift.Extra...)
	for _, m := range drift.Mismatched {
		detach = append(detach, m.Actual)
	}

	attach := make([]domain.PolicyAttachment, 0, len(drift.Missing)+len(drift.Mismatched))
	attach = append(attach, drift.Missing...)
	for _, m := range drift.Mismatched {
		attach = append(attach, m.Expected)
	}

	var detachFailed, attachFailed int
	for _, a := range detach {
		detachFailed += e.execCorrection(ctx, detachStatement(a))
	}
	for _, a := range attach {
		attachFailed += e.execCorrection(ctx, attachStatement(a))
	}

	e.logger.Info("corrections applied",
		"detached", len(detach)-detachFailed,
		"attached", len(attach)-attachFailed,
		"failed", detachFailed+attachFailed,
	)
	return ctx.Err()
}

// execCorrection runs one statement and returns 1 on failure, 0 on success.
func (e *PolicyExecutor) execCorrection(ctx context.Context, stmt string) int {
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		e.logger.Warn("correction failed", "statement", stmt, "error", err)
		return 1
	}
	return 0
}

// valueExpression returns the USING expression for a permission type:
// passthrough for allowed, typed NULL for denied, a placeholder literal
// cast to the column's type for masked.
func valueExpression(t domain.PermissionType, col domain.Column, typ domain.ColumnType) string {
	switch t {
	case domain.PermissionAllowed:
		return col.Name
	case domain.PermissionDenied:
		return fmt.Sprintf("NULL::%s", typ)
	default:
		return fmt.Sprintf("'%s'::%s", maskedPlaceholder, typ)
	}
}

func attachStatement(a domain.PolicyAttachment) string {
	return fmt.Sprintf("ATTACH MASKING POLICY %s ON %s.%s (%s) TO %s PRIORITY %d",
		a.PolicyName, a.Column.Schema, a.Column.Table, a.Column.Name, granteeSQL(a.Grantee), a.Priority)
}

func detachStatement(a domain.PolicyAttachment) string {
	return fmt.Sprintf("DETACH MASKING POLICY %s ON %s.%s (%s) FROM %s",
		a.PolicyName, a.Column.Schema, a.Column.Table, a.Column.Name, granteeSQL(a.Grantee))
}

// granteeSQL renders PUBLIC as a bare keyword and every other grantee as a
// quoted identifier.
func granteeSQL(grantee string) string {
	if strings.EqualFold(grantee, domain.PublicGrantee) {
		return domain.PublicGrantee
	}
	return `"` + strings.ReplaceAll(grantee, `"`, `""`) + `"`
}
