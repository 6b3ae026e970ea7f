package domain

import "context"

// ColumnType is a warehouse column type normalized for masking policy DDL,
// e.g. "VARCHAR(MAX)", "CHAR(11)", "NUMERIC".
type ColumnType string

// CatalogReader reads the warehouse state a reconciliation cycle needs.
// Read failures invalidate the whole cycle and propagate to the caller.
type CatalogReader interface {
	// ColumnTypes returns the normalized masking type for each requested
	// column that exists. Columns absent from the warehouse are simply
	// missing from the map.
	ColumnTypes(ctx context.Context, cols []Column) (map[Column]ColumnType, error)
	// AttachedPolicies returns every masking policy attachment currently
	// recorded by the warehouse catalog.
	AttachedPolicies(ctx context.Context) ([]PolicyAttachment, error)
	// Users returns the names of all database principals.
	Users(ctx context.Context) ([]string, error)
}

// PolicyWriter materializes policy objects and applies drift corrections.
type PolicyWriter interface {
	// EnsurePolicies creates every policy the expected state can reference.
	// Idempotent; must run before Apply so corrections never reference a
	// policy that does not exist yet.
	EnsurePolicies(ctx context.Context, types map[Column]ColumnType) error
	// Apply detaches extras and mismatched actuals, then attaches missing
	// and mismatched expecteds. A failure on one correction is logged and
	// does not abort the remaining corrections.
	Apply(ctx context.Context, drift Drift) error
}
