package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"masksync/domain"
)

// Queryer is the minimal SQL surface the adapter needs. *sql.DB satisfies
// it; the adapter owns no connection pooling, retries, or transactions.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queries reads warehouse catalog state for the reconciler. All methods are
// read-only; errors propagate because a partial read invalidates the cycle.
type Queries struct {
	db     Queryer
	logger *slog.Logger
}

// NewQueries creates the catalog reader over the given queryer.
func NewQueries(db Queryer, logger *slog.Logger) *Queries {
	return &Queries{db: db, logger: logger}
}

// ColumnTypes returns the normalized masking type for each requested column
// present in the warehouse. Requested columns missing from the catalog are
// absent from the result; the builder skips them.
func (q *Queries) ColumnTypes(ctx context.Context, cols []domain.Column) (map[domain.Column]domain.ColumnType, error) {
	result := make(map[domain.Column]domain.ColumnType, len(cols))
	if len(cols) == 0 {
		return result, nil
	}

	var (
		tuples []string
		args   []any
	)
	for i, c := range cols {
		tuples = append(tuples, fmt.Sprintf("($%d, $%d, $%d)", 3*i+1, 3*i+2, 3*i+3))
		args = append(args, strings.ToLower(c.Schema), strings.ToLower(c.Table), strings.ToLower(c.Name))
	}
	query := fmt.Sprintf(`
		SELECT table_schema, table_name, column_name, data_type, COALESCE(character_maximum_length, 0)
		FROM information_schema.columns
		WHERE (table_schema, table_name, column_name) IN (%s)`,
		strings.Join(tuples, ", "))

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch column types: %w", err)
	}
	defer rows.Close()

	observed := make(map[string]domain.ColumnType)
	for rows.Next() {
		var schema, table, name, rawType string
		var charLen int
		if err := rows.Scan(&schema, &table, &name, &rawType, &charLen); err != nil {
			return nil, fmt.Errorf("scan column type: %w", err)
		}
		key := strings.ToLower(schema + "." + table + "." + name)
		observed[key] = NormalizeType(rawType, charLen, q.logger)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch column types: %w", err)
	}

	// Key the result by the requested columns so config casing is preserved.
	for _, c := range cols {
		if typ, ok := observed[strings.ToLower(c.String())]; ok {
			result[c] = typ
		} else {
			q.logger.Warn("column not found in warehouse", "column", c.String())
		}
	}
	return result, nil
}

// AttachedPolicies returns every masking policy attachment currently
// recorded by the warehouse catalog.
func (q *Queries) AttachedPolicies(ctx context.Context) ([]domain.PolicyAttachment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT policy_name, schema_name, table_name, input_columns, grantee, priority
		FROM svv_attached_masking_policies`)
	if err != nil {
		return nil, fmt.Errorf("fetch attached policies: %w", err)
	}
	defer rows.Close()

	var attachments []domain.PolicyAttachment
	for rows.Next() {
		var policyName, schema, table, inputColumns, grantee string
		var priority int
		if err := rows.Scan(&policyName, &schema, &table, &inputColumns, &grantee, &priority); err != nil {
			return nil, fmt.Errorf("scan attached policy: %w", err)
		}
		attachments = append(attachments, domain.PolicyAttachment{
			PolicyName: policyName,
			Column:     domain.Column{Schema: schema, Table: table, Name: firstInputColumn(inputColumns)},
			Grantee:    grantee,
			Priority:   priority,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch attached policies: %w", err)
	}
	return attachments, nil
}

// Users returns the names of all database principals.
func (q *Queries) Users(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT usename FROM pg_user`)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return users, nil
}

// firstInputColumn extracts the column name from the catalog's
// input_columns value, an array literal like "{ssn}". Masking policies here
// always bind a single column.
func firstInputColumn(v string) string {
	v = strings.Trim(v, "{}")
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
