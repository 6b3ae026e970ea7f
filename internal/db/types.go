// Package db adapts the reconciler to the warehouse over an injected SQL
// queryer. It owns catalog reads, masking policy DDL, and the raw-type
// normalization both sides share.
package db

import (
	"fmt"
	"log/slog"
	"strings"

	"masksync/domain"
)

// typeVarcharMax is the maximum-length text type, also the fallback for
// unrecognized catalog types.
const typeVarcharMax = domain.ColumnType("VARCHAR(MAX)")

// NormalizeType maps a raw catalog type name (plus the observed character
// length, 0 when absent) to a type name valid in masking policy DDL.
// Catalog type strings like "character varying" are not valid policy value
// types, so every observed type funnels through this rule table.
func NormalizeType(raw string, charLen int, logger *slog.Logger) domain.ColumnType {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(t, "character varying"), strings.HasPrefix(t, "varchar"), t == "text":
		return typeVarcharMax
	case t == "character" || t == "char":
		if charLen <= 0 {
			charLen = 1
		}
		return domain.ColumnType(fmt.Sprintf("CHAR(%d)", charLen))
	case strings.HasPrefix(t, "numeric"), strings.HasPrefix(t, "decimal"),
		t == "integer", t == "smallint", t == "bigint", t == "real",
		strings.HasPrefix(t, "double"):
		return "NUMERIC"
	case t == "date":
		return "DATE"
	case strings.HasPrefix(t, "timestamp"):
		return "TIMESTAMP"
	case t == "boolean" || t == "bool":
		return "BOOLEAN"
	default:
		logger.Warn("unrecognized column type, defaulting to VARCHAR(MAX)", "type", raw)
		return typeVarcharMax
	}
}
