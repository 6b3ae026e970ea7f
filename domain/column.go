package domain

import "strings"

// Column identifies a single warehouse column as (schema, table, column).
type Column struct {
	Schema string
	Table  string
	Name   string
}

// ParseColumn parses a dot-delimited "schema.table.column" identifier.
// Identifiers with any other segment count do not name a column; callers
// skip those configuration entries rather than failing the run.
func ParseColumn(id string) (Column, bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return Column{}, false
	}
	return Column{Schema: parts[0], Table: parts[1], Name: parts[2]}, true
}

// String returns the dotted identifier form.
func (c Column) String() string {
	return c.Schema + "." + c.Table + "." + c.Name
}
