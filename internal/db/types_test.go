package db

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"masksync/domain"
)

func TestNormalizeType(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		raw     string
		charLen int
		want    domain.ColumnType
	}{
		{"character varying", 0, "VARCHAR(MAX)"},
		{"character varying(256)", 0, "VARCHAR(MAX)"},
		{"varchar", 0, "VARCHAR(MAX)"},
		{"text", 0, "VARCHAR(MAX)"},
		{"char", 11, "CHAR(11)"},
		{"character", 0, "CHAR(1)"},
		{"numeric", 0, "NUMERIC"},
		{"decimal(10,2)", 0, "NUMERIC"},
		{"integer", 0, "NUMERIC"},
		{"smallint", 0, "NUMERIC"},
		{"bigint", 0, "NUMERIC"},
		{"real", 0, "NUMERIC"},
		{"double precision", 0, "NUMERIC"},
		{"date", 0, "DATE"},
		{"timestamp without time zone", 0, "TIMESTAMP"},
		{"timestamptz", 0, "TIMESTAMP"},
		{"boolean", 0, "BOOLEAN"},
		{"bool", 0, "BOOLEAN"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeType(tc.raw, tc.charLen, logger), "raw type %q", tc.raw)
	}
}

func TestNormalizeType_UnrecognizedWarnsAndDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := NormalizeType("super", 0, logger)
	assert.Equal(t, domain.ColumnType("VARCHAR(MAX)"), got)
	assert.Contains(t, buf.String(), "unrecognized column type")
}
